package currency

import (
	"testing"

	"github.com/carlmjohnson/be"
)

func TestSymbol(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected string
	}{
		{name: "euro", code: "EUR", expected: "€"},
		{name: "dollar", code: "USD", expected: "$"},
		{name: "rouble", code: "RUB", expected: "₽"},
		{name: "unknown code falls back to itself", code: "XAU", expected: "XAU"},
		{name: "empty code", code: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			be.Equal(t, tt.expected, Symbol(tt.code))
		})
	}
}

func TestCodeForSymbol(t *testing.T) {
	tests := []struct {
		name     string
		symbol   string
		expected string
		found    bool
	}{
		{name: "cyrillic rouble", symbol: "руб.", expected: "RUB", found: true},
		{name: "latin p rouble", symbol: "pуб.", expected: "RUB", found: true},
		{name: "ocr rouble", symbol: "ру6.", expected: "RUB", found: true},
		{name: "rouble sign", symbol: "₽", expected: "RUB", found: true},
		{name: "dashed euro", symbol: "--€", expected: "EUR", found: true},
		{name: "lira letters", symbol: "TL", expected: "TRY", found: true},
		{name: "yen is ambiguous", symbol: "¥", found: false},
		{name: "unknown", symbol: "@@", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := CodeForSymbol(tt.symbol)
			be.Equal(t, tt.found, ok)
			be.Equal(t, tt.expected, code)
		})
	}
}

func TestUsesCommaDecimal(t *testing.T) {
	for _, code := range []string{"TRY", "ARS", "BRL", "NOK", "EUR", "PLN", "VND", "RUB"} {
		be.True(t, UsesCommaDecimal(code))
	}
	for _, code := range []string{"USD", "GBP", "CNY", "JPY", ""} {
		be.False(t, UsesCommaDecimal(code))
	}
}

func TestSymbolTableRoundTrip(t *testing.T) {
	// Every display symbol that is not ambiguous must resolve back to its code.
	for code, symbol := range codeToSymbol {
		if symbol == "¥" {
			continue
		}
		got, ok := CodeForSymbol(symbol)
		be.True(t, ok)
		be.Equal(t, code, got)
	}
}
