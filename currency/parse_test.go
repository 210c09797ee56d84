package currency

import (
	"testing"

	"github.com/carlmjohnson/be"
	"github.com/shopspring/decimal"
)

type rateMap map[string]string

func (r rateMap) Rate(code string) (decimal.Decimal, bool) {
	s, ok := r[code]
	if !ok {
		return decimal.Decimal{}, false
	}
	return decimal.RequireFromString(s), true
}

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		home       string
		rates      rateMap
		cents      int64
		currency   string
		resolution Resolution
		warnings   Warning
	}{
		{
			name:       "euro with comma decimal",
			text:       "-1,234.56 €",
			home:       "EUR",
			rates:      rateMap{"EUR": "1"},
			cents:      -123456,
			currency:   "EUR",
			resolution: ResolvedSymbol,
		},
		{
			name:       "euro in store notation",
			text:       "1.234,56€",
			home:       "EUR",
			rates:      rateMap{"EUR": "1"},
			cents:      123456,
			currency:   "EUR",
			resolution: ResolvedSymbol,
		},
		{
			name:       "dashed euro cents",
			text:       "5,--€",
			home:       "EUR",
			rates:      rateMap{"EUR": "1"},
			cents:      500,
			currency:   "EUR",
			resolution: ResolvedSymbol,
		},
		{
			name:       "dollar into yen home",
			text:       "$12.34",
			home:       "JPY",
			rates:      rateMap{"USD": "1", "JPY": "150"},
			cents:      1234,
			currency:   "USD",
			resolution: ResolvedSymbol,
		},
		{
			name:       "dollar converted by rate",
			text:       "$3.00",
			home:       "CNY",
			rates:      rateMap{"CNY": "1", "USD": "0.14"},
			cents:      2142,
			currency:   "USD",
			resolution: ResolvedSymbol,
		},
		{
			name:       "unknown dollar prefix falls back to USD",
			text:       "US$ 7.50",
			home:       "CNY",
			rates:      rateMap{"CNY": "1", "USD": "0.5"},
			cents:      1500,
			currency:   "USD",
			resolution: ResolvedDollar,
		},
		{
			name:       "yen resolves to home",
			text:       "¥ 98.00",
			home:       "CNY",
			rates:      rateMap{"CNY": "1"},
			cents:      9800,
			currency:   "CNY",
			resolution: ResolvedYen,
		},
		{
			name:       "full width yen folds to yen",
			text:       "￥1,200",
			home:       "JPY",
			rates:      rateMap{"JPY": "1"},
			cents:      120000,
			currency:   "JPY",
			resolution: ResolvedYen,
		},
		{
			name:       "trailing symbol wins over leading",
			text:       "R$ 10,00 €",
			home:       "EUR",
			rates:      rateMap{"EUR": "1", "BRL": "5"},
			cents:      1000,
			currency:   "EUR",
			resolution: ResolvedSymbol,
		},
		{
			name:       "latin p rouble",
			text:       "150,50 pуб.",
			home:       "RUB",
			rates:      rateMap{"RUB": "1"},
			cents:      15050,
			currency:   "RUB",
			resolution: ResolvedSymbol,
		},
		{
			name:       "no symbol uses home with warning",
			text:       "-5.00",
			home:       "USD",
			rates:      rateMap{"USD": "1"},
			cents:      -500,
			currency:   "USD",
			resolution: Unresolved,
			warnings:   WarnUnknownSymbol,
		},
		{
			name:       "explicit plus sign",
			text:       "+£2.50",
			home:       "GBP",
			rates:      rateMap{"GBP": "1"},
			cents:      250,
			currency:   "GBP",
			resolution: ResolvedSymbol,
		},
		{
			name:       "missing rate keeps raw amount",
			text:       "₩ 1,500",
			home:       "USD",
			rates:      rateMap{"USD": "1"},
			cents:      150000,
			currency:   "KRW",
			resolution: ResolvedSymbol,
			warnings:   WarnMissingRate,
		},
		{
			name:       "zero rate counts as missing",
			text:       "₩ 10",
			home:       "USD",
			rates:      rateMap{"USD": "1", "KRW": "0"},
			cents:      1000,
			currency:   "KRW",
			resolution: ResolvedSymbol,
			warnings:   WarnMissingRate,
		},
		{
			name:       "truncates toward zero",
			text:       "-$1.00",
			home:       "EUR",
			rates:      rateMap{"EUR": "1", "USD": "3"},
			cents:      -33,
			currency:   "USD",
			resolution: ResolvedSymbol,
		},
		{
			name:       "rouble abbreviation",
			text:       "150,50 руб.",
			home:       "RUB",
			rates:      rateMap{"RUB": "1"},
			cents:      15050,
			currency:   "RUB",
			resolution: ResolvedSymbol,
		},
		{
			name:       "rouble abbreviation with latin p",
			text:       "150,50 pуб.",
			home:       "RUB",
			rates:      rateMap{"RUB": "1"},
			cents:      15050,
			currency:   "RUB",
			resolution: ResolvedSymbol,
		},
		{
			name:       "rouble abbreviation with digit six",
			text:       "150,50 ру6.",
			home:       "USD",
			rates:      rateMap{"USD": "1", "RUB": "50"},
			cents:      301,
			currency:   "RUB",
			resolution: ResolvedSymbol,
		},
		{
			name:       "leading dotted symbol",
			text:       "S/. 10.00",
			home:       "PEN",
			rates:      rateMap{"PEN": "1"},
			cents:      1000,
			currency:   "PEN",
			resolution: ResolvedSymbol,
		},
		{
			name:       "trailing dotted symbol",
			text:       "10.00 S/.",
			home:       "PEN",
			rates:      rateMap{"PEN": "1"},
			cents:      1000,
			currency:   "PEN",
			resolution: ResolvedSymbol,
		},
		{
			name:       "too large for cents",
			text:       "$99999999999999999999.00",
			home:       "USD",
			rates:      rateMap{"USD": "1"},
			cents:      0,
			currency:   "USD",
			resolution: ResolvedSymbol,
			warnings:   WarnBadAmount,
		},
		{
			name:       "not a price",
			text:       "N/A",
			home:       "USD",
			rates:      rateMap{"USD": "1"},
			cents:      0,
			currency:   "USD",
			resolution: Unresolved,
			warnings:   WarnBadAmount,
		},
		{
			name:       "two decimal points",
			text:       "$1.2.3",
			home:       "USD",
			rates:      rateMap{"USD": "1"},
			cents:      0,
			currency:   "USD",
			resolution: ResolvedSymbol,
			warnings:   WarnBadAmount,
		},
		{
			name:       "separators only",
			text:       "$.,",
			home:       "USD",
			rates:      rateMap{"USD": "1"},
			cents:      0,
			currency:   "USD",
			resolution: ResolvedSymbol,
			warnings:   WarnBadAmount,
		},
		{
			name:       "empty text",
			text:       "",
			home:       "USD",
			rates:      rateMap{"USD": "1"},
			cents:      0,
			currency:   "USD",
			resolution: Unresolved,
			warnings:   WarnBadAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.text, tt.home, tt.rates)
			be.Equal(t, tt.cents, got.Cents)
			be.Equal(t, tt.currency, got.Currency)
			be.Equal(t, tt.resolution, got.Resolution)
			be.Equal(t, tt.warnings, got.Warnings)
		})
	}
}

func TestParseNilRates(t *testing.T) {
	got := Parse("$1.00", "USD", nil)
	be.Equal(t, int64(100), got.Cents)
	be.True(t, got.Warnings.Has(WarnMissingRate))
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		symbolA    string
		symbolB    string
		expected   string
		resolution Resolution
	}{
		{name: "leading only", symbolA: "£", expected: "GBP", resolution: ResolvedSymbol},
		{name: "trailing only", symbolB: "zł", expected: "PLN", resolution: ResolvedSymbol},
		{name: "both match, trailing wins", symbolA: "$", symbolB: "€", expected: "EUR", resolution: ResolvedSymbol},
		{name: "dollar fallback", symbolA: "AU $", expected: "USD", resolution: ResolvedDollar},
		{name: "yen fallback", symbolB: "JP ¥", expected: "JPY", resolution: ResolvedYen},
		{name: "nothing", symbolA: "??", expected: "JPY", resolution: Unresolved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, res := Resolve(tt.symbolA, tt.symbolB, "JPY")
			be.Equal(t, tt.expected, code)
			be.Equal(t, tt.resolution, res)
		})
	}
}

func TestWarningString(t *testing.T) {
	be.Equal(t, "", Warning(0).String())
	be.Equal(t, "price parse failed", WarnBadAmount.String())
	be.Equal(t, "currency symbol undetermined, missing exchange rate", (WarnUnknownSymbol | WarnMissingRate).String())
}
