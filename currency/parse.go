package currency

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/width"
)

// Resolution records which step of the resolver picked the currency.
type Resolution int

const (
	// ResolvedSymbol means one of the symbol slots matched the symbol table.
	ResolvedSymbol Resolution = iota
	// ResolvedDollar means a slot contained a bare "$" and USD was assumed.
	ResolvedDollar
	// ResolvedYen means a slot contained "¥" and the home currency was assumed.
	ResolvedYen
	// Unresolved means nothing matched and the home currency was used.
	Unresolved
)

func (r Resolution) String() string {
	switch r {
	case ResolvedSymbol:
		return "symbol"
	case ResolvedDollar:
		return "dollar"
	case ResolvedYen:
		return "yen"
	case Unresolved:
		return "unresolved"
	}

	return "unknown"
}

// Warning is a set of non-fatal problems found while parsing one amount.
type Warning uint8

const (
	// WarnUnknownSymbol is set when the home currency was used as a guess.
	WarnUnknownSymbol Warning = 1 << iota
	// WarnBadAmount is set when no number could be read, or it does not fit
	// in cents; the amount is zero.
	WarnBadAmount
	// WarnMissingRate is set when the rate table has no usable rate for the
	// currency; the amount is left unconverted.
	WarnMissingRate
)

// Has reports whether all bits of w2 are set in w.
func (w Warning) Has(w2 Warning) bool {
	return w&w2 == w2
}

func (w Warning) String() string {
	var parts []string
	if w.Has(WarnUnknownSymbol) {
		parts = append(parts, "currency symbol undetermined")
	}
	if w.Has(WarnBadAmount) {
		parts = append(parts, "price parse failed")
	}
	if w.Has(WarnMissingRate) {
		parts = append(parts, "missing exchange rate")
	}
	return strings.Join(parts, ", ")
}

// RateSource supplies the exchange rate of a currency relative to the home
// currency, expressed as foreign units per one home unit.
type RateSource interface {
	Rate(code string) (decimal.Decimal, bool)
}

// Parsed is a price converted to the home currency.
type Parsed struct {
	// Cents is the signed amount in home-currency minor units.
	Cents int64
	// Currency is the currency the text was written in.
	Currency   string
	Resolution Resolution
	Warnings   Warning
}

var (
	// Symbol slots take any run without digits or separators, plus the
	// table spellings that contain a dot or a digit.
	moneyPattern = regexp.MustCompile(`^([-+])?(S/\.\s*|[^\d,.]*)([\d,.]+)\s*([pр]уб\.|ру6\.|S/\.|[^\d,.]*)$`)
	hundred      = decimal.NewFromInt(100)
)

// Parse reads a price such as "-1,234.56 €" or "$12.34", resolves its
// currency and converts it to home-currency cents using rates.
//
// Conversion divides by the rate of the written currency and truncates
// toward zero once, after scaling to cents. Problems never produce an
// error: they are reported in Warnings and the amount degrades to zero
// (unreadable number) or stays unconverted (missing rate).
func Parse(text, home string, rates RateSource) Parsed {
	text = strings.TrimSpace(width.Narrow.String(text))

	m := moneyPattern.FindStringSubmatch(text)
	if m == nil {
		return Parsed{Currency: home, Resolution: Unresolved, Warnings: WarnBadAmount}
	}

	negative := m[1] == "-"
	symbolA := strings.TrimSpace(m[2])
	digits := m[3]
	symbolB := strings.TrimSpace(m[4])

	code, res := Resolve(symbolA, symbolB, home)
	p := Parsed{Currency: code, Resolution: res}
	if res == Unresolved {
		p.Warnings |= WarnUnknownSymbol
	}

	amount, ok := parseNumber(digits, UsesCommaDecimal(code))
	if !ok {
		p.Warnings |= WarnBadAmount
		return p
	}

	if negative {
		amount = amount.Neg()
	}

	if rate, found := lookupRate(rates, code); found {
		amount = amount.Div(rate)
	} else {
		p.Warnings |= WarnMissingRate
	}

	cents := amount.Mul(hundred).Truncate(0)
	if !cents.BigInt().IsInt64() {
		p.Warnings |= WarnBadAmount
		return p
	}

	p.Cents = cents.IntPart()
	return p
}

func lookupRate(rates RateSource, code string) (decimal.Decimal, bool) {
	if rates == nil {
		return decimal.Decimal{}, false
	}
	rate, ok := rates.Rate(code)
	if !ok || !rate.IsPositive() {
		return decimal.Decimal{}, false
	}
	return rate, true
}

// Resolve picks the currency for the symbols printed before and after a
// price. An exact symbol match wins, and the trailing symbol is preferred
// when both slots match. Otherwise a "$" means USD, a "¥" means the home
// currency, and anything else falls back to home as Unresolved.
func Resolve(symbolA, symbolB, home string) (string, Resolution) {
	if symbolB != "" {
		if code, ok := CodeForSymbol(symbolB); ok {
			return code, ResolvedSymbol
		}
	}
	if symbolA != "" {
		if code, ok := CodeForSymbol(symbolA); ok {
			return code, ResolvedSymbol
		}
	}

	switch {
	case strings.Contains(symbolA, "$") || strings.Contains(symbolB, "$"):
		return "USD", ResolvedDollar
	case strings.Contains(symbolA, "¥") || strings.Contains(symbolB, "¥"):
		return home, ResolvedYen
	}

	return home, Unresolved
}

// parseNumber reads digits with "." as decimal and "," as thousands
// separator. When the text uses "," as decimal separator the two roles are
// swapped first, through a placeholder so neither character is rewritten
// twice. If both separators appear, the last one is the decimal separator;
// otherwise the currency's convention decides.
func parseNumber(s string, commaDecimal bool) (decimal.Decimal, bool) {
	lastComma, lastDot := strings.LastIndex(s, ","), strings.LastIndex(s, ".")
	if lastComma >= 0 && lastDot >= 0 {
		commaDecimal = lastComma > lastDot
	}

	if commaDecimal {
		s = strings.ReplaceAll(s, ".", ";")
		s = strings.ReplaceAll(s, ",", ".")
		s = strings.ReplaceAll(s, ";", ",")
	}

	intPart, fracPart, hasDot := strings.Cut(s, ".")
	if strings.Contains(fracPart, ".") || strings.Contains(fracPart, ",") {
		return decimal.Decimal{}, false
	}

	intPart = strings.ReplaceAll(intPart, ",", "")
	if intPart == "" && fracPart == "" {
		return decimal.Decimal{}, false
	}
	if intPart == "" {
		intPart = "0"
	}

	num := intPart
	if hasDot && fracPart != "" {
		num += "." + fracPart
	}

	d, err := decimal.NewFromString(num)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}
