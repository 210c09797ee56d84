// Package currency resolves the currency of free-text store prices and
// converts them into exact cent amounts in the account's home currency.
package currency

// codeToSymbol maps ISO codes to the symbol used when rendering amounts.
var codeToSymbol = map[string]string{
	"AED": "AED",
	"ARS": "ARS$",
	"AUD": "A$",
	"BRL": "R$",
	"CAD": "CDN$",
	"CHF": "CHF",
	"CLP": "CLP$",
	"CNY": "¥",
	"COP": "COL$",
	"CRC": "₡",
	"EUR": "€",
	"GBP": "£",
	"HKD": "HK$",
	"IDR": "Rp",
	"ILS": "₪",
	"INR": "₹",
	"JPY": "¥",
	"KRW": "₩",
	"KWD": "KD",
	"KZT": "₸",
	"MXN": "Mex$",
	"MYR": "RM",
	"NOK": "kr",
	"NZD": "NZ$",
	"PEN": "S/.",
	"PHP": "₱",
	"PLN": "zł",
	"QAR": "QR",
	"RUB": "₽",
	"SAR": "SR",
	"SGD": "S$",
	"THB": "฿",
	"TRY": "₺",
	"TWD": "NT$",
	"UAH": "₴",
	"USD": "$",
	"UYU": "$U",
	"VND": "₫",
	"ZAR": "R",
}

// symbolToCode maps the symbols the store prints next to prices back to
// ISO codes. Several spellings can map to the same code: the store renders
// roubles with a latin "p", and some pages carry OCR-style variants.
//
// A bare "¥" is ambiguous between CNY and JPY and is absent;
// the resolver falls back to the home currency for it.
var symbolToCode = map[string]string{
	"AED":  "AED",
	"ARS$": "ARS",
	"A$":   "AUD",
	"R$":   "BRL",
	"CDN$": "CAD",
	"CHF":  "CHF",
	"CLP$": "CLP",
	"COL$": "COP",
	"₡":    "CRC",
	"--€":  "EUR",
	"€":    "EUR",
	"£":    "GBP",
	"HK$":  "HKD",
	"Rp":   "IDR",
	"₪":    "ILS",
	"₹":    "INR",
	"₩":    "KRW",
	"KD":   "KWD",
	"₸":    "KZT",
	"Mex$": "MXN",
	"RM":   "MYR",
	"kr":   "NOK",
	"NZ$":  "NZD",
	"S/.":  "PEN",
	"₱":    "PHP",
	"zł":   "PLN",
	"QR":   "QAR",
	"руб.": "RUB",
	"pуб.": "RUB",
	"ру6.": "RUB",
	"₽":    "RUB",
	"SR":   "SAR",
	"S$":   "SGD",
	"฿":    "THB",
	"TL":   "TRY",
	"₺":    "TRY",
	"NT$":  "TWD",
	"₴":    "UAH",
	"$":    "USD",
	"$U":   "UYU",
	"₫":    "VND",
	"R":    "ZAR",
}

// commaDecimal holds the currencies the store prints with "," as the
// decimal separator and "." as the thousands separator.
var commaDecimal = map[string]struct{}{
	"TRY": {},
	"ARS": {},
	"BRL": {},
	"NOK": {},
	"EUR": {},
	"PLN": {},
	"VND": {},
	"RUB": {},
}

// Symbol returns the display symbol for code, or code itself when the
// currency is unknown.
func Symbol(code string) string {
	if s, ok := codeToSymbol[code]; ok {
		return s
	}
	return code
}

// CodeForSymbol looks up the ISO code for an exact symbol spelling.
func CodeForSymbol(symbol string) (string, bool) {
	code, ok := symbolToCode[symbol]
	return code, ok
}

// UsesCommaDecimal reports whether prices in code use "," as decimal separator.
func UsesCommaDecimal(code string) bool {
	_, ok := commaDecimal[code]
	return ok
}
