// Package history turns the store's purchase history pages into categorized
// cent totals.
package history

import "strings"

// Labels are the row texts the classifier keys on. They depend on the
// language the history page was requested in.
type Labels struct {
	Purchase       string
	GiftPurchase   string
	InGamePurchase string
	Market         string
	WalletCredit   string
	Conversion     string
	Refund         string
	// TotalNoise lists words the page prints inside the total cell next to
	// the price, e.g. a funding source.
	TotalNoise []string
}

// English is the label set of pages requested with l=english.
var English = Labels{
	Purchase:       "Purchase",
	GiftPurchase:   "Gift Purchase",
	InGamePurchase: "In-Game Purchase",
	Market:         "Market Transaction",
	WalletCredit:   "Wallet Credit",
	Conversion:     "Conversion",
	Refund:         "Refund",
	TotalNoise:     []string{"Credit"},
}

// SimplifiedChinese is the label set of pages requested with l=schinese.
var SimplifiedChinese = Labels{
	Purchase:       "购买",
	GiftPurchase:   "礼物购买",
	InGamePurchase: "游戏内购买",
	Market:         "市场交易",
	WalletCredit:   "钱包资金",
	Conversion:     "转换",
	Refund:         "退款",
	TotalNoise:     []string{"资金"},
}

// LabelsFor returns the label set for a store language name such as
// "english" or "schinese". Unknown languages get English.
func LabelsFor(language string) Labels {
	switch strings.ToLower(language) {
	case "schinese", "zh", "zh-cn", "zh-hans":
		return SimplifiedChinese
	default:
		return English
	}
}

// ignored reports whether a row type carries no monetary fact of its own:
// empty types, currency conversions and refund notices.
func (l Labels) ignored(kind string) bool {
	return kind == "" ||
		strings.HasPrefix(kind, l.Conversion) ||
		strings.HasPrefix(kind, l.Refund)
}

// cleanTotal strips the noise words from a total cell.
func (l Labels) cleanTotal(s string) string {
	for _, noise := range l.TotalNoise {
		s = strings.ReplaceAll(s, noise, "")
	}
	return normalize(s)
}

// normalize trims surrounding whitespace and drops tabs, which the page
// uses for indentation inside cells.
func normalize(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "\t", "")
}
