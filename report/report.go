// Package report turns a history Aggregate into the derived totals and the
// grouped purchase report shown to the user.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/shopspring/decimal"

	"github.com/rshep3087/steamspend/currency"
	"github.com/rshep3087/steamspend/history"
	"github.com/rshep3087/steamspend/rates"
)

// DefaultGiftMultiplier scales total spend into the upper gift credit
// estimate. It is a heuristic, not a measured ratio.
const DefaultGiftMultiplier = 1.8

// DefaultName is shown in the about group when Options.Name is empty.
const DefaultName = "steamspend"

var hundred = decimal.NewFromInt(100)

// Options controls how an Aggregate is summarized and rendered.
type Options struct {
	// Currency is the home currency code of the aggregate.
	Currency string
	// Symbol overrides the display symbol derived from Currency.
	Symbol string
	// GiftMultiplier replaces DefaultGiftMultiplier when non-zero.
	GiftMultiplier decimal.Decimal
	// Name is the program name printed in the about group.
	Name string
}

func (o Options) symbol() string {
	if o.Symbol != "" {
		return o.Symbol
	}
	return currency.Symbol(o.Currency)
}

func (o Options) multiplier() decimal.Decimal {
	if o.GiftMultiplier.IsZero() {
		return decimal.NewFromFloat(DefaultGiftMultiplier)
	}
	return o.GiftMultiplier
}

func (o Options) name() string {
	if o.Name == "" {
		return DefaultName
	}
	return o.Name
}

// Summary holds the values derived from an Aggregate, in major units of the
// home currency.
type Summary struct {
	Currency           string          `json:"currency"`
	Symbol             string          `json:"symbol"`
	TotalSpend         decimal.Decimal `json:"total_spend"`
	TotalExternalSpend decimal.Decimal `json:"total_external_spend"`
	GiftedSpend        decimal.Decimal `json:"gifted_spend"`
	WalletTopUp        decimal.Decimal `json:"wallet_top_up"`
	GiftCreditMin      decimal.Decimal `json:"gift_credit_min"`
	GiftCreditMax      decimal.Decimal `json:"gift_credit_max"`
	ExternalCreditMin  decimal.Decimal `json:"external_credit_min"`
	ExternalCreditMax  decimal.Decimal `json:"external_credit_max"`
}

// Summarize computes the derived totals of agg.
//
// Total spend counts store and in-game purchases. External spend is what
// store and gift purchases cost beyond the wallet-funded portion. The credit
// estimates subtract gifted spend from the spend, scaled by the gift
// multiplier for the upper bound.
func Summarize(agg history.Aggregate, opts Options) Summary {
	totalSpend := decimal.NewFromInt(agg.StorePurchase + agg.InGamePurchase)
	external := decimal.NewFromInt(
		(agg.StorePurchase - agg.StorePurchaseWallet) + (agg.GiftPurchase - agg.GiftPurchaseWallet),
	)
	gifted := decimal.NewFromInt(agg.GiftPurchase)
	m := opts.multiplier()

	return Summary{
		Currency:           opts.Currency,
		Symbol:             opts.symbol(),
		TotalSpend:         totalSpend.Div(hundred),
		TotalExternalSpend: external.Div(hundred),
		GiftedSpend:        gifted.Div(hundred),
		WalletTopUp:        major(agg.WalletTopUp),
		GiftCreditMin:      totalSpend.Sub(gifted).Div(hundred),
		GiftCreditMax:      totalSpend.Mul(m).Sub(gifted).Div(hundred),
		ExternalCreditMin:  external.Sub(gifted).Div(hundred),
		ExternalCreditMax:  external.Mul(m).Sub(gifted).Div(hundred),
	}
}

// Line is one labelled amount of the report. Nested lines break down the
// amount of the line before them.
type Line struct {
	Label  string
	Amount decimal.Decimal
	Nested bool
}

// Group is a titled block of lines.
type Group struct {
	Title string
	Lines []Line
}

// Groups lays out agg as the report's amount groups: by type, other, status
// and gift credit.
func Groups(agg history.Aggregate, opts Options) []Group {
	s := Summarize(agg, opts)

	return []Group{
		{
			Title: "By type",
			Lines: []Line{
				{Label: "Store purchase", Amount: major(agg.StorePurchase)},
				{Label: "External", Amount: major(agg.StorePurchase - agg.StorePurchaseWallet), Nested: true},
				{Label: "Wallet", Amount: major(agg.StorePurchaseWallet), Nested: true},
				{Label: "Gift purchase", Amount: major(agg.GiftPurchase)},
				{Label: "External", Amount: major(agg.GiftPurchase - agg.GiftPurchaseWallet), Nested: true},
				{Label: "Wallet", Amount: major(agg.GiftPurchaseWallet), Nested: true},
				{Label: "In-game purchase", Amount: major(agg.InGamePurchase)},
				{Label: "Market purchase", Amount: major(agg.MarketPurchase)},
				{Label: "Market selling", Amount: major(agg.MarketSelling)},
			},
		},
		{
			Title: "Other",
			Lines: []Line{
				{Label: "Wallet top-up", Amount: major(agg.WalletTopUp)},
				{Label: "Other", Amount: major(agg.Other)},
				{Label: "Refunded", Amount: major(agg.RefundPurchase)},
				{Label: "External", Amount: major(agg.RefundPurchase - agg.RefundPurchaseWallet), Nested: true},
				{Label: "Wallet", Amount: major(agg.RefundPurchaseWallet), Nested: true},
			},
		},
		{
			Title: "Status",
			Lines: []Line{
				{Label: "Total spend", Amount: s.TotalSpend},
				{Label: "Total external spend", Amount: s.TotalExternalSpend},
				{Label: "Total gifted", Amount: s.GiftedSpend},
			},
		},
		{
			Title: "Gift credit",
			Lines: []Line{
				{Label: "Minimum", Amount: s.GiftCreditMin},
				{Label: "Maximum", Amount: s.GiftCreditMax},
				{Label: "External minimum", Amount: s.ExternalCreditMin},
				{Label: "External maximum", Amount: s.ExternalCreditMax},
			},
		},
	}
}

// About describes the rate table a report was converted with. A nil table
// yields the program name only.
func About(table *rates.Table, opts Options) []string {
	lines := []string{"Generated by: " + opts.name()}
	if table == nil {
		return lines
	}

	return append(lines,
		"Rate base: "+table.Base,
		"Rates updated: "+table.UpdatedAt.UTC().Format(time.DateTime)+" UTC",
		"Rate source: "+rates.Source,
	)
}

// Amount renders a major-unit amount with two decimals and the display
// symbol appended.
func Amount(v decimal.Decimal, symbol string) string {
	return v.StringFixed(2) + symbol
}

// Format renders the full text report for one account.
func Format(agg history.Aggregate, table *rates.Table, opts Options) string {
	symbol := opts.symbol()

	var b strings.Builder
	b.WriteString("Purchase history summary\n")
	for _, g := range Groups(agg, opts) {
		fmt.Fprintf(&b, "%s:\n", g.Title)
		for _, l := range g.Lines {
			indent := "  "
			if l.Nested {
				indent = "    "
			}
			fmt.Fprintf(&b, "%s%s: %s\n", indent, l.Label, Amount(l.Amount, symbol))
		}
	}

	b.WriteString("About:\n")
	for _, line := range About(table, opts) {
		fmt.Fprintf(&b, "  %s\n", line)
	}

	return b.String()
}

// TreeStyles styles the parts of a report tree.
type TreeStyles struct {
	Root       lipgloss.Style
	Group      lipgloss.Style
	Line       lipgloss.Style
	Nested     lipgloss.Style
	Enumerator lipgloss.Style
}

// PlainTreeStyles renders a tree without colors or emphasis.
func PlainTreeStyles() TreeStyles {
	plain := lipgloss.NewStyle()
	return TreeStyles{Root: plain, Group: plain, Line: plain, Nested: plain, Enumerator: plain}
}

// Tree renders the report groups as a tree rooted at title.
func Tree(title string, agg history.Aggregate, table *rates.Table, opts Options, styles TreeStyles) *tree.Tree {
	symbol := opts.symbol()
	root := tree.Root(title).RootStyle(styles.Root).EnumeratorStyle(styles.Enumerator)

	for _, g := range Groups(agg, opts) {
		branch := tree.Root(styles.Group.Render(g.Title)).EnumeratorStyle(styles.Enumerator)

		var parent *tree.Tree
		for _, l := range g.Lines {
			text := fmt.Sprintf("%s: %s", l.Label, Amount(l.Amount, symbol))
			if l.Nested && parent != nil {
				parent.Child(styles.Nested.Render(text))
				continue
			}
			parent = tree.Root(styles.Line.Render(text)).EnumeratorStyle(styles.Enumerator)
			branch.Child(parent)
		}

		root.Child(branch)
	}

	about := tree.Root(styles.Group.Render("About")).EnumeratorStyle(styles.Enumerator)
	for _, line := range About(table, opts) {
		about.Child(styles.Nested.Render(line))
	}
	root.Child(about)

	return root
}

func major(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Div(hundred)
}
