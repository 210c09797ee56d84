package history

import (
	"github.com/charmbracelet/log"

	"github.com/rshep3087/steamspend/currency"
)

// Aggregate holds the per-category totals of a history, in home-currency
// cents. The zero value is an empty history.
type Aggregate struct {
	StorePurchase        int64 `json:"store_purchase"`
	StorePurchaseWallet  int64 `json:"store_purchase_wallet"`
	GiftPurchase         int64 `json:"gift_purchase"`
	GiftPurchaseWallet   int64 `json:"gift_purchase_wallet"`
	InGamePurchase       int64 `json:"in_game_purchase"`
	MarketPurchase       int64 `json:"market_purchase"`
	MarketSelling        int64 `json:"market_selling"`
	WalletTopUp          int64 `json:"wallet_top_up"`
	RefundPurchase       int64 `json:"refund_purchase"`
	RefundPurchaseWallet int64 `json:"refund_purchase_wallet"`
	Other                int64 `json:"other"`
}

// Merge returns the pointwise sum of a and b.
func (a Aggregate) Merge(b Aggregate) Aggregate {
	return Aggregate{
		StorePurchase:        a.StorePurchase + b.StorePurchase,
		StorePurchaseWallet:  a.StorePurchaseWallet + b.StorePurchaseWallet,
		GiftPurchase:         a.GiftPurchase + b.GiftPurchase,
		GiftPurchaseWallet:   a.GiftPurchaseWallet + b.GiftPurchaseWallet,
		InGamePurchase:       a.InGamePurchase + b.InGamePurchase,
		MarketPurchase:       a.MarketPurchase + b.MarketPurchase,
		MarketSelling:        a.MarketSelling + b.MarketSelling,
		WalletTopUp:          a.WalletTopUp + b.WalletTopUp,
		RefundPurchase:       a.RefundPurchase + b.RefundPurchase,
		RefundPurchaseWallet: a.RefundPurchaseWallet + b.RefundPurchaseWallet,
		Other:                a.Other + b.Other,
	}
}

// Add credits a classified row.
func (a *Aggregate) Add(c Contribution) {
	if p := a.bucket(c.Bucket); p != nil {
		*p += c.Amount
	}
	if p := a.bucket(c.WalletBucket); p != nil {
		*p += c.WalletAmount
	}
}

// Get returns the total of one bucket.
func (a Aggregate) Get(b Bucket) int64 {
	if p := a.bucket(b); p != nil {
		return *p
	}
	return 0
}

func (a *Aggregate) bucket(b Bucket) *int64 {
	switch b {
	case StorePurchase:
		return &a.StorePurchase
	case StorePurchaseWallet:
		return &a.StorePurchaseWallet
	case GiftPurchase:
		return &a.GiftPurchase
	case GiftPurchaseWallet:
		return &a.GiftPurchaseWallet
	case InGamePurchase:
		return &a.InGamePurchase
	case MarketPurchase:
		return &a.MarketPurchase
	case MarketSelling:
		return &a.MarketSelling
	case WalletTopUp:
		return &a.WalletTopUp
	case RefundPurchase:
		return &a.RefundPurchase
	case RefundPurchaseWallet:
		return &a.RefundPurchaseWallet
	case Other:
		return &a.Other
	}
	return nil
}

// Aggregator parses and classifies rows for one account.
type Aggregator struct {
	home   string
	rates  currency.RateSource
	labels Labels
	logger *log.Logger

	warnings int
}

// NewAggregator returns an Aggregator converting into home with rates.
// A nil logger uses the default logger.
func NewAggregator(home string, rates currency.RateSource, labels Labels, logger *log.Logger) *Aggregator {
	if logger == nil {
		logger = log.Default()
	}
	return &Aggregator{home: home, rates: rates, labels: labels, logger: logger}
}

// Aggregate totals rows. Every row is processed: a row whose amounts cannot
// be read contributes zero and is logged.
func (g *Aggregator) Aggregate(rows []Row) Aggregate {
	var agg Aggregate
	for _, row := range rows {
		agg.Add(g.classify(row))
	}
	return agg
}

// Warnings returns how many cell amounts produced a parse warning so far.
func (g *Aggregator) Warnings() int {
	return g.warnings
}

func (g *Aggregator) classify(row Row) Contribution {
	if g.labels.ignored(row.Type) {
		return Contribution{}
	}

	total := g.parse(row, "total", g.labels.cleanTotal(row.Total))

	var walletChange int64
	if row.WalletChange != "" {
		walletChange = g.parse(row, "wallet change", row.WalletChange)
	}

	c := Classify(g.labels, row, total, walletChange)
	if !c.Skipped() {
		g.logger.Debug("classified row", "type", row.Type, "bucket", c.Bucket, "amount", c.Amount)
	}
	return c
}

func (g *Aggregator) parse(row Row, cell, text string) int64 {
	p := currency.Parse(text, g.home, g.rates)
	if p.Warnings != 0 {
		g.warnings++
		g.logger.Warn("amount parsed with warnings",
			"cell", cell,
			"text", text,
			"type", row.Type,
			"currency", p.Currency,
			"warning", p.Warnings,
		)
	}
	return p.Cents
}
