package history

import "strings"

// Bucket names one accumulator of an Aggregate.
type Bucket int

const (
	// None marks a row that contributes nothing.
	None Bucket = iota
	StorePurchase
	StorePurchaseWallet
	GiftPurchase
	GiftPurchaseWallet
	InGamePurchase
	MarketPurchase
	MarketSelling
	WalletTopUp
	RefundPurchase
	RefundPurchaseWallet
	Other
)

// Buckets lists every bucket of an Aggregate in report order.
func Buckets() []Bucket {
	return []Bucket{
		StorePurchase, StorePurchaseWallet, GiftPurchase, GiftPurchaseWallet, InGamePurchase,
		MarketPurchase, MarketSelling, WalletTopUp, RefundPurchase, RefundPurchaseWallet, Other,
	}
}

func (b Bucket) String() string {
	switch b {
	case None:
		return "none"
	case StorePurchase:
		return "store purchase"
	case StorePurchaseWallet:
		return "store purchase wallet"
	case GiftPurchase:
		return "gift purchase"
	case GiftPurchaseWallet:
		return "gift purchase wallet"
	case InGamePurchase:
		return "in-game purchase"
	case MarketPurchase:
		return "market purchase"
	case MarketSelling:
		return "market selling"
	case WalletTopUp:
		return "wallet top-up"
	case RefundPurchase:
		return "refund"
	case RefundPurchaseWallet:
		return "refund wallet"
	case Other:
		return "other"
	}

	return "unknown"
}

// Contribution is what one row adds to an Aggregate: a main amount and an
// optional wallet-funded portion tracked in a second bucket.
type Contribution struct {
	Bucket       Bucket
	Amount       int64
	WalletBucket Bucket
	WalletAmount int64
}

// Skipped reports whether the row contributes nothing.
func (c Contribution) Skipped() bool {
	return c.Bucket == None
}

// Classify assigns one row to its bucket. total and walletChange are the
// row's parsed cell amounts in home-currency cents.
//
// Currency conversion and refund notice rows are skipped, as are rows
// whose credited amount is zero. In-game purchases are credited with the
// absolute wallet change because their total cell carries no price.
func Classify(labels Labels, row Row, total, walletChange int64) Contribution {
	kind := row.Type
	if labels.ignored(kind) {
		return Contribution{}
	}

	walletAbs := abs(walletChange)

	var c Contribution
	switch {
	case strings.HasPrefix(kind, labels.Purchase):
		switch {
		case strings.Contains(row.Item, labels.WalletCredit):
			c = Contribution{Bucket: WalletTopUp, Amount: total}
		case row.Refunded:
			c = withWallet(RefundPurchase, total, RefundPurchaseWallet, walletAbs)
		default:
			c = withWallet(StorePurchase, total, StorePurchaseWallet, walletAbs)
		}

	case strings.HasPrefix(kind, labels.GiftPurchase):
		if row.Refunded {
			c = withWallet(RefundPurchase, total, RefundPurchaseWallet, walletAbs)
		} else {
			c = withWallet(GiftPurchase, total, GiftPurchaseWallet, walletAbs)
		}

	case strings.HasPrefix(kind, labels.InGamePurchase):
		if row.Refunded {
			c = withWallet(RefundPurchase, total, RefundPurchaseWallet, walletAbs)
		} else {
			c = Contribution{Bucket: InGamePurchase, Amount: walletAbs}
		}

	case strings.Contains(kind, labels.Market):
		switch {
		case row.Refunded:
			c = Contribution{Bucket: RefundPurchase, Amount: total}
		case walletChange >= 0:
			c = Contribution{Bucket: MarketSelling, Amount: total}
		default:
			c = Contribution{Bucket: MarketPurchase, Amount: total}
		}

	default:
		if row.Refunded {
			c = Contribution{Bucket: RefundPurchase, Amount: -total}
		} else {
			c = Contribution{Bucket: Other, Amount: total}
		}
	}

	if c.Amount == 0 {
		return Contribution{}
	}

	return c
}

func withWallet(bucket Bucket, amount int64, walletBucket Bucket, walletAmount int64) Contribution {
	return Contribution{
		Bucket:       bucket,
		Amount:       amount,
		WalletBucket: walletBucket,
		WalletAmount: walletAmount,
	}
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
