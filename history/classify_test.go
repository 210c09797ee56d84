package history

import (
	"testing"

	"github.com/carlmjohnson/be"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name         string
		row          Row
		total        int64
		walletChange int64
		expected     Contribution
	}{
		{
			name:     "store purchase",
			row:      Row{Item: "Portal 2", Type: "Purchase"},
			total:    999,
			expected: Contribution{Bucket: StorePurchase, Amount: 999, WalletBucket: StorePurchaseWallet},
		},
		{
			name:         "store purchase paid from wallet",
			row:          Row{Item: "Portal 2", Type: "Purchase"},
			total:        999,
			walletChange: -999,
			expected:     Contribution{Bucket: StorePurchase, Amount: 999, WalletBucket: StorePurchaseWallet, WalletAmount: 999},
		},
		{
			name:         "wallet top-up",
			row:          Row{Item: "Wallet Credit Top-up", Type: "Purchase"},
			total:        1000,
			walletChange: 1000,
			expected:     Contribution{Bucket: WalletTopUp, Amount: 1000},
		},
		{
			name:         "refunded store purchase",
			row:          Row{Item: "Half-Life", Type: "Purchase", Refunded: true},
			total:        499,
			walletChange: 499,
			expected:     Contribution{Bucket: RefundPurchase, Amount: 499, WalletBucket: RefundPurchaseWallet, WalletAmount: 499},
		},
		{
			name:         "gift purchase",
			row:          Row{Item: "Terraria", Type: "Gift Purchase"},
			total:        999,
			walletChange: -200,
			expected:     Contribution{Bucket: GiftPurchase, Amount: 999, WalletBucket: GiftPurchaseWallet, WalletAmount: 200},
		},
		{
			name:     "refunded gift purchase",
			row:      Row{Item: "Terraria", Type: "Gift Purchase", Refunded: true},
			total:    999,
			expected: Contribution{Bucket: RefundPurchase, Amount: 999, WalletBucket: RefundPurchaseWallet},
		},
		{
			name:         "in-game purchase uses wallet change",
			row:          Row{Item: "Dota 2", Type: "In-Game Purchase"},
			total:        0,
			walletChange: -500,
			expected:     Contribution{Bucket: InGamePurchase, Amount: 500},
		},
		{
			name:         "refunded in-game purchase uses total",
			row:          Row{Item: "Dota 2", Type: "In-Game Purchase", Refunded: true},
			total:        300,
			walletChange: 300,
			expected:     Contribution{Bucket: RefundPurchase, Amount: 300, WalletBucket: RefundPurchaseWallet, WalletAmount: 300},
		},
		{
			name:         "market sale",
			row:          Row{Type: "Market Transaction"},
			total:        35,
			walletChange: 30,
			expected:     Contribution{Bucket: MarketSelling, Amount: 35},
		},
		{
			name:     "market sale without wallet change",
			row:      Row{Type: "Market Transactions"},
			total:    35,
			expected: Contribution{Bucket: MarketSelling, Amount: 35},
		},
		{
			name:         "market purchase",
			row:          Row{Type: "Market Transaction"},
			total:        120,
			walletChange: -120,
			expected:     Contribution{Bucket: MarketPurchase, Amount: 120},
		},
		{
			name:         "refunded market transaction",
			row:          Row{Type: "Market Transaction", Refunded: true},
			total:        120,
			walletChange: 120,
			expected:     Contribution{Bucket: RefundPurchase, Amount: 120},
		},
		{
			name:     "other",
			row:      Row{Type: "Trade"},
			total:    50,
			expected: Contribution{Bucket: Other, Amount: 50},
		},
		{
			name:     "refunded other subtracts",
			row:      Row{Type: "Trade", Refunded: true},
			total:    50,
			expected: Contribution{Bucket: RefundPurchase, Amount: -50},
		},
		{
			name:  "conversion rows are skipped",
			row:   Row{Type: "Conversion – currency exchange"},
			total: 5000,
		},
		{
			name:  "refund notices are skipped",
			row:   Row{Type: "Refund notice"},
			total: 5000,
		},
		{
			name:  "empty type is skipped",
			row:   Row{Item: "Portal 2"},
			total: 999,
		},
		{
			name:         "zero total is skipped",
			row:          Row{Item: "Free Weekend", Type: "Purchase"},
			walletChange: -100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(English, tt.row, tt.total, tt.walletChange)
			be.Equal(t, tt.expected, got)
		})
	}
}

func TestClassifySimplifiedChinese(t *testing.T) {
	tests := []struct {
		name     string
		row      Row
		expected Bucket
	}{
		{name: "store", row: Row{Item: "传送门 2", Type: "购买"}, expected: StorePurchase},
		{name: "wallet", row: Row{Item: "¥ 50.00 钱包资金", Type: "购买"}, expected: WalletTopUp},
		{name: "gift", row: Row{Type: "礼物购买"}, expected: GiftPurchase},
		{name: "market", row: Row{Type: "社区市场交易"}, expected: MarketSelling},
		{name: "conversion", row: Row{Type: "转换货币"}, expected: None},
		{name: "refund", row: Row{Type: "退款"}, expected: None},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(SimplifiedChinese, tt.row, 100, 0)
			be.Equal(t, tt.expected, got.Bucket)
		})
	}
}

func TestBucketString(t *testing.T) {
	be.Equal(t, "wallet top-up", WalletTopUp.String())
	be.Equal(t, "none", None.String())
	be.Equal(t, "unknown", Bucket(99).String())
}
