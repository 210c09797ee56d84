package history

import (
	"bytes"
	"encoding/json"
	"regexp"
)

// Cursor is the continuation state the store embeds in history pages. It is
// sent back verbatim to load the next page.
type Cursor struct {
	WalletTxnID     string `json:"wallet_txnid"`
	TimestampNewest int64  `json:"timestamp_newest"`
	Balance         string `json:"balance"`
	Currency        int    `json:"currency"`
}

var cursorPattern = regexp.MustCompile(`g_historyCursor = ([^;]+)`)

// ExtractCursor finds the cursor assigned in the page's inline script. It
// returns nil when the page has no cursor or the cursor cannot be decoded;
// callers treat both as the last page.
func ExtractCursor(markup string) *Cursor {
	m := cursorPattern.FindStringSubmatch(markup)
	if m == nil {
		return nil
	}
	return DecodeCursor([]byte(m[1]))
}

// DecodeCursor decodes a cursor object. Malformed JSON, null, and objects
// missing any of the four fields decode to nil.
func DecodeCursor(raw []byte) *Cursor {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}

	var wire struct {
		WalletTxnID     *json.Number `json:"wallet_txnid"`
		TimestampNewest *json.Number `json:"timestamp_newest"`
		Balance         *json.Number `json:"balance"`
		Currency        *json.Number `json:"currency"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil
	}
	if wire.WalletTxnID == nil || wire.TimestampNewest == nil ||
		wire.Balance == nil || wire.Currency == nil {
		return nil
	}

	ts, err := wire.TimestampNewest.Int64()
	if err != nil {
		return nil
	}
	cur, err := wire.Currency.Int64()
	if err != nil {
		return nil
	}

	return &Cursor{
		WalletTxnID:     wire.WalletTxnID.String(),
		TimestampNewest: ts,
		Balance:         wire.Balance.String(),
		Currency:        int(cur),
	}
}
