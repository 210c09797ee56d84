package history

import (
	"errors"
	"testing"

	"github.com/carlmjohnson/be"
)

const samplePage = `<!DOCTYPE html>
<html><head><title>Purchase History</title></head>
<body>
<div id="main_content">
<table class="wallet_history_table">
<thead><tr><th>Date</th><th>Items</th><th>Type</th><th>Total</th><th>Wallet Change</th></tr></thead>
<tbody>
	<tr class="wallet_table_row">
		<td class="wht_date">1 Jan, 2024</td>
		<td class="wht_items"><div>Portal 2</div></td>
		<td class="wht_type"><div>Purchase</div><div class="wth_payment">Visa</div></td>
		<td class="wht_total">	$9.99	</td>
		<td class="wht_wallet_change wallet_column"></td>
		<td class="wht_wallet_balance wallet_column">$0.00</td>
	</tr>
	<tr class="wallet_table_row">
		<td class="wht_items">Half-Life</td>
		<td class="wht_type wht_refunded">Purchase</td>
		<td class="wht_total">$4.99</td>
		<td class="wht_wallet_change wallet_column">+$4.99</td>
	</tr>
	<tr></tr>
</tbody>
</table>
</div>
<script>
	var g_historyCursor = {"wallet_txnid":"4773","timestamp_newest":1700000000,"balance":"0","currency":1};
</script>
</body></html>`

func TestParseDocument(t *testing.T) {
	rows, err := ParseDocument(samplePage)
	be.NilErr(t, err)
	be.Equal(t, 2, len(rows))

	be.Equal(t, Row{
		Item:  "Portal 2",
		Type:  "PurchaseVisa",
		Total: "$9.99",
	}, rows[0])

	be.Equal(t, Row{
		Item:         "Half-Life",
		Type:         "Purchase",
		Total:        "$4.99",
		WalletChange: "+$4.99",
		Refunded:     true,
	}, rows[1])
}

func TestParseDocumentWithoutTable(t *testing.T) {
	_, err := ParseDocument(`<html><body><div>Sign in</div></body></html>`)
	be.True(t, errors.Is(err, ErrNoHistoryTable))
}

func TestParseFragment(t *testing.T) {
	fragment := `
<tr class="wallet_table_row">
	<td class="wht_items">Wallet Credit</td>
	<td class="wht_type">Purchase</td>
	<td class="wht_total">$20.00</td>
	<td class="wht_wallet_change wallet_column">+$20.00</td>
</tr>
<tr class="wallet_table_row">
	<td class="wht_items">Steam Community Market</td>
	<td class="wht_type">Market Transaction</td>
	<td class="wht_total">$0.35</td>
	<td class="wht_wallet_change wallet_column">-$0.35</td>
</tr>`

	rows, err := ParseFragment(fragment)
	be.NilErr(t, err)
	be.Equal(t, 2, len(rows))
	be.Equal(t, "Wallet Credit", rows[0].Item)
	be.Equal(t, "+$20.00", rows[0].WalletChange)
	be.Equal(t, "Market Transaction", rows[1].Type)
	be.Equal(t, "-$0.35", rows[1].WalletChange)
}

func TestParseFragmentEmpty(t *testing.T) {
	rows, err := ParseFragment("")
	be.NilErr(t, err)
	be.Equal(t, 0, len(rows))
}

func TestHasClass(t *testing.T) {
	rows, err := ParseFragment(`<tr><td class="wht_type wht_refunded_extra">Purchase</td></tr>`)
	be.NilErr(t, err)
	be.Equal(t, 1, len(rows))
	be.False(t, rows[0].Refunded)
}
