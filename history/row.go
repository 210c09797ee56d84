package history

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrNoHistoryTable is returned when a history page has no "table > tbody".
// It usually means the session expired or the page layout changed.
var ErrNoHistoryTable = errors.New("history table not found")

// Row holds the cell texts of one history table row.
type Row struct {
	Item         string
	Type         string
	Total        string
	WalletChange string
	// Refunded is set when the type cell carries the refunded marker class.
	Refunded bool
}

const (
	itemClass         = "wht_items"
	typeClass         = "wht_type"
	totalClass        = "wht_total"
	walletChangeClass = "wht_wallet_change"
	walletColumnClass = "wallet_column"
	refundedClass     = "wht_refunded"
)

// ParseDocument extracts the rows of the history table from a complete
// history page.
func ParseDocument(markup string) ([]Row, error) {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse history page: %w", err)
	}

	tbody := findTableBody(doc)
	if tbody == nil {
		return nil, ErrNoHistoryTable
	}

	return extractRows(tbody), nil
}

// ParseFragment extracts rows from the bare "<tr>" markup returned by the
// load-more endpoint.
func ParseFragment(fragment string) ([]Row, error) {
	context := &html.Node{Type: html.ElementNode, Data: "tbody", DataAtom: atom.Tbody}

	nodes, err := html.ParseFragment(strings.NewReader(fragment), context)
	if err != nil {
		return nil, fmt.Errorf("parse history fragment: %w", err)
	}

	for _, n := range nodes {
		context.AppendChild(n)
	}

	return extractRows(context), nil
}

// findTableBody returns the first tbody whose parent is a table.
func findTableBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Tbody &&
		n.Parent != nil && n.Parent.DataAtom == atom.Table {
		return n
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findTableBody(c); found != nil {
			return found
		}
	}

	return nil
}

func extractRows(tbody *html.Node) []Row {
	var rows []Row

	walk(tbody, func(n *html.Node) bool {
		if n.DataAtom != atom.Tr {
			return true
		}
		if n.FirstChild == nil {
			return false
		}

		var row Row
		for _, td := range cells(n) {
			switch {
			case hasClass(td, itemClass):
				row.Item = normalize(textContent(td))
			case hasClass(td, typeClass):
				row.Type = normalize(textContent(td))
				row.Refunded = hasClass(td, refundedClass)
			case hasClass(td, totalClass):
				row.Total = normalize(textContent(td))
			case hasClass(td, walletChangeClass) && hasClass(td, walletColumnClass):
				row.WalletChange = normalize(textContent(td))
			}
		}

		rows = append(rows, row)
		return false
	})

	return rows
}

// cells returns the td elements below a row, including ones nested in
// wrappers the page sometimes adds.
func cells(tr *html.Node) []*html.Node {
	var tds []*html.Node
	walk(tr, func(n *html.Node) bool {
		if n.DataAtom == atom.Td {
			tds = append(tds, n)
			return false
		}
		return true
	})
	return tds
}

// walk visits element descendants of n depth first. fn returns false to
// skip a node's children.
func walk(n *html.Node, fn func(*html.Node) bool) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if fn(c) {
			walk(c, fn)
		}
	}
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == "class" {
			for _, f := range strings.Fields(a.Val) {
				if f == class {
					return true
				}
			}
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return b.String()
}
