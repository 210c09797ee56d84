package steam

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// AccountEmail returns the contact email shown on the account page.
func (c *Client) AccountEmail(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.storeEndpoint("/account/"), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRequest, err)
	}

	body, err := c.do(req)
	if err != nil {
		return "", err
	}

	email, err := parseAccountEmail(body)
	if err != nil {
		return "", err
	}
	return email, nil
}

// parseAccountEmail reads the first data field of the first settings block
// inside #main_content.
func parseAccountEmail(markup []byte) (string, error) {
	doc, err := html.Parse(bytes.NewReader(markup))
	if err != nil {
		return "", fmt.Errorf("parse account page: %w", err)
	}

	content := find(doc, func(n *html.Node) bool { return attr(n, "id") == "main_content" })
	if content == nil {
		return "", fmt.Errorf("%w: no main content", ErrUnexpectedPage)
	}

	block := find(content, func(n *html.Node) bool {
		return n.DataAtom == atom.Div && hasClass(n, "account_setting_sub_block")
	})
	if block == nil {
		return "", fmt.Errorf("%w: no account settings block", ErrUnexpectedPage)
	}

	field := find(block, func(n *html.Node) bool {
		return n.DataAtom == atom.Span && hasClass(n, "account_data_field")
	})
	if field == nil {
		return "", fmt.Errorf("%w: no email field", ErrUnexpectedPage)
	}

	return strings.TrimSpace(text(field)), nil
}

func find(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, match); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
