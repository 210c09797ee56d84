// Package rates fetches the exchange-rate table used to normalize history
// amounts into the account's home currency.
package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultBaseURL is the public endpoint of exchangerate-api.com.
const DefaultBaseURL = "https://api.exchangerate-api.com/v4/latest/"

// Source names the provider in reports.
const Source = "exchangerate-api.com"

// ErrUnavailable wraps every failure to obtain a rate table.
var ErrUnavailable = errors.New("exchange rates unavailable")

// Table holds rates relative to Base: Rates[X] is the number of X units one
// Base unit buys. It is read-only once fetched.
type Table struct {
	Base      string
	Date      string
	Rates     map[string]decimal.Decimal
	UpdatedAt time.Time
}

// Rate returns the rate of code relative to the table's base.
func (t *Table) Rate(code string) (decimal.Decimal, bool) {
	if t == nil {
		return decimal.Decimal{}, false
	}
	r, ok := t.Rates[code]
	return r, ok
}

type latestResponse struct {
	Base            string                     `json:"base"`
	Date            string                     `json:"date"`
	TimeLastUpdated int64                      `json:"time_last_updated"`
	Rates           map[string]decimal.Decimal `json:"rates"`
}

// Client talks to the rate provider.
type Client struct {
	http    *http.Client
	baseURL string
}

// NewClient returns a Client. A nil httpClient uses http.DefaultClient and
// an empty baseURL uses DefaultBaseURL.
func NewClient(httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Client{http: httpClient, baseURL: baseURL}
}

// Latest fetches the current rates with code as base.
func (c *Client) Latest(ctx context.Context, code string) (*Table, error) {
	endpoint := c.baseURL + url.PathEscape(strings.ToUpper(code))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %s", ErrUnavailable, resp.Status)
	}

	var body latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", ErrUnavailable, err)
	}

	if len(body.Rates) == 0 {
		return nil, fmt.Errorf("%w: response has no rates", ErrUnavailable)
	}

	return &Table{
		Base:      body.Base,
		Date:      body.Date,
		Rates:     body.Rates,
		UpdatedAt: time.Unix(body.TimeLastUpdated, 0).UTC(),
	}, nil
}
