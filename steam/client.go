// Package steam is a small web client for the pages and endpoints of the
// Steam store that purchase and playtime reports need. It relies on session
// cookies obtained elsewhere and never logs in by itself.
package steam

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/net/publicsuffix"

	"github.com/rshep3087/steamspend/history"
)

const (
	// DefaultStoreURL is the store origin serving account pages.
	DefaultStoreURL = "https://store.steampowered.com"
	// DefaultAPIURL is the origin of the Web API.
	DefaultAPIURL = "https://api.steampowered.com"
	// DefaultLanguage is the page language the history labels are matched in.
	DefaultLanguage = "english"

	defaultTimeout = 30 * time.Second
	maxBodySize    = 16 << 20
)

var (
	// ErrRequest wraps every failed store request: transport errors,
	// unexpected status codes and unreadable bodies.
	ErrRequest = errors.New("store request failed")
	// ErrUnexpectedPage is returned when a page lacks an expected element or
	// a JSON response cannot be decoded.
	ErrUnexpectedPage = errors.New("unexpected store page")
	// ErrNoAccessToken is returned by Web API calls when the session has no
	// access token.
	ErrNoAccessToken = errors.New("session has no access token")
)

// Session is the pre-authenticated identity of one account.
type Session struct {
	SteamID     string
	SessionID   string
	LoginSecure string
	AccessToken string
}

type options struct {
	storeURL  string
	apiURL    string
	language  string
	timeout   time.Duration
	logger    *log.Logger
	transport http.RoundTripper
}

// Option configures a Client.
type Option func(*options)

// WithStoreURL points the client at another store origin.
func WithStoreURL(u string) Option {
	return func(o *options) { o.storeURL = u }
}

// WithAPIURL points the client at another Web API origin.
func WithAPIURL(u string) Option {
	return func(o *options) { o.apiURL = u }
}

// WithLanguage sets the page language passed as the "l" parameter.
func WithLanguage(lang string) Option {
	return func(o *options) { o.language = lang }
}

// WithTimeout bounds every request.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithLogger sets the logger used for request logging.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithTransport sets the transport wrapped by the logging round tripper.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

// Client fetches store pages for one session.
type Client struct {
	session  Session
	http     *http.Client
	storeURL *url.URL
	apiURL   *url.URL
	language string
	maxBody  int64
}

// NewClient returns a Client whose cookie jar carries the session cookies.
func NewClient(session Session, opts ...Option) (*Client, error) {
	o := options{
		storeURL: DefaultStoreURL,
		apiURL:   DefaultAPIURL,
		language: DefaultLanguage,
		timeout:  defaultTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.Default()
	}

	storeURL, err := url.Parse(strings.TrimSuffix(o.storeURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse store url: %w", err)
	}
	apiURL, err := url.Parse(strings.TrimSuffix(o.apiURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	var cookies []*http.Cookie
	if session.SessionID != "" {
		cookies = append(cookies, &http.Cookie{Name: "sessionid", Value: session.SessionID, Path: "/"})
	}
	if session.LoginSecure != "" {
		cookies = append(cookies, &http.Cookie{Name: "steamLoginSecure", Value: session.LoginSecure, Path: "/"})
	}
	jar.SetCookies(storeURL, cookies)

	return &Client{
		session: session,
		http: &http.Client{
			Jar:       jar,
			Timeout:   o.timeout,
			Transport: NewLoggingTransport(o.transport, o.logger),
		},
		storeURL: storeURL,
		apiURL:   apiURL,
		language: o.language,
		maxBody:  maxBodySize,
	}, nil
}

func (c *Client) storeEndpoint(path string) string {
	u := *c.storeURL
	u.Path += path
	u.RawQuery = url.Values{"l": {c.language}}.Encode()
	return u.String()
}

// FirstPage returns the markup of the account's purchase history page.
func (c *Client) FirstPage(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.storeEndpoint("/account/history/"), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRequest, err)
	}

	body, err := c.do(req)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// NextPage loads the history rows following cursor. An empty response means
// there are no more rows.
func (c *Client) NextPage(ctx context.Context, cursor history.Cursor) (*history.MorePage, error) {
	form := url.Values{
		"cursor[wallet_txnid]":     {cursor.WalletTxnID},
		"cursor[timestamp_newest]": {strconv.FormatInt(cursor.TimestampNewest, 10)},
		"cursor[balance]":          {cursor.Balance},
		"cursor[currency]":         {strconv.Itoa(cursor.Currency)},
		"sessionid":                {c.session.SessionID},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.storeEndpoint("/account/AjaxLoadMoreHistory/"), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequest, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, nil
	}

	var page history.MorePage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("%w: decode history page: %w", ErrUnexpectedPage, err)
	}
	return &page, nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	req.Header.Set("Referer", c.storeURL.String()+"/")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s %s: unexpected status %s", ErrRequest, req.Method, req.URL.Path, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrRequest, err)
	}
	if int64(len(body)) > c.maxBody {
		return nil, fmt.Errorf("%w: %s %s: body exceeds %d bytes", ErrRequest, req.Method, req.URL.Path, c.maxBody)
	}
	return body, nil
}
