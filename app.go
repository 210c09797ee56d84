package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/rshep3087/steamspend/history"
	"github.com/rshep3087/steamspend/rates"
	"github.com/rshep3087/steamspend/report"
	"github.com/rshep3087/steamspend/steam"
)

// rateFetcher fetches the rate table for a base currency.
type rateFetcher interface {
	Latest(ctx context.Context, code string) (*rates.Table, error)
}

// storeClient is what commands need from the store for one account.
type storeClient interface {
	history.Source
	AccountEmail(ctx context.Context) (string, error)
	OwnedGames(ctx context.Context) ([]steam.Game, error)
}

// clientFactory opens a store client for an account.
type clientFactory func(Account) (storeClient, error)

// app carries the configuration and collaborators of one invocation. The
// root command fills it in before any subcommand runs.
type app struct {
	settings  Settings
	accounts  []Account
	rates     rateFetcher
	newClient clientFactory
	confirm   func(title string) (bool, error)
	logger    *log.Logger

	treeStyles report.TreeStyles
}

// newApp wires the production collaborators for settings.
func newApp(settings Settings, accounts []Account, logger *log.Logger) *app {
	rateClient := rates.NewClient(&http.Client{
		Timeout:   settings.Timeout,
		Transport: steam.NewLoggingTransport(nil, logger),
	}, settings.RatesURL)

	return &app{
		settings: settings,
		accounts: accounts,
		rates:    newRateCache(rateClient),
		newClient: func(a Account) (storeClient, error) {
			c, err := steam.NewClient(a.session(),
				steam.WithStoreURL(settings.StoreURL),
				steam.WithAPIURL(settings.APIURL),
				steam.WithLanguage(settings.Language),
				steam.WithTimeout(settings.Timeout),
				steam.WithLogger(logger.With("account", a.Name)),
			)
			if err != nil {
				return nil, fmt.Errorf("create store client for %s: %w", a.Name, err)
			}
			return c, nil
		},
		confirm: confirmOverwrite,
		logger:  logger,

		treeStyles: newTheme(settings.Colors).treeStyles(),
	}
}

func (a *app) reportOptions(home string) report.Options {
	opts := report.Options{Currency: home}
	if a.settings.GiftMultiplier > 0 {
		opts.GiftMultiplier = decimal.NewFromFloat(a.settings.GiftMultiplier)
	}
	return opts
}

// rateCache shares one rate table per base currency across the accounts of
// an invocation. Failures are not kept, every caller sees its own.
type rateCache struct {
	fetcher rateFetcher
	group   singleflight.Group

	mu     sync.Mutex
	tables map[string]*rates.Table
}

func newRateCache(fetcher rateFetcher) *rateCache {
	return &rateCache{fetcher: fetcher, tables: make(map[string]*rates.Table)}
}

func (c *rateCache) Latest(ctx context.Context, code string) (*rates.Table, error) {
	c.mu.Lock()
	table, ok := c.tables[code]
	c.mu.Unlock()
	if ok {
		return table, nil
	}

	v, err, _ := c.group.Do(code, func() (any, error) {
		table, err := c.fetcher.Latest(ctx, code)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.tables[code] = table
		c.mu.Unlock()
		return table, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*rates.Table), nil
}

// accountHistory is the outcome of walking one account's history.
type accountHistory struct {
	Account   Account
	Currency  string
	Aggregate history.Aggregate
	Stats     history.Stats
	Rates     *rates.Table
}

// collectHistory fetches the rate table for the account's home currency, then
// walks its whole purchase history through client.
func (a *app) collectHistory(ctx context.Context, acc Account, client storeClient) (*accountHistory, error) {
	home, err := acc.homeCurrency(a.settings.Currency)
	if err != nil {
		return nil, err
	}

	table, err := a.rates.Latest(ctx, home)
	if err != nil {
		return nil, fmt.Errorf("fetch exchange rates for %s: %w", home, err)
	}

	logger := a.logger.With("account", acc.Name)
	agg := history.NewAggregator(home, table, history.LabelsFor(a.settings.Language), logger)

	total, stats, err := history.Walk(ctx, client, agg)
	if err != nil {
		return nil, err
	}
	logger.Debug("history collected", "pages", stats.Pages, "rows", stats.Rows, "warnings", stats.Warnings)

	return &accountHistory{
		Account:   acc,
		Currency:  home,
		Aggregate: total,
		Stats:     stats,
		Rates:     table,
	}, nil
}

// email returns the configured email of acc, or the one on its account page.
// A failed lookup is logged and yields an empty email.
func (a *app) email(ctx context.Context, acc Account, client storeClient) string {
	if acc.Email != "" {
		return acc.Email
	}

	email, err := client.AccountEmail(ctx)
	if err != nil {
		a.logger.Warn("could not read account email", "account", acc.Name, "error", err)
		return ""
	}
	return email
}

// forEachAccount runs fn for every account, at most Concurrency at a time,
// and returns the lines of the accounts that succeeded in account order.
// Failed accounts are logged and left out.
func (a *app) forEachAccount(
	ctx context.Context,
	accounts []Account,
	fn func(context.Context, Account) (string, error),
) []string {
	lines := make([]string, len(accounts))

	var g errgroup.Group
	g.SetLimit(max(1, a.settings.Concurrency))

	for i, acc := range accounts {
		g.Go(func() error {
			line, err := fn(ctx, acc)
			if err != nil {
				a.logger.Error("account skipped", "account", acc.Name, "reason", failureReason(err), "error", err)
				return nil
			}
			lines[i] = line
			return nil
		})
	}
	_ = g.Wait()

	return slices.DeleteFunc(lines, func(s string) bool { return s == "" })
}

// failureReason names the kind of failure for the user.
func failureReason(err error) string {
	switch {
	case errors.Is(err, rates.ErrUnavailable):
		return "rate error"
	case errors.Is(err, history.ErrNoHistoryTable), errors.Is(err, steam.ErrUnexpectedPage):
		return "parse error"
	case errors.Is(err, steam.ErrRequest), errors.Is(err, context.DeadlineExceeded):
		return "network error"
	case errors.Is(err, steam.ErrNoAccessToken):
		return "session error"
	default:
		return "error"
	}
}

// writeDump writes lines to path, asking before replacing an existing file
// unless force is set.
func (a *app) writeDump(path string, lines []string, force bool) error {
	if len(lines) == 0 {
		return errors.New("dump failed: no account produced a result")
	}

	if _, err := os.Stat(path); err == nil && !force {
		ok, err := a.confirm(fmt.Sprintf("Overwrite %s?", path))
		if err != nil {
			return fmt.Errorf("failed to confirm overwrite: %w", err)
		}
		if !ok {
			return fmt.Errorf("not overwriting %s", path)
		}
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create dump file: %w", err)
	}

	for _, line := range lines {
		if _, err := io.WriteString(f, line+"\n"); err != nil {
			f.Close()
			return fmt.Errorf("failed to write dump file: %w", err)
		}
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write dump file: %w", err)
	}

	a.logger.Info("dump written", "file", path, "accounts", len(lines))
	return nil
}
