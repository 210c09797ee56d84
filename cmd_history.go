package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/rshep3087/steamspend/currency"
	"github.com/rshep3087/steamspend/history"
	"github.com/rshep3087/steamspend/report"
)

var titleCaser = cases.Title(language.English)

// historyCommand encapsulates the dependencies for the history command.
type historyCommand struct {
	app *app
}

// newHistoryCmd creates the history command.
func newHistoryCmd(a *app) *cobra.Command {
	c := historyCommand{app: a}
	cmd := &cobra.Command{
		Use:   "history [account...]",
		Short: "Report the purchase history of accounts",
		Long: `Walk the whole purchase history of the named accounts, or of every
configured account, and report the totals per category in the account's
wallet currency.`,
		RunE: c.run,
	}
	cmd.Flags().StringP("output", "o", textOutputFormat, "Output format: text, tree, table or json")

	return cmd
}

// historyOutput is the JSON form of one account's report.
type historyOutput struct {
	Account      string            `json:"account"`
	Currency     string            `json:"currency"`
	Aggregate    history.Aggregate `json:"aggregate"`
	Summary      report.Summary    `json:"summary"`
	Display      map[string]string `json:"display,omitempty"`
	Pages        int               `json:"pages"`
	Rows         int               `json:"rows"`
	Warnings     int               `json:"warnings"`
	RatesBase    string            `json:"rates_base"`
	RatesUpdated time.Time         `json:"rates_updated"`
}

func (c *historyCommand) run(cmd *cobra.Command, args []string) error {
	outputFormat, err := validateOutputFormat(cmd,
		textOutputFormat, treeOutputFormat, tableOutputFormat, jsonOutputFormat)
	if err != nil {
		return err
	}

	accounts, err := selectAccounts(c.app.accounts, args)
	if err != nil {
		return err
	}
	if len(accounts) == 0 {
		return errors.New("no accounts configured")
	}

	ctx := cmd.Context()

	var results []*accountHistory
	var failed int
	for _, acc := range accounts {
		h, err := c.historyOf(ctx, acc)
		if err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s: %v\n", acc.Name, failureReason(err), err)
			continue
		}
		results = append(results, h)
	}

	if err := c.output(cmd.OutOrStdout(), outputFormat, results); err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d accounts failed", failed, len(accounts))
	}
	return nil
}

func (c *historyCommand) historyOf(ctx context.Context, acc Account) (*accountHistory, error) {
	client, err := c.app.newClient(acc)
	if err != nil {
		return nil, err
	}
	return c.app.collectHistory(ctx, acc, client)
}

func (c *historyCommand) output(w io.Writer, outputFormat string, results []*accountHistory) error {
	switch outputFormat {
	case jsonOutputFormat:
		out := make([]historyOutput, 0, len(results))
		for _, h := range results {
			out = append(out, c.jsonOutput(h))
		}
		return outputJSON(w, out)

	case tableOutputFormat:
		return c.outputTable(w, results)

	case treeOutputFormat:
		for _, h := range results {
			opts := c.app.reportOptions(h.Currency)
			fmt.Fprintln(w, report.Tree(h.Account.Name, h.Aggregate, h.Rates, opts, c.app.treeStyles))
		}
		return nil

	case textOutputFormat:
		for i, h := range results {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "<%s>\n", h.Account.Name)
			fmt.Fprint(w, report.Format(h.Aggregate, h.Rates, c.app.reportOptions(h.Currency)))
		}
		return nil

	default:
		return errors.New("unsupported output format")
	}
}

func (c *historyCommand) jsonOutput(h *accountHistory) historyOutput {
	agg := h.Aggregate
	out := historyOutput{
		Account:   h.Account.Name,
		Currency:  h.Currency,
		Aggregate: agg,
		Summary:   report.Summarize(agg, c.app.reportOptions(h.Currency)),
		Pages:     h.Stats.Pages,
		Rows:      h.Stats.Rows,
		Warnings:  h.Stats.Warnings,
	}
	if h.Rates != nil {
		out.RatesBase = h.Rates.Base
		out.RatesUpdated = h.Rates.UpdatedAt
	}

	totalSpend := displayMoney(agg.StorePurchase+agg.InGamePurchase, h.Currency)
	if totalSpend != "" {
		out.Display = map[string]string{
			"total_spend":   totalSpend,
			"gifted_spend":  displayMoney(agg.GiftPurchase, h.Currency),
			"wallet_top_up": displayMoney(agg.WalletTopUp, h.Currency),
		}
	}
	return out
}

func (c *historyCommand) outputTable(w io.Writer, results []*accountHistory) error {
	t := createStyledTable("ACCOUNT", "CATEGORY", "AMOUNT")

	for _, h := range results {
		symbol := currency.Symbol(h.Currency)
		for _, b := range history.Buckets() {
			t.Row(h.Account.Name, titleCaser.String(b.String()), report.Amount(major(h.Aggregate.Get(b)), symbol))
		}

		s := report.Summarize(h.Aggregate, c.app.reportOptions(h.Currency))
		t.Row(h.Account.Name, "Total Spend", report.Amount(s.TotalSpend, symbol))
	}

	_, err := fmt.Fprintln(w, t)
	return err
}

func major(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100))
}

// displayMoney formats an amount of hundredths of code with the currency's
// own fraction digits and template. Unknown codes yield "".
func displayMoney(cents int64, code string) string {
	cur := money.GetCurrency(code)
	if cur == nil {
		return ""
	}

	minor := decimal.NewFromInt(cents).Shift(int32(cur.Fraction) - 2).IntPart()
	return money.New(minor, cur.Code).Display()
}
