package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/rshep3087/steamspend/report"
	"github.com/rshep3087/steamspend/steam"
)

const (
	defaultHistoryDumpFile  = "history.txt"
	defaultPlaytimeDumpFile = "playtime.txt"
)

// newDumpHistoryCmd creates the dump-history command.
func newDumpHistoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump-history [file]",
		Short: "Dump the purchase totals of every account to a file",
		Long: `Walk the purchase history of every configured account and write one line
per account: "login:password:email - <total spend>/<wallet top-up>".
Accounts that fail are logged and left out.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.dumpHistory(cmd.Context(), dumpPath(args, defaultHistoryDumpFile), forceFlag(cmd))
		},
	}
	cmd.Flags().BoolP("force", "f", false, "overwrite an existing file without asking")

	return cmd
}

// newDumpPlaytimeCmd creates the dump-playtime command.
func newDumpPlaytimeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump-playtime [file]",
		Short: "Dump the playtime of every account's games to a file",
		Long: `List the owned games of every configured account and write one line per
account: "login:password:email - name (hours), ...". Accounts that fail
are logged and left out.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.dumpPlaytime(cmd.Context(), dumpPath(args, defaultPlaytimeDumpFile), forceFlag(cmd))
		},
	}
	cmd.Flags().BoolP("force", "f", false, "overwrite an existing file without asking")

	return cmd
}

func dumpPath(args []string, fallback string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return fallback
}

func forceFlag(cmd *cobra.Command) bool {
	force, _ := cmd.Flags().GetBool("force")
	return force
}

func (a *app) dumpHistory(ctx context.Context, path string, force bool) error {
	if len(a.accounts) == 0 {
		return errors.New("no accounts configured")
	}

	lines := a.forEachAccount(ctx, a.accounts, func(ctx context.Context, acc Account) (string, error) {
		client, err := a.newClient(acc)
		if err != nil {
			return "", err
		}

		h, err := a.collectHistory(ctx, acc, client)
		if err != nil {
			return "", err
		}

		summary := report.Summarize(h.Aggregate, a.reportOptions(h.Currency))
		return historyLine(acc, a.email(ctx, acc, client), summary), nil
	})

	return a.writeDump(path, lines, force)
}

func (a *app) dumpPlaytime(ctx context.Context, path string, force bool) error {
	if len(a.accounts) == 0 {
		return errors.New("no accounts configured")
	}

	lines := a.forEachAccount(ctx, a.accounts, func(ctx context.Context, acc Account) (string, error) {
		client, err := a.newClient(acc)
		if err != nil {
			return "", err
		}

		games, err := client.OwnedGames(ctx)
		if err != nil {
			return "", err
		}

		return playtimeLine(acc, a.email(ctx, acc, client), games), nil
	})

	return a.writeDump(path, lines, force)
}

func linePrefix(acc Account, email string) string {
	return fmt.Sprintf("%s:%s:%s - ", acc.Login, acc.Password, email)
}

// historyLine renders "login:password:email - total/topup".
func historyLine(acc Account, email string, s report.Summary) string {
	return linePrefix(acc, email) + s.TotalSpend.StringFixed(2) + "/" + s.WalletTopUp.StringFixed(2)
}

// playtimeLine renders "login:password:email - name (hours), ...".
func playtimeLine(acc Account, email string, games []steam.Game) string {
	entries := make([]string, 0, len(games))
	for _, g := range games {
		entries = append(entries, fmt.Sprintf("%s (%s)", g.DisplayName(), g.Hours().StringFixed(2)))
	}
	return linePrefix(acc, email) + strings.Join(entries, ", ")
}

// confirmOverwrite asks on the terminal whether to replace a file.
func confirmOverwrite(title string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Affirmative("Overwrite").
		Negative("Cancel").
		Value(&ok).
		Run()
	return ok, err
}
