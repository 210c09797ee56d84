package main

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"
)

// maskedAccount is an Account as shown to the user, secrets masked.
type maskedAccount struct {
	Name        string `json:"name"`
	Login       string `json:"login"`
	Password    string `json:"password"`
	Email       string `json:"email"`
	SteamID     string `json:"steam_id"`
	AccessToken string `json:"access_token"`
	SessionID   string `json:"session_id"`
	LoginSecure string `json:"login_secure"`
	Currency    string `json:"currency"`
}

// maskAccount converts an Account for display, falling back to the default
// currency when the account sets none.
func maskAccount(a Account, defaultCurrency string) maskedAccount {
	cur := a.Currency
	if cur == "" {
		cur = defaultCurrency + " (default)"
	}
	email := a.Email
	if email == "" {
		email = "-"
	}

	return maskedAccount{
		Name:        a.Name,
		Login:       a.Login,
		Password:    maskSensitiveValue(a.Password),
		Email:       email,
		SteamID:     a.SteamID,
		AccessToken: maskSensitiveValue(a.AccessToken),
		SessionID:   maskSensitiveValue(a.SessionID),
		LoginSecure: maskSensitiveValue(a.LoginSecure),
		Currency:    cur,
	}
}

// newAccountsCmd creates the accounts command.
func newAccountsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Account management commands",
		Long:  `Commands for inspecting the configured store accounts.`,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all accounts",
		Long:  `List the accounts of the accounts file with their secrets masked.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.listAccounts(cmd)
		},
	}
	listCmd.Flags().StringP("output", "o", tableOutputFormat, "Output format: table or json")

	cmd.AddCommand(listCmd)
	return cmd
}

func (a *app) listAccounts(cmd *cobra.Command) error {
	outputFormat, err := validateOutputFormat(cmd, tableOutputFormat, jsonOutputFormat)
	if err != nil {
		return err
	}

	accounts := make([]maskedAccount, 0, len(a.accounts))
	for _, acc := range a.accounts {
		accounts = append(accounts, maskAccount(acc, a.settings.Currency))
	}

	// Sort accounts by name for consistent output
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].Name < accounts[j].Name
	})

	// Output based on format
	switch outputFormat {
	case jsonOutputFormat:
		return outputJSON(cmd.OutOrStdout(), accounts)
	case tableOutputFormat:
		return outputAccountsTable(cmd.OutOrStdout(), accounts)
	default:
		return errors.New("unsupported output format")
	}
}

func outputAccountsTable(w io.Writer, accounts []maskedAccount) error {
	// Create table
	t := createStyledTable(
		"NAME",
		"LOGIN",
		"PASSWORD",
		"EMAIL",
		"STEAM ID",
		"ACCESS TOKEN",
		"SESSION",
		"CURRENCY",
	)

	// Add accounts to table
	for _, account := range accounts {
		steamID := account.SteamID
		if steamID == "" {
			steamID = "-"
		}
		t.Row(
			account.Name,
			account.Login,
			account.Password,
			account.Email,
			steamID,
			account.AccessToken,
			account.SessionID,
			account.Currency,
		)
	}

	// Print the table
	_, err := fmt.Fprintln(w, t)
	return err
}
