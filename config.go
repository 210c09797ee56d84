package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/rshep3087/steamspend/steam"
)

const accountsFileName = "accounts.toml"

// Settings holds the resolved configuration of one invocation.
type Settings struct {
	// Debug enables debug logging
	Debug bool
	// Currency is the home currency of accounts that set none
	Currency string
	// Language is the store page language, it selects the history labels
	Language string
	// GiftMultiplier scales the upper gift credit estimate
	GiftMultiplier float64
	// AccountsFile overrides the accounts file search
	AccountsFile string
	// Concurrency bounds how many accounts batch commands process at once
	Concurrency int
	// Timeout bounds every HTTP request
	Timeout time.Duration

	StoreURL string
	APIURL   string
	RatesURL string

	// Colors themes tree output
	Colors Colors
}

// settingsFromViper reads Settings from the merged flags, environment and
// config file.
func settingsFromViper() Settings {
	return Settings{
		Debug:          viper.GetBool("debug"),
		Currency:       strings.ToUpper(viper.GetString("currency")),
		Language:       viper.GetString("language"),
		GiftMultiplier: viper.GetFloat64("gift_multiplier"),
		AccountsFile:   viper.GetString("accounts_file"),
		Concurrency:    viper.GetInt("concurrency"),
		Timeout:        viper.GetDuration("timeout"),
		StoreURL:       viper.GetString("store_url"),
		APIURL:         viper.GetString("api_url"),
		RatesURL:       viper.GetString("rates_url"),
		Colors:         colorsFromViper(),
	}
}

// Account is one store account of the accounts file.
type Account struct {
	Name        string `toml:"name" json:"name"`
	Login       string `toml:"login" json:"login"`
	Password    string `toml:"password" json:"-"`
	Email       string `toml:"email" json:"email,omitempty"`
	SteamID     string `toml:"steam_id" json:"steam_id,omitempty"`
	AccessToken string `toml:"access_token" json:"-"`
	SessionID   string `toml:"session_id" json:"-"`
	LoginSecure string `toml:"login_secure" json:"-"`
	// Currency is the wallet currency of the account
	Currency string `toml:"currency" json:"currency,omitempty"`
}

type accountsFile struct {
	Accounts []Account `toml:"account"`
}

// session returns the store session of the account.
func (a Account) session() steam.Session {
	return steam.Session{
		SteamID:     a.SteamID,
		SessionID:   a.SessionID,
		LoginSecure: a.LoginSecure,
		AccessToken: a.AccessToken,
	}
}

// homeCurrency returns the account's currency, or fallback when it sets
// none. The code must be a known ISO 4217 currency.
func (a Account) homeCurrency(fallback string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(a.Currency))
	if code == "" {
		code = fallback
	}
	if err := validateCurrency(code); err != nil {
		return "", fmt.Errorf("account %s: %w", a.Name, err)
	}
	return code, nil
}

func validateCurrency(code string) error {
	if code == "" {
		return errors.New("no home currency configured")
	}
	if money.GetCurrency(code) == nil {
		return fmt.Errorf("unknown currency %q", code)
	}
	return nil
}

// getAccountsFilePaths returns the list of possible accounts file paths
// in order of precedence (first found wins).
func getAccountsFilePaths() []string {
	var paths []string

	// Current directory (highest precedence)
	paths = append(paths, accountsFileName)

	// User config directory
	if configDir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(configDir, "steamspend", accountsFileName))
	}

	// User home directory
	if homeDir, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(homeDir, ".config", "steamspend", accountsFileName))
	}

	// System-wide config directory (lowest precedence)
	paths = append(paths, filepath.Join("/etc/steamspend", accountsFileName))

	return paths
}

// findAccountsFile searches for an accounts file in the standard locations.
// Returns the path to the first existing file, or empty string if none found.
func findAccountsFile() string {
	for _, path := range getAccountsFilePaths() {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// loadAccountsFromFile loads accounts from a TOML file. Accounts without a
// login use their name, accounts without a name use their login.
func loadAccountsFromFile(path string) ([]Account, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read accounts file %s: %w", path, err)
	}

	var file accountsFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse TOML accounts file %s: %w", path, err)
	}

	seen := make(map[string]bool, len(file.Accounts))
	for i := range file.Accounts {
		a := &file.Accounts[i]
		if a.Login == "" {
			a.Login = a.Name
		}
		if a.Name == "" {
			a.Name = a.Login
		}
		if a.Name == "" {
			return nil, fmt.Errorf("accounts file %s: account %d has neither name nor login", path, i+1)
		}
		if seen[a.Name] {
			return nil, fmt.Errorf("accounts file %s: duplicate account %q", path, a.Name)
		}
		seen[a.Name] = true
	}

	return file.Accounts, nil
}

// loadAccounts loads the accounts from path, or from the first accounts file
// found when path is empty. No file means no accounts.
func loadAccounts(path string) ([]Account, string, error) {
	if path == "" {
		path = findAccountsFile()
	}
	if path == "" {
		return nil, "", nil
	}

	accounts, err := loadAccountsFromFile(path)
	if err != nil {
		return nil, path, err
	}
	return accounts, path, nil
}

// selectAccounts returns the accounts named in names, in that order. No
// names selects every account.
func selectAccounts(all []Account, names []string) ([]Account, error) {
	if len(names) == 0 {
		return all, nil
	}

	byName := make(map[string]Account, len(all))
	for _, a := range all {
		byName[a.Name] = a
	}

	selected := make([]Account, 0, len(names))
	for _, name := range names {
		a, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown account %q", name)
		}
		selected = append(selected, a)
	}
	return selected, nil
}

func maskSensitiveValue(value string) string {
	if value == "" {
		return "(not set)"
	}

	if len(value) <= 4 {
		return strings.Repeat("*", len(value))
	}

	return value[:4] + strings.Repeat("*", len(value)-4)
}
