package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rshep3087/steamspend/rates"
	"github.com/rshep3087/steamspend/report"
	"github.com/rshep3087/steamspend/steam"
)

const (
	jsonOutputFormat  = "json"
	tableOutputFormat = "table"
	textOutputFormat  = "text"
	treeOutputFormat  = "tree"
)

// Global variables for configuration.
var (
	cfgFile string
	version = "dev"

	// cli is shared by every subcommand and set up by the root command.
	cli = &app{}
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "steamspend",
	Short: "Purchase history and playtime reports for Steam accounts",
	Long: `steamspend walks the purchase history of Steam accounts, converts every
amount into the account's wallet currency with live exchange rates, and
reports categorized totals. It can also dump purchase and playtime
summaries of many accounts into plain-text files.`,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		settings := settingsFromViper()

		// Setup logging
		log.SetLevel(log.InfoLevel)
		if settings.Debug {
			log.SetLevel(log.DebugLevel)
		}

		if err := validateCurrency(settings.Currency); err != nil {
			return fmt.Errorf("invalid currency setting: %w", err)
		}

		accounts, path, err := loadAccounts(settings.AccountsFile)
		if err != nil {
			return err
		}
		if path != "" {
			log.Debug("Using accounts file", "file", path, "accounts", len(accounts))
		}

		*cli = *newApp(settings, accounts, log.Default())
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is ./steamspend.toml)")
	flags.Bool("debug", false, "enable debug logging")
	flags.String("currency", "USD", "home currency of accounts that configure none")
	flags.String("language", steam.DefaultLanguage, "store page language (english or schinese)")
	flags.String("accounts", "", "accounts file (default is ./accounts.toml)")
	flags.Float64("gift-multiplier", report.DefaultGiftMultiplier, "multiplier of the upper gift credit estimate")
	flags.Int("concurrency", 4, "accounts processed at once by dump commands")
	flags.Duration("timeout", 30*time.Second, "timeout of every HTTP request")
	flags.String("store-url", steam.DefaultStoreURL, "store origin")
	flags.String("api-url", steam.DefaultAPIURL, "web API origin")
	flags.String("rates-url", rates.DefaultBaseURL, "exchange rate endpoint")

	// Bind flags to viper
	_ = viper.BindPFlag("debug", flags.Lookup("debug"))
	_ = viper.BindPFlag("currency", flags.Lookup("currency"))
	_ = viper.BindPFlag("language", flags.Lookup("language"))
	_ = viper.BindPFlag("accounts_file", flags.Lookup("accounts"))
	_ = viper.BindPFlag("gift_multiplier", flags.Lookup("gift-multiplier"))
	_ = viper.BindPFlag("concurrency", flags.Lookup("concurrency"))
	_ = viper.BindPFlag("timeout", flags.Lookup("timeout"))
	_ = viper.BindPFlag("store_url", flags.Lookup("store-url"))
	_ = viper.BindPFlag("api_url", flags.Lookup("api-url"))
	_ = viper.BindPFlag("rates_url", flags.Lookup("rates-url"))

	// Add subcommands
	rootCmd.AddCommand(newHistoryCmd(cli))
	rootCmd.AddCommand(newDumpHistoryCmd(cli))
	rootCmd.AddCommand(newDumpPlaytimeCmd(cli))
	rootCmd.AddCommand(newAccountsCmd(cli))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Search config in multiple locations (in order of precedence)
		// Current directory (highest precedence)
		viper.AddConfigPath(".")
		viper.SetConfigName("steamspend")
		viper.SetConfigType("toml")

		// User config directory
		if configDir, configErr := os.UserConfigDir(); configErr == nil {
			viper.AddConfigPath(filepath.Join(configDir, "steamspend"))
		}

		// User home directory
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "steamspend"))
		}

		// System-wide config directory (lowest precedence)
		viper.AddConfigPath("/etc/steamspend")
	}

	// A .env file in the working directory may hold the variables below.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn("Could not load .env file", "error", err)
	}

	// STEAMSPEND_CURRENCY, STEAMSPEND_ACCOUNTS_FILE, STEAMSPEND_COLORS_PRIMARY, ...
	viper.SetEnvPrefix("steamspend")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		log.Debug("Config file not found or error reading", "error", err)
		return
	}

	log.Debug("Using config file", "file", viper.ConfigFileUsed())
}

// validateOutputFormat returns the --output flag of cmd if it is one of valid.
func validateOutputFormat(cmd *cobra.Command, valid ...string) (string, error) {
	outputFormat, _ := cmd.Flags().GetString("output")
	if !slices.Contains(valid, outputFormat) {
		return "", fmt.Errorf("invalid output format: %s (must be one of %v)", outputFormat, valid)
	}
	return outputFormat, nil
}

// Utility functions for output formatting.
func outputJSON(w io.Writer, data any) error {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}

func createStyledTable(headers ...string) *table.Table {
	var (
		purple    = lipgloss.Color("99")
		gray      = lipgloss.Color("245")
		lightGray = lipgloss.Color("241")

		headerStyle  = lipgloss.NewStyle().Foreground(purple).Bold(true).Align(lipgloss.Center)
		cellStyle    = lipgloss.NewStyle().Padding(0, 1)
		oddRowStyle  = cellStyle.Foreground(gray)
		evenRowStyle = cellStyle.Foreground(lightGray)
	)

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(purple)).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row%2 == 0:
				return evenRowStyle
			default:
				return oddRowStyle
			}
		}).
		Headers(headers...)
}
