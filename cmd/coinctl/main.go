// Command coinctl operates a coin ledger stored in SQLite, PostgreSQL or MySQL.
//
// The --caller flag is taken as an already authenticated identity: coinctl is
// operator tooling and performs no authentication of its own.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/xraph/coin"
	"github.com/xraph/coin/store/bunstore"
	"github.com/xraph/coin/types"
)

var version = "dev" // this will be set by the linker
var cfgFile string

// ledger is opened in PersistentPreRunE and closed in PersistentPostRunE.
var ledger *coin.Ledger

func main() {
	err := newRootCmd().Execute()
	if cerr := closeLedger(); err == nil {
		err = cerr
	}
	if err != nil {
		// The error is already printed by Cobra on failure.
		os.Exit(1)
	}
}

// closeLedger stops the ledger opened by PersistentPreRunE, if any. Cobra
// skips PersistentPostRunE when a command fails, so main calls it as well.
func closeLedger() error {
	if ledger == nil {
		return nil
	}
	err := ledger.Stop()
	ledger = nil
	return err
}

func init() {
	cobra.OnInitialize(initConfig)

	// Set defaults in viper. These are used if not set in the config file or by flags.
	viper.SetDefault("database.type", bunstore.TypeSQLite)
	viper.SetDefault("database.dsn", "./coin.db")
	viper.SetDefault("ledger.min_balance", "1")
	viper.SetDefault("log.level", "warn")
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coinctl",
		Short: "coinctl operates a single-asset coin ledger.",
		Long: `coinctl mints and burns units of a single asset and inspects balances,
total issuance and the transition journal. The ledger is stored in SQLite,
PostgreSQL or MySQL.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Viper has already read the config by this point.
			logger, err := newLogger(viper.GetString("log.level"))
			if err != nil {
				return err
			}

			minBalance, err := types.ParseBalance(viper.GetString("ledger.min_balance"))
			if err != nil {
				return fmt.Errorf("invalid ledger.min_balance: %w", err)
			}

			s, err := bunstore.Open(viper.GetString("database.type"), viper.GetString("database.dsn"))
			if err != nil {
				return err
			}

			ledger = coin.New(s,
				coin.WithLogger(logger),
				coin.WithMinBalance(minBalance),
			)
			return ledger.Start(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return closeLedger()
		},
	}

	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newMintCmd())
	cmd.AddCommand(newBurnCmd())
	cmd.AddCommand(newBalanceCmd())
	cmd.AddCommand(newIssuanceCmd())
	cmd.AddCommand(newAccountsCmd())
	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newVerifyCmd())

	// Set version
	cmd.Version = version

	// Define flags
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.coin.yaml or ./.coin.yaml)")
	cmd.PersistentFlags().String("db-type", bunstore.TypeSQLite, "Database type (sqlite, postgres, mysql)")
	cmd.PersistentFlags().String("db-dsn", "./coin.db", "Database connection string (DSN)")
	cmd.PersistentFlags().String("min-balance", "1", "Minimum balance an account may hold")
	cmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")

	// Bind flags to viper
	_ = viper.BindPFlag("database.type", cmd.PersistentFlags().Lookup("db-type"))
	_ = viper.BindPFlag("database.dsn", cmd.PersistentFlags().Lookup("db-dsn"))
	_ = viper.BindPFlag("ledger.min_balance", cmd.PersistentFlags().Lookup("min-balance"))
	_ = viper.BindPFlag("log.level", cmd.PersistentFlags().Lookup("log-level"))

	return cmd
}

func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Search config in home directory and current directory with name ".coin" (without extension).
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".coin")
	}

	viper.SetEnvPrefix("COIN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// A missing config file is fine; flags, env and defaults still apply.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			fmt.Fprintf(os.Stderr, "coinctl: reading config %s: %v\n", cfgFile, err)
		}
	}
}

// newLogger builds the text logger used for the ledger.
func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log.level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
}
