package gopay

import (
	"fmt"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/liftedinit/gopay/internal/client"
	"github.com/liftedinit/gopay/internal/config"
)

var (
	validLogLevels = map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	validLogLevelsStr = strings.Join(slices.Sorted(maps.Keys(validLogLevels)), "|")
)

var RootCmd = &cobra.Command{
	Use:   "gopay",
	Short: "GOPay wallet front-end",
	Long:  `gopay serves the GOPay wallet front-end and talks to the ledger service.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logLevel := viper.GetString("logLevel")
		if err := setLogLevel(logLevel); err != nil {
			return err
		}
		slog.Debug("Application started", "version", Version)
		return nil
	},
}

// setLogLevel sets the log level
func setLogLevel(logLevel string) error {
	level, exists := validLogLevels[logLevel]
	if !exists {
		return fmt.Errorf("invalid log level: %s. Valid log levels are: %s", logLevel, validLogLevelsStr)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

// bindFlags binds the flags of the running command into viper.
// Commands share flag names, so binding happens at run time rather than in init.
func bindFlags(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("failed to bind %s flags: %w", cmd.Name(), err)
	}
	return nil
}

func newLedgerClient() (*client.LedgerClient, error) {
	ledgerConfig := config.LoadLedgerConfigFromCLI()
	if err := ledgerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ledger configuration: %w", err)
	}
	slog.Debug("Ledger endpoint", "address", ledgerConfig.Address, "timeout", ledgerConfig.Timeout)

	return client.NewLedgerClient(ledgerConfig.Address, ledgerConfig.Timeout)
}

func init() {
	RootCmd.PersistentFlags().StringP("logLevel", "l", "info", fmt.Sprintf("set log level (%s)", validLogLevelsStr))
	RootCmd.PersistentFlags().StringP("ledger-addr", "a", "http://localhost:8080", "Address of the ledger service")
	RootCmd.PersistentFlags().Duration("ledger-timeout", 10*time.Second, "Ledger request timeout")
	if err := viper.BindPFlags(RootCmd.PersistentFlags()); err != nil {
		slog.Error("Failed to bind rootCmd flags", "error", err)
	}

	RootCmd.SilenceUsage = true
	RootCmd.SilenceErrors = true

	viper.SetConfigName("config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.gopay")
	viper.AddConfigPath("/etc/gopay")

	viper.SetEnvPrefix("gopay")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	RootCmd.AddCommand(serveCmd)
	RootCmd.AddCommand(statusCmd)
	RootCmd.AddCommand(blockCmd)
	RootCmd.AddCommand(payCmd)
	RootCmd.AddCommand(convertCmd)
	RootCmd.AddCommand(ExportCmd)
	RootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() {
	if err := viper.ReadInConfig(); err == nil {
		slog.Info("Using config file", "file", viper.ConfigFileUsed())
	} else {
		slog.Info("No config file found")
	}

	if err := RootCmd.Execute(); err != nil {
		slog.Error("An error occurred", "error", err)
		os.Exit(1)
	}
}
