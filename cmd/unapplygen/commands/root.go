// Package commands provides the CLI commands for the unapplygen tool.
package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"martianoff/unapplygen/internal/config"
)

var (
	v      = config.NewViper()
	cfg    *config.Config
	logger = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "unapplygen",
	Short: "Pattern constructor generator for unapply holder types",
	Long: `unapplygen expands the @Unapply methods of @Patterns holder types into
Java units exposing one pattern constructor per method.

Holder types are described in YAML manifests. Settings are read from flags,
UNAPPLYGEN_* environment variables and an optional .unapplygen.yaml file.

Usage:
  unapplygen generate holders.yaml -o src/main/java   Generate and write units
  unapplygen verify holders.yaml -o src/main/java     Check units on disk are current
  unapplygen version                                  Print version`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.ReadFile(v); err != nil {
			return err
		}
		loaded, err := config.Load(v)
		if err != nil {
			return err
		}
		cfg = loaded
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.LogLevel}))
		slog.SetDefault(logger)
		if f := v.ConfigFileUsed(); f != "" {
			logger.Debug("config loaded", "file", f)
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(versionCmd)

	flags := rootCmd.PersistentFlags()
	flags.StringP(config.KeyOutput, "o", ".", "Source root the units are written to")
	flags.Int(config.KeyWildcardThreshold, 5, "Imports from one package above which an on-demand import is used")
	flags.StringSlice(config.KeyImplicitOrigins, []string{"java.lang"}, "Packages visible without an import")
	flags.StringSlice(config.KeyKnownNames, nil, "Simple names imports must not claim")
	flags.String(config.KeyBannerTool, "JAVASLANG", "Tool name written in the generation banner")
	flags.IntP(config.KeyConcurrency, "j", 8, "Holders generated in parallel")
	flags.String(config.KeyLogLevel, "info", "Log level (debug, info, warn, error)")

	for _, key := range []string{
		config.KeyOutput,
		config.KeyWildcardThreshold,
		config.KeyImplicitOrigins,
		config.KeyKnownNames,
		config.KeyBannerTool,
		config.KeyConcurrency,
		config.KeyLogLevel,
	} {
		if err := v.BindPFlag(key, flags.Lookup(key)); err != nil {
			panic(err)
		}
	}
}
