// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the mrs-penman CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// logger writes diagnostics to stderr; stdout carries only PENMAN output.
var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: false,
	Level:           log.InfoLevel,
})

// rootCmd is the base command for the mrs-penman CLI.
var rootCmd = &cobra.Command{
	Use:   "mrs-penman",
	Short: "Convert semantic parser graphs to PENMAN notation",
	Long: `mrs-penman converts semantic graphs produced by a grammar-based parser into
PENMAN text, one block per item. A YAML rule set can drop nodes, restrict
relations, and rewrite attribute values before encoding.

Input is JSON lines of parsed items, a SQLite profile, or raw sentences
handed to an external parser.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if viper.GetBool("debug") {
			logger.SetLevel(log.DebugLevel)
		}
		if f := viper.ConfigFileUsed(); f != "" {
			logger.Debug("using config file", "path", f)
		}
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./mrs-penman.yaml or ~/.config/mrs-penman/mrs-penman.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("mrs-penman")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "mrs-penman"))
		}
	}

	viper.SetEnvPrefix("MRS_PENMAN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			logger.Warn("reading config", "err", err)
		}
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Error(err)
		stop()
		os.Exit(1)
	}
}
