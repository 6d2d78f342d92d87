// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the doc-reconcile CLI.
// It reconciles a directory of documents against a SQLite catalog and
// reports matches, gaps, duplicates, and author write-back candidates.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is configured by the root pre-run hook.
var logger = slog.New(slog.DiscardHandler)

// rootCmd is the base command for the doc-reconcile CLI.
var rootCmd = &cobra.Command{
	Use:   "doc-reconcile",
	Short: "Reconcile a document directory against its catalog",
	Long: `doc-reconcile compares the documents on disk with the records in a
SQLite catalog. Titles are normalized and matched exactly, then by
substring; the report lists what is missing on either side, duplicate
content, and authors recovered from filenames.

Settings come from flags, DOC_RECONCILE_* environment variables (a .env
file is loaded first), and doc-reconcile.yaml.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("loading .env: %w", err)
		}
		verbose, _ := cmd.Flags().GetBool("verbose")
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		if f := viper.ConfigFileUsed(); f != "" {
			logger.Debug("using config file", "path", f)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./doc-reconcile.yaml or ~/.config/doc-reconcile/doc-reconcile.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log debug detail to stderr")
	rootCmd.PersistentFlags().String("db", "", "SQLite catalog path")
	rootCmd.PersistentFlags().String("partition", "", "restrict the catalog to one importer")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("doc-reconcile")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "doc-reconcile"))
		}
	}

	viper.SetEnvPrefix("DOC_RECONCILE")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()
	setDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintln(os.Stderr, "Error reading config file:", err)
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
