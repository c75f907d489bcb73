// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pdforg CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdforg/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback when set, otherwise the named secret.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	return loadedSecrets[key]
}

// rootCmd is the base command for the pdforg CLI.
var rootCmd = &cobra.Command{
	Use:   "pdforg",
	Short: "Organize a PDF collection by inferred bibliographic metadata",
	Long: `pdforg infers bibliographic metadata (year, authors, title) for each PDF
in a collection from its filename, its embedded document properties, and
external lookup services (CrossRef, Semantic Scholar, Google Books), then
renames and relocates files into a normalized year/author/title layout with
a YAML metadata record alongside each one.

Subcommands: organize processes a whole directory, resolve inspects the
metadata pipeline for a single file, annotate reports organized records
with unresolved fields.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pdforg.yaml or ~/.config/pdforg/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pdforg")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pdforg"))
		}
	}

	viper.SetEnvPrefix("PDFORG")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
