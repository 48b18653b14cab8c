// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the nyevents CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the nyevents CLI.
var rootCmd = &cobra.Command{
	Use:   "nyevents",
	Short: "Collect, validate, and transform New York tourism events",
	Long: `nyevents pulls event listings from the I Love NY events API and runs
them through a validation and transformation pipeline: candidate-key field
extraction, date and region checks, duplicate detection, normalization,
categorization, and business rules.

Each stage is a subcommand: fetch, validate, transform, export, and store.
Use run to execute the whole pipeline end to end.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./nyevents.yaml or ~/.config/nyevents/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("nyevents")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "nyevents"))
		}
	}

	viper.SetEnvPrefix("NYEVENTS")
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
