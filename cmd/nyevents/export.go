// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/nyevents/internal/export"
	"github.com/pdiddy/nyevents/pkg/types"
)

var exportCmd = &cobra.Command{
	Use:   "export [events-file]",
	Short: "Transform raw events and write export files",
	Long: `Export runs the validate and transform stages over a raw snapshot and
writes the enriched events to a timestamped file under the processed data
directory. Without an argument it uses the newest snapshot in the raw
data directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("format", "", "export format: json, csv, or both (default json)")
	exportCmd.Flags().String("output-dir", "", "directory for export files (default data/processed)")
	exportCmd.Flags().String("rules", "", "YAML file overriding keyword tables")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()
	if format, _ := cmd.Flags().GetString("format"); format != "" {
		cfg.Export.Format = format
	}
	if dir, _ := cmd.Flags().GetString("output-dir"); dir != "" {
		cfg.Export.ProcessedDir = dir
	}

	path, err := resolveInput(args, cfg.Fetch.RawDir)
	if err != nil {
		return err
	}
	events, err := loadRawEvents(path)
	if err != nil {
		return err
	}

	rulesPath, _ := cmd.Flags().GetString("rules")
	rules, err := loadRuleFile(rulesPath)
	if err != nil {
		return err
	}

	result, err := transformEvents(context.Background(), cfg, rules, events)
	if err != nil {
		return err
	}

	return writeExports(result, cfg.Export)
}

func writeExports(result types.TransformResult, cfg types.ExportConfig) error {
	now := time.Now()

	writeJSON := cfg.Format == "json" || cfg.Format == "both" || cfg.Format == ""
	writeCSV := cfg.Format == "csv" || cfg.Format == "both"
	if !writeJSON && !writeCSV {
		return fmt.Errorf("unsupported format %q: use json, csv, or both", cfg.Format)
	}

	if writeJSON {
		path, err := export.WriteJSON(result, cfg.ProcessedDir, now)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Exported %d events to %s\n", len(result.Transformed), path)
	}
	if writeCSV {
		path, err := export.WriteCSV(result, cfg.ProcessedDir, now)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Exported %d events to %s\n", len(result.Transformed), path)
	}
	return nil
}
