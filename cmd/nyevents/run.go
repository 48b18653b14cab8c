// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/nyevents/internal/fetch"
	"github.com/pdiddy/nyevents/internal/store"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: fetch, validate, transform, export, record",
	Long: `Run executes every stage in sequence: fetch events from the API, save
a raw snapshot, validate and transform the batch, write export files, and
record the run in the history store.`,
	RunE: runPipeline,
}

func init() {
	runCmd.Flags().Int("days", 0, "date window in days (default 30)")
	runCmd.Flags().String("format", "", "export format: json, csv, or both (default json)")
	runCmd.Flags().String("rules", "", "YAML file overriding keyword tables")
	runCmd.Flags().Bool("no-store", false, "skip recording the run in the history store")

	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()
	if days, _ := cmd.Flags().GetInt("days"); days > 0 {
		cfg.Fetch.DaysAhead = days
	}
	if format, _ := cmd.Flags().GetString("format"); format != "" {
		cfg.Export.Format = format
	}

	rulesPath, _ := cmd.Flags().GetString("rules")
	rules, err := loadRuleFile(rulesPath)
	if err != nil {
		return err
	}

	ctx := context.Background()

	client := fetch.NewClient(cfg.Fetch)
	events, err := client.FetchEvents(ctx, os.Stderr)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return fmt.Errorf("no events returned for the next %d days", cfg.Fetch.DaysAhead)
	}

	snapshot, err := saveSnapshot(events, cfg.Fetch.RawDir, time.Now())
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Fetched %d events to %s\n", len(events), snapshot)

	result, err := transformEvents(ctx, cfg, rules, events)
	if err != nil {
		return err
	}
	printTransformResult(result)

	if err := writeExports(result, cfg.Export); err != nil {
		return err
	}

	if noStore, _ := cmd.Flags().GetBool("no-store"); noStore {
		return nil
	}

	s, err := store.Open(cfg.Store.Dir)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.SaveRun(ctx, result); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Recorded run %s\n", result.Metadata.RunID)
	return nil
}
