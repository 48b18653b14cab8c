// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/nyevents/internal/fetch"
	"github.com/pdiddy/nyevents/pkg/types"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download upcoming events from the I Love NY API",
	Long: `Fetch requests an anonymous API token, then pages through the events
endpoint for the configured date window and writes the raw records to a
timestamped snapshot under the raw data directory.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().Int("days", 0, "date window in days (default 30)")
	fetchCmd.Flags().String("output-dir", "", "directory for raw snapshots (default data/raw)")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig().Fetch
	if days, _ := cmd.Flags().GetInt("days"); days > 0 {
		cfg.DaysAhead = days
	}
	if dir, _ := cmd.Flags().GetString("output-dir"); dir != "" {
		cfg.RawDir = dir
	}

	client := fetch.NewClient(cfg)
	events, err := client.FetchEvents(context.Background(), os.Stderr)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return fmt.Errorf("no events returned for the next %d days", cfg.DaysAhead)
	}

	path, err := saveSnapshot(events, cfg.RawDir, time.Now())
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Fetched %d events to %s\n", len(events), path)
	return nil
}

func saveSnapshot(events []types.RawEvent, dir string, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating raw directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("events_raw_%s.json", now.Format("20060102_150405")))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	snapshot := struct {
		FetchedAt time.Time        `json:"fetched_at"`
		Count     int              `json:"count"`
		Events    []types.RawEvent `json:"events"`
	}{
		FetchedAt: now.UTC(),
		Count:     len(events),
		Events:    events,
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(snapshot); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
