// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/viper"

	"github.com/pdiddy/nyevents/pkg/types"
)

const (
	defaultTimeout     = 30 * time.Second
	defaultLinkTimeout = 10 * time.Second
	defaultPageDelay   = 2 * time.Second
	defaultUserAgent   = "nyevents/0.1"
	defaultRawDir      = "data/raw"
	defaultOutputDir   = "data/processed"
	defaultStoreDir    = "data/store"
)

func init() {
	viper.SetDefault("fetch.timeout", defaultTimeout)
	viper.SetDefault("fetch.user_agent", defaultUserAgent)
	viper.SetDefault("fetch.days_ahead", 30)
	viper.SetDefault("fetch.page_delay", defaultPageDelay)
	viper.SetDefault("fetch.raw_dir", defaultRawDir)
	viper.SetDefault("validation.similarity_threshold", 0.8)
	viper.SetDefault("validation.link_timeout", defaultLinkTimeout)
	viper.SetDefault("export.processed_dir", defaultOutputDir)
	viper.SetDefault("export.format", "json")
	viper.SetDefault("store.dir", defaultStoreDir)
}

// pipelineConfig assembles the stage configuration from viper, which has
// already merged config file, environment, and defaults.
func pipelineConfig() types.PipelineConfig {
	return types.PipelineConfig{
		Fetch: types.FetchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("fetch.timeout"),
				UserAgent: viper.GetString("fetch.user_agent"),
			},
			BaseURL:     viper.GetString("fetch.base_url"),
			DaysAhead:   viper.GetInt("fetch.days_ahead"),
			PageSize:    viper.GetInt("fetch.page_size"),
			PageDelay:   viper.GetDuration("fetch.page_delay"),
			MaxRetries:  viper.GetInt("fetch.max_retries"),
			CategoryIDs: viper.GetStringSlice("fetch.category_ids"),
			RawDir:      viper.GetString("fetch.raw_dir"),
		},
		Validation: types.ValidationConfig{
			SimilarityThreshold: viper.GetFloat64("validation.similarity_threshold"),
			CheckLinks:          viper.GetBool("validation.check_links"),
			LinkTimeout:         viper.GetDuration("validation.link_timeout"),
		},
		Transform: types.TransformConfig{
			MaxFutureDays: viper.GetInt("transform.max_future_days"),
		},
		Export: types.ExportConfig{
			ProcessedDir: viper.GetString("export.processed_dir"),
			Format:       viper.GetString("export.format"),
		},
		Store: types.StoreConfig{
			Dir: viper.GetString("store.dir"),
		},
	}
}

// loadRawEvents reads a raw event snapshot. The file holds either a bare
// JSON array of records or an object with an "events" key, the shape the
// fetch command writes.
func loadRawEvents(path string) ([]types.RawEvent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var wrapped struct {
		Events []types.RawEvent `json:"events"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Events != nil {
		return wrapped.Events, nil
	}

	var events []types.RawEvent
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return events, nil
}

// resolveInput picks the events file to process: the explicit argument if
// given, otherwise the newest snapshot in the raw data directory.
func resolveInput(args []string, rawDir string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	entries, err := os.ReadDir(rawDir)
	if err != nil {
		return "", fmt.Errorf("no input file given and raw directory unreadable: %w", err)
	}

	var candidates []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			candidates = append(candidates, entry.Name())
		}
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("no input file given and no snapshots in %s (run fetch first)", rawDir)
	}

	// Snapshot names embed the timestamp, so lexical order is time order.
	sort.Strings(candidates)
	return filepath.Join(rawDir, candidates[len(candidates)-1]), nil
}

// cell pads or truncates s to exactly width display columns.
func cell(s string, width int) string {
	if runewidth.StringWidth(s) > width {
		return runewidth.Truncate(s, width, "...")
	}
	return runewidth.FillRight(s, width)
}
