// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "nyevents/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for the retrieval stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the tourism site root (default "https://www.iloveny.com").
	BaseURL string `json:"base_url" yaml:"base_url"`

	// DaysAhead is the size of the date window to query (default 30).
	DaysAhead int `json:"days_ahead" yaml:"days_ahead"`

	// PageSize is the page limit per API request (default 12, the size
	// the site's own frontend uses).
	PageSize int `json:"page_size" yaml:"page_size"`

	// PageDelay is the pause between consecutive page requests (default 2s).
	PageDelay time.Duration `json:"page_delay" yaml:"page_delay"`

	// MaxRetries is the retry budget for rate-limited or failing requests.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// CategoryIDs restricts the query to these upstream category ids.
	// Empty means the full default id set.
	CategoryIDs []string `json:"category_ids,omitempty" yaml:"category_ids,omitempty"`

	// RawDir is the directory for raw event snapshots (default "data/raw").
	RawDir string `json:"raw_dir" yaml:"raw_dir"`
}

// ValidationConfig holds settings for the validation stage.
type ValidationConfig struct {
	// SimilarityThreshold is the title word-overlap ratio above which two
	// events with matching date and location are duplicates (default 0.8).
	SimilarityThreshold float64 `json:"similarity_threshold" yaml:"similarity_threshold"`

	// CheckLinks enables the URL reachability probe, the only network
	// call in the validation stage.
	CheckLinks bool `json:"check_links" yaml:"check_links"`

	// LinkTimeout bounds each reachability probe (default 10s).
	LinkTimeout time.Duration `json:"link_timeout" yaml:"link_timeout"`
}

// TransformConfig holds settings for the transformation stage.
type TransformConfig struct {
	// MaxFutureDays, when positive, excludes events further out than this
	// horizon from the export. Zero disables the rule.
	MaxFutureDays int `json:"max_future_days" yaml:"max_future_days"`
}

// ExportConfig holds settings for the export stage.
type ExportConfig struct {
	// ProcessedDir is the directory for export files (default "data/processed").
	ProcessedDir string `json:"processed_dir" yaml:"processed_dir"`

	// Format selects the export file format: "json" or "csv".
	Format string `json:"format" yaml:"format"`
}

// StoreConfig holds settings for the run history store.
type StoreConfig struct {
	// Dir is the directory holding the SQLite database (default "data/store").
	Dir string `json:"dir" yaml:"dir"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Fetch      FetchConfig      `json:"fetch" yaml:"fetch"`
	Validation ValidationConfig `json:"validation" yaml:"validation"`
	Transform  TransformConfig  `json:"transform" yaml:"transform"`
	Export     ExportConfig     `json:"export" yaml:"export"`
	Store      StoreConfig      `json:"store" yaml:"store"`
}
