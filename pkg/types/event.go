// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the nyevents pipeline.
package types

import "time"

// RawEvent is an untyped event record as returned by the upstream events
// API. Field names vary between upstream sources (the same logical
// attribute may arrive under several keys), so the pipeline resolves
// fields through ordered candidate-key lookup instead of a fixed struct.
// Values are JSON-compatible: string, number, bool, nil, list, or nested
// mapping. The pipeline never mutates a RawEvent.
type RawEvent = map[string]any

// ValidationOutcome holds the per-predicate verdicts for a single record.
type ValidationOutcome struct {
	// Event is the original raw record, held by reference.
	Event RawEvent `json:"event" yaml:"event"`

	// Index is the record's position in the input batch.
	Index int `json:"index" yaml:"index"`

	// FutureDate reports whether the event date parses and is today or later.
	FutureDate bool `json:"future_date" yaml:"future_date"`

	// RegionMatch reports whether the event location maps to the NY metro area.
	RegionMatch bool `json:"region_match" yaml:"region_match"`

	// AccessibleLinks reports whether any event URL answered with a
	// non-error status. Recorded for diagnostics only; it does not
	// participate in the Valid conjunction.
	AccessibleLinks bool `json:"accessible_links" yaml:"accessible_links"`

	// Completeness maps each required logical field to its presence.
	Completeness map[string]bool `json:"data_completeness" yaml:"data_completeness"`

	// Duplicate reports whether the record was consumed as a copy of an
	// earlier record in the batch.
	Duplicate bool `json:"duplicate" yaml:"duplicate"`

	// Reasons lists human-readable rejection reasons, empty when Valid.
	Reasons []string `json:"reasons,omitempty" yaml:"reasons,omitempty"`

	// Valid is the overall verdict: future date, region match, all
	// completeness fields, and not a duplicate.
	Valid bool `json:"valid" yaml:"valid"`
}

// MatchReason labels why a pair of events was declared duplicate.
type MatchReason string

const (
	MatchExactTitle   MatchReason = "exact_title"
	MatchSimilarTitle MatchReason = "similar_title"
	MatchSameDate     MatchReason = "same_date"
	MatchSameLocation MatchReason = "same_location"
)

// DuplicatePair records one detected duplicate. IndexB is the consumed
// copy; IndexA survives as the canonical event. Pairing is a single
// pairwise pass, so it is neither symmetric nor transitive: with three
// near-identical events the third may pair with the first but never with
// the (already consumed) second.
type DuplicatePair struct {
	IndexA     int           `json:"index_a" yaml:"index_a"`
	IndexB     int           `json:"index_b" yaml:"index_b"`
	Similarity float64       `json:"similarity" yaml:"similarity"`
	Reasons    []MatchReason `json:"reasons" yaml:"reasons"`
}

// ValidationError records a per-record processing failure. A failing
// record is counted invalid; it never aborts the batch.
type ValidationError struct {
	Index   int    `json:"index" yaml:"index"`
	Message string `json:"message" yaml:"message"`
}

// ValidationSummary holds aggregate counts for one validation pass.
type ValidationSummary struct {
	Total          int     `json:"total_events" yaml:"total_events"`
	ValidCount     int     `json:"valid_events" yaml:"valid_events"`
	InvalidCount   int     `json:"invalid_events" yaml:"invalid_events"`
	DuplicateCount int     `json:"duplicates" yaml:"duplicates"`
	SuccessRate    float64 `json:"success_rate" yaml:"success_rate"`
}

// ValidationReport is the full result of validating a batch.
type ValidationReport struct {
	Valid      []ValidationOutcome `json:"valid" yaml:"valid"`
	Invalid    []ValidationOutcome `json:"invalid" yaml:"invalid"`
	Duplicates []DuplicatePair     `json:"duplicate_pairs" yaml:"duplicate_pairs"`
	Errors     []ValidationError   `json:"validation_errors,omitempty" yaml:"validation_errors,omitempty"`
	Summary    ValidationSummary   `json:"summary" yaml:"summary"`
}

// NormalizedEvent is the canonical record shape produced from an admitted
// RawEvent. OriginalData preserves the full source record for audit.
type NormalizedEvent struct {
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	StartDate   string   `json:"start_date" yaml:"start_date"`
	EndDate     string   `json:"end_date" yaml:"end_date"`
	Location    string   `json:"location" yaml:"location"`
	City        string   `json:"city" yaml:"city"`
	Address     string   `json:"address" yaml:"address"`
	EventURL    string   `json:"event_url" yaml:"event_url"`
	ImageURL    string   `json:"image_url" yaml:"image_url"`
	Categories  []string `json:"categories" yaml:"categories"`
	Featured    bool     `json:"featured" yaml:"featured"`

	// OriginalData is the unmodified source record.
	OriginalData RawEvent `json:"original_data" yaml:"original_data"`

	// ProcessedAt is the processing timestamp (ISO-8601), not event time.
	ProcessedAt string `json:"processed_at" yaml:"processed_at"`
}

// EnrichedEvent extends NormalizedEvent with derived attributes computed
// by the enrichment chain.
type EnrichedEvent struct {
	NormalizedEvent `yaml:",inline"`

	// EventID is "event_{sequence:05d}_{hash(title)%10000:04d}". It is
	// deterministic given title and batch position but not globally
	// unique: repeated titles and hash collisions can collide.
	EventID string `json:"event_id" yaml:"event_id"`

	// DaysUntilEvent is the whole days from today to the start date.
	// Negative for past dates; 0 when the start date does not parse.
	DaysUntilEvent int  `json:"days_until_event" yaml:"days_until_event"`
	IsUpcoming     bool `json:"is_upcoming" yaml:"is_upcoming"`

	// Borough is the resolved borough or region tag, "Other" if unmatched.
	Borough string `json:"borough" yaml:"borough"`

	// QualityScore is a weighted completeness score capped at 5.0.
	QualityScore float64 `json:"quality_score" yaml:"quality_score"`

	Season          string `json:"season" yaml:"season"`
	PrimaryCategory string `json:"primary_category" yaml:"primary_category"`
	IsPriority      bool   `json:"is_priority" yaml:"is_priority"`

	// IncludeInExport gates whether the record leaves the pipeline.
	IncludeInExport bool `json:"include_in_export" yaml:"include_in_export"`

	// ExclusionReason explains IncludeInExport=false, empty otherwise.
	ExclusionReason string `json:"exclusion_reason,omitempty" yaml:"exclusion_reason,omitempty"`
}

// SkippedEvent records a raw event that did not make it through
// transformation, either because a business rule excluded it or because
// processing failed.
type SkippedEvent struct {
	Event  RawEvent `json:"original" yaml:"original"`
	Index  int      `json:"index" yaml:"index"`
	Reason string   `json:"error" yaml:"error"`
}

// BusinessMetrics aggregates batch-level figures over transformed events.
type BusinessMetrics struct {
	TotalEvents    int            `json:"total_events" yaml:"total_events"`
	FeaturedCount  int            `json:"featured_count" yaml:"featured_count"`
	ByBorough      map[string]int `json:"by_borough" yaml:"by_borough"`
	ByCategory     map[string]int `json:"by_category" yaml:"by_category"`
	AverageQuality float64        `json:"average_quality" yaml:"average_quality"`
}

// TransformMetadata describes one transformation run.
type TransformMetadata struct {
	RunID                   string    `json:"run_id" yaml:"run_id"`
	TotalInput              int       `json:"total_input" yaml:"total_input"`
	SuccessfullyTransformed int       `json:"successfully_transformed" yaml:"successfully_transformed"`
	SkippedCount            int       `json:"skipped_count" yaml:"skipped_count"`
	SuccessRatePercent      float64   `json:"success_rate_percent" yaml:"success_rate_percent"`
	Timestamp               time.Time `json:"timestamp" yaml:"timestamp"`
}

// TransformResult is the bundle handed to exporters.
type TransformResult struct {
	Transformed []EnrichedEvent   `json:"transformed" yaml:"transformed"`
	Skipped     []SkippedEvent    `json:"skipped" yaml:"skipped"`
	Metrics     BusinessMetrics   `json:"business_metrics" yaml:"business_metrics"`
	Metadata    TransformMetadata `json:"transformation_metadata" yaml:"transformation_metadata"`
}
