// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fields resolves logical fields from raw event records.
//
// Upstream sources disagree on field names: the same start date may
// arrive as "date", "startDate", or "when" depending on which listing
// plugin produced the record. Each logical field therefore carries an
// ordered list of candidate keys, and extraction returns the first
// candidate whose cleaned value is non-empty and not a placeholder.
package fields

import (
	"strings"

	"github.com/pdiddy/nyevents/internal/textutil"
	"github.com/pdiddy/nyevents/pkg/types"
)

// Logical field names understood by the extractor.
const (
	FieldTitle       = "title"
	FieldDate        = "date"
	FieldEndDate     = "end_date"
	FieldLocation    = "location"
	FieldCity        = "city"
	FieldAddress     = "address"
	FieldDescription = "description"
	FieldURL         = "url"
	FieldImage       = "image"
)

// Config overrides the candidate-key and placeholder tables. Zero values
// fall back to the defaults, so tests can override a single table.
type Config struct {
	Candidates   map[string][]string
	Placeholders []string
}

// DefaultCandidates returns the candidate-key table covering the field
// spellings observed across the upstream sources.
func DefaultCandidates() map[string][]string {
	return map[string][]string{
		FieldTitle:       {"title", "name", "event_name"},
		FieldDate:        {"date", "date_start", "start_date", "startDate", "when", "event_date", "nextDate"},
		FieldEndDate:     {"end_date", "endDate", "date_end"},
		FieldLocation:    {"location", "venue", "where", "address"},
		FieldCity:        {"city", "town"},
		FieldAddress:     {"address", "address1", "street_address"},
		FieldDescription: {"description", "summary", "details", "about"},
		FieldURL:         {"url", "link", "event_url", "website", "detailURL", "linkUrl"},
		FieldImage:       {"image", "image_url", "imageUrl", "photo"},
	}
}

// DefaultPlaceholders returns the tokens treated as semantically empty.
func DefaultPlaceholders() []string {
	return []string{"", "n/a", "tbd", "unknown", "null", "none"}
}

// Extractor looks up logical fields in raw records.
type Extractor struct {
	candidates   map[string][]string
	placeholders map[string]struct{}
}

// NewExtractor builds an Extractor from cfg, filling defaults for any
// table left nil.
func NewExtractor(cfg Config) *Extractor {
	candidates := cfg.Candidates
	if candidates == nil {
		candidates = DefaultCandidates()
	}
	tokens := cfg.Placeholders
	if tokens == nil {
		tokens = DefaultPlaceholders()
	}
	placeholders := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		placeholders[strings.ToLower(tok)] = struct{}{}
	}
	return &Extractor{candidates: candidates, placeholders: placeholders}
}

// Lookup resolves field in event. It returns the cleaned text of the
// first qualifying candidate and true, or ("", false) when no candidate
// holds a usable value. Missing fields are an expected condition, never
// an error.
func (e *Extractor) Lookup(event types.RawEvent, field string) (string, bool) {
	for _, key := range e.candidates[field] {
		raw, ok := event[key]
		if !ok {
			continue
		}
		text := textutil.CleanValue(raw)
		if e.IsPlaceholder(text) {
			continue
		}
		return text, true
	}
	return "", false
}

// LookupRaw returns the first candidate value present in the record
// without cleaning, for fields whose values are structured (lists,
// nested mappings).
func (e *Extractor) LookupRaw(event types.RawEvent, field string) (any, bool) {
	for _, key := range e.candidates[field] {
		if raw, ok := event[key]; ok && raw != nil {
			return raw, true
		}
	}
	return nil, false
}

// Candidates returns the candidate keys for a logical field.
func (e *Extractor) Candidates(field string) []string {
	return e.candidates[field]
}

// IsPlaceholder reports whether text is semantically empty.
func (e *Extractor) IsPlaceholder(text string) bool {
	_, ok := e.placeholders[strings.ToLower(strings.TrimSpace(text))]
	return ok
}
