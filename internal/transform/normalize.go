// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package transform reshapes admitted raw events into the canonical
// export schema and enriches them with derived fields.
package transform

import (
	"strings"
	"time"

	"github.com/pdiddy/nyevents/internal/fields"
	"github.com/pdiddy/nyevents/internal/textutil"
	"github.com/pdiddy/nyevents/pkg/types"
)

// qualityCap bounds the quality score. The weight table sums to 6, so
// the cap is reachable and observable.
const qualityCap = 5.0

// fullDescriptionLen is the description length granted full quality credit.
const fullDescriptionLen = 50

// BoroughRule maps location keywords to a borough tag. Rules are ordered;
// the first hit wins.
type BoroughRule struct {
	Borough  string
	Keywords []string
}

// DefaultBoroughRules returns the keyword-to-borough table.
func DefaultBoroughRules() []BoroughRule {
	return []BoroughRule{
		{"Manhattan", []string{"manhattan", "harlem", "times square", "midtown", "soho", "tribeca", "chelsea", "greenwich village", "east village", "lower east side", "upper east side", "upper west side", "wall street"}},
		{"Brooklyn", []string{"brooklyn", "williamsburg", "dumbo", "coney island", "park slope", "bushwick", "greenpoint"}},
		{"Queens", []string{"queens", "astoria", "flushing", "long island city", "jamaica", "rockaway"}},
		{"Bronx", []string{"bronx", "yankee stadium", "fordham"}},
		{"Staten Island", []string{"staten island", "st. george"}},
	}
}

// SeasonRule maps content keywords to a season tag, first hit wins.
type SeasonRule struct {
	Season   string
	Keywords []string
}

// DefaultSeasonRules returns the season keyword table.
func DefaultSeasonRules() []SeasonRule {
	return []SeasonRule{
		{"Winter", []string{"winter", "holiday", "christmas", "hanukkah", "ice skating", "snow", "december", "january", "february"}},
		{"Spring", []string{"spring", "bloom", "blossom", "easter", "march", "april", "may"}},
		{"Summer", []string{"summer", "beach", "rooftop", "june", "july", "august"}},
		{"Fall", []string{"fall", "autumn", "harvest", "halloween", "oktoberfest", "september", "october", "november"}},
	}
}

// NormalizerConfig overrides the enrichment tables. Nil slices select
// defaults.
type NormalizerConfig struct {
	Fields       fields.Config
	BoroughRules []BoroughRule
	SeasonRules  []SeasonRule
	Now          func() time.Time
}

// Normalizer turns raw records into NormalizedEvents and computes the
// derived enrichment fields. It performs no I/O.
type Normalizer struct {
	fields   *fields.Extractor
	boroughs []BoroughRule
	seasons  []SeasonRule
	now      func() time.Time
}

// NewNormalizer builds a Normalizer, filling defaults for anything left
// unset in cfg.
func NewNormalizer(cfg NormalizerConfig) *Normalizer {
	if cfg.BoroughRules == nil {
		cfg.BoroughRules = DefaultBoroughRules()
	}
	if cfg.SeasonRules == nil {
		cfg.SeasonRules = DefaultSeasonRules()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Normalizer{
		fields:   fields.NewExtractor(cfg.Fields),
		boroughs: cfg.BoroughRules,
		seasons:  cfg.SeasonRules,
		now:      cfg.Now,
	}
}

// Normalize builds the canonical record from a raw event. The raw event
// is preserved untouched under OriginalData.
func (n *Normalizer) Normalize(event types.RawEvent) types.NormalizedEvent {
	get := func(field string) string {
		v, _ := n.fields.Lookup(event, field)
		return v
	}
	return types.NormalizedEvent{
		Title:        get(fields.FieldTitle),
		Description:  get(fields.FieldDescription),
		StartDate:    get(fields.FieldDate),
		EndDate:      get(fields.FieldEndDate),
		Location:     get(fields.FieldLocation),
		City:         get(fields.FieldCity),
		Address:      get(fields.FieldAddress),
		EventURL:     get(fields.FieldURL),
		ImageURL:     get(fields.FieldImage),
		Categories:   n.categoryNames(event),
		Featured:     isTruthy(event["featured"]),
		OriginalData: event,
		ProcessedAt:  n.now().UTC().Format(time.RFC3339),
	}
}

// Enrich computes the derived fields on a normalized record.
func (n *Normalizer) Enrich(ev types.NormalizedEvent) types.EnrichedEvent {
	out := types.EnrichedEvent{NormalizedEvent: ev}
	out.DaysUntilEvent = n.daysUntil(ev.StartDate)
	out.IsUpcoming = out.DaysUntilEvent >= 0
	out.Borough = n.borough(ev)
	out.QualityScore = qualityScore(ev)
	out.Season = n.season(ev)
	return out
}

// daysUntil is the whole days from today to the start date. Unparsable
// dates yield 0; that default hides parse failures and is accepted as a
// known limitation rather than fabricating a validity signal.
func (n *Normalizer) daysUntil(startDate string) int {
	d, ok := parseISODate(startDate)
	if !ok {
		return 0
	}
	today := n.now().UTC().Truncate(24 * time.Hour)
	start := d.UTC().Truncate(24 * time.Hour)
	return int(start.Sub(today).Hours() / 24)
}

// parseISODate reads an ISO-8601 date or timestamp, tolerating a literal
// trailing "Z" on a fractional timestamp as the upstream API emits.
func parseISODate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02T15:04:05.000Z",
		"2006-01-02T15:04:05",
		"2006-01-02",
	} {
		if d, err := time.Parse(layout, strings.TrimSuffix(s, "Z")); err == nil {
			return d, true
		}
		if d, err := time.Parse(layout, s); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

// borough resolves the borough tag from city plus location text.
func (n *Normalizer) borough(ev types.NormalizedEvent) string {
	text := strings.ToLower(ev.City + " " + ev.Location + " " + ev.Address)
	for _, rule := range n.boroughs {
		for _, kw := range rule.Keywords {
			if strings.Contains(text, kw) {
				return rule.Borough
			}
		}
	}
	return "Other"
}

// season tags the event by keyword match over title and description.
func (n *Normalizer) season(ev types.NormalizedEvent) string {
	text := strings.ToLower(ev.Title + " " + ev.Description)
	for _, rule := range n.seasons {
		for _, kw := range rule.Keywords {
			if strings.Contains(text, kw) {
				return rule.Season
			}
		}
	}
	return "General"
}

// qualityScore is a weighted completeness measure: +2 for a title, up to
// +2 scaled by description length, +1 for a URL, +1 for featured, capped
// at qualityCap. Monotone in description length up to fullDescriptionLen.
func qualityScore(ev types.NormalizedEvent) float64 {
	score := 0.0
	if ev.Title != "" {
		score += 2
	}
	switch {
	case len(ev.Description) >= fullDescriptionLen:
		score += 2
	case len(ev.Description) > 0:
		score += 1
	}
	if ev.EventURL != "" || ev.ImageURL != "" {
		score += 1
	}
	if ev.Featured {
		score += 1
	}
	if score > qualityCap {
		score = qualityCap
	}
	return score
}

// categoryNames pulls category names out of the upstream list-of-objects
// field ([{catId, catName}, ...]), falling back to a flat string field.
func (n *Normalizer) categoryNames(event types.RawEvent) []string {
	var names []string
	if list, ok := event["categories"].([]any); ok {
		for _, item := range list {
			obj, ok := item.(map[string]any)
			if !ok {
				if name := textutil.CleanValue(item); name != "" {
					names = append(names, name)
				}
				continue
			}
			if name := textutil.CleanValue(obj["catName"]); name != "" {
				names = append(names, name)
			}
		}
	}
	if names == nil {
		if flat := textutil.CleanValue(event["category"]); flat != "" {
			names = append(names, flat)
		}
	}
	return names
}

// isTruthy interprets the loose featured flag the feed uses: booleans,
// numbers, or "true"/"1" strings.
func isTruthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case int:
		return t != 0
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		return s == "true" || s == "1" || s == "yes"
	default:
		return false
	}
}
