// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package validate

import (
	"strings"

	"github.com/pdiddy/nyevents/internal/fields"
	"github.com/pdiddy/nyevents/internal/textutil"
	"github.com/pdiddy/nyevents/pkg/types"
)

// RegionConfig holds the geographic keyword tables. Zero-value tables
// fall back to the defaults, keeping the tables injectable per test.
type RegionConfig struct {
	// CoreKeywords are city and borough names plus well-known landmarks
	// and neighborhoods.
	CoreKeywords []string

	// MetroKeywords are surrounding metro-area names treated as in scope.
	MetroKeywords []string

	// RegionCodes is the allow-list matched against a structured region
	// sub-object when the record carries one.
	RegionCodes []string
}

// DefaultRegionConfig returns the NY metro tables.
func DefaultRegionConfig() RegionConfig {
	return RegionConfig{
		CoreKeywords: []string{
			"manhattan", "brooklyn", "queens", "bronx", "staten island",
			"nyc", "new york city",
			"harlem", "times square", "central park", "coney island",
			"williamsburg", "soho", "tribeca", "chelsea", "greenwich village",
			"east village", "lower east side", "upper east side",
			"upper west side", "midtown", "astoria", "flushing",
			"long island city", "dumbo", "rockaway",
		},
		MetroKeywords: []string{
			"hudson valley", "long island", "westchester", "white plains",
			"yonkers", "new rochelle", "nassau county", "suffolk county",
			"rockland", "putnam county",
		},
		RegionCodes: []string{
			"new york city", "hudson valley", "long island",
		},
	}
}

// LocationValidator decides whether an event's location text refers to
// the target metro region.
type LocationValidator struct {
	fields *fields.Extractor
	cfg    RegionConfig
}

// NewLocationValidator builds a LocationValidator, filling default
// keyword tables for any left nil in cfg.
func NewLocationValidator(extractor *fields.Extractor, cfg RegionConfig) *LocationValidator {
	defaults := DefaultRegionConfig()
	if cfg.CoreKeywords == nil {
		cfg.CoreKeywords = defaults.CoreKeywords
	}
	if cfg.MetroKeywords == nil {
		cfg.MetroKeywords = defaults.MetroKeywords
	}
	if cfg.RegionCodes == nil {
		cfg.RegionCodes = defaults.RegionCodes
	}
	return &LocationValidator{fields: extractor, cfg: cfg}
}

// Valid reports whether the event is in the metro region. A structured
// region code wins outright; otherwise the location-field candidates are
// scanned for keyword membership.
func (v *LocationValidator) Valid(event types.RawEvent) bool {
	if v.regionCodeMatch(event) {
		return true
	}
	for _, key := range v.fields.Candidates(fields.FieldLocation) {
		raw, ok := event[key]
		if !ok {
			continue
		}
		text, ok := cleanCandidate(v.fields, raw)
		if !ok {
			continue
		}
		if v.textMatch(strings.ToLower(text)) {
			return true
		}
	}
	return false
}

// regionCodeMatch checks the structured region sub-object some upstream
// records carry (listing.region or a top-level region).
func (v *LocationValidator) regionCodeMatch(event types.RawEvent) bool {
	code := regionCode(event)
	if code == "" {
		return false
	}
	code = strings.ToLower(code)
	for _, allow := range v.cfg.RegionCodes {
		if code == allow {
			return true
		}
	}
	return false
}

func regionCode(event types.RawEvent) string {
	if listing, ok := event["listing"].(map[string]any); ok {
		if code := textutil.CleanValue(listing["region"]); code != "" {
			return code
		}
	}
	return textutil.CleanValue(event["region"])
}

// textMatch applies the keyword tables plus the "new york" + state-cue
// combination rule to lowercased text.
func (v *LocationValidator) textMatch(text string) bool {
	for _, kw := range v.cfg.CoreKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	for _, kw := range v.cfg.MetroKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	// Bare "new york" is ambiguous (state vs. city); require a state
	// abbreviation cue alongside it.
	if strings.Contains(text, "new york") {
		for _, cue := range []string{", ny", "ny ", "new york,"} {
			if strings.Contains(text, cue) {
				return true
			}
		}
	}
	return false
}
