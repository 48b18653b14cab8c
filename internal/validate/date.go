// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package validate

import (
	"regexp"
	"strings"
	"time"

	"github.com/pdiddy/nyevents/internal/fields"
	"github.com/pdiddy/nyevents/internal/textutil"
	"github.com/pdiddy/nyevents/pkg/types"
)

// relativePhrases mark an event as currently running without naming a
// date ("Ongoing", "Now open"). Substring match, so they only apply to
// text that contains no parsable date at all: "Now Through Nov 16" must
// be judged by its end date, not by "now".
var relativePhrases = []string{"now", "ongoing", "current", "today"}

// monthName matches full or abbreviated English month names.
const monthName = `(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?`

// datePatterns pairs a regexp with the time layouts used to parse its
// capture. Patterns are tried in order; within a pattern the last
// occurrence in the text wins, so ranged text ("June 1 through June 30")
// is judged by its end date.
var datePatterns = []struct {
	re      *regexp.Regexp
	layouts []string
}{
	{
		re:      regexp.MustCompile(`(?i)(?:through|until|ending)\s+(` + monthName + `\s+\d{1,2},?\s+\d{4})`),
		layouts: []string{"January 2, 2006", "Jan 2, 2006", "January 2 2006", "Jan 2 2006"},
	},
	{
		re:      regexp.MustCompile(`(?i)\b(` + monthName + `\s+\d{1,2},?\s+\d{4})`),
		layouts: []string{"January 2, 2006", "Jan 2, 2006", "January 2 2006", "Jan 2 2006"},
	},
	{
		re:      regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})`),
		layouts: []string{"2006-01-02"},
	},
	{
		re:      regexp.MustCompile(`\b(\d{1,2}/\d{1,2}/\d{4})`),
		layouts: []string{"1/2/2006"},
	},
	{
		re:      regexp.MustCompile(`(?i)\b(\d{1,2}\s+` + monthName + `\s+\d{4})`),
		layouts: []string{"2 January 2006", "2 Jan 2006"},
	},
}

// DateValidator judges whether an event's date, extracted from loosely
// formatted text, is today or later. It is a best-effort heuristic over
// free text, not a general date parser; ambiguous day/month orders are
// read US-style.
type DateValidator struct {
	fields *fields.Extractor
	now    func() time.Time
}

// NewDateValidator builds a DateValidator. now may be nil for wall-clock
// time; tests inject a fixed clock.
func NewDateValidator(extractor *fields.Extractor, now func() time.Time) *DateValidator {
	if now == nil {
		now = time.Now
	}
	return &DateValidator{fields: extractor, now: now}
}

// Valid reports whether any date-field candidate yields a date on or
// after today. Same-day events count. Fields whose text holds no
// parsable date but contains a relative-validity phrase ("ongoing")
// validate immediately.
func (v *DateValidator) Valid(event types.RawEvent) bool {
	today := dateOnly(v.now())
	for _, key := range v.fields.Candidates(fields.FieldDate) {
		raw, ok := event[key]
		if !ok {
			continue
		}
		text, ok := cleanCandidate(v.fields, raw)
		if !ok {
			continue
		}

		if d, ok := parseEventDate(text); ok {
			if !d.Before(today) {
				return true
			}
			continue
		}

		lower := strings.ToLower(text)
		for _, phrase := range relativePhrases {
			if strings.Contains(lower, phrase) {
				return true
			}
		}
	}
	return false
}

// parseEventDate extracts the governing date from free text, preferring
// the last occurrence of the first pattern that matches.
func parseEventDate(text string) (time.Time, bool) {
	for _, p := range datePatterns {
		matches := p.re.FindAllStringSubmatch(text, -1)
		if len(matches) == 0 {
			continue
		}
		capture := strings.Join(strings.Fields(strings.ReplaceAll(matches[len(matches)-1][1], ".", "")), " ")
		for _, layout := range p.layouts {
			if d, err := time.Parse(layout, capture); err == nil {
				return d, true
			}
		}
	}
	return time.Time{}, false
}

// cleanCandidate normalizes a raw candidate value, rejecting
// placeholders.
func cleanCandidate(e *fields.Extractor, raw any) (string, bool) {
	text := textutil.CleanValue(raw)
	if e.IsPlaceholder(text) {
		return "", false
	}
	return text, true
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
