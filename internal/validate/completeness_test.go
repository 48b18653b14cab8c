// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package validate

import (
	"testing"

	"github.com/pdiddy/nyevents/internal/fields"
	"github.com/pdiddy/nyevents/pkg/types"
)

func TestCompletenessCheck(t *testing.T) {
	c := NewCompletenessChecker(fields.NewExtractor(fields.Config{}))

	event := types.RawEvent{
		"title":       "Harlem Week",
		"date":        "2026-08-01",
		"location":    "Harlem",
		"description": "Annual festival.",
	}
	result := c.Check(event)
	for field, present := range result {
		if !present {
			t.Errorf("field %q reported missing", field)
		}
	}
	if got := c.Summary(result); got != "All required fields present" {
		t.Errorf("Summary = %q", got)
	}
}

func TestCompletenessMissingAndPlaceholders(t *testing.T) {
	c := NewCompletenessChecker(fields.NewExtractor(fields.Config{}))

	event := types.RawEvent{
		"title":    "Harlem Week",
		"date":     "TBD",
		"location": "n/a",
	}
	result := c.Check(event)
	if !result["title"] {
		t.Error("title should be present")
	}
	for _, field := range []string{"date", "location", "description"} {
		if result[field] {
			t.Errorf("field %q should be missing", field)
		}
	}
	if got := c.Summary(result); got != "Missing required fields: date, location, description" {
		t.Errorf("Summary = %q", got)
	}
}

func TestCompletenessAlternateKeys(t *testing.T) {
	c := NewCompletenessChecker(fields.NewExtractor(fields.Config{}))

	event := types.RawEvent{
		"name":    "Night Market",
		"when":    "Ongoing",
		"venue":   "Queens Plaza",
		"summary": "Street food.",
	}
	result := c.Check(event)
	for field, present := range result {
		if !present {
			t.Errorf("field %q should resolve through alternate keys", field)
		}
	}
}
