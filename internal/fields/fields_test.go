// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fields

import (
	"testing"

	"github.com/pdiddy/nyevents/pkg/types"
)

func TestLookupCandidateOrder(t *testing.T) {
	e := NewExtractor(Config{})

	event := types.RawEvent{
		"name":  "Fallback Name",
		"title": "Primary Title",
	}
	got, ok := e.Lookup(event, FieldTitle)
	if !ok || got != "Primary Title" {
		t.Errorf("Lookup(title) = %q, %v; want %q, true", got, ok, "Primary Title")
	}

	// First candidate is a placeholder, second should win.
	event = types.RawEvent{
		"title": "TBD",
		"name":  "Real Name",
	}
	got, ok = e.Lookup(event, FieldTitle)
	if !ok || got != "Real Name" {
		t.Errorf("Lookup(title) = %q, %v; want %q, true", got, ok, "Real Name")
	}
}

func TestLookupPlaceholders(t *testing.T) {
	e := NewExtractor(Config{})

	for _, tok := range []string{"", "N/A", "tbd", "Unknown", "null", "NONE", "  n/a  "} {
		event := types.RawEvent{"title": tok}
		if got, ok := e.Lookup(event, FieldTitle); ok {
			t.Errorf("Lookup with placeholder %q = %q, want not found", tok, got)
		}
	}
}

func TestLookupNotFound(t *testing.T) {
	e := NewExtractor(Config{})

	if got, ok := e.Lookup(types.RawEvent{}, FieldDate); ok {
		t.Errorf("Lookup on empty record = %q, want not found", got)
	}
	if got, ok := e.Lookup(types.RawEvent{"unrelated": "x"}, FieldDate); ok {
		t.Errorf("Lookup with no candidates = %q, want not found", got)
	}
}

func TestLookupCleansValues(t *testing.T) {
	e := NewExtractor(Config{})

	event := types.RawEvent{"description": "<p>Live&nbsp;music &amp; food</p>"}
	got, ok := e.Lookup(event, FieldDescription)
	if !ok || got != "Live music & food" {
		t.Errorf("Lookup(description) = %q, %v", got, ok)
	}

	// Numeric values stringify.
	event = types.RawEvent{"date": float64(20261101)}
	got, ok = e.Lookup(event, FieldDate)
	if !ok || got != "20261101" {
		t.Errorf("Lookup(date) = %q, %v", got, ok)
	}
}

func TestLookupRaw(t *testing.T) {
	e := NewExtractor(Config{})

	cats := []any{map[string]any{"catName": "Music"}}
	event := types.RawEvent{"startDate": "2026-10-01", "categories": cats}

	if raw, ok := e.LookupRaw(event, FieldDate); !ok || raw != "2026-10-01" {
		t.Errorf("LookupRaw(date) = %v, %v", raw, ok)
	}
	if _, ok := e.LookupRaw(event, FieldTitle); ok {
		t.Error("LookupRaw(title) should be not found")
	}
}

func TestConfigOverride(t *testing.T) {
	e := NewExtractor(Config{
		Candidates:   map[string][]string{FieldTitle: {"headline"}},
		Placeholders: []string{"", "redacted"},
	})

	event := types.RawEvent{"headline": "Custom", "title": "Ignored"}
	if got, _ := e.Lookup(event, FieldTitle); got != "Custom" {
		t.Errorf("Lookup(title) with override = %q", got)
	}
	if !e.IsPlaceholder("REDACTED") {
		t.Error("override placeholder not recognized")
	}
	// Default placeholder set replaced entirely.
	if e.IsPlaceholder("tbd") {
		t.Error("tbd should not be a placeholder after override")
	}
}
