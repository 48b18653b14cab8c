// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transform

import (
	"testing"

	"github.com/pdiddy/nyevents/pkg/types"
)

func enrichedWith(title, description string, categories ...string) types.EnrichedEvent {
	return types.EnrichedEvent{
		NormalizedEvent: types.NormalizedEvent{
			Title:       title,
			Description: description,
			Categories:  categories,
		},
	}
}

func TestCategorizeStructuredWins(t *testing.T) {
	c := NewCategorizer(CategorizerConfig{})

	ev := enrichedWith("Jazz Brunch", "Live music and food", "Food & Drink", "Music")
	if got := c.Categorize(ev); got != "Food & Drink" {
		t.Errorf("Categorize = %q, want first structured category", got)
	}
}

func TestCategorizeDirectMap(t *testing.T) {
	c := NewCategorizer(CategorizerConfig{})

	tests := []struct {
		title string
		want  string
	}{
		{"Broadway theater tonight", "Theater"},
		{"Comedy on the pier", "Comedy"},
		{"Wellness retreat weekend", "Wellness"},
	}
	for _, tt := range tests {
		if got := c.Categorize(enrichedWith(tt.title, "")); got != tt.want {
			t.Errorf("Categorize(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestCategorizeKeywordScoring(t *testing.T) {
	c := NewCategorizer(CategorizerConfig{})

	// No direct-map word; "gallery" and "exhibit" both score Arts & Culture.
	ev := enrichedWith("Gallery opening", "New exhibit of local painters")
	if got := c.Categorize(ev); got != "Arts & Culture" {
		t.Errorf("Categorize = %q, want Arts & Culture", got)
	}

	// Tie between Music (jazz) and Theater (play): first-declared wins.
	ev = enrichedWith("An evening of jazz", "followed by a short play")
	if got := c.Categorize(ev); got != "Music" {
		t.Errorf("tie-break Categorize = %q, want Music", got)
	}
}

func TestCategorizeDefault(t *testing.T) {
	c := NewCategorizer(CategorizerConfig{})
	if got := c.Categorize(enrichedWith("Community meetup", "Bring a friend")); got != "General" {
		t.Errorf("Categorize = %q, want General", got)
	}
}
