// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transform

import (
	"strings"

	"github.com/pdiddy/nyevents/pkg/types"
)

// CategoryRule scores one canonical category by keyword hits. Rules are
// ordered so ties resolve to the first-declared category.
type CategoryRule struct {
	Category string
	Keywords []string
}

// DefaultCategoryRules returns the scored canonical category set.
func DefaultCategoryRules() []CategoryRule {
	return []CategoryRule{
		{"Music", []string{"music", "concert", "band", "orchestra", "jazz", "dj", "symphony"}},
		{"Arts & Culture", []string{"art", "gallery", "exhibit", "museum", "culture", "heritage"}},
		{"Food & Drink", []string{"food", "wine", "beer", "tasting", "restaurant", "culinary", "brunch"}},
		{"Theater", []string{"theater", "theatre", "broadway", "play", "musical"}},
		{"Sports", []string{"sports", "game", "race", "marathon", "match", "tournament"}},
		{"Family", []string{"family", "kids", "children", "all ages"}},
		{"Outdoor", []string{"outdoor", "park", "hike", "nature", "garden", "trail"}},
		{"Festivals", []string{"festival", "fair", "parade", "celebration"}},
	}
}

// DefaultDirectCategories returns the lowercase keyword to canonical
// category map applied before scoring. It covers the single-word type
// labels some upstream records carry.
func DefaultDirectCategories() map[string]string {
	return map[string]string{
		"music":     "Music",
		"concert":   "Music",
		"art":       "Arts & Culture",
		"museum":    "Museums",
		"food":      "Food & Drink",
		"dining":    "Food & Drink",
		"sports":    "Sports",
		"theater":   "Theater",
		"theatre":   "Theater",
		"comedy":    "Comedy",
		"dance":     "Dance",
		"family":    "Family",
		"outdoor":   "Outdoor",
		"festival":  "Festivals",
		"nightlife": "Nightlife",
		"shopping":  "Shopping",
		"tour":      "Tours",
		"wellness":  "Wellness",
	}
}

// CategorizerConfig overrides the category tables. Nil selects defaults.
type CategorizerConfig struct {
	Direct map[string]string
	Scored []CategoryRule
}

// Categorizer assigns a primary category to an enriched event.
type Categorizer struct {
	direct map[string]string
	scored []CategoryRule
}

// NewCategorizer builds a Categorizer from cfg.
func NewCategorizer(cfg CategorizerConfig) *Categorizer {
	if cfg.Direct == nil {
		cfg.Direct = DefaultDirectCategories()
	}
	if cfg.Scored == nil {
		cfg.Scored = DefaultCategoryRules()
	}
	return &Categorizer{direct: cfg.Direct, scored: cfg.Scored}
}

// Categorize resolves the primary category: structured category names
// win verbatim, then the direct keyword map, then keyword scoring, then
// "General".
func (c *Categorizer) Categorize(ev types.EnrichedEvent) string {
	if len(ev.Categories) > 0 {
		return ev.Categories[0]
	}

	text := strings.ToLower(ev.Title + " " + ev.Description)
	for _, word := range strings.Fields(text) {
		if cat, ok := c.direct[strings.Trim(word, ".,!?:;()")]; ok {
			return cat
		}
	}

	best := ""
	bestScore := 0
	for _, rule := range c.scored {
		score := 0
		for _, kw := range rule.Keywords {
			if strings.Contains(text, kw) {
				score++
			}
		}
		if score > bestScore {
			best = rule.Category
			bestScore = score
		}
	}
	if best == "" {
		return "General"
	}
	return best
}
