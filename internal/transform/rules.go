// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transform

import (
	"fmt"
	"strings"

	"github.com/pdiddy/nyevents/pkg/types"
)

// defaultPriorityKeywords flag events worth surfacing first.
var defaultPriorityKeywords = []string{"featured", "premium", "vip", "exclusive"}

// RuleConfig holds the business-rule settings.
type RuleConfig struct {
	// PriorityKeywords overrides the priority keyword list; nil selects
	// the default.
	PriorityKeywords []string

	// MaxFutureDays, when positive, excludes events further out than
	// this horizon from the export.
	MaxFutureDays int
}

// RuleApplier tags priority and export-inclusion attributes.
type RuleApplier struct {
	keywords      []string
	maxFutureDays int
}

// NewRuleApplier builds a RuleApplier from cfg.
func NewRuleApplier(cfg RuleConfig) *RuleApplier {
	if cfg.PriorityKeywords == nil {
		cfg.PriorityKeywords = defaultPriorityKeywords
	}
	return &RuleApplier{keywords: cfg.PriorityKeywords, maxFutureDays: cfg.MaxFutureDays}
}

// Apply sets IsPriority, IncludeInExport, and ExclusionReason on ev.
func (r *RuleApplier) Apply(ev *types.EnrichedEvent) {
	ev.IsPriority = ev.Featured || r.keywordHit(ev)

	ev.IncludeInExport = true
	ev.ExclusionReason = ""
	if r.maxFutureDays > 0 && ev.DaysUntilEvent > r.maxFutureDays {
		ev.IncludeInExport = false
		ev.ExclusionReason = fmt.Sprintf("event is %d days out, beyond the %d-day horizon", ev.DaysUntilEvent, r.maxFutureDays)
	}
}

func (r *RuleApplier) keywordHit(ev *types.EnrichedEvent) bool {
	text := strings.ToLower(ev.Title + " " + ev.Description)
	for _, kw := range r.keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
