// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package validate

import (
	"strings"

	"github.com/pdiddy/nyevents/internal/fields"
	"github.com/pdiddy/nyevents/pkg/types"
)

// defaultSimilarityThreshold is the word-overlap ratio above which two
// titles with matching date and location count as the same event.
const defaultSimilarityThreshold = 0.8

// DuplicateDetector finds event pairs that describe the same event.
//
// The scan is a single O(n²) pairwise pass with consumption: once an
// index is paired as the copy (IndexB) it is removed from all further
// comparison, while the canonical index stays eligible and may fan out
// over several copies. Canonical choice therefore follows input order,
// and suppression across a chain of three near-duplicates is pairwise
// only, never transitive.
type DuplicateDetector struct {
	fields    *fields.Extractor
	threshold float64
}

// NewDuplicateDetector builds a detector. threshold <= 0 selects the
// default of 0.8.
func NewDuplicateDetector(extractor *fields.Extractor, threshold float64) *DuplicateDetector {
	if threshold <= 0 {
		threshold = defaultSimilarityThreshold
	}
	return &DuplicateDetector{fields: extractor, threshold: threshold}
}

// dupKey is the normalized comparison material for one record.
type dupKey struct {
	title    string
	tokens   map[string]struct{}
	date     string
	location string
}

// Detect scans events in order and returns the duplicate pairs found.
// Records whose title normalizes to empty are not comparable and never
// participate, on either side of a pair.
func (d *DuplicateDetector) Detect(events []types.RawEvent) []types.DuplicatePair {
	keys := make([]dupKey, len(events))
	for i, ev := range events {
		keys[i] = d.keyFor(ev)
	}

	consumed := make([]bool, len(events))
	var pairs []types.DuplicatePair

	for i := range events {
		if consumed[i] || keys[i].title == "" {
			continue
		}
		for j := i + 1; j < len(events); j++ {
			if consumed[j] || keys[j].title == "" {
				continue
			}
			score, reasons := d.match(keys[i], keys[j])
			if reasons == nil {
				continue
			}
			consumed[j] = true
			pairs = append(pairs, types.DuplicatePair{
				IndexA:     i,
				IndexB:     j,
				Similarity: score,
				Reasons:    reasons,
			})
		}
	}
	return pairs
}

// match applies the three duplicate rules and returns the similarity
// score plus the matched reasons, or (score, nil) when a and b are
// distinct events.
func (d *DuplicateDetector) match(a, b dupKey) (float64, []types.MatchReason) {
	score := overlapRatio(a.tokens, b.tokens)
	exact := a.title == b.title
	sameDate := a.date != "" && a.date == b.date
	sameLocation := a.location != "" && a.location == b.location
	bothUndated := a.date == "" && b.date == ""

	duplicate := (exact && (sameDate || sameLocation)) ||
		(score > d.threshold && sameDate && sameLocation) ||
		(exact && bothUndated)
	if !duplicate {
		return score, nil
	}

	var reasons []types.MatchReason
	if exact {
		reasons = append(reasons, types.MatchExactTitle)
	} else if score > d.threshold {
		reasons = append(reasons, types.MatchSimilarTitle)
	}
	if sameDate {
		reasons = append(reasons, types.MatchSameDate)
	}
	if sameLocation {
		reasons = append(reasons, types.MatchSameLocation)
	}
	return score, reasons
}

func (d *DuplicateDetector) keyFor(event types.RawEvent) dupKey {
	title, _ := d.fields.Lookup(event, fields.FieldTitle)
	title = strings.ToLower(title)
	date, _ := d.fields.Lookup(event, fields.FieldDate)
	location, _ := d.fields.Lookup(event, fields.FieldLocation)

	tokens := make(map[string]struct{})
	for _, w := range strings.Fields(title) {
		tokens[w] = struct{}{}
	}
	return dupKey{
		title:    title,
		tokens:   tokens,
		date:     strings.ToLower(date),
		location: strings.ToLower(location),
	}
}

// overlapRatio is intersection-over-union of the two token sets, in [0,1].
func overlapRatio(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for w := range a {
		if _, ok := b[w]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}
