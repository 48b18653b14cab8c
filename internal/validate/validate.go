// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package validate decides which raw event records are admissible.
//
// A record is admitted when its date is today or later, its location
// resolves to the NY metro region, every required field is present, and
// it is not a duplicate of an earlier record. Link accessibility is
// probed and recorded for diagnostics but deliberately excluded from
// that conjunction: it matches the replaced system's rule composition,
// and including it would reject records whose venue pages are only
// transiently down.
package validate

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pdiddy/nyevents/internal/fields"
	"github.com/pdiddy/nyevents/pkg/types"
)

// Config assembles the validation stage. Zero values select defaults
// throughout, so tests can override exactly one table.
type Config struct {
	// Fields overrides the candidate-key and placeholder tables.
	Fields fields.Config

	// Region overrides the geographic keyword tables.
	Region RegionConfig

	// SimilarityThreshold overrides the duplicate title threshold.
	SimilarityThreshold float64

	// CheckLinks enables URL reachability probes. When false every
	// record's AccessibleLinks is recorded as true without network I/O.
	CheckLinks bool

	// LinkClient performs reachability probes; it should carry a timeout.
	LinkClient *http.Client

	// Now supplies the clock; nil means time.Now.
	Now func() time.Time
}

// Orchestrator runs the full validation pass over a batch.
type Orchestrator struct {
	dates        *DateValidator
	location     *LocationValidator
	duplicates   *DuplicateDetector
	completeness *CompletenessChecker
	links        *LinkChecker
	checkLinks   bool
}

// New wires the validation predicates from cfg.
func New(cfg Config) *Orchestrator {
	extractor := fields.NewExtractor(cfg.Fields)
	return &Orchestrator{
		dates:        NewDateValidator(extractor, cfg.Now),
		location:     NewLocationValidator(extractor, cfg.Region),
		duplicates:   NewDuplicateDetector(extractor, cfg.SimilarityThreshold),
		completeness: NewCompletenessChecker(extractor),
		links:        NewLinkChecker(extractor, cfg.LinkClient),
		checkLinks:   cfg.CheckLinks,
	}
}

// ValidateBatch validates events in order and returns the full report.
// Duplicate detection runs once over the whole batch before any verdict
// is emitted; it is the one part of validation that cannot stream.
//
// A malformed record never aborts the batch: per-record failures are
// captured into the report's Errors list and the record counts as
// invalid. Cancelling ctx stops between records and returns the report
// built so far along with ctx.Err().
func (o *Orchestrator) ValidateBatch(ctx context.Context, events []types.RawEvent, w io.Writer) (types.ValidationReport, error) {
	var report types.ValidationReport
	report.Duplicates = o.duplicates.Detect(events)

	dupOf := make(map[int]int, len(report.Duplicates))
	for _, p := range report.Duplicates {
		dupOf[p.IndexB] = p.IndexA
	}

	for i, event := range events {
		select {
		case <-ctx.Done():
			o.summarize(&report, len(events))
			return report, ctx.Err()
		default:
		}

		outcome, err := o.validateOne(ctx, i, event, dupOf)
		if err != nil {
			report.Errors = append(report.Errors, types.ValidationError{Index: i, Message: err.Error()})
			outcome = types.ValidationOutcome{
				Event:   event,
				Index:   i,
				Reasons: []string{fmt.Sprintf("validation failed: %v", err)},
			}
		}
		if outcome.Valid {
			report.Valid = append(report.Valid, outcome)
		} else {
			report.Invalid = append(report.Invalid, outcome)
		}
	}

	o.summarize(&report, len(events))
	fmt.Fprintf(w, "validated %d events: %d valid, %d invalid, %d duplicates\n",
		report.Summary.Total, report.Summary.ValidCount,
		report.Summary.InvalidCount, report.Summary.DuplicateCount)
	return report, nil
}

// validateOne evaluates every predicate independently and composes the
// verdict. A panic while picking apart a malformed record is converted
// to an error.
func (o *Orchestrator) validateOne(ctx context.Context, index int, event types.RawEvent, dupOf map[int]int) (outcome types.ValidationOutcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("record %d: %v", index, r)
		}
	}()

	outcome = types.ValidationOutcome{Event: event, Index: index}
	outcome.FutureDate = o.dates.Valid(event)
	outcome.RegionMatch = o.location.Valid(event)
	outcome.Completeness = o.completeness.Check(event)
	if canonical, ok := dupOf[index]; ok {
		outcome.Duplicate = true
		outcome.Reasons = append(outcome.Reasons, fmt.Sprintf("duplicate of event at index %d", canonical))
	}

	outcome.AccessibleLinks = true
	if o.checkLinks {
		outcome.AccessibleLinks = o.links.Accessible(ctx, event)
	}

	complete := true
	for _, present := range outcome.Completeness {
		complete = complete && present
	}

	if !outcome.FutureDate {
		outcome.Reasons = append(outcome.Reasons, "event date is in the past or unparsable")
	}
	if !outcome.RegionMatch {
		outcome.Reasons = append(outcome.Reasons, "location is outside the New York metro area")
	}
	if !complete {
		outcome.Reasons = append(outcome.Reasons, o.completeness.Summary(outcome.Completeness))
	}

	outcome.Valid = outcome.FutureDate && outcome.RegionMatch && complete && !outcome.Duplicate
	if outcome.Valid {
		outcome.Reasons = nil
	}
	return outcome, nil
}

func (o *Orchestrator) summarize(report *types.ValidationReport, total int) {
	report.Summary = types.ValidationSummary{
		Total:          total,
		ValidCount:     len(report.Valid),
		InvalidCount:   len(report.Invalid),
		DuplicateCount: len(report.Duplicates),
	}
	if total > 0 {
		report.Summary.SuccessRate = float64(len(report.Valid)) / float64(total) * 100
	}
}
