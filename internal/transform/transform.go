// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transform

import (
	"context"
	"fmt"
	"hash/fnv"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/nyevents/pkg/types"
)

// Config assembles the transformation stage.
type Config struct {
	Normalizer  NormalizerConfig
	Categorizer CategorizerConfig
	Rules       RuleConfig
}

// Pipeline runs the normalize → categorize → business-rules chain over
// admitted records and aggregates batch metrics.
type Pipeline struct {
	normalizer  *Normalizer
	categorizer *Categorizer
	rules       *RuleApplier
	now         func() time.Time
}

// NewPipeline wires the transformation steps from cfg.
func NewPipeline(cfg Config) *Pipeline {
	n := NewNormalizer(cfg.Normalizer)
	return &Pipeline{
		normalizer:  n,
		categorizer: NewCategorizer(cfg.Categorizer),
		rules:       NewRuleApplier(cfg.Rules),
		now:         n.now,
	}
}

// TransformBatch processes events sequentially, preserving input order:
// the event id encodes batch position, so reordering would change ids.
//
// One bad record never aborts the batch; a per-record failure routes the
// raw record with its error text into Skipped and processing continues.
// Cancelling ctx stops between records with the result built so far and
// ctx.Err().
func (p *Pipeline) TransformBatch(ctx context.Context, events []types.RawEvent, w io.Writer) (types.TransformResult, error) {
	result := types.TransformResult{}

	for i, event := range events {
		select {
		case <-ctx.Done():
			p.finish(&result, len(events))
			return result, ctx.Err()
		default:
		}

		enriched, err := p.transformOne(i, event)
		if err != nil {
			fmt.Fprintf(w, "warning: event %d failed transformation: %v\n", i, err)
			result.Skipped = append(result.Skipped, types.SkippedEvent{
				Event:  event,
				Index:  i,
				Reason: err.Error(),
			})
			continue
		}
		if !enriched.IncludeInExport {
			result.Skipped = append(result.Skipped, types.SkippedEvent{
				Event:  event,
				Index:  i,
				Reason: enriched.ExclusionReason,
			})
			continue
		}
		result.Transformed = append(result.Transformed, enriched)
	}

	p.finish(&result, len(events))
	fmt.Fprintf(w, "transformed %d of %d events (%d skipped)\n",
		len(result.Transformed), len(events), len(result.Skipped))
	return result, nil
}

// transformOne runs the enrichment chain for a single record. A panic
// on a malformed record is converted to an error for the skipped list.
func (p *Pipeline) transformOne(index int, event types.RawEvent) (enriched types.EnrichedEvent, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()

	enriched = p.normalizer.Enrich(p.normalizer.Normalize(event))
	enriched.PrimaryCategory = p.categorizer.Categorize(enriched)
	p.rules.Apply(&enriched)
	enriched.EventID = EventID(index, enriched.Title)
	return enriched, nil
}

// EventID derives the stable identifier "event_{seq:05d}_{hash:04d}"
// from batch position and title. It is deterministic but not globally
// unique: the hash is bounded and repeated titles at the same position
// across batches collide.
func EventID(sequence int, title string) string {
	h := fnv.New32a()
	h.Write([]byte(title))
	return fmt.Sprintf("event_%05d_%04d", sequence, h.Sum32()%10000)
}

// finish computes batch metrics and metadata.
func (p *Pipeline) finish(result *types.TransformResult, totalInput int) {
	metrics := types.BusinessMetrics{
		TotalEvents: len(result.Transformed),
		ByBorough:   make(map[string]int),
		ByCategory:  make(map[string]int),
	}
	qualitySum := 0.0
	for _, ev := range result.Transformed {
		if ev.Featured {
			metrics.FeaturedCount++
		}
		metrics.ByBorough[ev.Borough]++
		metrics.ByCategory[ev.PrimaryCategory]++
		qualitySum += ev.QualityScore
	}
	if len(result.Transformed) > 0 {
		metrics.AverageQuality = qualitySum / float64(len(result.Transformed))
	}
	result.Metrics = metrics

	meta := types.TransformMetadata{
		RunID:                   uuid.NewString(),
		TotalInput:              totalInput,
		SuccessfullyTransformed: len(result.Transformed),
		SkippedCount:            len(result.Skipped),
		Timestamp:               p.now().UTC(),
	}
	if totalInput > 0 {
		meta.SuccessRatePercent = float64(len(result.Transformed)) / float64(totalInput) * 100
	}
	result.Metadata = meta
}
