// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transform

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/pdiddy/nyevents/pkg/types"
)

func testPipeline(rules RuleConfig) *Pipeline {
	return NewPipeline(Config{
		Normalizer: NormalizerConfig{Now: testNow},
		Rules:      rules,
	})
}

func sampleBatch() []types.RawEvent {
	return []types.RawEvent{
		{
			"title":       "Smorgasburg Market",
			"description": "The largest weekly open-air food market in America.",
			"date":        "2026-06-06",
			"location":    "East River State Park, Williamsburg",
			"featured":    true,
			"categories":  []any{map[string]any{"catName": "Food & Drink"}},
		},
		{
			"title":       "Bronx Night Market",
			"description": "Food vendors and live music.",
			"date":        "2026-06-27",
			"location":    "Fordham Plaza, Bronx",
		},
	}
}

func TestTransformBatch(t *testing.T) {
	result, err := testPipeline(RuleConfig{}).TransformBatch(
		context.Background(), sampleBatch(), io.Discard)
	if err != nil {
		t.Fatalf("TransformBatch: %v", err)
	}

	if len(result.Transformed) != 2 || len(result.Skipped) != 0 {
		t.Fatalf("transformed/skipped = %d/%d", len(result.Transformed), len(result.Skipped))
	}

	first := result.Transformed[0]
	if first.PrimaryCategory != "Food & Drink" {
		t.Errorf("PrimaryCategory = %q", first.PrimaryCategory)
	}
	if first.Borough != "Brooklyn" || result.Transformed[1].Borough != "Bronx" {
		t.Errorf("boroughs = %q, %q", first.Borough, result.Transformed[1].Borough)
	}
	if !first.IsPriority { // featured flag
		t.Error("featured event should be priority")
	}

	m := result.Metrics
	if m.TotalEvents != 2 || m.FeaturedCount != 1 {
		t.Errorf("metrics = %+v", m)
	}
	if m.ByBorough["Brooklyn"] != 1 || m.ByBorough["Bronx"] != 1 {
		t.Errorf("ByBorough = %v", m.ByBorough)
	}
	if m.AverageQuality <= 0 {
		t.Errorf("AverageQuality = %v", m.AverageQuality)
	}

	meta := result.Metadata
	if meta.TotalInput != 2 || meta.SuccessfullyTransformed != 2 || meta.SuccessRatePercent != 100.0 {
		t.Errorf("metadata = %+v", meta)
	}
	if meta.RunID == "" {
		t.Error("RunID should be set")
	}
}

func TestTransformBatchOrderAndIDs(t *testing.T) {
	events := sampleBatch()
	result, err := testPipeline(RuleConfig{}).TransformBatch(
		context.Background(), events, io.Discard)
	if err != nil {
		t.Fatalf("TransformBatch: %v", err)
	}

	if result.Transformed[0].Title != "Smorgasburg Market" ||
		result.Transformed[1].Title != "Bronx Night Market" {
		t.Error("input order not preserved")
	}

	want0 := EventID(0, "Smorgasburg Market")
	if result.Transformed[0].EventID != want0 {
		t.Errorf("EventID = %q, want %q", result.Transformed[0].EventID, want0)
	}

	// Deterministic given title and position.
	if EventID(3, "Same Title") != EventID(3, "Same Title") {
		t.Error("EventID not deterministic")
	}
	if EventID(3, "Same Title") == EventID(4, "Same Title") {
		t.Error("EventID should encode position")
	}
	if len(EventID(0, "x")) != len("event_00000_0000") {
		t.Errorf("EventID format = %q", EventID(0, "x"))
	}
}

func TestTransformBatchHorizonSkips(t *testing.T) {
	result, err := testPipeline(RuleConfig{MaxFutureDays: 10}).TransformBatch(
		context.Background(), sampleBatch(), io.Discard)
	if err != nil {
		t.Fatalf("TransformBatch: %v", err)
	}

	// The second event is 26 days out, beyond the 10-day horizon.
	if len(result.Transformed) != 1 || len(result.Skipped) != 1 {
		t.Fatalf("transformed/skipped = %d/%d", len(result.Transformed), len(result.Skipped))
	}
	sk := result.Skipped[0]
	if sk.Index != 1 || sk.Reason == "" {
		t.Errorf("skipped = %+v", sk)
	}
	if result.Metadata.SuccessRatePercent != 50.0 {
		t.Errorf("SuccessRatePercent = %v", result.Metadata.SuccessRatePercent)
	}
}

func TestTransformBatchEmptyInput(t *testing.T) {
	result, err := testPipeline(RuleConfig{}).TransformBatch(
		context.Background(), nil, io.Discard)
	if err != nil {
		t.Fatalf("TransformBatch: %v", err)
	}
	if result.Metadata.TotalInput != 0 || result.Metadata.SuccessRatePercent != 0 {
		t.Errorf("metadata = %+v", result.Metadata)
	}
}

func TestTransformBatchCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := testPipeline(RuleConfig{}).TransformBatch(ctx, sampleBatch(), io.Discard)
	if err != context.Canceled {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if len(result.Transformed) != 0 {
		t.Error("no records should be processed after cancellation")
	}
}

func TestEventIDHashBounded(t *testing.T) {
	for i := 0; i < 50; i++ {
		id := EventID(i, fmt.Sprintf("Event %d", i))
		var seq, hash int
		if _, err := fmt.Sscanf(id, "event_%05d_%04d", &seq, &hash); err != nil {
			t.Fatalf("id %q does not match format: %v", id, err)
		}
		if seq != i || hash < 0 || hash > 9999 {
			t.Errorf("id %q out of range", id)
		}
	}
}
