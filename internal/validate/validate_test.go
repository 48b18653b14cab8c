// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package validate

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pdiddy/nyevents/pkg/types"
)

// fixedNow pins validation to a date well before the test events.
func fixedNow() time.Time {
	return time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
}

func completeEvent(title string) types.RawEvent {
	return types.RawEvent{
		"title":       title,
		"date":        "2026-07-04",
		"location":    "Brooklyn Bridge Park, Brooklyn",
		"description": "Fireworks and food trucks.",
	}
}

func TestValidateBatchConjunction(t *testing.T) {
	base := func() types.RawEvent { return completeEvent("Independence Day Fireworks") }

	tests := []struct {
		name   string
		mutate func(types.RawEvent)
		want   bool
	}{
		{"all good", func(types.RawEvent) {}, true},
		{"past date", func(ev types.RawEvent) { ev["date"] = "2026-01-01" }, false},
		{"wrong region", func(ev types.RawEvent) { ev["location"] = "Boston Common, Boston" }, false},
		{"missing title", func(ev types.RawEvent) { delete(ev, "title") }, false},
		{"placeholder description", func(ev types.RawEvent) { ev["description"] = "N/A" }, false},
		{"missing location", func(ev types.RawEvent) { delete(ev, "location") }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := New(Config{Now: fixedNow})
			ev := base()
			tt.mutate(ev)

			report, err := o.ValidateBatch(context.Background(), []types.RawEvent{ev}, io.Discard)
			if err != nil {
				t.Fatalf("ValidateBatch: %v", err)
			}
			got := report.Summary.ValidCount == 1
			if got != tt.want {
				t.Errorf("valid = %v, want %v (report %+v)", got, tt.want, report.Summary)
			}
		})
	}
}

// A record lacking a title fails completeness and never reaches the
// valid set, whatever the other predicates say.
func TestValidateBatchTitleLoadBearing(t *testing.T) {
	o := New(Config{Now: fixedNow})
	ev := completeEvent("x")
	delete(ev, "title")

	report, err := o.ValidateBatch(context.Background(), []types.RawEvent{ev}, io.Discard)
	if err != nil {
		t.Fatalf("ValidateBatch: %v", err)
	}
	if len(report.Invalid) != 1 {
		t.Fatalf("invalid count = %d, want 1", len(report.Invalid))
	}
	if report.Invalid[0].Completeness["title"] {
		t.Error("title completeness should be false")
	}
}

func TestValidateBatchEndToEnd(t *testing.T) {
	valid := completeEvent("Summer Streets Festival")
	invalid := types.RawEvent{
		"title":       "Orphan Event",
		"date":        "2026-07-10",
		"description": "No location given.",
	}

	report, err := New(Config{Now: fixedNow}).ValidateBatch(
		context.Background(), []types.RawEvent{valid, invalid}, io.Discard)
	if err != nil {
		t.Fatalf("ValidateBatch: %v", err)
	}

	s := report.Summary
	if s.ValidCount != 1 || s.InvalidCount != 1 || s.SuccessRate != 50.0 {
		t.Errorf("summary = %+v, want 1 valid, 1 invalid, 50.0%%", s)
	}
}

func TestValidateBatchDuplicatesSuppressed(t *testing.T) {
	a := completeEvent("Rooftop Cinema Night")
	b := completeEvent("Rooftop Cinema Night")

	report, err := New(Config{Now: fixedNow}).ValidateBatch(
		context.Background(), []types.RawEvent{a, b}, io.Discard)
	if err != nil {
		t.Fatalf("ValidateBatch: %v", err)
	}

	if report.Summary.ValidCount != 1 || report.Summary.DuplicateCount != 1 {
		t.Fatalf("summary = %+v, want 1 valid, 1 duplicate", report.Summary)
	}
	// The consumed copy is index 1; index 0 survives as canonical.
	if !report.Invalid[0].Duplicate || report.Invalid[0].Index != 1 {
		t.Errorf("invalid outcome = %+v, want duplicate at index 1", report.Invalid[0])
	}
}

// Broken links are recorded but do not gate admission.
func TestValidateBatchLinksDoNotGate(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	ev := completeEvent("Gallery Opening")
	ev["url"] = ts.URL

	report, err := New(Config{
		Now:        fixedNow,
		CheckLinks: true,
		LinkClient: ts.Client(),
	}).ValidateBatch(context.Background(), []types.RawEvent{ev}, io.Discard)
	if err != nil {
		t.Fatalf("ValidateBatch: %v", err)
	}

	if report.Summary.ValidCount != 1 {
		t.Fatalf("valid count = %d, want 1", report.Summary.ValidCount)
	}
	if report.Valid[0].AccessibleLinks {
		t.Error("AccessibleLinks should be false for a 500 link")
	}
}

func TestValidateBatchEmptyInput(t *testing.T) {
	report, err := New(Config{Now: fixedNow}).ValidateBatch(
		context.Background(), nil, io.Discard)
	if err != nil {
		t.Fatalf("ValidateBatch: %v", err)
	}
	if report.Summary.Total != 0 || report.Summary.SuccessRate != 0 {
		t.Errorf("summary = %+v, want zero counts", report.Summary)
	}
}

func TestValidateBatchCancellation(t *testing.T) {
	events := make([]types.RawEvent, 100)
	for i := range events {
		events[i] = completeEvent("Event")
		events[i]["title"] = "Distinct Event Title"
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := New(Config{Now: fixedNow}).ValidateBatch(ctx, events, io.Discard)
	if err != context.Canceled {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if len(report.Valid)+len(report.Invalid) != 0 {
		t.Errorf("records processed after cancellation: %+v", report.Summary)
	}
}
