// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export writes transformation results to timestamped JSON and
// CSV files. JSON preserves the full nested record; CSV flattens list
// and mapping values to strings for spreadsheet consumers.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/nyevents/pkg/types"
)

// ErrNoEvents is returned when a result carries nothing to export.
var ErrNoEvents = fmt.Errorf("no valid events to export")

// csvColumns is the flattened header, in output order. OriginalData is
// deliberately left out of the CSV shape; audit copies belong in the
// JSON export and the run store.
var csvColumns = []string{
	"event_id", "title", "description", "start_date", "end_date",
	"location", "city", "address", "event_url", "image_url",
	"categories", "featured", "days_until_event", "is_upcoming",
	"borough", "quality_score", "season", "primary_category",
	"is_priority",
}

// WriteJSON writes the full result bundle to dir/events_<stamp>.json and
// returns the file path.
func WriteJSON(result types.TransformResult, dir string, now time.Time) (string, error) {
	if len(result.Transformed) == 0 {
		return "", ErrNoEvents
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}

	path := filepath.Join(dir, fileName(now, "json"))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(result); err != nil {
		return "", fmt.Errorf("encoding %s: %w", path, err)
	}
	return path, nil
}

// WriteCSV writes the transformed events to dir/events_<stamp>.csv and
// returns the file path.
func WriteCSV(result types.TransformResult, dir string, now time.Time) (string, error) {
	if len(result.Transformed) == 0 {
		return "", ErrNoEvents
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}

	path := filepath.Join(dir, fileName(now, "csv"))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := writeCSVRows(f, result.Transformed); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

func writeCSVRows(w io.Writer, events []types.EnrichedEvent) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvColumns); err != nil {
		return err
	}
	for _, ev := range events {
		row := []string{
			ev.EventID,
			ev.Title,
			ev.Description,
			ev.StartDate,
			ev.EndDate,
			ev.Location,
			ev.City,
			ev.Address,
			ev.EventURL,
			ev.ImageURL,
			strings.Join(ev.Categories, "; "),
			strconv.FormatBool(ev.Featured),
			strconv.Itoa(ev.DaysUntilEvent),
			strconv.FormatBool(ev.IsUpcoming),
			ev.Borough,
			strconv.FormatFloat(ev.QualityScore, 'f', 1, 64),
			ev.Season,
			ev.PrimaryCategory,
			strconv.FormatBool(ev.IsPriority),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func fileName(now time.Time, ext string) string {
	return fmt.Sprintf("events_%s.%s", now.Format("20060102_150405"), ext)
}
