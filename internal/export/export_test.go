// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/nyevents/pkg/types"
)

func sampleResult() types.TransformResult {
	return types.TransformResult{
		Transformed: []types.EnrichedEvent{
			{
				NormalizedEvent: types.NormalizedEvent{
					Title:       "Winter Jazz Festival",
					Description: "Three nights of jazz across downtown venues.",
					StartDate:   "2026-01-09",
					Location:    "Le Poisson Rouge",
					City:        "New York",
					Categories:  []string{"Music", "Festivals"},
					Featured:    true,
				},
				EventID:         "event_00000_0042",
				DaysUntilEvent:  12,
				IsUpcoming:      true,
				Borough:         "Manhattan",
				QualityScore:    5.0,
				Season:          "Winter",
				PrimaryCategory: "Music",
				IsPriority:      true,
			},
		},
		Metadata: types.TransformMetadata{
			RunID:                   "run-1",
			TotalInput:              1,
			SuccessfullyTransformed: 1,
			SuccessRatePercent:      100.0,
		},
	}
}

func TestWriteJSON(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)

	path, err := WriteJSON(sampleResult(), dir, now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "events_20260102_150405.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded types.TransformResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded.Transformed, 1)
	assert.Equal(t, "Winter Jazz Festival", decoded.Transformed[0].Title)
	assert.Equal(t, "run-1", decoded.Metadata.RunID)
}

func TestWriteCSVFlattensLists(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)

	path, err := WriteCSV(sampleResult(), dir, now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "events_20260102_150405.csv"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, csvColumns, rows[0])

	row := rows[1]
	assert.Equal(t, "event_00000_0042", row[0])
	assert.Equal(t, "Music; Festivals", row[10])
	assert.Equal(t, "true", row[11])
	assert.Equal(t, "5.0", row[15])
}

func TestWriteRefusesEmptyResult(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()

	_, err := WriteJSON(types.TransformResult{}, dir, now)
	assert.ErrorIs(t, err, ErrNoEvents)

	_, err = WriteCSV(types.TransformResult{}, dir, now)
	assert.ErrorIs(t, err, ErrNoEvents)

	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}
