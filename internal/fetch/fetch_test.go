// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/nyevents/pkg/types"
)

// fakeAPI serves the token endpoint plus paginated event pages.
func fakeAPI(t *testing.T, pages [][]types.RawEvent) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/plugins/core/get_simple_token/"):
			fmt.Fprint(w, "test-token-123\n")
		case strings.HasPrefix(r.URL.Path, "/includes/rest_v2/plugins_events_events_by_date/find/"):
			if r.URL.Query().Get("token") != "test-token-123" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			var query struct {
				Options struct {
					Skip  int `json:"skip"`
					Limit int `json:"limit"`
				} `json:"options"`
			}
			require.NoError(t, json.Unmarshal([]byte(r.URL.Query().Get("json")), &query))

			page := query.Options.Skip / query.Options.Limit
			var events []types.RawEvent
			if page < len(pages) {
				events = pages[page]
			}
			json.NewEncoder(w).Encode(map[string]any{
				"docs": map[string]any{"count": len(events), "docs": events},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func testClient(baseURL string, pageSize int) *Client {
	return NewClient(types.FetchConfig{
		HTTPConfig: types.HTTPConfig{Timeout: 5 * time.Second},
		BaseURL:    baseURL,
		PageSize:   pageSize,
		DaysAhead:  7,
	})
}

func eventPage(n int, prefix string) []types.RawEvent {
	page := make([]types.RawEvent, n)
	for i := range page {
		page[i] = types.RawEvent{"title": fmt.Sprintf("%s %d", prefix, i)}
	}
	return page
}

func TestFetchToken(t *testing.T) {
	ts := fakeAPI(t, nil)
	defer ts.Close()

	c := testClient(ts.URL, 2)
	require.NoError(t, c.FetchToken(context.Background()))
	assert.Equal(t, "test-token-123", c.token)
}

func TestFetchTokenEmpty(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "  \n")
	}))
	defer ts.Close()

	err := testClient(ts.URL, 2).FetchToken(context.Background())
	assert.ErrorContains(t, err, "empty token")
}

func TestFetchEventsPagination(t *testing.T) {
	pages := [][]types.RawEvent{
		eventPage(2, "page0"),
		eventPage(2, "page1"),
		eventPage(1, "page2"), // short page ends the loop
	}
	ts := fakeAPI(t, pages)
	defer ts.Close()

	events, err := testClient(ts.URL, 2).FetchEvents(context.Background(), io.Discard)
	require.NoError(t, err)
	assert.Len(t, events, 5)
	assert.Equal(t, "page0 0", events[0]["title"])
	assert.Equal(t, "page2 0", events[4]["title"])
}

func TestFetchEventsEmptyWindow(t *testing.T) {
	ts := fakeAPI(t, nil)
	defer ts.Close()

	events, err := testClient(ts.URL, 2).FetchEvents(context.Background(), io.Discard)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestFetchPageQueryShape(t *testing.T) {
	var captured string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/plugins/core/") {
			fmt.Fprint(w, "tok")
			return
		}
		captured = r.URL.Query().Get("json")
		json.NewEncoder(w).Encode(map[string]any{"docs": map[string]any{"docs": []any{}}})
	}))
	defer ts.Close()

	c := testClient(ts.URL, 12)
	require.NoError(t, c.FetchToken(context.Background()))
	start := time.Date(2026, 6, 1, 4, 0, 0, 0, time.UTC)
	_, err := c.FetchPage(context.Background(), start, start.AddDate(0, 0, 7), 12, 24)
	require.NoError(t, err)

	var doc struct {
		Filter struct {
			Categories struct {
				In []string `json:"$in"`
			} `json:"categories.catId"`
			DateRange struct {
				Start map[string]string `json:"start"`
			} `json:"date_range"`
		} `json:"filter"`
		Options struct {
			Skip  int `json:"skip"`
			Limit int `json:"limit"`
		} `json:"options"`
	}
	require.NoError(t, json.Unmarshal([]byte(captured), &doc))

	assert.Equal(t, 24, doc.Options.Skip)
	assert.Equal(t, 12, doc.Options.Limit)
	assert.Equal(t, DefaultCategoryIDs, doc.Filter.Categories.In)
	assert.Equal(t, "2026-06-01T04:00:00.000Z", doc.Filter.DateRange.Start["$date"])
}

func TestDecodeEventsMalformed(t *testing.T) {
	_, err := decodeEvents(strings.NewReader("not json"))
	assert.Error(t, err)

	// Missing docs wrapper decodes to an empty slice, not an error.
	events, err := decodeEvents(strings.NewReader(`{}`))
	require.NoError(t, err)
	assert.Empty(t, events)
}
