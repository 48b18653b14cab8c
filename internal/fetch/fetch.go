// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch retrieves raw event records from the tourism site's
// events API.
//
// The API is the one the site's own frontend uses: an anonymous token
// endpoint followed by a paginated find query whose filter and field
// projection travel as a JSON document in the query string. The fetch
// stage has no opinions about record content; everything it returns is
// an untyped RawEvent for the validation stage to judge.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pdiddy/nyevents/internal/httputil"
	"github.com/pdiddy/nyevents/pkg/types"
)

const (
	defaultBaseURL  = "https://www.iloveny.com"
	tokenPath       = "/plugins/core/get_simple_token/"
	eventsPath      = "/includes/rest_v2/plugins_events_events_by_date/find/"
	defaultPageSize = 12
	defaultDays     = 30
)

// DefaultCategoryIDs is the upstream category-id filter the reference
// query uses.
var DefaultCategoryIDs = []string{
	"3", "5", "6", "10", "11", "12", "14", "15", "18", "26", "29", "30",
	"31", "74", "87", "97", "98", "99", "100", "101", "102", "106",
	"111", "113",
}

// Client talks to the events API.
type Client struct {
	cfg    types.FetchConfig
	client *http.Client
	token  string
}

// NewClient builds a Client from cfg, filling defaults for unset fields.
func NewClient(cfg types.FetchConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.DaysAhead <= 0 {
		cfg.DaysAhead = defaultDays
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "nyevents/0.1"
	}
	if cfg.CategoryIDs == nil {
		cfg.CategoryIDs = DefaultCategoryIDs
	}
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// FetchToken retrieves the anonymous API token. The endpoint is public;
// the token just has to accompany every find query.
func (c *Client) FetchToken(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+tokenPath, nil)
	if err != nil {
		return fmt.Errorf("building token request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.client, req, c.cfg.MaxRetries)
	if err != nil {
		return fmt.Errorf("fetching token: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("token endpoint returned %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading token: %w", err)
	}
	token := strings.TrimSpace(string(body))
	if token == "" {
		return fmt.Errorf("token endpoint returned an empty token")
	}
	c.token = token
	return nil
}

// FetchEvents pulls the full event window, paging until a short page.
// It fetches a token first when none is set. Progress goes to w.
func (c *Client) FetchEvents(ctx context.Context, w io.Writer) ([]types.RawEvent, error) {
	if c.token == "" {
		if err := c.FetchToken(ctx); err != nil {
			return nil, err
		}
	}

	// The API expects window bounds pinned to 04:00, the site's Eastern
	// Time day boundary expressed in UTC.
	start := time.Now().UTC().Truncate(24 * time.Hour).Add(4 * time.Hour)
	end := start.AddDate(0, 0, c.cfg.DaysAhead)

	fmt.Fprintf(w, "fetching events from %s to %s\n",
		start.Format("2006-01-02"), end.Format("2006-01-02"))

	var all []types.RawEvent
	for skip := 0; ; skip += c.cfg.PageSize {
		page, err := c.FetchPage(ctx, start, end, c.cfg.PageSize, skip)
		if err != nil {
			return all, err
		}
		all = append(all, page...)
		if len(page) < c.cfg.PageSize {
			break
		}

		if c.cfg.PageDelay > 0 {
			select {
			case <-ctx.Done():
				return all, ctx.Err()
			case <-time.After(c.cfg.PageDelay):
			}
		}
	}

	fmt.Fprintf(w, "fetched %d events\n", len(all))
	return all, nil
}

// FetchPage requests one page of events.
func (c *Client) FetchPage(ctx context.Context, start, end time.Time, limit, skip int) ([]types.RawEvent, error) {
	query, err := c.buildQuery(start, end, limit, skip)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.cfg.BaseURL+eventsPath+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building events request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Referer", c.cfg.BaseURL+"/events")

	resp, err := httputil.DoWithRetry(ctx, c.client, req, c.cfg.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("fetching events page (skip %d): %w", skip, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("events endpoint returned %s", resp.Status)
	}

	return decodeEvents(resp.Body)
}

// buildQuery assembles the find query: the filter and options travel
// JSON-encoded in a "json" parameter alongside the token.
func (c *Client) buildQuery(start, end time.Time, limit, skip int) (url.Values, error) {
	const stamp = "2006-01-02T15:04:05.000Z"

	doc := map[string]any{
		"filter": map[string]any{
			"primary_site":      "primary",
			"categories.catId":  map[string]any{"$in": c.cfg.CategoryIDs},
			"date_range": map[string]any{
				"start": map[string]any{"$date": start.Format(stamp)},
				"end":   map[string]any{"$date": end.Format(stamp)},
			},
		},
		"options": map[string]any{
			"skip":  skip,
			"limit": limit,
			"hooks": []string{"afterFind_listing", "afterFind_host"},
			"sort":  map[string]any{"featured": -1, "date": 1, "rank": 1, "title": 1},
			"fields": map[string]any{
				"title": 1, "description": 1, "startDate": 1, "endDate": 1,
				"nextDate": 1, "date": 1, "location": 1, "address1": 1,
				"city": 1, "latitude": 1, "longitude": 1, "categories": 1,
				"featured": 1, "detailURL": 1, "url": 1, "linkUrl": 1,
				"media_raw": 1, "listing": 1, "listing.region": 1,
				"recid": 1, "rank": 1, "typeName": 1,
			},
			"count": true,
		},
	}

	encoded, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding query: %w", err)
	}
	values := url.Values{}
	values.Set("json", string(encoded))
	values.Set("token", c.token)
	return values, nil
}

// decodeEvents unwraps the doubly nested response body:
// {"docs": {"count": N, "docs": [ ...events... ]}}.
func decodeEvents(r io.Reader) ([]types.RawEvent, error) {
	var payload struct {
		Docs struct {
			Count int              `json:"count"`
			Docs  []types.RawEvent `json:"docs"`
		} `json:"docs"`
	}
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding events response: %w", err)
	}
	return payload.Docs.Docs, nil
}
