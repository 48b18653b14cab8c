// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package validate

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/pdiddy/nyevents/internal/fields"
	"github.com/pdiddy/nyevents/pkg/types"
)

// LinkChecker probes event URLs for reachability. This is the only
// network call in the validation stage; the caller bounds it through the
// client timeout and the context. Retrying is the retrieval layer's
// business, not ours.
type LinkChecker struct {
	fields *fields.Extractor
	client *http.Client
}

// NewLinkChecker builds a checker using client for probes. A nil client
// falls back to http.DefaultClient; callers should supply one with a
// timeout.
func NewLinkChecker(extractor *fields.Extractor, client *http.Client) *LinkChecker {
	if client == nil {
		client = http.DefaultClient
	}
	return &LinkChecker{fields: extractor, client: client}
}

// Accessible reports whether any URL candidate answers with a non-error
// status. Records that carry no URL at all pass vacuously: there is
// nothing to be broken.
func (l *LinkChecker) Accessible(ctx context.Context, event types.RawEvent) bool {
	probed := false
	for _, key := range l.fields.Candidates(fields.FieldURL) {
		raw, ok := event[key]
		if !ok {
			continue
		}
		u, ok := cleanCandidate(l.fields, raw)
		if !ok || !strings.HasPrefix(u, "http") {
			continue
		}
		probed = true
		if l.probe(ctx, u) {
			return true
		}
	}
	return !probed
}

func (l *LinkChecker) probe(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return false
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return resp.StatusCode < 400
}
