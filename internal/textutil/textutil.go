// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textutil cleans free-text fields scraped from upstream event
// listings: markup scrubbing, entity decoding, and whitespace collapse.
package textutil

import (
	"fmt"
	"strconv"
	"strings"
)

// entityReplacer decodes the named HTML entities that actually occur in
// the upstream feed. Anything outside this table passes through verbatim.
var entityReplacer = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
	"&nbsp;", " ",
	"&#39;", "'",
	"&mdash;", "—",
	"&ndash;", "–",
)

// Clean normalizes a free-text field: strips markup by tag-delimiter
// removal, decodes the fixed entity table, collapses whitespace runs to a
// single space, and trims. It is idempotent: Clean(Clean(s)) == Clean(s).
//
// Decoding can materialize new markup ("&lt;b&gt;" becomes "<b>"), so
// the strip/decode pass repeats until the text stops changing. Every
// replacement shortens the text, so the loop terminates.
//
// This is deliberately not an HTML parser. Malformed markup can leak
// characters into the output; the feed is well-formed enough that a full
// parse is not worth the dependency.
func Clean(s string) string {
	if s == "" {
		return ""
	}
	for {
		next := entityReplacer.Replace(stripTags(s))
		if next == s {
			break
		}
		s = next
	}
	return strings.Join(strings.Fields(s), " ")
}

// CleanValue is Clean over an untyped record value. Non-text values are
// stringified first; absent or unrepresentable values yield "". It never
// fails.
func CleanValue(v any) string {
	return Clean(Stringify(v))
}

// Stringify renders a JSON-compatible scalar as a string. Lists and
// mappings have no flat text form and yield "".
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		// JSON numbers decode as float64; render integers without a
		// trailing ".0".
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case fmt.Stringer:
		return t.String()
	default:
		return ""
	}
}

// stripTags removes <...> spans from s. An unclosed tag swallows the rest
// of the string.
func stripTags(s string) string {
	if !strings.ContainsRune(s, '<') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	inTag := false
	for _, r := range s {
		switch {
		case inTag:
			if r == '>' {
				inTag = false
			}
		case r == '<':
			inTag = true
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
