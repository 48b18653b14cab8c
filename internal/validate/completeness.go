// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package validate

import (
	"strings"

	"github.com/pdiddy/nyevents/internal/fields"
	"github.com/pdiddy/nyevents/pkg/types"
)

// requiredFields lists the logical fields a usable record must carry, in
// reporting order.
var requiredFields = []string{
	fields.FieldTitle,
	fields.FieldDate,
	fields.FieldLocation,
	fields.FieldDescription,
}

// CompletenessChecker verifies required logical fields are present and
// non-placeholder.
type CompletenessChecker struct {
	fields *fields.Extractor
}

// NewCompletenessChecker builds a checker over the given extractor.
func NewCompletenessChecker(extractor *fields.Extractor) *CompletenessChecker {
	return &CompletenessChecker{fields: extractor}
}

// Check returns presence per required field.
func (c *CompletenessChecker) Check(event types.RawEvent) map[string]bool {
	result := make(map[string]bool, len(requiredFields))
	for _, field := range requiredFields {
		_, ok := c.fields.Lookup(event, field)
		result[field] = ok
	}
	return result
}

// Summary renders a completeness map as a human-readable sentence.
func (c *CompletenessChecker) Summary(result map[string]bool) string {
	var missing []string
	for _, field := range requiredFields {
		if !result[field] {
			missing = append(missing, field)
		}
	}
	if len(missing) == 0 {
		return "All required fields present"
	}
	return "Missing required fields: " + strings.Join(missing, ", ")
}
