// Package filter implements exact-match metadata filters.
package filter

import (
	"fmt"

	"github.com/basil-labs/basil/internal/domain/vector"
)

// MaxConditions is the maximum number of keys in one filter.
const MaxConditions = 32

// Expression is an AND of key == value conditions over record metadata.
type Expression struct {
	conditions vector.Metadata
}

// New validates and normalizes a filter map. Values must be scalar; numbers become float64
// so that 5 and 5.0 compare equal regardless of how the caller typed them.
func New(conditions map[string]any) (Expression, error) {
	if len(conditions) > MaxConditions {
		return Expression{}, fmt.Errorf("too many filter conditions (max %d)", MaxConditions)
	}
	md, err := vector.NormalizeMetadata(conditions)
	if err != nil {
		return Expression{}, fmt.Errorf("filter: %w", err)
	}
	return Expression{conditions: md}, nil
}

// IsEmpty reports whether the expression has no conditions.
func (e Expression) IsEmpty() bool { return len(e.conditions) == 0 }

// Matches reports whether md contains every key with an equal value.
// Absent metadata or a missing key never matches a non-empty filter.
func (e Expression) Matches(md vector.Metadata) bool {
	for k, want := range e.conditions {
		got, ok := md[k]
		if !ok || got != want {
			return false
		}
	}
	return true
}
