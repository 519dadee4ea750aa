package filter

import (
	"fmt"
	"strings"
	"testing"

	"github.com/basil-labs/basil/internal/domain/vector"
)

func mustNew(t *testing.T, m map[string]any) Expression {
	t.Helper()
	e, err := New(m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return e
}

func TestNew_Empty(t *testing.T) {
	e := mustNew(t, nil)
	if !e.IsEmpty() {
		t.Error("expected empty expression")
	}
	if !e.Matches(nil) {
		t.Error("empty filter must match records without metadata")
	}
}

func TestNew_TooManyConditions(t *testing.T) {
	m := make(map[string]any, MaxConditions+1)
	for i := range MaxConditions + 1 {
		m[fmt.Sprintf("k%d", i)] = "v"
	}
	_, err := New(m)
	if err == nil || !strings.Contains(err.Error(), "too many") {
		t.Fatalf("expected too many error, got %v", err)
	}
}

func TestNew_NonScalar(t *testing.T) {
	_, err := New(map[string]any{"tags": []any{"a"}})
	if err == nil {
		t.Fatal("expected error for non-scalar value")
	}
}

func TestMatches(t *testing.T) {
	md := vector.Metadata{"category": "Electronics", "price": 199.99, "inStock": true}

	tests := []struct {
		name   string
		filter map[string]any
		md     vector.Metadata
		want   bool
	}{
		{"equal string", map[string]any{"category": "Electronics"}, md, true},
		{"other category", map[string]any{"category": "Books"}, md, false},
		{"float32 precision differs", map[string]any{"price": float32(199.99)}, md, false},
		{"numeric exact", map[string]any{"price": 199.99}, md, true},
		{"bool", map[string]any{"inStock": true}, md, true},
		{"and of all keys", map[string]any{"category": "Electronics", "inStock": false}, md, false},
		{"missing key", map[string]any{"brand": "AudioTech"}, md, false},
		{"absent metadata", map[string]any{"category": "Electronics"}, nil, false},
		{"case sensitive", map[string]any{"category": "electronics"}, md, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := mustNew(t, tt.filter)
			if got := e.Matches(tt.md); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatches_IntFilterMatchesFloatMetadata(t *testing.T) {
	e := mustNew(t, map[string]any{"rating": 5})
	if !e.Matches(vector.Metadata{"rating": 5.0}) {
		t.Error("int filter should match float64 metadata after normalization")
	}
}
