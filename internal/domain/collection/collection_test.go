package collection

import (
	"strings"
	"testing"
	"time"

	"github.com/basil-labs/basil/internal/domain/metric"
)

func TestNew_Valid(t *testing.T) {
	before := time.Now().UTC()

	col, err := New("col_1", "product-embeddings", 1536, metric.Dot)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	after := time.Now().UTC()

	if col.ID() != "col_1" {
		t.Errorf("ID() = %q, want %q", col.ID(), "col_1")
	}
	if col.Name() != "product-embeddings" {
		t.Errorf("Name() = %q, want %q", col.Name(), "product-embeddings")
	}
	if col.Dimension() != 1536 {
		t.Errorf("Dimension() = %d, want 1536", col.Dimension())
	}
	if col.Metric() != metric.Dot {
		t.Errorf("Metric() = %q, want dot", col.Metric())
	}
	if col.VectorCount() != 0 {
		t.Errorf("VectorCount() = %d, want 0", col.VectorCount())
	}
	if col.CreatedAt().Before(before) || col.CreatedAt().After(after) {
		t.Errorf("CreatedAt() = %v, want between %v and %v", col.CreatedAt(), before, after)
	}
	if !col.UpdatedAt().Equal(col.CreatedAt()) {
		t.Errorf("UpdatedAt() = %v, want %v", col.UpdatedAt(), col.CreatedAt())
	}
}

func TestNew_DefaultMetric(t *testing.T) {
	col, err := New("col_1", "docs", 3, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if col.Metric() != metric.Cosine {
		t.Errorf("Metric() = %q, want cosine", col.Metric())
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		colName string
		dim     int
		metric  metric.Metric
		wantMsg string
	}{
		{"empty id", "", "docs", 3, "", "id is required"},
		{"empty name", "c", "", 3, "", "required"},
		{"name too long", "c", strings.Repeat("a", 65), 3, "", "too long"},
		{"name too long multibyte", "c", strings.Repeat("é", 65), 3, "", "too long"},
		{"zero dimension", "c", "docs", 0, "", "positive"},
		{"negative dimension", "c", "docs", -4, "", "positive"},
		{"dimension too large", "c", "docs", MaxDimension + 1, "", "exceeds"},
		{"unknown metric", "c", "docs", 3, "manhattan", "unsupported metric"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.id, tt.colName, tt.dim, tt.metric)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want substring %q", err, tt.wantMsg)
			}
		})
	}
}

func TestNew_FreeFormName(t *testing.T) {
	for _, name := range []string{
		"team.docs_v2-final",
		"Product Embeddings / v2",
		strings.Repeat("é", 64),
	} {
		if _, err := New("c", name, 8, ""); err != nil {
			t.Fatalf("name %q: unexpected error: %v", name, err)
		}
	}
}

func TestReconstructAndWithStats(t *testing.T) {
	created := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	col := Reconstruct("col_x", "user-preferences", 768, "", 0, created, created)
	if col.Metric() != metric.Cosine {
		t.Errorf("Metric() = %q, want cosine default", col.Metric())
	}

	updated := created.Add(time.Hour)
	withStats := col.WithStats(42, updated)
	if withStats.VectorCount() != 42 {
		t.Errorf("VectorCount() = %d, want 42", withStats.VectorCount())
	}
	if !withStats.UpdatedAt().Equal(updated) {
		t.Errorf("UpdatedAt() = %v, want %v", withStats.UpdatedAt(), updated)
	}
	if col.VectorCount() != 0 {
		t.Error("WithStats must not mutate the receiver")
	}
}
