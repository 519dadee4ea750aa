package metric

import (
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < eps }

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Metric
		wantErr bool
	}{
		{"", Cosine, false},
		{"cosine", Cosine, false},
		{"EUCLIDEAN", Euclidean, false},
		{"dot", Dot, false},
		{"manhattan", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCosine_SelfIsOne(t *testing.T) {
	vecs := [][]float32{
		{1, 0, 0},
		{0.3, -0.7, 2.5},
		{-4, -4, -4, 1},
	}
	for _, v := range vecs {
		if got := Cosine.Scorer()(v, v); !near(got, 1) {
			t.Errorf("cosine(%v, %v) = %v, want 1", v, v, got)
		}
	}
}

func TestCosine_ZeroMagnitude(t *testing.T) {
	got := Cosine.Scorer()([]float32{0, 0, 0}, []float32{1, 2, 3})
	if got != 0 {
		t.Errorf("expected 0 for zero vector, got %v", got)
	}
	if math.IsNaN(Cosine.Scorer()([]float32{0, 0}, []float32{0, 0})) {
		t.Error("cosine of two zero vectors must not be NaN")
	}
}

func TestCosine_Orthogonal(t *testing.T) {
	if got := Cosine.Scorer()([]float32{1, 0, 0}, []float32{0, 1, 0}); !near(got, 0) {
		t.Errorf("expected 0, got %v", got)
	}
	if got := Cosine.Scorer()([]float32{1, 0}, []float32{-1, 0}); !near(got, -1) {
		t.Errorf("expected -1, got %v", got)
	}
}

func TestEuclidean(t *testing.T) {
	if got := Euclidean.Scorer()([]float32{1, 2}, []float32{1, 2}); !near(got, 1) {
		t.Errorf("identical vectors: got %v, want 1", got)
	}
	// distance 5 -> 1/6
	if got := Euclidean.Scorer()([]float32{0, 0}, []float32{3, 4}); !near(got, 1.0/6) {
		t.Errorf("got %v, want %v", got, 1.0/6)
	}
	closer := Euclidean.Scorer()([]float32{0, 0}, []float32{1, 0})
	farther := Euclidean.Scorer()([]float32{0, 0}, []float32{10, 0})
	if closer <= farther {
		t.Errorf("closer vector must score higher: %v <= %v", closer, farther)
	}
}

func TestDot(t *testing.T) {
	if got := Dot.Scorer()([]float32{1, 2, 3}, []float32{4, 5, 6}); !near(got, 32) {
		t.Errorf("got %v, want 32", got)
	}
}

func TestScore_LengthMismatch(t *testing.T) {
	for _, m := range []Metric{Cosine, Euclidean, Dot} {
		if got := m.Scorer()([]float32{1, 2}, []float32{1}); got != 0 {
			t.Errorf("%s: expected 0 on mismatch, got %v", m, got)
		}
	}
}

func TestScorer_UnknownFallsBackToCosine(t *testing.T) {
	got := Metric("bogus").Scorer()([]float32{1, 0}, []float32{1, 0})
	if !near(got, 1) {
		t.Errorf("expected cosine fallback, got %v", got)
	}
}
