// Package metric holds the similarity strategies a collection can be scored with.
package metric

import (
	"fmt"
	"math"
	"strings"
)

// Metric names the similarity function of a collection.
type Metric string

const (
	// Cosine scores by the angle between vectors, in [-1, 1].
	Cosine Metric = "cosine"
	// Euclidean scores by inverted L2 distance, in (0, 1].
	Euclidean Metric = "euclidean"
	// Dot scores by the raw inner product.
	Dot Metric = "dot"
)

// Default is used when a collection is created without a metric.
const Default = Cosine

// Scorer computes a similarity score where higher means closer.
// Inputs must have equal length; a length mismatch yields 0.
type Scorer func(q, v []float32) float64

var scorers = map[Metric]Scorer{
	Cosine:    cosine,
	Euclidean: euclidean,
	Dot:       dot,
}

// Parse resolves a metric name. Empty input yields Default.
func Parse(s string) (Metric, error) {
	if s == "" {
		return Default, nil
	}
	m := Metric(strings.ToLower(s))
	if !m.IsValid() {
		return "", fmt.Errorf("unsupported metric %q (use cosine, euclidean or dot)", s)
	}
	return m, nil
}

// IsValid reports whether the metric has a registered scorer.
func (m Metric) IsValid() bool {
	_, ok := scorers[m]
	return ok
}

// String returns the metric name.
func (m Metric) String() string { return string(m) }

// Scorer returns the scoring function. Unknown metrics fall back to cosine.
func (m Metric) Scorer() Scorer {
	if s, ok := scorers[m]; ok {
		return s
	}
	return cosine
}

// cosine returns 0 when either vector has zero magnitude.
func cosine(q, v []float32) float64 {
	if len(q) != len(v) {
		return 0
	}
	var dp, nq, nv float64
	for i := range q {
		a, b := float64(q[i]), float64(v[i])
		dp += a * b
		nq += a * a
		nv += b * b
	}
	if nq == 0 || nv == 0 {
		return 0
	}
	return dp / (math.Sqrt(nq) * math.Sqrt(nv))
}

func euclidean(q, v []float32) float64 {
	if len(q) != len(v) {
		return 0
	}
	var sum float64
	for i := range q {
		d := float64(q[i]) - float64(v[i])
		sum += d * d
	}
	return 1 / (1 + math.Sqrt(sum))
}

func dot(q, v []float32) float64 {
	if len(q) != len(v) {
		return 0
	}
	var sum float64
	for i := range q {
		sum += float64(q[i]) * float64(v[i])
	}
	return sum
}
