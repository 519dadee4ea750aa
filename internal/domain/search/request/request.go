package request

import (
	"fmt"
	"math"

	"github.com/basil-labs/basil/internal/domain/search/filter"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed text query length.
	MaxQueryLength = 4096
	DefaultTopK    = 10
	MaxTopK        = 1000
)

// Limits bounds the topK a request may ask for.
type Limits struct {
	DefaultTopK int
	MaxTopK     int
}

// DefaultLimits returns the built-in topK defaults.
func DefaultLimits() Limits {
	return Limits{DefaultTopK: DefaultTopK, MaxTopK: MaxTopK}
}

// Request is a validated similarity query: either a raw vector or a text to embed.
type Request struct {
	vector  []float32
	text    string
	topK    int
	filters filter.Expression
}

// New validates and normalizes search parameters.
// Exactly one of vector or text is required. A nil topK means limits.DefaultTopK;
// an explicit topK <= 0 is rejected; values above limits.MaxTopK are clamped.
func New(vec []float32, text string, topK *int, filters filter.Expression, limits Limits) (Request, error) {
	if len(vec) == 0 && text == "" {
		return Request{}, fmt.Errorf("either vector or text is required")
	}
	if len(vec) > 0 && text != "" {
		return Request{}, fmt.Errorf("vector and text are mutually exclusive")
	}
	if len(text) > MaxQueryLength {
		return Request{}, fmt.Errorf("text too long (max %d chars)", MaxQueryLength)
	}
	for i, v := range vec {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return Request{}, fmt.Errorf("query vector value at index %d is not finite", i)
		}
	}

	limits = limits.withDefaults()
	k := limits.DefaultTopK
	if topK != nil {
		if *topK <= 0 {
			return Request{}, fmt.Errorf("topK must be a positive integer, got %d", *topK)
		}
		k = *topK
	}
	if k > limits.MaxTopK {
		k = limits.MaxTopK
	}

	var q []float32
	if len(vec) > 0 {
		q = make([]float32, len(vec))
		copy(q, vec)
	}
	return Request{vector: q, text: text, topK: k, filters: filters}, nil
}

func (l Limits) withDefaults() Limits {
	if l.MaxTopK <= 0 {
		l.MaxTopK = MaxTopK
	}
	if l.DefaultTopK <= 0 {
		l.DefaultTopK = DefaultTopK
	}
	if l.DefaultTopK > l.MaxTopK {
		l.DefaultTopK = l.MaxTopK
	}
	return l
}

// Vector returns the query vector (nil for text queries until embedded).
func (r *Request) Vector() []float32 { return r.vector }

// Text returns the text query.
func (r *Request) Text() string { return r.text }

// IsText reports whether the query still needs embedding.
func (r *Request) IsText() bool { return len(r.vector) == 0 && r.text != "" }

// TopK returns the maximum number of results.
func (r *Request) TopK() int { return r.topK }

// Filters returns the metadata filter.
func (r *Request) Filters() filter.Expression { return r.filters }

// WithVector returns a copy carrying the embedded query vector.
func (r *Request) WithVector(v []float32) Request {
	return Request{vector: v, text: r.text, topK: r.topK, filters: r.filters}
}
