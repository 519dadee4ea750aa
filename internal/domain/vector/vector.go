package vector

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"
)

// MaxIDLength caps caller-supplied vector ids.
const MaxIDLength = 256

// Metadata maps keys to scalar values: string, bool, float64 or nil.
type Metadata map[string]any

// Record is a stored vector with optional metadata (immutable value object).
type Record struct {
	id       string
	values   []float32
	metadata Metadata
}

// New validates and creates a Record. An empty id is allowed; the store assigns one on insert.
// Values must be non-empty and finite. Numeric metadata is normalized to float64.
func New(id string, values []float32, metadata map[string]any) (Record, error) {
	if len(id) > MaxIDLength {
		return Record{}, fmt.Errorf("vector id too long (max %d)", MaxIDLength)
	}
	if len(values) == 0 {
		return Record{}, fmt.Errorf("vector values are required")
	}
	for i, v := range values {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return Record{}, fmt.Errorf("vector value at index %d is not finite", i)
		}
	}
	md, err := normalizeMetadata(metadata)
	if err != nil {
		return Record{}, err
	}

	vals := make([]float32, len(values))
	copy(vals, values)
	return Record{id: id, values: vals, metadata: md}, nil
}

// Reconstruct creates a Record without validation (storage hydration).
func Reconstruct(id string, values []float32, metadata Metadata) Record {
	return Record{id: id, values: values, metadata: metadata}
}

// ID returns the record identifier.
func (r Record) ID() string { return r.id }

// Values returns the coordinates. Callers must not modify the slice.
func (r Record) Values() []float32 { return r.values }

// Dimension returns the number of coordinates.
func (r Record) Dimension() int { return len(r.values) }

// Metadata returns the metadata map, nil when absent. Callers must not modify it.
func (r Record) Metadata() Metadata { return r.metadata }

// WithID returns a copy with the given id.
func (r Record) WithID(id string) Record {
	r.id = id
	return r
}

// SizeBytes estimates the in-memory footprint of the record.
func (r Record) SizeBytes() int64 {
	size := int64(len(r.id)) + int64(len(r.values))*4
	for k, v := range r.metadata {
		size += int64(len(k))
		switch val := v.(type) {
		case string:
			size += int64(len(val))
		case bool:
			size++
		case float64:
			size += 8
		}
	}
	return size
}

// NormalizeMetadata validates a metadata map and converts numeric values to float64.
func NormalizeMetadata(m map[string]any) (Metadata, error) {
	return normalizeMetadata(m)
}

func normalizeMetadata(m map[string]any) (Metadata, error) {
	if m == nil {
		return nil, nil
	}
	out := make(Metadata, len(m))
	for k, v := range m {
		if k == "" {
			return nil, fmt.Errorf("metadata key must not be empty")
		}
		nv, err := normalizeValue(v)
		if err != nil {
			return nil, fmt.Errorf("metadata %q: %w", k, err)
		}
		out[k] = nv
	}
	return out, nil
}

func normalizeValue(v any) (any, error) {
	switch val := v.(type) {
	case nil, string, bool, float64:
		return val, nil
	case float32:
		return float64(val), nil
	case int:
		return float64(val), nil
	case int8:
		return float64(val), nil
	case int16:
		return float64(val), nil
	case int32:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case uint:
		return float64(val), nil
	case uint8:
		return float64(val), nil
	case uint16:
		return float64(val), nil
	case uint32:
		return float64(val), nil
	case uint64:
		return float64(val), nil
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", val.String())
		}
		return f, nil
	default:
		return nil, fmt.Errorf("unsupported value type %T (scalar values only)", v)
	}
}

// Clone returns a shallow copy of the metadata.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	return maps.Clone(m)
}
