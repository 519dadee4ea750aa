package result

import (
	"testing"
	"time"

	"github.com/basil-labs/basil/internal/domain/vector"
)

func TestNew(t *testing.T) {
	md := vector.Metadata{"name": "Premium Wireless Headphones"}
	r := New("vec_001", 0.93, md)
	if r.ID() != "vec_001" || r.Score() != 0.93 {
		t.Errorf("got id=%q score=%v", r.ID(), r.Score())
	}
	if r.Metadata()["name"] != "Premium Wireless Headphones" {
		t.Errorf("Metadata() = %v", r.Metadata())
	}
}

func TestNewResponse(t *testing.T) {
	resp := NewResponse([]Result{New("a", 1, nil), New("b", 0.5, nil)}, 3*time.Millisecond)
	if resp.Total() != 2 {
		t.Errorf("Total() = %d, want 2", resp.Total())
	}
	if resp.Elapsed() != 3*time.Millisecond {
		t.Errorf("Elapsed() = %v", resp.Elapsed())
	}
}

func TestNewResponse_NilResultsBecomeEmpty(t *testing.T) {
	resp := NewResponse(nil, 0)
	if resp.Results() == nil {
		t.Error("Results() must be non-nil for JSON encoding as []")
	}
	if resp.Total() != 0 {
		t.Errorf("Total() = %d, want 0", resp.Total())
	}
}
