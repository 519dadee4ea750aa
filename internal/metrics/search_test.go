package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestSearchObserver(t *testing.T) {
	before := testutil.ToFloat64(SearchTotal.WithLabelValues("cosine", "ok"))

	var o SearchObserver
	o.ObserveSearch("cosine", "ok", 3*time.Millisecond)
	o.ObserveSearch("cosine", "ok", time.Millisecond)
	o.ObserveSearch("dot", "not_found", 0)

	if got := testutil.ToFloat64(SearchTotal.WithLabelValues("cosine", "ok")) - before; got != 2 {
		t.Errorf("expected 2 ok cosine searches, got %v", got)
	}
	if got := testutil.ToFloat64(SearchTotal.WithLabelValues("dot", "not_found")); got < 1 {
		t.Errorf("expected dot not_found >= 1, got %v", got)
	}
	if testutil.CollectAndCount(SearchDuration) == 0 {
		t.Error("expected search_duration_seconds to have series")
	}
}

func TestRegister_Idempotent(t *testing.T) {
	RegisterSearchMetrics()
	RegisterSearchMetrics()
	RegisterStoreMetrics()
	RegisterStoreMetrics()
	RegisterEmbeddingMetrics()
	RegisterEmbeddingMetrics()
}
