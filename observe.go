package basil

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/basil-labs/basil/internal/domain"
)

type clientMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

func newClientMetrics(reg prometheus.Registerer) (*clientMetrics, error) {
	ops, err := reuse(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "basil",
		Subsystem: "client",
		Name:      "operations_total",
		Help:      "Client operations by name and outcome.",
	}, []string{"operation", "status"}))
	if err != nil {
		return nil, err
	}
	dur, err := reuse(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "basil",
		Subsystem: "client",
		Name:      "operation_duration_seconds",
		Help:      "Client operation latency.",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
	}, []string{"operation"}))
	if err != nil {
		return nil, err
	}
	return &clientMetrics{operations: ops, duration: dur}, nil
}

// reuse registers c, or returns the collector already registered under the
// same descriptor so several clients can share one registry.
func reuse[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return c, fmt.Errorf("basil: register metric: %w", err)
	}
	existing, ok := are.ExistingCollector.(T)
	if !ok {
		return c, fmt.Errorf("basil: metric registered with type %T", are.ExistingCollector)
	}
	return existing, nil
}

// observer records every public operation. A nil observer does nothing.
type observer struct {
	logger  *zap.Logger
	metrics *clientMetrics
}

func newObserver(logger *zap.Logger, reg prometheus.Registerer) (*observer, error) {
	o := &observer{logger: logger}
	if reg == nil {
		return o, nil
	}
	m, err := newClientMetrics(reg)
	if err != nil {
		return nil, err
	}
	o.metrics = m
	return o, nil
}

// track times op. Defer the result with the address of the named error:
//
//	defer c.obs.track("vector.insert")(&err)
func (o *observer) track(op string) func(*error) {
	start := time.Now()
	return func(errp *error) {
		var err error
		if errp != nil {
			err = *errp
		}
		o.observe(op, time.Since(start), err)
	}
}

func (o *observer) observe(op string, took time.Duration, err error) {
	if o == nil {
		return
	}
	if o.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		o.metrics.operations.WithLabelValues(op, status).Inc()
		o.metrics.duration.WithLabelValues(op).Observe(took.Seconds())
	}
	if o.logger == nil {
		return
	}
	if err != nil {
		o.logger.Warn("Operation failed",
			zap.String("op", op),
			zap.String("reason", reason(err)),
			zap.Duration("duration", took),
			zap.Error(err),
		)
		return
	}
	o.logger.Debug("Operation completed", zap.String("op", op), zap.Duration("duration", took))
}

var reasons = []struct {
	err  error
	name string
}{
	{domain.ErrNotFound, "not_found"},
	{domain.ErrVectorNotFound, "not_found"},
	{domain.ErrAlreadyExists, "already_exists"},
	{domain.ErrDimensionMismatch, "dimension_mismatch"},
	{domain.ErrInvalidArgument, "invalid_argument"},
	{domain.ErrEmbeddingNotConfigured, "embedding_not_configured"},
	{domain.ErrEmbeddingProviderError, "embedding_provider"},
}

// reason names the error class for log filtering.
func reason(err error) string {
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.name
		}
	}
	return "internal"
}
