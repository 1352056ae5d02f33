package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/actionkit/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "actionkit"

// MetricsConfig configures the metric set.
type MetricsConfig struct {
	// Namespace is the Prometheus namespace for all metrics.
	// Default: "actionkit"
	Namespace string

	// Buckets are the histogram buckets for dispatch and service durations.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is where the collectors are registered.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Metrics records dispatch and service activity.
type Metrics struct {
	dispatches       *prometheus.CounterVec
	dispatchDuration *prometheus.HistogramVec
	inflight         prometheus.Gauge
	serviceCalls     *prometheus.CounterVec
	serviceDuration  *prometheus.HistogramVec
}

// NewMetrics creates and registers the collectors.
func NewMetrics(cfg MetricsConfig) (*Metrics, error) {
	if cfg.Namespace == "" {
		cfg.Namespace = DefaultNamespace
	}
	if len(cfg.Buckets) == 0 {
		cfg.Buckets = prometheus.DefBuckets
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		dispatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "dispatch_total",
				Help:      "Total number of action dispatches by outcome",
			},
			[]string{"action", "format", "outcome", "category"},
		),
		dispatchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "dispatch_duration_seconds",
				Help:      "Duration of action dispatches in seconds",
				Buckets:   cfg.Buckets,
			},
			[]string{"action", "format"},
		),
		inflight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Name:      "dispatch_inflight",
				Help:      "Number of dispatches currently running",
			},
		),
		serviceCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "service_calls_total",
				Help:      "Total number of service invocations",
			},
			[]string{"action", "service", "error"},
		),
		serviceDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "service_duration_seconds",
				Help:      "Duration of service invocations in seconds",
				Buckets:   cfg.Buckets,
			},
			[]string{"action", "service"},
		),
	}

	for _, c := range []prometheus.Collector{m.dispatches, m.dispatchDuration, m.inflight, m.serviceCalls, m.serviceDuration} {
		if err := cfg.Registry.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks feeding the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDispatchStart: func(_ context.Context, _ *domain.DispatchEvent) {
			m.inflight.Inc()
		},
		OnDispatchEnd: func(_ context.Context, e *domain.DispatchEvent) {
			m.inflight.Dec()
			m.dispatches.WithLabelValues(e.Action, string(e.Format), e.Outcome, string(e.Category)).Inc()
			m.dispatchDuration.WithLabelValues(e.Action, string(e.Format)).Observe(e.Duration.Seconds())
		},
		OnServiceReturn: func(_ context.Context, e *domain.ServiceEvent) {
			isErr := "false"
			if e.IsError {
				isErr = "true"
			}
			m.serviceCalls.WithLabelValues(e.Action, e.Service, isErr).Inc()
			m.serviceDuration.WithLabelValues(e.Action, e.Service).Observe(e.Duration.Seconds())
		},
	}
}

// LogHooks returns hooks that log every event at debug level, and failed
// dispatches at error level.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDispatchEnd: func(ctx context.Context, e *domain.DispatchEvent) {
			level := slog.LevelDebug
			if e.Outcome == domain.OutcomeFailed {
				level = slog.LevelError
			}
			logger.Log(ctx, level, "dispatch",
				"action", e.Action,
				"format", e.Format,
				"outcome", e.Outcome,
				"category", e.Category,
				"duration", e.Duration,
				"request_id", e.RequestID,
			)
		},
		OnServiceReturn: func(ctx context.Context, e *domain.ServiceEvent) {
			logger.Debug("service_return",
				"action", e.Action,
				"service", e.Service,
				"is_error", e.IsError,
				"duration", e.Duration,
				"request_id", e.RequestID,
			)
		},
	}
}

// Chain combines hooks; each event is delivered to every set in order.
func Chain(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range sets {
		out.OnDispatchStart = chainDispatch(out.OnDispatchStart, h.OnDispatchStart)
		out.OnDispatchEnd = chainDispatch(out.OnDispatchEnd, h.OnDispatchEnd)
		out.OnServiceCall = chainService(out.OnServiceCall, h.OnServiceCall)
		out.OnServiceReturn = chainService(out.OnServiceReturn, h.OnServiceReturn)
	}
	return out
}

func chainDispatch(a, b func(context.Context, *domain.DispatchEvent)) func(context.Context, *domain.DispatchEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *domain.DispatchEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

func chainService(a, b func(context.Context, *domain.ServiceEvent)) func(context.Context, *domain.ServiceEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *domain.ServiceEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}
