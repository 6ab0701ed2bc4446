package monitoring

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/alchemorsel/menuplanner/internal/domain/recipe"
	"github.com/alchemorsel/menuplanner/internal/engine"
)

const namespace = "menuplanner"

// EngineMetrics records menu generation metrics in Prometheus. It implements
// engine.Recorder.
type EngineMetrics struct {
	logger   *zap.Logger
	registry *prometheus.Registry

	generationsTotal   *prometheus.CounterVec
	generationDuration *prometheus.HistogramVec
	candidatePoolSize  prometheus.Histogram
	omittedSlotsTotal  *prometheus.CounterVec
	cacheLookupsTotal  *prometheus.CounterVec
}

var _ engine.Recorder = (*EngineMetrics)(nil)

// NewEngineMetrics creates the collectors on a private registry, together with
// the Go runtime and process collectors
func NewEngineMetrics(logger *zap.Logger) *EngineMetrics {
	if logger == nil {
		logger = zap.NewNop()
	}
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &EngineMetrics{
		logger:   logger.Named("metrics"),
		registry: registry,

		generationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "menu_generations_total",
				Help:      "Total number of menu generations by outcome",
			},
			[]string{"status"},
		),
		generationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "menu_generation_duration_seconds",
				Help:      "Menu generation latency in seconds",
				Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"status"},
		),
		candidatePoolSize: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "candidate_pool_size",
				Help:      "Number of candidate recipes scored per generation",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
			},
		),
		omittedSlotsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "omitted_slots_total",
				Help:      "Meal slots left empty for lack of candidates",
			},
			[]string{"meal_type"},
		),
		cacheLookupsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "menu_cache_lookups_total",
				Help:      "Menu cache lookups by result",
			},
			[]string{"result"},
		),
	}
}

// ObserveGeneration records one Engine.Generate call
func (m *EngineMetrics) ObserveGeneration(status string, duration time.Duration, poolSize int) {
	m.generationsTotal.WithLabelValues(status).Inc()
	m.generationDuration.WithLabelValues(status).Observe(duration.Seconds())
	m.candidatePoolSize.Observe(float64(poolSize))
}

// ObserveOmittedSlots counts slots that had no eligible candidates
func (m *EngineMetrics) ObserveOmittedSlots(slots []recipe.MealType) {
	for _, slot := range slots {
		m.omittedSlotsTotal.WithLabelValues(string(slot)).Inc()
	}
}

// ObserveCacheLookup records a menu cache hit or miss
func (m *EngineMetrics) ObserveCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookupsTotal.WithLabelValues(result).Inc()
}

// Registry exposes the underlying registry
func (m *EngineMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// Snapshot sums every menuplanner series by family name. Histograms report
// their sample count.
func (m *EngineMetrics) Snapshot() (map[string]float64, error) {
	families, err := m.registry.Gather()
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64)
	for _, mf := range families {
		name := mf.GetName()
		if !strings.HasPrefix(name, namespace+"_") {
			continue
		}
		for _, metric := range mf.GetMetric() {
			switch {
			case metric.GetCounter() != nil:
				out[name] += metric.GetCounter().GetValue()
			case metric.GetHistogram() != nil:
				out[name] += float64(metric.GetHistogram().GetSampleCount())
			case metric.GetGauge() != nil:
				out[name] += metric.GetGauge().GetValue()
			}
		}
	}
	return out, nil
}
