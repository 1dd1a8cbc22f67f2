package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder reports name generation metrics using Prometheus primitives.
type Recorder struct {
	generations   *prometheus.CounterVec
	durations     *prometheus.HistogramVec
	aiCalls       *prometheus.CounterVec
	historyWrites *prometheus.CounterVec
}

// New registers the namecraft collectors on registry.
func New(registry prometheus.Registerer) (*Recorder, error) {
	if registry == nil {
		return nil, fmt.Errorf("prometheus registry is nil")
	}

	r := &Recorder{
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "namecraft_generations_total",
			Help: "Name generations by the strategy that produced the names",
		}, []string{"source"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "namecraft_generation_duration_seconds",
			Help:    "End-to-end generation latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"source"}),
		aiCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "namecraft_ai_calls_total",
			Help: "Upstream AI completion calls by outcome",
		}, []string{"outcome"}),
		historyWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "namecraft_history_writes_total",
			Help: "History record writes by outcome",
		}, []string{"outcome"}),
	}

	for _, collector := range []prometheus.Collector{r.generations, r.durations, r.aiCalls, r.historyWrites} {
		if err := registry.Register(collector); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}
	return r, nil
}

// ObserveGeneration counts one generation and its latency under the strategy that produced it.
func (r *Recorder) ObserveGeneration(source string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.generations.WithLabelValues(source).Inc()
	r.durations.WithLabelValues(source).Observe(elapsed.Seconds())
}

// ObserveAICall counts one upstream completion attempt by outcome ("ok" or "error").
func (r *Recorder) ObserveAICall(outcome string) {
	if r == nil {
		return
	}
	r.aiCalls.WithLabelValues(outcome).Inc()
}

// ObserveHistoryWrite counts one history persistence attempt by outcome.
func (r *Recorder) ObserveHistoryWrite(outcome string) {
	if r == nil {
		return
	}
	r.historyWrites.WithLabelValues(outcome).Inc()
}

// Handler exposes gatherer in the Prometheus text format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
