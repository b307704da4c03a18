package orchestra

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains Prometheus collectors for compilation and evaluation.
type Metrics struct {
	compiles        prometheus.Counter
	compileErrors   prometheus.Counter
	compileDuration prometheus.Histogram
	clips           prometheus.Gauge
	lastFrame       prometheus.Gauge

	evaluateErrors *prometheus.CounterVec
	applies        prometheus.Counter
}

// NewMetrics registers the collectors with reg. A nil reg uses the default
// Prometheus registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		compiles: factory.NewCounter(prometheus.CounterOpts{
			Name: "orchestra_compiles_total",
			Help: "Total number of successful keyframe compilations",
		}),
		compileErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "orchestra_compile_errors_total",
			Help: "Total number of keyframe compilations rejected with an error",
		}),
		compileDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "orchestra_compile_duration_seconds",
			Help:    "Keyframe compilation latency",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
		clips: factory.NewGauge(prometheus.GaugeOpts{
			Name: "orchestra_compiled_clips",
			Help: "Number of clips produced by the most recent compilation",
		}),
		lastFrame: factory.NewGauge(prometheus.GaugeOpts{
			Name: "orchestra_last_frame",
			Help: "Largest keyframe time of the most recent compilation",
		}),
		evaluateErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "orchestra_evaluate_errors_total",
			Help: "Total number of failed evaluations and applies",
		}, []string{"op"}),
		applies: factory.NewCounter(prometheus.CounterOpts{
			Name: "orchestra_apply_all_total",
			Help: "Total number of ApplyAll passes",
		}),
	}
}

func (m *Metrics) observeCompile(stats debugStats) {
	m.compiles.Inc()
	m.compileDuration.Observe(stats.compileTime.Seconds())
	m.clips.Set(float64(stats.clips))
	m.lastFrame.Set(stats.lastFrame)
}
