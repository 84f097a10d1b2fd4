package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcomes recorded on symexpr_tool_calls_total.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Recorder holds the tool-call metrics.
type Recorder struct {
	calls     *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	cacheHits prometheus.Counter
}

// New creates a Recorder and registers its collectors on reg.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "symexpr_tool_calls_total",
				Help: "Total number of tool calls",
			},
			[]string{"tool", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "symexpr_tool_duration_seconds",
				Help:    "Duration of tool calls",
				Buckets: prometheus.ExponentialBuckets(0.00005, 4, 8),
			},
			[]string{"tool"},
		),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "symexpr_cache_hits_total",
			Help: "Tool calls answered from the response cache",
		}),
	}
	reg.MustRegister(r.calls, r.duration, r.cacheHits)
	return r
}

// ObserveCall records one completed tool call.
func (r *Recorder) ObserveCall(tool, outcome string, d time.Duration) {
	r.calls.WithLabelValues(tool, outcome).Inc()
	r.duration.WithLabelValues(tool).Observe(d.Seconds())
}

func (r *Recorder) CacheHit() {
	r.cacheHits.Inc()
}

// Calls exposes the call counter for tests and dashboards.
func (r *Recorder) Calls() *prometheus.CounterVec { return r.calls }

func (r *Recorder) CacheHits() prometheus.Counter { return r.cacheHits }
