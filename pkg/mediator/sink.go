package mediator

import (
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Sink receives the outcome of every background write. Implementations must
// be safe for concurrent use.
type Sink interface {
	Observe(w Write, elapsed time.Duration, err error)
}

// LogSink logs failed writes, and successful ones too when Verbose is set.
type LogSink struct {
	Verbose bool
}

func (s LogSink) Observe(w Write, elapsed time.Duration, err error) {
	if err != nil {
		log.Printf("mediator: %s failed after %s: %v", w, elapsed.Round(time.Millisecond), err)
		return
	}
	if s.Verbose {
		log.Printf("mediator: %s ok in %s", w, elapsed.Round(time.Millisecond))
	}
}

// PromSink counts writes by table, op and result and records their latency.
type PromSink struct {
	writes  *prometheus.CounterVec
	latency *prometheus.HistogramVec
}

// NewPromSink creates a PromSink and registers its collectors with reg.
func NewPromSink(reg prometheus.Registerer) *PromSink {
	s := &PromSink{
		writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tasktree_remote_writes_total",
			Help: "Remote record store writes, by table, operation and result.",
		}, []string{"table", "op", "result"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tasktree_remote_write_seconds",
			Help:    "Remote record store write latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"table", "op"}),
	}
	reg.MustRegister(s.writes, s.latency)
	return s
}

func (s *PromSink) Observe(w Write, elapsed time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	s.writes.WithLabelValues(w.Table, string(w.Op), result).Inc()
	s.latency.WithLabelValues(w.Table, string(w.Op)).Observe(elapsed.Seconds())
}

// MultiSink forwards to every sink in order.
type MultiSink []Sink

func (m MultiSink) Observe(w Write, elapsed time.Duration, err error) {
	for _, s := range m {
		s.Observe(w, elapsed, err)
	}
}
