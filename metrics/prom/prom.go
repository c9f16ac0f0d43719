// Package prom adapts the cache's Metrics interface to Prometheus
// counters and gauges.
package prom

import (
	"github.com/nvkdev/rcache/sharded"
	"github.com/prometheus/client_golang/prometheus"
)

// Adapter implements sharded.Metrics and exports Prometheus counters/gauges.
// Safe for concurrent use; all Prometheus metric types are goroutine-safe.
type Adapter struct {
	hits    prometheus.Counter
	misses  prometheus.Counter
	evicts  *prometheus.CounterVec
	sizeEnt prometheus.Gauge
}

// New constructs a Prometheus metrics adapter.
//   - reg:          registry to register metrics with (nil => prometheus.DefaultRegisterer)
//   - ns, sub:      Prometheus namespace and subsystem
//   - constLabels:  static labels applied to all metrics (may be nil)
func New(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *Adapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	a := &Adapter{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "hits_total",
			Help:        "Cache hits",
			ConstLabels: constLabels,
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "misses_total",
			Help:        "Cache misses",
			ConstLabels: constLabels,
		}),
		evicts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   sub,
				Name:        "evictions_total",
				Help:        "Cache evictions by reason",
				ConstLabels: constLabels,
			},
			[]string{"reason"},
		),
		sizeEnt: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "size_entries",
			Help:        "Number of resident entries",
			ConstLabels: constLabels,
		}),
	}
	reg.MustRegister(a.hits, a.misses, a.evicts, a.sizeEnt)
	return a
}

// Hit increments the hit counter.
func (a *Adapter) Hit() { a.hits.Inc() }

// Miss increments the miss counter.
func (a *Adapter) Miss() { a.misses.Inc() }

// Evict increments the eviction counter with a reason label.
func (a *Adapter) Evict(r sharded.EvictReason) {
	a.evicts.WithLabelValues(reason(r)).Inc()
}

// Size updates the resident-entry gauge.
func (a *Adapter) Size(entries int) {
	a.sizeEnt.Set(float64(entries))
}

// reason maps EvictReason to a stable label value.
func reason(r sharded.EvictReason) string {
	switch r {
	case sharded.EvictCapacity:
		return "capacity"
	default:
		return "policy"
	}
}

// Compile-time check: ensure Adapter implements sharded.Metrics.
var _ sharded.Metrics = (*Adapter)(nil)
