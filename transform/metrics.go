package transform

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the pipeline counters exposed on the optional metrics
// endpoint.
type Metrics struct {
	recordsTotal    *prometheus.CounterVec
	sinkWritesTotal *prometheus.CounterVec
	errorsTotal     prometheus.Counter
}

// NewMetrics registers the pipeline counters with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		recordsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kgmeta",
			Name:      "records_total",
			Help:      "Records read from the source, by record kind.",
		}, []string{"kind"}),
		sinkWritesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kgmeta",
			Name:      "sink_writes_total",
			Help:      "Records written to the sink, by record kind.",
		}, []string{"kind"}),
		errorsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "kgmeta",
			Name:      "errors_total",
			Help:      "Fatal stream processing errors.",
		}),
	}
}
