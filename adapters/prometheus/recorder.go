package prometheus

import (
	"context"

	"github.com/goliatone/go-remote/core"
	prom "github.com/prometheus/client_golang/prometheus"
)

var dispatchLabels = []string{"verb", "method", "status"}

// Recorder maps dispatcher metrics onto Prometheus collectors.
type Recorder struct {
	DispatchTotal    *prom.CounterVec
	DispatchDuration *prom.HistogramVec
}

func New(reg prom.Registerer) *Recorder {
	recorder := &Recorder{
		DispatchTotal: prom.NewCounterVec(prom.CounterOpts{
			Name: "remote_dispatch_total",
			Help: "total number of remote dispatches",
		}, dispatchLabels),
		DispatchDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Name:    "remote_dispatch_duration_ms",
			Help:    "remote dispatch duration in milliseconds",
			Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		}, dispatchLabels),
	}

	if reg != nil {
		recorder.Enable(reg)
	}
	return recorder
}

func (r *Recorder) Enable(reg prom.Registerer) {
	reg.MustRegister(r.DispatchTotal)
	reg.MustRegister(r.DispatchDuration)
}

func (r *Recorder) Disable(reg prom.Registerer) {
	reg.Unregister(r.DispatchTotal)
	reg.Unregister(r.DispatchDuration)
}

func (r *Recorder) IncCounter(_ context.Context, name string, value int64, tags map[string]string) {
	if r == nil || name != core.MetricDispatchTotal {
		return
	}
	r.DispatchTotal.With(labels(tags)).Add(float64(value))
}

func (r *Recorder) ObserveHistogram(_ context.Context, name string, value float64, tags map[string]string) {
	if r == nil || name != core.MetricDispatchDurationMS {
		return
	}
	r.DispatchDuration.With(labels(tags)).Observe(value)
}

func labels(tags map[string]string) prom.Labels {
	out := make(prom.Labels, len(dispatchLabels))
	for _, key := range dispatchLabels {
		out[key] = tags[key]
	}
	return out
}

var _ core.MetricsRecorder = (*Recorder)(nil)
