package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Callback outcome labels. Rejected callbacks use their page error code.
const (
	outcomeSuccess         = "success"
	outcomeUpstreamFailure = "upstream_failure"
)

type metrics struct {
	callbacks       *prometheus.CounterVec
	redirects       *prometheus.CounterVec
	upstream        *prometheus.HistogramVec
	persistFailures *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		callbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "amazon_oauth_callbacks_total",
				Help: "OAuth callbacks handled, by flow and outcome",
			},
			[]string{"flow", "outcome"},
		),
		redirects: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "amazon_oauth_redirects_total",
				Help: "Consent redirects issued, by flow",
			},
			[]string{"flow"},
		),
		upstream: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "amazon_oauth_upstream_request_duration_seconds",
				Help:    "Duration of calls to Amazon endpoints",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"call", "result"},
		),
		persistFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "amazon_oauth_persist_failures_total",
				Help: "Token records that could not be written",
			},
			[]string{"flow"},
		),
	}
	for _, c := range []prometheus.Collector{m.callbacks, m.redirects, m.upstream, m.persistFailures} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// observe records one upstream call that started at start.
func (m *metrics) observe(call string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.upstream.WithLabelValues(call, result).Observe(time.Since(start).Seconds())
}
