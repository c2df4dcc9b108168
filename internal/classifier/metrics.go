package classifier

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sentiview",
			Subsystem: "classifier",
			Name:      "requests_total",
			Help:      "Total number of classification requests by outcome",
		},
		[]string{"outcome"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sentiview",
			Subsystem: "classifier",
			Name:      "request_duration_seconds",
			Help:      "Duration of classification requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(requestsTotal, requestDuration)
}

func observe(outcome string, seconds float64) {
	requestsTotal.WithLabelValues(outcome).Inc()
	requestDuration.WithLabelValues(outcome).Observe(seconds)
}
