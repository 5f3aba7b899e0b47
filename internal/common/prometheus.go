package common

import "github.com/prometheus/client_golang/prometheus"

const (
	HTTPRequestTotal                = "http_requests_total"
	HTTPRequestDurationSeconds      = "http_request_duration_seconds"
	DiscordInteractionTotal         = "discord_interactions_total"
	DiscordVerificationFailureTotal = "discord_verification_failures_total"
)

var (
	PromCounters = map[string]*prometheus.CounterVec{
		HTTPRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: HTTPRequestTotal,
			Help: "Count of all HTTP requests",
		}, []string{"path", "status_code"}),
		DiscordInteractionTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: DiscordInteractionTotal,
			Help: "Count of verified Discord interactions by type",
		}, []string{"type"}),
		DiscordVerificationFailureTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: DiscordVerificationFailureTotal,
			Help: "Count of Discord interactions rejected before dispatching",
		}, []string{"reason"}),
	}

	PromHistograms = map[string]*prometheus.HistogramVec{
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: HTTPRequestDurationSeconds,
			Help: "Duration of all HTTP requests",
		}, []string{"path", "status_code"}),
	}
)

// PromCollectors lists every metric the service exports.
func PromCollectors() []prometheus.Collector {
	cs := make([]prometheus.Collector, 0, len(PromCounters)+len(PromHistograms))
	for _, c := range PromCounters {
		cs = append(cs, c)
	}

	for _, h := range PromHistograms {
		cs = append(cs, h)
	}

	return cs
}
