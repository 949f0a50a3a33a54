package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// SourceLocal labels assessments produced by the keyword classifier.
	SourceLocal = "local"
	// SourceRemote labels assessments produced by the hosted model.
	SourceRemote = "remote"
)

var (
	signalsEmittedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "signal_link",
			Name:      "signals_emitted_total",
			Help:      "Total number of simulated distress signals, partitioned by category.",
		},
		[]string{"category"},
	)

	classificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "signal_link",
			Name:      "classifications_total",
			Help:      "Emergency descriptions classified, partitioned by analyzer, category and priority.",
		},
		[]string{"source", "category", "priority"},
	)

	analysisFallbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "signal_link",
			Name:      "analysis_fallbacks_total",
			Help:      "Remote analyses that failed and returned the default assessment.",
		},
	)

	wsClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "signal_link",
			Name:      "ws_clients",
			Help:      "Connected websocket clients.",
		},
	)
)

// Register attaches signal-link collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		signalsEmittedTotal,
		classificationsTotal,
		analysisFallbacksTotal,
		wsClients,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveSignal counts one simulated signal.
func ObserveSignal(category string) {
	signalsEmittedTotal.WithLabelValues(category).Inc()
}

// ObserveClassification counts one assessment.
func ObserveClassification(source, category, priority string) {
	if source != SourceRemote {
		source = SourceLocal
	}
	classificationsTotal.WithLabelValues(source, category, priority).Inc()
}

// ObserveFallback counts a remote analysis that fell back to the default.
func ObserveFallback() {
	analysisFallbacksTotal.Inc()
}

// ClientConnected and ClientDisconnected track the websocket client gauge.
func ClientConnected()    { wsClients.Inc() }
func ClientDisconnected() { wsClients.Dec() }
