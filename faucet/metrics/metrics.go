package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const namespace = "faucet"

var (
	// ActiveRequests mirrors the process-wide in-flight request counter
	ActiveRequests = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "active_requests",
			Help:      "Number of requests currently being handled",
		},
	)

	// AirdropsTotal counts finished airdrops by outcome code
	AirdropsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "airdrop",
			Name:      "requests_total",
			Help:      "Total number of airdrop requests by result",
		},
		[]string{"result"},
	)

	// LedgerCallDuration tracks ledger RPC latency per operation
	LedgerCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "call_duration_seconds",
			Help:      "Ledger RPC latency in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation", "status"},
	)

	// PoolQueued counts ledger calls waiting for a blocking worker
	PoolQueued = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "workpool",
			Name:      "queued_tasks",
			Help:      "Ledger calls waiting for a free blocking worker",
		},
	)
)

// Register registers the faucet collectors plus Go and process metrics
func Register(logger zerolog.Logger) {
	registerIfNotExists(collectors.NewGoCollector(), "go_collector", logger)
	registerIfNotExists(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}), "process_collector", logger)
	registerIfNotExists(ActiveRequests, "active_requests", logger)
	registerIfNotExists(AirdropsTotal, "airdrop_requests_total", logger)
	registerIfNotExists(LedgerCallDuration, "ledger_call_duration", logger)
	registerIfNotExists(PoolQueued, "workpool_queued_tasks", logger)
}

// Handler exposes the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}

// registerIfNotExists registers a collector if it's not already registered
func registerIfNotExists(collector prometheus.Collector, name string, logger zerolog.Logger) {
	if err := prometheus.Register(collector); err != nil {
		var alreadyRegErr prometheus.AlreadyRegisteredError
		if errors.As(err, &alreadyRegErr) {
			logger.Debug().Str("collector", name).Msg("collector already registered")
		} else {
			logger.Error().Err(err).Str("collector", name).Msg("failed to register collector")
		}
	}
}
