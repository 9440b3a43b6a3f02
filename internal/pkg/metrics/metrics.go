package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "likedao_wallet"

var (
	// PortfolioFetches counts portfolio aggregations by result (loaded, invalid_address, not_connected, failed).
	PortfolioFetches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "portfolio_fetches_total",
		Help:      "Portfolio aggregations by result.",
	}, []string{"result"})

	// StakeFetches counts stake list fetches by result.
	StakeFetches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stake_fetches_total",
		Help:      "Stake list fetches by result.",
	}, []string{"result"})

	// WalletTransitions counts wallet state machine transitions by target status and wallet kind.
	WalletTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "wallet_transitions_total",
		Help:      "Wallet connection state transitions.",
	}, []string{"status", "kind"})

	// UpstreamRequestDuration observes outbound HTTP calls by upstream and outcome.
	UpstreamRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Latency of requests to chain, profile and auth endpoints.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"upstream", "outcome"})

	registerOnce sync.Once
)

// MustRegisterMetrics registers every collector with the default registry. Safe to call twice.
func MustRegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(PortfolioFetches, StakeFetches, WalletTransitions, UpstreamRequestDuration)
	})
}
