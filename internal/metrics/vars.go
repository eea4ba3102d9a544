package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	QuoteLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "sushi_quote_latency_seconds",
		Help:    "Time to fetch pair data and price a trade",
		Buckets: prometheus.DefBuckets,
	})

	QuoteErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sushi_quote_errors_total",
		Help: "Quotes that failed on the chain or in pricing",
	})

	NotReady = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sushi_not_ready_total",
		Help: "Operations skipped because the wallet lacked a provider or signer",
	}, []string{"op"})

	Submitted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sushi_tx_submitted_total",
		Help: "Transactions submitted, by kind",
	}, []string{"kind"})

	SubmitErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sushi_tx_submit_errors_total",
		Help: "Failed estimate or submit calls, by kind",
	}, []string{"kind"})

	GasLimit = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "sushi_last_gas_limit",
		Help: "Gas limit of the last submitted transaction, by kind",
	}, []string{"kind"})
)

// Registry holds every collector above. Serve exposes it when no other
// registry is given.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		QuoteLatency,
		QuoteErrors,
		NotReady,
		Submitted,
		SubmitErrors,
		GasLimit,
	)
}
