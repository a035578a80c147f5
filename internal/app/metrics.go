package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	txSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "station_chain_transactions_total",
		Help: "Chain write transactions by operation and outcome.",
	}, []string{"operation", "status"})

	walletsProvisioned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "station_wallets_provisioned_total",
		Help: "Custodial wallets created.",
	})
)

func observeTx(operation string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	txSubmitted.WithLabelValues(operation, status).Inc()
}
