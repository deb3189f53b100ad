package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Orders created, by ticket kind and outcome.
	OrdersCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Total number of order creation attempts",
		},
		[]string{"kind", "status"},
	)

	// Payment callback settlements, by result.
	Settlements = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "settlements_total",
			Help: "Total number of payment callbacks processed",
		},
		[]string{"result"},
	)

	// Orders completed after the inventory pool was exhausted. Every
	// increment is an operational alert for the organizer.
	OversellAlerts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "oversell_alerts_total",
			Help: "Orders settled against exhausted ticket inventory",
		},
	)

	// Payout transfers, by outcome.
	Transfers = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transfers_total",
			Help: "Total number of payout transfer attempts",
		},
		[]string{"status"},
	)
)
