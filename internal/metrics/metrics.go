package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Lot writes by op: create, update, delete
	CoffeeLotsWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coffee_lots_written_total",
			Help: "Coffee lot writes by operation",
		},
		[]string{"op"},
	)

	RegistryInserts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registry_inserts_total",
			Help: "Rows added to a lookup registry",
		},
		[]string{"registry"},
	)

	EntryBayRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "entry_bay_rejections_total",
			Help: "Lot writes rejected by entry bay validation",
		},
	)
)

var (
	ActiveLots = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "coffee_lots_active",
			Help: "Lots currently in active status",
		},
	)

	// 1 when an active lot holds the bay, else 0
	EntryBayOccupied = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "entry_bay_occupied",
			Help: "Entry bay occupancy by active lots",
		},
		[]string{"bay"},
	)
)
