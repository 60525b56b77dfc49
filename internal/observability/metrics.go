package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RidesRequestedTotal = promauto.NewCounter(prometheus.CounterOpts{Namespace: "swiftride", Name: "rides_requested_total", Help: "Total ride requests created"})
	RidesAcceptedTotal  = promauto.NewCounter(prometheus.CounterOpts{Namespace: "swiftride", Name: "rides_accepted_total", Help: "Total rides accepted by a driver"})
	RidesCancelledTotal = promauto.NewCounter(prometheus.CounterOpts{Namespace: "swiftride", Name: "rides_cancelled_total", Help: "Total rides cancelled"})
	SettlementsTotal    = promauto.NewCounter(prometheus.CounterOpts{Namespace: "swiftride", Name: "settlements_total", Help: "Total ride payments settled"})
	WSConnections       = promauto.NewGauge(prometheus.GaugeOpts{Namespace: "swiftride", Name: "ws_connections", Help: "Live realtime connections"})

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "swiftride", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
)
