package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds every collector exposed on the metrics port.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	HTTPRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gracecourt_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gracecourt_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	AvailabilityChecksTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gracecourt_availability_checks_total",
			Help: "Availability checks by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	SearchDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gracecourt_property_search_duration_seconds",
			Help:    "Time spent answering an availability search",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	SearchCacheTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gracecourt_search_cache_total",
			Help: "Search cache lookups by result",
		},
		[]string{"result"},
	)

	BookingsCreatedTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gracecourt_bookings_created_total",
			Help: "Bookings created by initial status",
		},
		[]string{"status"},
	)

	BookingConflictsTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "gracecourt_booking_conflicts_total",
			Help: "Booking attempts rejected because the room was taken",
		},
	)

	BookingTransitionsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gracecourt_booking_transitions_total",
			Help: "Booking status transitions by target status",
		},
		[]string{"to"},
	)

	WSConnections = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "gracecourt_ws_connections",
			Help: "Open admin websocket connections on this instance",
		},
	)

	WSEventsDroppedTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "gracecourt_ws_events_dropped_total",
			Help: "Events dropped because a client send buffer was full",
		},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

func RecordHTTPRequest(method, route, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration)
}

func RecordAvailabilityCheck(operation, outcome string) {
	AvailabilityChecksTotal.WithLabelValues(operation, outcome).Inc()
}

func RecordSearch(duration float64) {
	SearchDuration.Observe(duration)
}

func RecordSearchCache(result string) {
	SearchCacheTotal.WithLabelValues(result).Inc()
}

func RecordBookingCreated(status string) {
	BookingsCreatedTotal.WithLabelValues(status).Inc()
}

func RecordBookingConflict() {
	BookingConflictsTotal.Inc()
}

func RecordBookingTransition(to string) {
	BookingTransitionsTotal.WithLabelValues(to).Inc()
}
