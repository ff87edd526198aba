package metrics

import "github.com/prometheus/client_golang/prometheus"

// DomainMetrics counts ride, payment and realtime events.
type DomainMetrics struct {
	rides      *prometheus.CounterVec
	payments   *prometheus.CounterVec
	broadcasts *prometheus.CounterVec
}

// NewDomainMetrics registers the domain counters on the provided registerer.
func NewDomainMetrics(reg prometheus.Registerer) *DomainMetrics {
	if reg == nil {
		return &DomainMetrics{}
	}
	rides := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "airbear_ride_events_total",
		Help: "Ride lifecycle events by status.",
	}, []string{"status"})
	payments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "airbear_payments_total",
		Help: "Recorded payments by method and status.",
	}, []string{"method", "status"})
	broadcasts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "airbear_location_broadcasts_total",
		Help: "Location messages fanned out to subscribers, by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(rides, payments, broadcasts)
	return &DomainMetrics{
		rides:      rides,
		payments:   payments,
		broadcasts: broadcasts,
	}
}

// RideEvent counts a ride entering status.
func (m *DomainMetrics) RideEvent(status string) {
	if m == nil || m.rides == nil {
		return
	}
	m.rides.WithLabelValues(normalizeLabel(status)).Inc()
}

// PaymentRecorded counts a payment row written with the given method and status.
func (m *DomainMetrics) PaymentRecorded(method, status string) {
	if m == nil || m.payments == nil {
		return
	}
	m.payments.WithLabelValues(normalizeLabel(method), normalizeLabel(status)).Inc()
}

// BroadcastDelivered counts messages handed to a subscriber.
func (m *DomainMetrics) BroadcastDelivered(n int) {
	if m == nil || m.broadcasts == nil || n <= 0 {
		return
	}
	m.broadcasts.WithLabelValues("delivered").Add(float64(n))
}

// BroadcastDropped counts messages skipped because a subscriber was full.
func (m *DomainMetrics) BroadcastDropped(n int) {
	if m == nil || m.broadcasts == nil || n <= 0 {
		return
	}
	m.broadcasts.WithLabelValues("dropped").Add(float64(n))
}
