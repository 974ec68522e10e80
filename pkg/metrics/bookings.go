package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// BookingMetrics records outcomes for the booking and payment flows.
type BookingMetrics struct {
	created   *prometheus.CounterVec
	rejected  *prometheus.CounterVec
	confirmed *prometheus.CounterVec
}

// NewBookingMetrics registers the booking metrics on the provided registerer.
func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	if reg == nil {
		return &BookingMetrics{}
	}
	created := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bookings_created_total",
		Help: "Bookings persisted, by kind (items/consultation).",
	}, []string{"kind"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bookings_rejected_total",
		Help: "Booking creations rejected, by reason.",
	}, []string{"reason"})
	confirmed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_confirmed_total",
		Help: "Payment confirmations applied, by path (manual/webhook).",
	}, []string{"path"})
	reg.MustRegister(created, rejected, confirmed)
	return &BookingMetrics{
		created:   created,
		rejected:  rejected,
		confirmed: confirmed,
	}
}

// IncCreated increments the created counter for the given booking kind.
func (b *BookingMetrics) IncCreated(kind string) {
	if b == nil || b.created == nil {
		return
	}
	b.created.WithLabelValues(normalizeLabel(kind)).Inc()
}

// IncRejected increments the rejected counter for the given reason.
func (b *BookingMetrics) IncRejected(reason string) {
	if b == nil || b.rejected == nil {
		return
	}
	b.rejected.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncConfirmed increments the confirmation counter for the given path.
func (b *BookingMetrics) IncConfirmed(path string) {
	if b == nil || b.confirmed == nil {
		return
	}
	b.confirmed.WithLabelValues(normalizeLabel(path)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
