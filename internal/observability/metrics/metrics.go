package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the booking flows.
type BookingMetrics struct {
	appointmentsTotal   *prometheus.CounterVec
	couponsIssued       *prometheus.CounterVec
	enrichmentFallbacks prometheus.Counter
	smsTotal            *prometheus.CounterVec
	storeLatency        *prometheus.HistogramVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		appointmentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pulsecare",
			Subsystem: "booking",
			Name:      "appointments_total",
			Help:      "Appointment operations by outcome",
		}, []string{"operation", "status"}),
		couponsIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pulsecare",
			Subsystem: "booking",
			Name:      "coupons_issued_total",
			Help:      "Coupons attached to appointments, by partner",
		}, []string{"partner"}),
		enrichmentFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pulsecare",
			Subsystem: "booking",
			Name:      "enrichment_fallbacks_total",
			Help:      "Worklist items rendered with placeholder patient details",
		}),
		smsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pulsecare",
			Subsystem: "notify",
			Name:      "sms_total",
			Help:      "Outbound SMS attempts by status",
		}, []string{"status"}),
		storeLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pulsecare",
			Subsystem: "docstore",
			Name:      "operation_seconds",
			Help:      "Latency of document store operations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"collection", "operation"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.appointmentsTotal, m.couponsIssued, m.enrichmentFallbacks, m.smsTotal, m.storeLatency)
	return m
}

func (m *BookingMetrics) ObserveAppointment(operation, status string) {
	if m == nil {
		return
	}
	m.appointmentsTotal.WithLabelValues(operation, status).Inc()
}

func (m *BookingMetrics) ObserveCouponIssued(partner string) {
	if m == nil {
		return
	}
	m.couponsIssued.WithLabelValues(partner).Inc()
}

func (m *BookingMetrics) ObserveEnrichmentFallback() {
	if m == nil {
		return
	}
	m.enrichmentFallbacks.Inc()
}

func (m *BookingMetrics) ObserveSMS(status string) {
	if m == nil {
		return
	}
	m.smsTotal.WithLabelValues(status).Inc()
}

func (m *BookingMetrics) ObserveStoreLatency(collection, operation string, seconds float64) {
	if m == nil {
		return
	}
	m.storeLatency.WithLabelValues(collection, operation).Observe(seconds)
}
