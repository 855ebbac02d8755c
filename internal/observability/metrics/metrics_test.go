package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestBookingMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBookingMetrics(reg)
	m.ObserveAppointment("create", "ok")
	m.ObserveCouponIssued("Pharmeasy")
	m.ObserveEnrichmentFallback()
	m.ObserveSMS("sent")
	m.ObserveStoreLatency("appointments", "create", 0.02)
}

func TestBookingMetricsNilSafe(t *testing.T) {
	var m *BookingMetrics
	m.ObserveAppointment("create", "error")
	m.ObserveCouponIssued("Pharmeasy")
	m.ObserveEnrichmentFallback()
	m.ObserveSMS("failed")
	m.ObserveStoreLatency("patients", "list", 0.1)
}
