package coupons

import (
	"context"
	"errors"
	"math/rand"

	"github.com/pulsecare/clinic-platform/internal/observability/metrics"
	"github.com/pulsecare/clinic-platform/pkg/logging"
)

// PerAppointment is how many coupons every new appointment receives.
const PerAppointment = 3

// ErrCatalogExhausted means the catalog has too few unique non-scarce
// entries to fill a selection.
var ErrCatalogExhausted = errors.New("coupons: catalog has too few unique offers")

// Selector picks coupons for new appointments: at most one scarce-partner
// coupon (claimed through the reservation store) plus random unique fillers.
type Selector struct {
	catalog      []Coupon
	reservations ReservationStore
	metrics      *metrics.BookingMetrics
	logger       *logging.Logger

	// perm is swappable in tests for deterministic picks.
	perm func(n int) []int
}

// NewSelector builds a selector over the given catalog.
func NewSelector(catalog []Coupon, reservations ReservationStore, m *metrics.BookingMetrics, logger *logging.Logger) *Selector {
	if reservations == nil {
		panic("coupons: reservation store cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Selector{
		catalog:      catalog,
		reservations: reservations,
		metrics:      m,
		logger:       logger,
		perm:         rand.Perm,
	}
}

// Select returns PerAppointment coupons: one scarce coupon when an
// unreserved one remains, the rest random unique non-scarce offers. A failed
// reservation lookup degrades to a non-scarce pick rather than failing the
// booking.
func (s *Selector) Select(ctx context.Context) ([]Coupon, error) {
	var scarce, others []Coupon
	for _, c := range s.catalog {
		if c.IsScarce() {
			scarce = append(scarce, c)
		} else {
			others = append(others, c)
		}
	}

	selected := make([]Coupon, 0, PerAppointment)
	for _, i := range s.perm(len(scarce)) {
		claimed, err := s.reservations.Reserve(ctx, scarce[i].ID)
		if err != nil {
			s.logger.Warn("coupon reservation check failed, skipping scarce coupon",
				"coupon_id", scarce[i].ID, "error", err)
			break
		}
		if claimed {
			selected = append(selected, scarce[i])
			break
		}
	}

	need := PerAppointment - len(selected)
	if len(others) < need {
		return nil, ErrCatalogExhausted
	}
	for _, i := range s.perm(len(others))[:need] {
		selected = append(selected, others[i])
	}

	for _, c := range selected {
		s.metrics.ObserveCouponIssued(c.Partner())
	}
	return selected, nil
}
