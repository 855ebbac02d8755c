package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/pulsecare/clinic-platform/internal/docstore"
)

// Repository persists appointment records.
type Repository interface {
	Create(ctx context.Context, appt *Appointment) error
	Get(ctx context.Context, id string) (*Appointment, error)
	ListByDoctor(ctx context.Context, doctorID string) ([]Appointment, error)
	ListByUser(ctx context.Context, userID string) ([]Appointment, error)
	Update(ctx context.Context, id string, fields map[string]any) error
}

// StoreRepository is a Repository backed by the document store.
type StoreRepository struct {
	store      *docstore.Client
	collection string
}

var _ Repository = (*StoreRepository)(nil)

// NewStoreRepository returns a repository over the given collection.
func NewStoreRepository(store *docstore.Client, collection string) *StoreRepository {
	return &StoreRepository{store: store, collection: collection}
}

func (r *StoreRepository) Create(ctx context.Context, appt *Appointment) error {
	if err := r.store.CreateDocument(ctx, r.collection, appt.ID, appt); err != nil {
		return fmt.Errorf("appointments: create %s: %w", appt.ID, err)
	}
	return nil
}

func (r *StoreRepository) Get(ctx context.Context, id string) (*Appointment, error) {
	var appt Appointment
	if err := r.store.GetDocument(ctx, r.collection, id, &appt); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("appointments: get %s: %w", id, err)
	}
	return &appt, nil
}

func (r *StoreRepository) ListByDoctor(ctx context.Context, doctorID string) ([]Appointment, error) {
	q := docstore.NewQuery().Equal("doctorId", doctorID).OrderDescBy("createdAt")
	var out []Appointment
	if err := r.store.ListDocuments(ctx, r.collection, q, &out); err != nil {
		return nil, fmt.Errorf("appointments: list by doctor %s: %w", doctorID, err)
	}
	return out, nil
}

func (r *StoreRepository) ListByUser(ctx context.Context, userID string) ([]Appointment, error) {
	q := docstore.NewQuery().Equal("userId", userID).OrderDescBy("createdAt")
	var out []Appointment
	if err := r.store.ListDocuments(ctx, r.collection, q, &out); err != nil {
		return nil, fmt.Errorf("appointments: list by user %s: %w", userID, err)
	}
	return out, nil
}

func (r *StoreRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	if err := r.store.UpdateDocument(ctx, r.collection, id, fields); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return ErrAppointmentNotFound
		}
		return fmt.Errorf("appointments: update %s: %w", id, err)
	}
	return nil
}
