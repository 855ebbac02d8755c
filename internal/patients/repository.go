package patients

import (
	"context"
	"fmt"
	"time"

	"github.com/pulsecare/clinic-platform/internal/docstore"
	"github.com/pulsecare/clinic-platform/internal/schedule"
)

// Repository persists patient registrations.
type Repository interface {
	Register(ctx context.Context, p *Patient) error
	GetByUserID(ctx context.Context, userID string) (*Patient, error)
	ListByUserIDs(ctx context.Context, userIDs []string) (map[string]Patient, error)
	ListByDoctor(ctx context.Context, doctorID string) ([]Patient, error)
	ListByDoctorBetween(ctx context.Context, doctorID string, from, to time.Time) ([]Patient, error)
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

func (r *StoreRepository) Register(ctx context.Context, p *Patient) error {
	if err := r.store.CreateDocument(ctx, r.collection, p.ID, p); err != nil {
		return fmt.Errorf("patients: register %s: %w", p.ID, err)
	}
	return nil
}

func (r *StoreRepository) GetByUserID(ctx context.Context, userID string) (*Patient, error) {
	q := docstore.NewQuery().Equal("userId", userID).Limit(1)
	var list []Patient
	if err := r.store.ListDocuments(ctx, r.collection, q, &list); err != nil {
		return nil, fmt.Errorf("patients: get by user %s: %w", userID, err)
	}
	if len(list) == 0 {
		return nil, ErrPatientNotFound
	}
	return &list[0], nil
}

// ListByUserIDs fetches registrations for a set of users in one query and
// keys the result by userId. Users with no registration are simply absent
// from the map.
func (r *StoreRepository) ListByUserIDs(ctx context.Context, userIDs []string) (map[string]Patient, error) {
	if len(userIDs) == 0 {
		return map[string]Patient{}, nil
	}
	values := make([]any, 0, len(userIDs))
	for _, id := range userIDs {
		values = append(values, id)
	}
	q := docstore.NewQuery().In("userId", values...)
	var list []Patient
	if err := r.store.ListDocuments(ctx, r.collection, q, &list); err != nil {
		return nil, fmt.Errorf("patients: list by users: %w", err)
	}
	out := make(map[string]Patient, len(list))
	for _, p := range list {
		out[p.UserID] = p
	}
	return out, nil
}

func (r *StoreRepository) ListByDoctor(ctx context.Context, doctorID string) ([]Patient, error) {
	q := docstore.NewQuery().Equal("doctorId", doctorID).OrderDescBy("addedAt")
	var list []Patient
	if err := r.store.ListDocuments(ctx, r.collection, q, &list); err != nil {
		return nil, fmt.Errorf("patients: list by doctor %s: %w", doctorID, err)
	}
	return list, nil
}

// ListByDoctorBetween returns a doctor's patients whose addedAt falls in
// [from, to). RFC3339 in UTC compares lexicographically, so the range works
// as a plain string comparison in the store.
func (r *StoreRepository) ListByDoctorBetween(ctx context.Context, doctorID string, from, to time.Time) ([]Patient, error) {
	q := docstore.NewQuery().
		Equal("doctorId", doctorID).
		GreaterThanEqual("addedAt", schedule.Store(from)).
		LessThanEqual("addedAt", schedule.Store(to)).
		OrderDescBy("addedAt")
	var list []Patient
	if err := r.store.ListDocuments(ctx, r.collection, q, &list); err != nil {
		return nil, fmt.Errorf("patients: list by doctor %s between: %w", doctorID, err)
	}
	return list, nil
}
