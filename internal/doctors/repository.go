package doctors

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pulsecare/clinic-platform/internal/docstore"
	"github.com/pulsecare/clinic-platform/internal/schedule"
)

// Repository persists doctor profiles.
type Repository struct {
	store      *docstore.Client
	collection string

	now   func() time.Time
	newID func() string
}

// NewRepository returns a repository over the given collection.
func NewRepository(store *docstore.Client, collection string) *Repository {
	return &Repository{
		store:      store,
		collection: collection,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// Add onboards a practitioner and returns the record ID.
func (r *Repository) Add(ctx context.Context, req *AddDoctorRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	doc := &Doctor{
		ID:            r.newID(),
		DoctorID:      req.DoctorID,
		Name:          req.Name,
		Specialty:     req.Specialty,
		Email:         req.Email,
		ClinicName:    req.ClinicName,
		ClinicAddress: req.ClinicAddress,
		ClinicPhone:   req.ClinicPhone,
		ClinicTiming:  req.ClinicTiming,
		CreatedAt:     schedule.Store(r.now()),
	}
	if err := r.store.CreateDocument(ctx, r.collection, doc.ID, doc); err != nil {
		return "", fmt.Errorf("doctors: add %s: %w", req.DoctorID, err)
	}
	return doc.ID, nil
}

// GetByDoctorID returns the profile registered under a doctor ID.
func (r *Repository) GetByDoctorID(ctx context.Context, doctorID string) (*Doctor, error) {
	q := docstore.NewQuery().Equal("doctorId", doctorID).Limit(1)
	var list []Doctor
	if err := r.store.ListDocuments(ctx, r.collection, q, &list); err != nil {
		return nil, fmt.Errorf("doctors: get %s: %w", doctorID, err)
	}
	if len(list) == 0 {
		return nil, ErrDoctorNotFound
	}
	return &list[0], nil
}

// List returns every doctor, newest first.
func (r *Repository) List(ctx context.Context) ([]Doctor, error) {
	q := docstore.NewQuery().OrderDescBy("createdAt")
	var list []Doctor
	if err := r.store.ListDocuments(ctx, r.collection, q, &list); err != nil {
		return nil, fmt.Errorf("doctors: list: %w", err)
	}
	return list, nil
}

// ListPage returns one page of the directory. Pages are 1-based; page
// numbers past the end return an empty page with the real totals.
func (r *Repository) ListPage(ctx context.Context, page, perPage int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return paginate(all, page, perPage), nil
}

func paginate(all []Doctor, page, perPage int) *Page {
	total := len(all)
	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}
	return &Page{
		Doctors:    all[start:end],
		Page:       page,
		TotalPages: (total + perPage - 1) / perPage,
		Total:      total,
	}
}

// UpdateProfile applies the non-empty fields of req to a profile.
func (r *Repository) UpdateProfile(ctx context.Context, doctorID string, req *UpdateProfileRequest) error {
	fields := req.Fields()
	if len(fields) == 0 {
		return nil
	}
	doc, err := r.GetByDoctorID(ctx, doctorID)
	if err != nil {
		return err
	}
	if err := r.store.UpdateDocument(ctx, r.collection, doc.ID, fields); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return ErrDoctorNotFound
		}
		return fmt.Errorf("doctors: update %s: %w", doctorID, err)
	}
	return nil
}
