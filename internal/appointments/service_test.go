package appointments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsecare/clinic-platform/internal/coupons"
	"github.com/pulsecare/clinic-platform/internal/patients"
	"github.com/pulsecare/clinic-platform/internal/schedule"
	"github.com/pulsecare/clinic-platform/pkg/logging"
)

type fakeRepo struct {
	records map[string]*Appointment
	listErr error
	updated map[string]map[string]any
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{records: map[string]*Appointment{}, updated: map[string]map[string]any{}}
}

func (f *fakeRepo) Create(ctx context.Context, appt *Appointment) error {
	cp := *appt
	f.records[appt.ID] = &cp
	return nil
}

func (f *fakeRepo) Get(ctx context.Context, id string) (*Appointment, error) {
	appt, ok := f.records[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	cp := *appt
	return &cp, nil
}

func (f *fakeRepo) ListByDoctor(ctx context.Context, doctorID string) ([]Appointment, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []Appointment
	for _, appt := range f.records {
		if appt.DoctorID == doctorID {
			out = append(out, *appt)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListByUser(ctx context.Context, userID string) ([]Appointment, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []Appointment
	for _, appt := range f.records {
		if appt.UserID == userID {
			out = append(out, *appt)
		}
	}
	return out, nil
}

func (f *fakeRepo) Update(ctx context.Context, id string, fields map[string]any) error {
	appt, ok := f.records[id]
	if !ok {
		return ErrAppointmentNotFound
	}
	f.updated[id] = fields
	if v, ok := fields["status"]; ok {
		appt.Status = Status(v.(string))
	}
	if v, ok := fields["cancellationReason"]; ok {
		appt.CancellationReason = v.(string)
	}
	return nil
}

type fakeDirectory struct {
	byUser   map[string]patients.Patient
	batchErr error
	getErr   error
}

func (f *fakeDirectory) GetByUserID(ctx context.Context, userID string) (*patients.Patient, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	p, ok := f.byUser[userID]
	if !ok {
		return nil, patients.ErrPatientNotFound
	}
	return &p, nil
}

func (f *fakeDirectory) ListByUserIDs(ctx context.Context, userIDs []string) (map[string]patients.Patient, error) {
	if f.batchErr != nil {
		return nil, f.batchErr
	}
	out := map[string]patients.Patient{}
	for _, id := range userIDs {
		if p, ok := f.byUser[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

type fakeSelector struct {
	picked []coupons.Coupon
	err    error
}

func (f *fakeSelector) Select(ctx context.Context) ([]coupons.Coupon, error) {
	return f.picked, f.err
}

type recordingNotifier struct {
	scheduled []string
	cancelled []string
	err       error
}

func (n *recordingNotifier) AppointmentScheduled(ctx context.Context, to, physician, when string) error {
	n.scheduled = append(n.scheduled, to+"|"+physician+"|"+when)
	return n.err
}

func (n *recordingNotifier) AppointmentCancelled(ctx context.Context, to, when, reason string) error {
	n.cancelled = append(n.cancelled, to+"|"+when+"|"+reason)
	return n.err
}

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestService(repo *fakeRepo, dir *fakeDirectory, sel *fakeSelector, notifier Notifier) *Service {
	svc := NewService(repo, dir, sel, notifier, schedule.MustFormatter("Asia/Kolkata"), nil, logging.Default())
	svc.now = func() time.Time { return testNow }
	count := 0
	svc.newID = func() string {
		count++
		return "appt-" + string(rune('a'+count-1))
	}
	return svc
}

func seed(repo *fakeRepo, id, userID, doctorID string, at time.Time, status Status) {
	repo.records[id] = &Appointment{
		ID:               id,
		UserID:           userID,
		DoctorID:         doctorID,
		PrimaryPhysician: "Dr. Mehta",
		Schedule:         schedule.Store(at),
		Reason:           "fever",
		Status:           status,
		CreatedAt:        schedule.Store(at.Add(-24 * time.Hour)),
	}
}

func TestCreateStoresPendingWithCoupons(t *testing.T) {
	repo := newFakeRepo()
	picked := coupons.Catalog()[:3]
	svc := newTestService(repo, &fakeDirectory{}, &fakeSelector{picked: picked}, nil)

	id, err := svc.Create(context.Background(), &CreateAppointmentRequest{
		UserID:           "user-1",
		DoctorID:         "doc-1",
		PrimaryPhysician: "Dr. Mehta",
		Schedule:         testNow.Add(48 * time.Hour),
		Reason:           "fever",
	})
	require.NoError(t, err)

	appt := repo.records[id]
	require.NotNil(t, appt)
	assert.Equal(t, StatusPending, appt.Status)
	assert.Equal(t, schedule.Store(testNow), appt.CreatedAt)
	assert.Equal(t, coupons.Serialize(picked), appt.Coupons)
	assert.Len(t, coupons.Deserialize(appt.Coupons), 3)
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeDirectory{}, &fakeSelector{}, nil)

	_, err := svc.Create(context.Background(), &CreateAppointmentRequest{DoctorID: "doc-1", Schedule: testNow})
	assert.ErrorIs(t, err, ErrMissingUserID)

	_, err = svc.Create(context.Background(), &CreateAppointmentRequest{UserID: "user-1", Schedule: testNow})
	assert.ErrorIs(t, err, ErrMissingDoctorID)

	_, err = svc.Create(context.Background(), &CreateAppointmentRequest{UserID: "user-1", DoctorID: "doc-1"})
	assert.ErrorIs(t, err, ErrMissingSchedule)
}

func TestCreateAbortsWhenSelectionFails(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeDirectory{}, &fakeSelector{err: coupons.ErrCatalogExhausted}, nil)

	_, err := svc.Create(context.Background(), &CreateAppointmentRequest{
		UserID: "user-1", DoctorID: "doc-1", Schedule: testNow.Add(time.Hour),
	})
	assert.ErrorIs(t, err, coupons.ErrCatalogExhausted)
	assert.Empty(t, repo.records)
}

func TestGetDerivesCompletedAndConvertsTimezone(t *testing.T) {
	repo := newFakeRepo()
	// 2026-03-09 09:30 UTC = 15:00 IST, already in the past.
	seed(repo, "a1", "user-1", "doc-1", time.Date(2026, 3, 9, 9, 30, 0, 0, time.UTC), StatusScheduled)
	svc := newTestService(repo, &fakeDirectory{}, &fakeSelector{}, nil)

	detail, err := svc.Get(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, detail.Status)
	assert.Equal(t, "2026-03-09 15:00:00", detail.Schedule)

	_, err = svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestDerivedCompletionIsReadOnly(t *testing.T) {
	repo := newFakeRepo()
	seed(repo, "a1", "user-1", "doc-1", testNow.Add(-time.Hour), StatusScheduled)
	svc := newTestService(repo, &fakeDirectory{}, &fakeSelector{}, nil)

	detail, err := svc.Get(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, detail.Status)
	// The stored record is untouched.
	assert.Equal(t, StatusScheduled, repo.records["a1"].Status)
}

func TestDoctorWorklistFiltersAndEnriches(t *testing.T) {
	repo := newFakeRepo()
	seed(repo, "due", "user-1", "doc-1", testNow.Add(-2*time.Hour), StatusScheduled)
	seed(repo, "today", "user-2", "doc-1", testNow.Add(3*time.Hour), StatusPending)
	seed(repo, "future", "user-1", "doc-1", testNow.Add(72*time.Hour), StatusPending)
	seed(repo, "other", "user-3", "doc-2", testNow.Add(-time.Hour), StatusPending)

	dir := &fakeDirectory{byUser: map[string]patients.Patient{
		"user-1": {UserID: "user-1", Name: "Asha Rao", Phone: "+911234567890", Address: "12 MG Road"},
	}}
	svc := newTestService(repo, dir, &fakeSelector{}, nil)

	items, err := svc.DoctorWorklist(context.Background(), "doc-1")
	require.NoError(t, err)
	require.Len(t, items, 2)

	byID := map[string]WorklistItem{}
	for _, item := range items {
		byID[item.AppointmentID] = item
	}

	enriched := byID["due"]
	assert.Equal(t, "Asha Rao", enriched.PatientName)
	assert.Equal(t, "+911234567890", enriched.Phone)
	assert.Equal(t, "12 MG Road", enriched.Address)
	assert.Equal(t, StatusCompleted, enriched.Status)

	fallback := byID["today"]
	assert.Equal(t, "Unknown", fallback.PatientName)
	assert.Equal(t, "N/A", fallback.Phone)
	assert.Equal(t, "N/A", fallback.Address)
	assert.Equal(t, StatusPending, fallback.Status)
}

func TestDoctorWorklistSurvivesEnrichmentFailure(t *testing.T) {
	repo := newFakeRepo()
	seed(repo, "a1", "user-1", "doc-1", testNow.Add(-time.Hour), StatusPending)
	dir := &fakeDirectory{batchErr: errors.New("store down")}
	svc := newTestService(repo, dir, &fakeSelector{}, nil)

	items, err := svc.DoctorWorklist(context.Background(), "doc-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Unknown", items[0].PatientName)
	assert.Equal(t, "N/A", items[0].Phone)
}

func TestListByUserUsesHumanFormat(t *testing.T) {
	repo := newFakeRepo()
	seed(repo, "a1", "user-1", "doc-1", time.Date(2026, 3, 14, 5, 0, 0, 0, time.UTC), StatusPending)
	svc := newTestService(repo, &fakeDirectory{}, &fakeSelector{}, nil)

	list, err := svc.ListByUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	// 05:00 UTC = 10:30 IST
	assert.Equal(t, "14 March 2026 at 10:30 AM", list[0].Schedule)
}

func TestCouponsByUserJoinsSnapshots(t *testing.T) {
	repo := newFakeRepo()
	catalog := coupons.Catalog()
	seed(repo, "a1", "user-1", "doc-1", testNow, StatusPending)
	repo.records["a1"].Coupons = coupons.Serialize(catalog[:1])
	seed(repo, "a2", "user-1", "doc-1", testNow, StatusPending)
	repo.records["a2"].Coupons = coupons.Serialize(catalog[1:2])
	seed(repo, "a3", "user-1", "doc-1", testNow, StatusPending)

	svc := newTestService(repo, &fakeDirectory{}, &fakeSelector{}, nil)
	encoded, err := svc.CouponsByUser(context.Background(), "user-1")
	require.NoError(t, err)

	decoded := coupons.Deserialize(encoded)
	assert.Len(t, decoded, 2)
}

func TestCancelUpdatesAndNotifies(t *testing.T) {
	repo := newFakeRepo()
	seed(repo, "a1", "user-1", "doc-1", testNow.Add(48*time.Hour), StatusScheduled)
	dir := &fakeDirectory{byUser: map[string]patients.Patient{
		"user-1": {UserID: "user-1", Name: "Asha Rao", Phone: "+911234567890"},
	}}
	notifier := &recordingNotifier{}
	svc := newTestService(repo, dir, &fakeSelector{}, notifier)

	require.NoError(t, svc.Cancel(context.Background(), "a1"))
	assert.Equal(t, StatusCancelled, repo.records["a1"].Status)
	assert.Equal(t, "Cancelled by user", repo.records["a1"].CancellationReason)
	require.Len(t, notifier.cancelled, 1)
	assert.Contains(t, notifier.cancelled[0], "+911234567890")
}

func TestCancelRejectsTerminalStates(t *testing.T) {
	repo := newFakeRepo()
	seed(repo, "done", "user-1", "doc-1", testNow.Add(-time.Hour), StatusScheduled) // derives completed
	seed(repo, "gone", "user-1", "doc-1", testNow.Add(time.Hour), StatusCancelled)
	svc := newTestService(repo, &fakeDirectory{}, &fakeSelector{}, nil)

	assert.ErrorIs(t, svc.Cancel(context.Background(), "done"), ErrInvalidTransition)
	// The rejected write persists the derived completion.
	assert.Equal(t, StatusCompleted, repo.records["done"].Status)
	assert.ErrorIs(t, svc.Cancel(context.Background(), "gone"), ErrInvalidTransition)
	assert.ErrorIs(t, svc.Cancel(context.Background(), "missing"), ErrAppointmentNotFound)
}

func TestCancelSurvivesNotifierFailures(t *testing.T) {
	repo := newFakeRepo()
	seed(repo, "a1", "user-1", "doc-1", testNow.Add(time.Hour), StatusPending)

	// No patient registration at all.
	svc := newTestService(repo, &fakeDirectory{}, &fakeSelector{}, &recordingNotifier{})
	require.NoError(t, svc.Cancel(context.Background(), "a1"))

	// Send failure.
	seed(repo, "a2", "user-2", "doc-1", testNow.Add(time.Hour), StatusPending)
	dir := &fakeDirectory{byUser: map[string]patients.Patient{"user-2": {UserID: "user-2", Phone: "+91999"}}}
	svc = newTestService(repo, dir, &fakeSelector{}, &recordingNotifier{err: errors.New("gateway down")})
	require.NoError(t, svc.Cancel(context.Background(), "a2"))
}

func TestScheduleConfirmsPending(t *testing.T) {
	repo := newFakeRepo()
	seed(repo, "a1", "user-1", "doc-1", testNow.Add(48*time.Hour), StatusPending)
	dir := &fakeDirectory{byUser: map[string]patients.Patient{
		"user-1": {UserID: "user-1", Phone: "+911234567890"},
	}}
	notifier := &recordingNotifier{}
	svc := newTestService(repo, dir, &fakeSelector{}, notifier)

	require.NoError(t, svc.Schedule(context.Background(), "a1"))
	assert.Equal(t, StatusScheduled, repo.records["a1"].Status)
	require.Len(t, notifier.scheduled, 1)
	assert.Contains(t, notifier.scheduled[0], "Dr. Mehta")

	// Scheduling twice is rejected.
	assert.ErrorIs(t, svc.Schedule(context.Background(), "a1"), ErrInvalidTransition)
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StatusPending, StatusScheduled))
	assert.True(t, CanTransition(StatusPending, StatusCancelled))
	assert.True(t, CanTransition(StatusScheduled, StatusCompleted))
	assert.True(t, CanTransition(StatusScheduled, StatusCancelled))
	assert.False(t, CanTransition(StatusCompleted, StatusCancelled))
	assert.False(t, CanTransition(StatusCancelled, StatusScheduled))
	assert.False(t, CanTransition(StatusPending, StatusCompleted))
}
