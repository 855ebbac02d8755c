package appointments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// POST /appointments
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), 400)
		return
	}

	id, err := h.svc.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrMissingUserID) || errors.Is(err, ErrMissingDoctorID) || errors.Is(err, ErrMissingSchedule) {
			http.Error(w, err.Error(), 400)
			return
		}
		http.Error(w, err.Error(), 500)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"id": id})
}

// GET /appointments/{appointmentID}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "appointmentID")
	if id == "" {
		http.Error(w, "missing appointment id", 400)
		return
	}

	detail, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			http.Error(w, "not found", 404)
			return
		}
		http.Error(w, err.Error(), 500)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(detail)
}

// POST /appointments/{appointmentID}/cancel
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.applyTransition(w, r, h.svc.Cancel, string(StatusCancelled))
}

// POST /admin/appointments/{appointmentID}/schedule
func (h *Handler) Schedule(w http.ResponseWriter, r *http.Request) {
	h.applyTransition(w, r, h.svc.Schedule, string(StatusScheduled))
}

func (h *Handler) applyTransition(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, id string) error, result string) {
	id := chi.URLParam(r, "appointmentID")
	if id == "" {
		http.Error(w, "missing appointment id", 400)
		return
	}

	if err := apply(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, ErrAppointmentNotFound):
			http.Error(w, "not found", 404)
		case errors.Is(err, ErrInvalidTransition):
			http.Error(w, err.Error(), 409)
		default:
			http.Error(w, err.Error(), 500)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": result})
}

// GET /users/{userID}/appointments
func (h *Handler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		http.Error(w, "missing user id", 400)
		return
	}

	list, err := h.svc.ListByUser(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"appointments": list})
}

// GET /users/{userID}/coupons
func (h *Handler) CouponsByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		http.Error(w, "missing user id", 400)
		return
	}

	encoded, err := h.svc.CouponsByUser(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"coupons": encoded})
}

// GET /admin/doctors/{doctorID}/appointments
func (h *Handler) DoctorWorklist(w http.ResponseWriter, r *http.Request) {
	doctorID := chi.URLParam(r, "doctorID")
	if doctorID == "" {
		http.Error(w, "missing doctor id", 400)
		return
	}

	items, err := h.svc.DoctorWorklist(r.Context(), doctorID)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"appointments": items})
}
