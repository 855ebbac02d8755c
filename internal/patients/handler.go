package patients

import (
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

// POST /patients
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterPatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), 400)
		return
	}

	id, err := h.svc.Register(r.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrMissingUserID) || errors.Is(err, ErrMissingName) || errors.Is(err, ErrMissingPhone) {
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

// GET /patients/{userID}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		http.Error(w, "missing user id", 400)
		return
	}

	p, err := h.svc.GetByUserID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrPatientNotFound) {
			http.Error(w, "not found", 404)
			return
		}
		http.Error(w, err.Error(), 500)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(p)
}

// GET /admin/doctors/{doctorID}/patients?window=today|7d|all
func (h *Handler) Roster(w http.ResponseWriter, r *http.Request) {
	doctorID := chi.URLParam(r, "doctorID")
	if doctorID == "" {
		http.Error(w, "missing doctor id", 400)
		return
	}

	window := RosterWindow(r.URL.Query().Get("window"))
	switch window {
	case WindowToday, WindowWeek:
	case "", WindowAll:
		window = WindowAll
	default:
		http.Error(w, "invalid window", 400)
		return
	}

	list, err := h.svc.Roster(r.Context(), doctorID, window)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"window":   window,
		"patients": list,
	})
}

// GET /admin/doctors/{doctorID}/stats
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	doctorID := chi.URLParam(r, "doctorID")
	if doctorID == "" {
		http.Error(w, "missing doctor id", 400)
		return
	}

	hourly, err := h.svc.HourlyDistribution(r.Context(), doctorID)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	reasons, err := h.svc.ReasonDistribution(r.Context(), doctorID)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"hourly":  hourly,
		"reasons": reasons,
	})
}
