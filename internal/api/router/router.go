// Package router assembles the HTTP surface of the booking service.
package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pulsecare/clinic-platform/internal/appointments"
	"github.com/pulsecare/clinic-platform/internal/doctors"
	httpmiddleware "github.com/pulsecare/clinic-platform/internal/http/middleware"
	"github.com/pulsecare/clinic-platform/internal/patients"
	"github.com/pulsecare/clinic-platform/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger              *logging.Logger
	AppointmentsHandler *appointments.Handler
	PatientsHandler     *patients.Handler
	DoctorsHandler      *doctors.Handler
	MetricsHandler      http.Handler
	AdminAuthSecret     string
	CORSAllowedOrigins  []string

	// Per-IP limit on the public write endpoints. Zero disables limiting.
	PublicWriteRate  float64
	PublicWriteBurst int
}

// New creates a Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	limitWrites := func(next http.Handler) http.Handler { return next }
	if cfg.PublicWriteRate > 0 {
		limitWrites = httpmiddleware.RateLimit(cfg.PublicWriteRate, cfg.PublicWriteBurst)
	}

	// Public endpoints used by the booking front end.
	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}

		if cfg.AppointmentsHandler != nil {
			public.With(limitWrites).Post("/appointments", cfg.AppointmentsHandler.Create)
			public.Get("/appointments/{appointmentID}", cfg.AppointmentsHandler.Get)
			public.Post("/appointments/{appointmentID}/cancel", cfg.AppointmentsHandler.Cancel)
			public.Get("/users/{userID}/appointments", cfg.AppointmentsHandler.ListByUser)
			public.Get("/users/{userID}/coupons", cfg.AppointmentsHandler.CouponsByUser)
		}
		if cfg.PatientsHandler != nil {
			public.With(limitWrites).Post("/patients", cfg.PatientsHandler.Register)
			public.Get("/patients/{userID}", cfg.PatientsHandler.Get)
		}
		if cfg.DoctorsHandler != nil {
			public.Get("/doctors", cfg.DoctorsHandler.List)
			public.Get("/doctors/{doctorID}", cfg.DoctorsHandler.Get)
		}
	})

	// Staff endpoints behind admin JWT.
	r.Route("/admin", func(admin chi.Router) {
		admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))

		if cfg.AppointmentsHandler != nil {
			admin.Get("/doctors/{doctorID}/appointments", cfg.AppointmentsHandler.DoctorWorklist)
			admin.Post("/appointments/{appointmentID}/schedule", cfg.AppointmentsHandler.Schedule)
		}
		if cfg.PatientsHandler != nil {
			admin.Get("/doctors/{doctorID}/patients", cfg.PatientsHandler.Roster)
			admin.Get("/doctors/{doctorID}/stats", cfg.PatientsHandler.Stats)
		}
		if cfg.DoctorsHandler != nil {
			admin.Post("/doctors", cfg.DoctorsHandler.Add)
			admin.Put("/doctors/{doctorID}", cfg.DoctorsHandler.UpdateProfile)
		}
	})

	return r
}

// GET /health
func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
