package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/pulsecare/clinic-platform/cmd/mainconfig"
	"github.com/pulsecare/clinic-platform/internal/api/router"
	"github.com/pulsecare/clinic-platform/internal/appointments"
	appconfig "github.com/pulsecare/clinic-platform/internal/config"
	"github.com/pulsecare/clinic-platform/internal/coupons"
	"github.com/pulsecare/clinic-platform/internal/docstore"
	"github.com/pulsecare/clinic-platform/internal/doctors"
	"github.com/pulsecare/clinic-platform/internal/notify"
	"github.com/pulsecare/clinic-platform/internal/observability/metrics"
	"github.com/pulsecare/clinic-platform/internal/patients"
	"github.com/pulsecare/clinic-platform/internal/schedule"
	"github.com/pulsecare/clinic-platform/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting clinic-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	registry := prometheus.NewRegistry()
	bookingMetrics := metrics.NewBookingMetrics(registry)

	awsCfg, err := mainconfig.LoadAWSConfig(context.Background(), cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}
	dynamoClient := dynamodb.NewFromConfig(awsCfg)
	store := docstore.New(dynamoClient, bookingMetrics, logger)

	formatter, err := schedule.NewFormatter(cfg.DisplayTimezone)
	if err != nil {
		logger.Error("failed to load display timezone", "timezone", cfg.DisplayTimezone, "error", err)
		os.Exit(1)
	}

	var reservations coupons.ReservationStore
	if cfg.RedisAddr != "" {
		opts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		reservations = coupons.NewRedisReservations(redis.NewClient(opts))
		logger.Info("coupon reservations backed by redis", "addr", cfg.RedisAddr)
	} else {
		reservations = coupons.NewMemoryReservations()
		logger.Warn("coupon reservations in memory only, restarts forget issued coupons")
	}
	selector := coupons.NewSelector(coupons.Catalog(), reservations, bookingMetrics, logger)

	var sender notify.SMSSender
	if cfg.SMSAPIKey != "" {
		sender = notify.NewTelnyxSender(cfg.SMSAPIKey, cfg.SMSFromNumber, cfg.SMSMessagingProfileID, cfg.SMSTimeout, cfg.SMSMaxRetries, logger)
	} else {
		sender = notify.NewStubSender(logger)
	}
	notifier := notify.NewService(sender, cfg.ClinicName, bookingMetrics, logger)

	patientsRepo := patients.NewStoreRepository(store, cfg.PatientsTable)
	patientsSvc := patients.NewService(patientsRepo, formatter, logger)

	appointmentsRepo := appointments.NewStoreRepository(store, cfg.AppointmentsTable)
	appointmentsSvc := appointments.NewService(appointmentsRepo, patientsSvc, selector, notifier, formatter, bookingMetrics, logger)

	doctorsRepo := doctors.NewRepository(store, cfg.DoctorsTable)

	r := router.New(&router.Config{
		Logger:              logger,
		AppointmentsHandler: appointments.NewHandler(appointmentsSvc),
		PatientsHandler:     patients.NewHandler(patientsSvc),
		DoctorsHandler:      doctors.NewHandler(doctorsRepo),
		MetricsHandler:      promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		AdminAuthSecret:     cfg.AdminJWTSecret,
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
		PublicWriteRate:     cfg.PublicWriteRate,
		PublicWriteBurst:    cfg.PublicWriteBurst,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
