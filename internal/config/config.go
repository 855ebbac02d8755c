package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string
	AdminJWTSecret     string

	// Document store (DynamoDB-backed collections)
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string
	AppointmentsTable   string
	PatientsTable       string
	DoctorsTable        string

	// Coupon reservations
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// SMS notifications
	SMSAPIKey             string
	SMSFromNumber         string
	SMSMessagingProfileID string
	SMSTimeout            time.Duration
	SMSMaxRetries         int

	// Display formatting
	ClinicName      string
	DisplayTimezone string

	// Per-IP limit on public write endpoints, requests/sec. Zero disables.
	PublicWriteRate  float64
	PublicWriteBurst int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "")),
		AdminJWTSecret:     getEnv("ADMIN_JWT_SECRET", ""),

		AWSRegion:           getEnv("AWS_REGION", "ap-south-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),
		AppointmentsTable:   getEnv("APPOINTMENTS_TABLE", "appointments"),
		PatientsTable:       getEnv("PATIENTS_TABLE", "patients"),
		DoctorsTable:        getEnv("DOCTORS_TABLE", "doctors"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		SMSAPIKey:             getEnv("SMS_API_KEY", ""),
		SMSFromNumber:         getEnv("SMS_FROM_NUMBER", ""),
		SMSMessagingProfileID: getEnv("SMS_MESSAGING_PROFILE_ID", ""),
		SMSTimeout:            getEnvAsDuration("SMS_TIMEOUT", 10*time.Second),
		SMSMaxRetries:         getEnvAsInt("SMS_MAX_RETRIES", 2),

		ClinicName:      getEnv("CLINIC_NAME", "PulseCare"),
		DisplayTimezone: getEnv("DISPLAY_TIMEZONE", "Asia/Kolkata"),

		PublicWriteRate:  getEnvAsFloat("PUBLIC_WRITE_RATE", 5),
		PublicWriteBurst: getEnvAsInt("PUBLIC_WRITE_BURST", 10),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func splitCSV(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
