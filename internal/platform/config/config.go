package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"
)

// Config is the process configuration, read once at startup.
type Config struct {
	Server  Server
	Log     Log
	Clinic  Clinic
	Tracing Tracing
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	ShutdownTimeout time.Duration
	// RequestTimeout bounds a single request through chi's Timeout middleware.
	RequestTimeout time.Duration
}

type Log struct {
	Level  string
	Format string
}

// Clinic holds registry behaviour that varies per deployment.
type Clinic struct {
	// DisplayLang selects weekday names in responses ("es" or "en").
	DisplayLang string
	// Location interprets scheduled_at values that carry no offset.
	Location    *time.Location
	AuditBuffer int
	TxTimeout   time.Duration
}

type Tracing struct {
	Enabled      bool
	ServiceName  string
	OTLPEndpoint string
	SampleRate   float64
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() (Config, error) {
	tzName := getEnv("CLINIC_TIMEZONE", "UTC")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return Config{}, fmt.Errorf("CLINIC_TIMEZONE %q: %w", tzName, err)
	}

	cfg := Config{
		Server: Server{
			Addr:            getEnv("CLINIC_ADDR", ":8080"),
			ShutdownTimeout: getEnvDuration("CLINIC_SHUTDOWN_TIMEOUT", 10*time.Second),
			RequestTimeout:  getEnvDuration("CLINIC_REQUEST_TIMEOUT", 15*time.Second),
		},
		Log: Log{
			Level:  getEnv("CLINIC_LOG_LEVEL", "info"),
			Format: getEnv("CLINIC_LOG_FORMAT", "json"),
		},
		Clinic: Clinic{
			DisplayLang: strings.ToLower(getEnv("CLINIC_DISPLAY_LANG", "es")),
			Location:    loc,
			AuditBuffer: getEnvInt("CLINIC_AUDIT_BUFFER", 256),
			TxTimeout:   getEnvDuration("CLINIC_TX_TIMEOUT", 5*time.Second),
		},
		Tracing: Tracing{
			Enabled:      getEnvBool("CLINIC_TRACING_ENABLED", false),
			ServiceName:  getEnv("CLINIC_TRACING_SERVICE_NAME", "clinic"),
			OTLPEndpoint: getEnv("CLINIC_OTLP_ENDPOINT", "localhost:4318"),
			SampleRate:   getEnvFloat("CLINIC_TRACING_SAMPLE_RATE", 1.0),
		},
	}
	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validate(cfg Config) error {
	var errs []string
	if cfg.Clinic.DisplayLang != "es" && cfg.Clinic.DisplayLang != "en" {
		errs = append(errs, "CLINIC_DISPLAY_LANG must be es or en")
	}
	if f := cfg.Log.Format; f != "json" && f != "console" {
		errs = append(errs, "CLINIC_LOG_FORMAT must be json or console")
	}
	if cfg.Clinic.AuditBuffer < 1 {
		errs = append(errs, "CLINIC_AUDIT_BUFFER must be positive")
	}
	if cfg.Tracing.SampleRate < 0 || cfg.Tracing.SampleRate > 1 {
		errs = append(errs, "CLINIC_TRACING_SAMPLE_RATE must be between 0 and 1")
	}
	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
