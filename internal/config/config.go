package config

import (
	"fmt"
	"log/slog"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds all application configuration
type Config struct {
	// MongoDB Configuration
	MongoURL                    string `env:"MONGO_URL" validate:"required"`
	DBName                      string `env:"DB_NAME" validate:"required"`
	MongoTLS                    bool
	MongoTimeout                time.Duration
	MongoConnectTimeout         time.Duration
	MongoServerSelectionTimeout time.Duration

	// HTTP Server Configuration
	HTTPPort         string `env:"HTTP_PORT" validate:"required,numeric"`
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration

	// Logging Configuration
	LogLevel  string
	LogFormat string `env:"LOG_FORMAT" validate:"oneof=json text"`

	// API Configuration
	APITitle string

	// CORS Configuration
	CORSAllowedOrigins []string `env:"CORS_ORIGINS" validate:"min=1"`
	CORSMaxAge         int

	// Monitor Configuration
	MonitorEnabled  bool
	MonitorSchedule string
}

// Load reads configuration from the environment, applies defaults and
// validates the required values. A missing MONGO_URL or DB_NAME is an error.
func Load() (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", strings.ToLower), nil); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	src := &source{k: k}

	cfg := &Config{
		// MongoDB
		MongoURL:                    src.getEnv("MONGO_URL", ""),
		DBName:                      src.getEnv("DB_NAME", ""),
		MongoTLS:                    src.getBoolEnv("MONGO_TLS", true),
		MongoTimeout:                src.getDurationEnv("MONGO_TIMEOUT_SEC", 10, time.Second),
		MongoConnectTimeout:         src.getDurationEnv("MONGO_CONNECT_TIMEOUT_MS", 10000, time.Millisecond),
		MongoServerSelectionTimeout: src.getDurationEnv("MONGO_SERVER_SELECTION_TIMEOUT_MS", 5000, time.Millisecond),

		// HTTP Server
		HTTPPort:         src.getEnv("HTTP_PORT", "8001"),
		HTTPReadTimeout:  src.getDurationEnv("HTTP_READ_TIMEOUT_SEC", 30, time.Second),
		HTTPWriteTimeout: src.getDurationEnv("HTTP_WRITE_TIMEOUT_SEC", 30, time.Second),

		// Logging
		LogLevel:  src.getEnv("LOG_LEVEL", "info"),
		LogFormat: strings.ToLower(src.getEnv("LOG_FORMAT", "json")),

		// API
		APITitle: src.getEnv("API_TITLE", "Portfolio API"),

		// CORS
		CORSAllowedOrigins: ParseOrigins(src.getEnv("CORS_ORIGINS", "*")),
		CORSMaxAge:         src.getIntEnv("CORS_MAX_AGE", 600),

		// Monitor
		MonitorEnabled:  src.getBoolEnv("MONITOR_ENABLED", true),
		MonitorSchedule: src.getEnv("MONITOR_SCHEDULE", "@every 30s"),
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ParseOrigins splits a comma-separated origin list, dropping blanks.
func ParseOrigins(raw string) []string {
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

func validate(cfg *Config) error {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		if name := field.Tag.Get("env"); name != "" {
			return name
		}
		return field.Name
	})

	err := v.Struct(cfg)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	var missing, invalid []string
	for _, fe := range validationErrors {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
			continue
		}
		invalid = append(invalid, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return fmt.Errorf("invalid environment variables: %s", strings.Join(invalid, ", "))
}

// source reads values loaded by koanf; keys are the lowercased variable names
type source struct {
	k *koanf.Koanf
}

func (s *source) getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(s.k.String(strings.ToLower(key))); value != "" {
		return value
	}
	return defaultValue
}

func (s *source) getIntEnv(key string, defaultValue int) int {
	if value := s.getEnv(key, ""); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		slog.Warn("Invalid integer value, using default", "key", key, "default", defaultValue)
	}
	return defaultValue
}

// getDurationEnv reads an integer count of unit
func (s *source) getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	return time.Duration(s.getIntEnv(key, defaultValue)) * unit
}

func (s *source) getBoolEnv(key string, defaultValue bool) bool {
	if value := s.getEnv(key, ""); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
		slog.Warn("Invalid boolean value, using default", "key", key, "default", defaultValue)
	}
	return defaultValue
}
