// Package config loads application configuration from the environment and
// an optional YAML file, and wires up logging.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/raphaelgruber/structproof/internal/validate"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration values.
type Config struct {
	// Logging
	LogFile  string
	LogLevel slog.Level

	// HTTP server
	ServerPort string

	// Audit decision log (empty disables the store)
	AuditDBPath string

	// Default validation policy, overridable per call
	EntropyThreshold    float64
	ValidationMode      string
	DivisorEchoEnabled  bool
	VerificationTimeout time.Duration
}

// fileConfig is the YAML overlay schema. Pointer fields distinguish
// "absent" from zero values.
type fileConfig struct {
	LogFile               *string  `yaml:"log_file"`
	LogLevel              *string  `yaml:"log_level"`
	ServerPort            *string  `yaml:"server_port"`
	AuditDBPath           *string  `yaml:"audit_db_path"`
	EntropyThreshold      *float64 `yaml:"entropy_threshold"`
	ValidationMode        *string  `yaml:"validation_mode"`
	DivisorEchoEnabled    *bool    `yaml:"divisor_echo_enabled"`
	VerificationTimeoutMs *int     `yaml:"verification_timeout_ms"`
}

// Load reads configuration from environment variables.
func Load() Config {
	return Config{
		LogFile:  getEnv("STRUCTPROOF_LOG_FILE", "/tmp/structproof.log"),
		LogLevel: parseLogLevel(getEnv("STRUCTPROOF_LOG_LEVEL", "INFO")),

		ServerPort: getEnv("STRUCTPROOF_SERVER_PORT", "8590"),

		AuditDBPath: getEnv("STRUCTPROOF_AUDIT_DB", ""),

		EntropyThreshold:    getEnvFloat("STRUCTPROOF_ENTROPY_THRESHOLD", 0.85),
		ValidationMode:      getEnv("STRUCTPROOF_VALIDATION_MODE", validate.ModeStrict),
		DivisorEchoEnabled:  getEnv("STRUCTPROOF_DIVISOR_ECHO", "true") != "false",
		VerificationTimeout: time.Duration(getEnvInt("STRUCTPROOF_TIMEOUT_MS", 100)) * time.Millisecond,
	}
}

// LoadFile overlays values from a YAML file onto cfg. Fields absent from
// the file keep their current values.
func LoadFile(cfg Config, path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return cfg, fmt.Errorf("parse config file: %w", err)
	}

	if fc.LogFile != nil {
		cfg.LogFile = *fc.LogFile
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = parseLogLevel(*fc.LogLevel)
	}
	if fc.ServerPort != nil {
		cfg.ServerPort = *fc.ServerPort
	}
	if fc.AuditDBPath != nil {
		cfg.AuditDBPath = *fc.AuditDBPath
	}
	if fc.EntropyThreshold != nil {
		cfg.EntropyThreshold = *fc.EntropyThreshold
	}
	if fc.ValidationMode != nil {
		cfg.ValidationMode = *fc.ValidationMode
	}
	if fc.DivisorEchoEnabled != nil {
		cfg.DivisorEchoEnabled = *fc.DivisorEchoEnabled
	}
	if fc.VerificationTimeoutMs != nil {
		cfg.VerificationTimeout = time.Duration(*fc.VerificationTimeoutMs) * time.Millisecond
	}

	return cfg, nil
}

// Validation maps the app-level defaults to a per-call validation policy.
func (c Config) Validation() validate.Config {
	return validate.Config{
		EntropyThreshold:    c.EntropyThreshold,
		Mode:                c.ValidationMode,
		DivisorEchoEnabled:  c.DivisorEchoEnabled,
		VerificationTimeout: c.VerificationTimeout,
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
