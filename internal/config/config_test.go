package config

import (
	"math"
	"os"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	// Clear any existing env vars that might interfere
	clearEnv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with defaults failed: %v", err)
	}

	// Check defaults are applied
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.Env != EnvDevelopment {
		t.Errorf("Env = %q, want %q", cfg.Env, EnvDevelopment)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.LogFormat != "text" {
		t.Errorf("LogFormat = %q, want %q", cfg.LogFormat, "text")
	}
	if cfg.TimeZoneOffset != 7 {
		t.Errorf("TimeZoneOffset = %g, want 7", cfg.TimeZoneOffset)
	}
	if cfg.RateLimitRPS != 20 || cfg.RateLimitBurst != 40 {
		t.Errorf("rate limit = %g/%d, want 20/40", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv()

	// Set custom values
	os.Setenv("PORT", "3000")
	os.Setenv("ENV", "production")
	os.Setenv("DATABASE_PATH", "/data/test.db")
	os.Setenv("API_KEY", "secret-key-123")
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("LOG_FORMAT", "json")
	os.Setenv("TIMEZONE_OFFSET", "8")
	defer clearEnv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != 3000 {
		t.Errorf("Port = %d, want 3000", cfg.Port)
	}
	if cfg.Env != EnvProduction {
		t.Errorf("Env = %q, want %q", cfg.Env, EnvProduction)
	}
	if cfg.DatabasePath != "/data/test.db" {
		t.Errorf("DatabasePath = %q, want %q", cfg.DatabasePath, "/data/test.db")
	}
	if cfg.APIKey != "secret-key-123" {
		t.Errorf("APIKey = %q, want %q", cfg.APIKey, "secret-key-123")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q, want %q", cfg.LogFormat, "json")
	}
	if cfg.TimeZoneOffset != 8 {
		t.Errorf("TimeZoneOffset = %g, want 8", cfg.TimeZoneOffset)
	}
}

func TestLoad_InvalidTimeZone(t *testing.T) {
	for _, v := range []string{"15", "-12.5", "NaN"} {
		t.Run(v, func(t *testing.T) {
			clearEnv()
			os.Setenv("TIMEZONE_OFFSET", v)
			defer clearEnv()

			if _, err := Load(); err == nil {
				t.Errorf("Load() with TIMEZONE_OFFSET=%s succeeded, want error", v)
			}
		})
	}
}

func TestValidTimeZoneOffset(t *testing.T) {
	tests := []struct {
		tz   float64
		want bool
	}{
		{7, true},
		{-12, true},
		{14, true},
		{5.75, true},
		{14.5, false},
		{-13, false},
		{math.NaN(), false},
		{math.Inf(1), false},
	}

	for _, tt := range tests {
		if got := ValidTimeZoneOffset(tt.tz); got != tt.want {
			t.Errorf("ValidTimeZoneOffset(%v) = %v, want %v", tt.tz, got, tt.want)
		}
	}
}

func TestConfig_Validate(t *testing.T) {
	// Table-driven tests for validation
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name: "valid development config",
			config: Config{
				Port:           8080,
				Env:            EnvDevelopment,
				DatabasePath:   "./data/test.db",
				APIKey:         "", // OK in development
				LogLevel:       "info",
				LogFormat:      "text",
				TimeZoneOffset: 7,
			},
			wantErr: false,
		},
		{
			name: "valid production config",
			config: Config{
				Port:           8080,
				Env:            EnvProduction,
				DatabasePath:   "/data/amlich.db",
				APIKey:         "required-in-prod",
				LogLevel:       "info",
				LogFormat:      "json",
				TimeZoneOffset: 7,
			},
			wantErr: false,
		},
		{
			name: "production requires API key",
			config: Config{
				Port:           8080,
				Env:            EnvProduction,
				DatabasePath:   "/data/amlich.db",
				APIKey:         "", // Missing!
				LogLevel:       "info",
				LogFormat:      "json",
				TimeZoneOffset: 7,
			},
			wantErr: true,
		},
		{
			name: "invalid port - too low",
			config: Config{
				Port:           0,
				Env:            EnvDevelopment,
				DatabasePath:   "./data/test.db",
				LogLevel:       "info",
				LogFormat:      "text",
				TimeZoneOffset: 7,
			},
			wantErr: true,
		},
		{
			name: "invalid port - too high",
			config: Config{
				Port:           70000,
				Env:            EnvDevelopment,
				DatabasePath:   "./data/test.db",
				LogLevel:       "info",
				LogFormat:      "text",
				TimeZoneOffset: 7,
			},
			wantErr: true,
		},
		{
			name: "invalid environment",
			config: Config{
				Port:           8080,
				Env:            "invalid",
				DatabasePath:   "./data/test.db",
				LogLevel:       "info",
				LogFormat:      "text",
				TimeZoneOffset: 7,
			},
			wantErr: true,
		},
		{
			name: "invalid log level",
			config: Config{
				Port:           8080,
				Env:            EnvDevelopment,
				DatabasePath:   "./data/test.db",
				LogLevel:       "verbose", // Not valid
				LogFormat:      "text",
				TimeZoneOffset: 7,
			},
			wantErr: true,
		},
		{
			name: "invalid log format",
			config: Config{
				Port:           8080,
				Env:            EnvDevelopment,
				DatabasePath:   "./data/test.db",
				LogLevel:       "info",
				LogFormat:      "xml", // Not valid
				TimeZoneOffset: 7,
			},
			wantErr: true,
		},
		{
			name: "time zone out of range",
			config: Config{
				Port:           8080,
				Env:            EnvDevelopment,
				DatabasePath:   "./data/test.db",
				LogLevel:       "info",
				LogFormat:      "text",
				TimeZoneOffset: -13,
			},
			wantErr: true,
		},
		{
			name: "negative rate limit",
			config: Config{
				Port:           8080,
				Env:            EnvDevelopment,
				DatabasePath:   "./data/test.db",
				LogLevel:       "info",
				LogFormat:      "text",
				TimeZoneOffset: 7,
				RateLimitRPS:   -1,
			},
			wantErr: true,
		},
		{
			name: "rate limit without burst",
			config: Config{
				Port:           8080,
				Env:            EnvDevelopment,
				DatabasePath:   "./data/test.db",
				LogLevel:       "info",
				LogFormat:      "text",
				TimeZoneOffset: 7,
				RateLimitRPS:   10,
				RateLimitBurst: 0,
			},
			wantErr: true,
		},
		{
			name: "empty database path",
			config: Config{
				Port:           8080,
				Env:            EnvDevelopment,
				DatabasePath:   "",
				LogLevel:       "info",
				LogFormat:      "text",
				TimeZoneOffset: 7,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	cfg := &Config{Env: EnvDevelopment}
	if !cfg.IsDevelopment() {
		t.Error("IsDevelopment() = false, want true")
	}

	cfg.Env = EnvProduction
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment() = true, want false")
	}
}

func TestConfig_IsProduction(t *testing.T) {
	cfg := &Config{Env: EnvProduction}
	if !cfg.IsProduction() {
		t.Error("IsProduction() = false, want true")
	}

	cfg.Env = EnvDevelopment
	if cfg.IsProduction() {
		t.Error("IsProduction() = true, want false")
	}
}

// clearEnv removes all config-related environment variables
func clearEnv() {
	vars := []string{
		"PORT", "ENV", "DATABASE_PATH", "API_KEY",
		"LOG_LEVEL", "LOG_FORMAT", "TIMEZONE_OFFSET",
		"RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	}
	for _, v := range vars {
		os.Unsetenv(v)
	}
}
