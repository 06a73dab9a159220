package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const secret = "0123456789abcdef0123456789abcdef"

func validConfig() Config {
	return Config{
		Port:          "8080",
		DBPath:        "./data/sheets.db",
		JWTSecret:     secret,
		TokenDuration: time.Hour,
		LogLevel:      "info",
		LogFormat:     "text",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(*Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid config",
			modify:  func(*Config) {},
			wantErr: false,
		},
		{
			name:        "invalid port - non-numeric",
			modify:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range",
			modify:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "missing secret",
			modify:      func(c *Config) { c.JWTSecret = "" },
			wantErr:     true,
			errorString: "JWT_SECRET is required",
		},
		{
			name:        "short secret",
			modify:      func(c *Config) { c.JWTSecret = "short" },
			wantErr:     true,
			errorString: "JWT_SECRET must be at least 32 bytes",
		},
		{
			name:        "token duration too short",
			modify:      func(c *Config) { c.TokenDuration = time.Second },
			wantErr:     true,
			errorString: "invalid token duration 1s",
		},
		{
			name:        "unknown log format",
			modify:      func(c *Config) { c.LogFormat = "xml" },
			wantErr:     true,
			errorString: "invalid log format 'xml'",
		},
		{
			name:        "unknown log level",
			modify:      func(c *Config) { c.LogLevel = "verbose" },
			wantErr:     true,
			errorString: "invalid log level 'verbose'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !strings.Contains(err.Error(), tt.errorString) {
				t.Errorf("Validate() error = %v, want it to contain %q", err, tt.errorString)
			}
		})
	}
}

func TestConfig_ValidateListsEveryProblem(t *testing.T) {
	cfg := validConfig()
	cfg.Port = "abc"
	cfg.JWTSecret = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Expected error")
	}
	for _, want := range []string{"invalid port", "JWT_SECRET is required"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestLoad(t *testing.T) {
	for _, key := range []string{"PORT", "DB_PATH", "JWT_SECRET", "TOKEN_DURATION", "LOG_LEVEL", "LOG_FORMAT", "METRICS_ENABLED"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	envFile := filepath.Join(t.TempDir(), ".env")
	content := "JWT_SECRET=" + secret + "\nTOKEN_DURATION=2h\nPORT=9090\n"
	if err := os.WriteFile(envFile, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("PORT", "7070")

	cfg, err := Load(envFile, filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.JWTSecret != secret {
		t.Errorf("JWTSecret = %q, want value from .env", cfg.JWTSecret)
	}
	if cfg.TokenDuration != 2*time.Hour {
		t.Errorf("TokenDuration = %v, want 2h", cfg.TokenDuration)
	}
	if cfg.Port != "7070" {
		t.Errorf("Port = %q, environment should win over .env", cfg.Port)
	}
	if cfg.DBPath != "./data/sheets.db" || cfg.LogFormat != "text" || !cfg.MetricsEnabled {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}
