package config

import (
	"strings"
	"testing"
	"time"

	"flownet/pkg/logger"
)

func validConfig() *Config {
	return &Config{
		App:  AppConfig{Name: "flownet", Environment: "development"},
		HTTP: HTTPConfig{Port: 8080},
		Log:  logger.Config{Level: "info"},
		Solver: SolverConfig{
			MaxNodes:     10000,
			MaxEdges:     100000,
			SolveTimeout: time.Minute,
		},
	}
}

func TestConfig_Validate(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("valid config should pass: %v", err)
	}
}

func TestConfig_Validate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing app name",
			mutate:  func(c *Config) { c.App.Name = "" },
			wantErr: "app.name",
		},
		{
			name:    "bad http port",
			mutate:  func(c *Config) { c.HTTP.Port = 0 },
			wantErr: "http.port",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Log.Level = "verbose" },
			wantErr: "log.level",
		},
		{
			name: "bad cache driver",
			mutate: func(c *Config) {
				c.Cache.Enabled = true
				c.Cache.Driver = "memcached"
			},
			wantErr: "cache.driver",
		},
		{
			name:    "sample rate out of range",
			mutate:  func(c *Config) { c.Tracing.SampleRate = 1.5 },
			wantErr: "tracing.sample_rate",
		},
		{
			name:    "auth enabled without credentials",
			mutate:  func(c *Config) { c.Auth.Enabled = true },
			wantErr: "auth.jwt_secret",
		},
		{
			name:    "negative max nodes",
			mutate:  func(c *Config) { c.Solver.MaxNodes = -1 },
			wantErr: "solver.max_nodes",
		},
		{
			name:    "zero solve timeout",
			mutate:  func(c *Config) { c.Solver.SolveTimeout = 0 },
			wantErr: "solver.solve_timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Validate_DefaultsLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Log.Level = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty log level should default, got %v", err)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("expected level defaulted to info, got %s", cfg.Log.Level)
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db.local",
		Port:     5432,
		Database: "flownet",
		Username: "svc",
		Password: "secret",
		SSLMode:  "disable",
	}
	want := "host=db.local port=5432 user=svc password=secret dbname=flownet sslmode=disable"
	if got := d.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}

func TestCacheConfig_Address(t *testing.T) {
	c := CacheConfig{Host: "redis.local", Port: 6379}
	if got := c.Address(); got != "redis.local:6379" {
		t.Errorf("Address() = %q", got)
	}
}

func TestConfig_EnvironmentHelpers(t *testing.T) {
	cfg := validConfig()
	if !cfg.IsDevelopment() {
		t.Error("development environment should report IsDevelopment")
	}
	cfg.App.Environment = "production"
	if !cfg.IsProduction() {
		t.Error("production environment should report IsProduction")
	}
	if cfg.IsDevelopment() {
		t.Error("production environment should not report IsDevelopment")
	}
}
