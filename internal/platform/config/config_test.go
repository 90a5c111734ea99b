package config

import (
	"strings"
	"testing"
)

func validConfig() Config {
	return Config{
		DatabaseURL:            "postgres://localhost/reviewhub",
		Environment:            "development",
		MaxBodyBytes:           1 << 20,
		WorkloadThreshold:      15,
		PlanCacheSize:          16,
		ReadinessSweepSchedule: "@hourly",
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/reviewhub")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Fatalf("expected default addr, got %q", cfg.Addr)
	}
	if cfg.WorkloadThreshold != 15 {
		t.Fatalf("expected default workload threshold 15, got %d", cfg.WorkloadThreshold)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("WORKLOAD_THRESHOLD", "20")
	t.Setenv("RUN_MIGRATIONS", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.WorkloadThreshold != 20 || cfg.RunMigrations {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]func(*Config){
		"DATABASE_URL":             func(c *Config) { c.DatabaseURL = "" },
		"JWT_SECRET":               func(c *Config) { c.Environment = "production" },
		"MAX_BODY_BYTES":           func(c *Config) { c.MaxBodyBytes = 10 },
		"WORKLOAD_THRESHOLD":       func(c *Config) { c.WorkloadThreshold = 0 },
		"PLAN_CACHE_SIZE":          func(c *Config) { c.PlanCacheSize = -1 },
		"READINESS_SWEEP_SCHEDULE": func(c *Config) { c.ReadinessSweepSchedule = "every now and then" },
	}
	for key, mutate := range cases {
		cfg := validConfig()
		mutate(&cfg)
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), key) {
			t.Fatalf("expected %s validation error, got %v", key, err)
		}
	}
}
