package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/robfig/cron/v3"
)

type Config struct {
	Addr                   string `env:"APP_ADDR" envDefault:":8080"`
	DatabaseURL            string `env:"DATABASE_URL"`
	JWTSecret              string `env:"JWT_SECRET"`
	Environment            string `env:"APP_ENV" envDefault:"development"`
	LogLevel               string `env:"LOG_LEVEL" envDefault:"info"`
	RunMigrations          bool   `env:"RUN_MIGRATIONS" envDefault:"true"`
	MigrationsDir          string `env:"MIGRATIONS_DIR" envDefault:"migrations"`
	MaxBodyBytes           int64  `env:"MAX_BODY_BYTES" envDefault:"1048576"`
	WorkloadThreshold      int    `env:"WORKLOAD_THRESHOLD" envDefault:"15"`
	PlanCacheSize          int    `env:"PLAN_CACHE_SIZE" envDefault:"128"`
	ReadinessSweepSchedule string `env:"READINESS_SWEEP_SCHEDULE" envDefault:"@hourly"`
	MetricsEnabled         bool   `env:"METRICS_ENABLED" envDefault:"true"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.IsProduction() && strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.WorkloadThreshold <= 0 {
		return fmt.Errorf("WORKLOAD_THRESHOLD must be positive")
	}
	if c.PlanCacheSize <= 0 {
		return fmt.Errorf("PLAN_CACHE_SIZE must be positive")
	}
	if c.ReadinessSweepSchedule != "" {
		if _, err := cron.ParseStandard(c.ReadinessSweepSchedule); err != nil {
			return fmt.Errorf("READINESS_SWEEP_SCHEDULE is invalid: %w", err)
		}
	}
	return nil
}
