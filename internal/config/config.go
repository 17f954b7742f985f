// Package config содержит логику чтения конфигурации сервиса habitquest.
package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config содержит параметры конфигурации сервиса habitquest.
type Config struct {
	RunAddress         string `env:"RUN_ADDRESS"`
	DatabaseURI        string `env:"DATABASE_URI"`
	PushGatewayAddress string `env:"PUSH_GATEWAY_ADDRESS"`
	JWTSecret          string `env:"JWT_SECRET"`
	CompletionXP       int64  `env:"COMPLETION_XP"`
	ShieldCost         int64  `env:"SHIELD_COST"`
	TZOffsetMinutes    int    `env:"TZ_OFFSET_MINUTES"`
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envRunAddress := cfg.RunAddress
	envDatabaseURI := cfg.DatabaseURI
	envPushAddress := cfg.PushGatewayAddress
	envJWTSecret := cfg.JWTSecret
	envCompletionXP := cfg.CompletionXP
	envShieldCost := cfg.ShieldCost
	envTZOffset := cfg.TZOffsetMinutes

	flag.StringVar(&cfg.RunAddress, "a", "localhost:8080", "address and port for HTTP server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI")
	flag.StringVar(&cfg.PushGatewayAddress, "p", "", "push gateway address")
	flag.StringVar(&cfg.JWTSecret, "s", "habitquest-secret", "JWT signing secret")
	flag.Int64Var(&cfg.CompletionXP, "x", 20, "XP awarded per habit completion")
	flag.Int64Var(&cfg.ShieldCost, "c", 200, "XP cost of one streak shield")
	flag.IntVar(&cfg.TZOffsetMinutes, "t", 330, "display timezone offset from UTC in minutes")

	flag.Parse()

	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envDatabaseURI != "" {
		cfg.DatabaseURI = envDatabaseURI
	}
	if envPushAddress != "" {
		cfg.PushGatewayAddress = envPushAddress
	}
	if envJWTSecret != "" {
		cfg.JWTSecret = envJWTSecret
	}
	if envCompletionXP != 0 {
		cfg.CompletionXP = envCompletionXP
	}
	if envShieldCost != 0 {
		cfg.ShieldCost = envShieldCost
	}
	if envTZOffset != 0 {
		cfg.TZOffsetMinutes = envTZOffset
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = "localhost:8080"
	}

	return cfg, nil
}
