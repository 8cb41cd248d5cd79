package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Server   Server
	Postgres Postgres
	Redis    Redis
	AI       AI
	Stripe   Stripe
	Supabase Supabase
	Bot      Bot
	Watcher  Watcher
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	if err := config.AI.validate(); err != nil {
		return Config{}, fmt.Errorf("ai: %w", err)
	}

	return config, nil
}
