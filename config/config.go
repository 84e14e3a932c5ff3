// Package config reads server settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/ratel-online/faker/consts"
)

type Config struct {
	TCPAddr     string
	WSAddr      string
	PublicURL   string
	PromptsPath string
	TurnTimeout time.Duration
	VoteTimeout time.Duration
}

// Load reads the given env files (".env" when none) and then the process
// environment. Missing files are ignored; variables already set win.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("loading env file: %w", err)
	}
	cfg := Config{
		TCPAddr:     getenv("FAKER_TCP_ADDR", ":9999"),
		WSAddr:      getenv("FAKER_WS_ADDR", ":9998"),
		PublicURL:   getenv("FAKER_PUBLIC_URL", "http://localhost:9998"),
		PromptsPath: os.Getenv("FAKER_PROMPTS"),
	}
	var err error
	if cfg.TurnTimeout, err = duration("FAKER_TURN_TIMEOUT", consts.TurnTimeout); err != nil {
		return Config{}, err
	}
	if cfg.VoteTimeout, err = duration("FAKER_VOTE_TIMEOUT", consts.VoteTimeout); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func duration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s: must be positive, got %s", key, v)
	}
	return d, nil
}
