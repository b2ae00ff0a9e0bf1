package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
)

const (
	DEFAULT_TOP_N     = 10
	DEFAULT_LOG_LEVEL = "info"
)

type Config struct {
	LogLevel string
	Workers  int   // comparisons run at once
	TopN     int   // matches printed by rank
	Seed     int64 // reference track pick in eval, 0 seeds from the clock
	// skip candidates shorter than the sample instead of warning about them
	StrictLength bool
}

func GetEnv(key string, fallback ...string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	if len(fallback) > 0 {
		return fallback[0]
	}
	return ""
}

// Load reads the FPDIST_* variables, call godotenv.Load before this if a .env file should count
func Load() (Config, error) {
	cfg := Config{
		LogLevel: GetEnv("FPDIST_LOG_LEVEL", DEFAULT_LOG_LEVEL),
	}

	var err error
	if cfg.Workers, err = positiveInt("FPDIST_WORKERS", runtime.NumCPU()); err != nil {
		return Config{}, err
	}
	if cfg.TopN, err = positiveInt("FPDIST_TOP_N", DEFAULT_TOP_N); err != nil {
		return Config{}, err
	}

	if v := GetEnv("FPDIST_SEED"); v != "" {
		cfg.Seed, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid FPDIST_SEED %q: %w", v, err)
		}
	}

	if v := GetEnv("FPDIST_STRICT_LENGTH"); v != "" {
		cfg.StrictLength, err = strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid FPDIST_STRICT_LENGTH %q: %w", v, err)
		}
	}

	return cfg, nil
}

func positiveInt(key string, fallback int) (int, error) {
	v := GetEnv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	if n < 1 {
		return 0, fmt.Errorf("invalid %s %q: must be at least 1", key, v)
	}
	return n, nil
}
