// Package config loads FlashTeacher settings from an optional .env file and
// FLASHTEACHER_* environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/ben-spiller/FlashTeacher/internal/drill"
	"github.com/ben-spiller/FlashTeacher/internal/llm"
	"github.com/ben-spiller/FlashTeacher/internal/question"
)

// Environment variable names.
const (
	EnvDB                = "FLASHTEACHER_DB"
	EnvLocale            = "FLASHTEACHER_LOCALE"
	EnvCollationStrength = "FLASHTEACHER_COLLATION_STRENGTH"
	EnvPrioritizedProb   = "FLASHTEACHER_P_PRIORITIZED"
	EnvBadTimeProb       = "FLASHTEACHER_P_BAD_TIME"
	EnvUnknownFraction   = "FLASHTEACHER_UNKNOWN_FRACTION"
)

// Config is the complete application configuration.
type Config struct {
	// DB is a SQLite file path or a postgres:// DSN. Empty means the
	// default SQLite location.
	DB string

	Match question.MatchConfig
	Drill drill.Config
	LLM   llm.Config
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		Match: question.DefaultMatchConfig(),
		Drill: drill.DefaultConfig(),
		LLM:   llm.DefaultConfig(),
	}
}

// Load reads .env from the working directory if present, then the
// environment. Variables already set in the environment win over .env.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from environment variables over Default.
func FromEnv() (Config, error) {
	cfg := Default()
	cfg.DB = os.Getenv(EnvDB)
	cfg.Match.Locale = getenvDefault(EnvLocale, cfg.Match.Locale)

	if v := os.Getenv(EnvCollationStrength); v != "" {
		s, err := question.ParseStrength(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", EnvCollationStrength, err)
		}
		cfg.Match.Strength = s
	}

	floats := []struct {
		env string
		dst *float64
	}{
		{EnvPrioritizedProb, &cfg.Drill.PrioritizedProbability},
		{EnvBadTimeProb, &cfg.Drill.BadTimeProbability},
		{EnvUnknownFraction, &cfg.Drill.UnknownFractionThreshold},
	}
	for _, f := range floats {
		v := os.Getenv(f.env)
		if v == "" {
			continue
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Config{}, fmt.Errorf("config: %s=%q is not a number: %w", f.env, v, err)
		}
		*f.dst = n
	}
	if err := cfg.Drill.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	cfg.LLM = llm.ConfigFromEnv()
	return cfg, nil
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}
