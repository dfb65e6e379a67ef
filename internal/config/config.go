package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	Port int
	Env  string

	// CORS
	AllowedOrigins []string

	// Session cache
	RedisURL   string
	SessionTTL time.Duration

	// Riot API
	RiotAPIKey       string
	RiotAccountBase  string
	RiotPlatformBase string

	// Bundle computation
	MatchHistoryDepth int
	MatchConcurrency  int
	PlayerConcurrency int
	MasteryCount      int

	// Champion catalog
	ChampionDataPath string

	// AI insight
	ModelID      string
	ModelBaseURL string
	ModelAPIKey  string
}

// Load loads configuration from environment variables.
// It returns an error if critical configuration is missing.
func Load() (*Config, error) {
	cfg := &Config{
		Port: getEnvInt("PORT", 8080),
		Env:  getEnv("ENV", "development"),

		SessionTTL: getEnvDuration("SESSION_TTL", time.Hour),

		RiotAccountBase:  getEnv("RIOT_ACCOUNT_BASE", "https://americas.api.riotgames.com"),
		RiotPlatformBase: getEnv("RIOT_PLATFORM_BASE", "https://na1.api.riotgames.com"),

		MatchHistoryDepth: getEnvInt("MATCH_HISTORY_DEPTH", 20),
		MatchConcurrency:  getEnvInt("MATCH_CONCURRENCY", 5),
		PlayerConcurrency: getEnvInt("PLAYER_CONCURRENCY", 4),
		MasteryCount:      getEnvInt("MASTERY_COUNT", 3),

		ChampionDataPath: getEnv("CHAMPION_DATA_PATH", ""),

		ModelID:      getEnv("MODEL_ID", ""),
		ModelBaseURL: getEnv("MODEL_BASE_URL", ""),
		ModelAPIKey:  getEnv("MODEL_API_KEY", ""),
	}

	// CORS
	origins := getEnv("ALLOWED_ORIGINS", "http://localhost:3000")
	rawOrigins := strings.Split(origins, ",")
	for _, o := range rawOrigins {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
		}
	}

	// Critical configuration - fail if missing
	var err error
	if cfg.RedisURL, err = getEnvRequired("REDIS_URL"); err != nil {
		return nil, err
	}
	if cfg.RiotAPIKey, err = getEnvRequired("RIOT_API_KEY"); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvRequired(key string) (string, error) {
	if value := os.Getenv(key); value != "" {
		return value, nil
	}
	return "", fmt.Errorf("missing required environment variable: %s", key)
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
