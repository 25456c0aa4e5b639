package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	ServerPort string
	DBPath     string
	LogLevel   string
	DataDir    string
	AdminToken string

	IdentityAPIURL string
	RankingAPIURL  string
	VanillaListURL string
	EloAPIURL      string

	RedisURL string
	Scraper  string

	RankingAPIRPS float64
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		DBPath:         getEnv("DB_PATH", "overrides.db"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		DataDir:        getEnv("DATA_DIR", "data"),
		AdminToken:     getEnv("ADMIN_TOKEN", ""),
		IdentityAPIURL: strings.TrimRight(getEnv("IDENTITY_API_URL", "https://api.mojang.com/users/profiles/minecraft"), "/"),
		RankingAPIURL:  strings.TrimRight(getEnv("RANKING_API_URL", "https://mctiers.com/api/search_profile"), "/"),
		VanillaListURL: getEnv("VANILLALIST_URL", "https://vanillalist.xyz/"),
		EloAPIURL:      strings.TrimRight(getEnv("ELO_API_URL", ""), "/"),
		RedisURL:       getEnv("REDIS_URL", ""),
		Scraper:        strings.ToLower(getEnv("SCRAPER", "dom")),
	}

	rps, err := strconv.ParseFloat(getEnv("RANKING_API_RPS", "5"), 64)
	if err != nil || rps <= 0 {
		return nil, fmt.Errorf("RANKING_API_RPS must be a positive number")
	}
	cfg.RankingAPIRPS = rps

	if cfg.AdminToken == "" {
		return nil, fmt.Errorf("ADMIN_TOKEN is required")
	}
	if cfg.Scraper != "dom" && cfg.Scraper != "regex" {
		return nil, fmt.Errorf("SCRAPER must be one of dom, regex; got %q", cfg.Scraper)
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Str("data_dir", cfg.DataDir).
		Str("scraper", cfg.Scraper).
		Bool("elo_enabled", cfg.EloAPIURL != "").
		Bool("redis_profile_cache", cfg.RedisURL != "").
		Float64("ranking_api_rps", cfg.RankingAPIRPS).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var Module = fx.Provide(Load)
