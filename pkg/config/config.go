package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	// Server
	Port string `mapstructure:"PORT"`
	Env  string `mapstructure:"ENV"`

	// Database
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Redis
	RedisURL string `mapstructure:"REDIS_URL"`

	// CORS
	CorsOrigins []string `mapstructure:"CORS_ORIGINS"`

	// Shot classification tolerances (meters)
	MissDirectionToleranceM float64 `mapstructure:"MISS_DIRECTION_TOLERANCE_M"`
	MissLengthToleranceM    float64 `mapstructure:"MISS_LENGTH_TOLERANCE_M"`

	// Club statistics
	StatsRecomputeCron string `mapstructure:"STATS_RECOMPUTE_CRON"`
	ProfileCacheTTL    int    `mapstructure:"PROFILE_CACHE_TTL"` // seconds

	// Course discovery (Overpass API)
	OverpassURL          string  `mapstructure:"OVERPASS_URL"`
	OverpassRateLimitRPS float64 `mapstructure:"OVERPASS_RATE_LIMIT_RPS"`
	OverpassTimeout      int     `mapstructure:"OVERPASS_TIMEOUT"` // seconds
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("DATABASE_URL", "file:roundtrack.db")
	viper.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	viper.SetDefault("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")
	viper.SetDefault("MISS_DIRECTION_TOLERANCE_M", 5.0)
	viper.SetDefault("MISS_LENGTH_TOLERANCE_M", 10.0)
	viper.SetDefault("STATS_RECOMPUTE_CRON", "0 3 * * *") // 3 AM daily
	viper.SetDefault("PROFILE_CACHE_TTL", 3600)
	viper.SetDefault("OVERPASS_URL", "https://overpass-api.de/api/interpreter")
	viper.SetDefault("OVERPASS_RATE_LIMIT_RPS", 0.5) // Overpass etiquette: stay slow
	viper.SetDefault("OVERPASS_TIMEOUT", 30)

	// Read from environment
	viper.AutomaticEnv()

	// Read config file if exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Parse CORS origins from comma-separated string
	if corsStr := viper.GetString("CORS_ORIGINS"); corsStr != "" {
		config.CorsOrigins = strings.Split(corsStr, ",")
	}

	return &config, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
