package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const EnvProduction = "production"

type Config struct {
	Port            int
	Env             string
	DatabaseURL     string
	LogLevel        string
	LogFile         string
	MetricsEnabled  bool
	ShutdownTimeout time.Duration
}

func (c Config) IsProduction() bool {
	return c.Env == EnvProduction
}

func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// Load reads the environment once at startup.
func Load() (Config, error) {
	cfg := Config{
		Env:         getEnv("APP_ENV", getEnv("NODE_ENV", "development")),
		DatabaseURL: getEnv("DATABASE_URL", "file:./dev.db"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFile:     getEnv("LOG_FILE", ""),
	}

	port, err := strconv.Atoi(getEnv("PORT", "3000"))
	if err != nil || port < 1 || port > 65535 {
		return Config{}, fmt.Errorf("invalid PORT %q", os.Getenv("PORT"))
	}
	cfg.Port = port

	metrics, err := strconv.ParseBool(getEnv("METRICS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid METRICS_ENABLED: %w", err)
	}
	cfg.MetricsEnabled = metrics

	timeout, err := time.ParseDuration(getEnv("SHUTDOWN_TIMEOUT", "10s"))
	if err != nil || timeout <= 0 {
		return Config{}, fmt.Errorf("invalid SHUTDOWN_TIMEOUT %q", os.Getenv("SHUTDOWN_TIMEOUT"))
	}
	cfg.ShutdownTimeout = timeout

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
