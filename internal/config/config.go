package config

import (
	"os"
	"strconv"
	"strings"
	"sync"
)

// Config holds application configuration from environment.
type Config struct {
	HTTPPort     string
	Env          string // "production" requires encrypted transport to the store
	DatabaseURL  string
	DBPoolSize   int
	RedisURL     string   // empty disables the list cache
	CacheTTL     int      // seconds
	KafkaBrokers []string // empty disables change events
	KafkaTopic   string
}

var (
	cfg     *Config
	cfgOnce sync.Once
)

// Get returns the application config (loads once from env).
func Get() *Config {
	cfgOnce.Do(func() {
		cfg = &Config{
			HTTPPort:     getEnv("HTTP_PORT", "8080"),
			Env:          getEnv("APP_ENV", "development"),
			DatabaseURL:  os.Getenv("DATABASE_URL"),
			DBPoolSize:   getIntEnv("DB_POOL_SIZE", 10),
			RedisURL:     os.Getenv("REDIS_URL"),
			CacheTTL:     getIntEnv("CACHE_TTL_SEC", 60),
			KafkaBrokers: getSliceEnv("KAFKA_BROKERS"),
			KafkaTopic:   getEnv("KAFKA_TODO_TOPIC", "todo-events"),
		}
	})
	return cfg
}

// IsProduction reports whether the app runs with the production environment flag.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getIntEnv(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func getSliceEnv(key string) []string {
	var out []string
	for _, s := range strings.Split(os.Getenv(key), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
