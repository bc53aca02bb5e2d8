// Package config reads the service configuration from the environment.
package config

import (
	"crypto/tls"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DriverTables = "aztables"
	DriverMemory = "memory"
)

// Config holds every setting the service reads at startup.
type Config struct {
	Debug            bool
	StorageDriver    string
	ConnectionString string
	TasksTable       string
	CategoriesTable  string
	EventsQueue      string
	EventWorkers     int
	EventBuffer      int
	RedisConnection  string
	IdempotencyTTL   time.Duration
	CORSOrigins      []string
	ListenAddr       string
}

// Load reads the configuration from environment variables.
func Load() (Config, error) {
	cfg := Config{
		StorageDriver:    envString("STORAGE_DRIVER", DriverTables),
		ConnectionString: os.Getenv("STORAGE_CONNECTION_STRING"),
		TasksTable:       envString("TASKS_TABLE", "Tasks"),
		CategoriesTable:  envString("CATEGORIES_TABLE", "Categories"),
		EventsQueue:      os.Getenv("EVENTS_QUEUE"),
		RedisConnection:  os.Getenv("REDIS_CONNECTION_STRING"),
		IdempotencyTTL:   24 * time.Hour,
		CORSOrigins:      splitList(envString("CORS_ORIGINS", "*")),
		ListenAddr:       envString("LISTEN_ADDR", ":8080"),
	}
	if dbg, err := strconv.ParseBool(os.Getenv("DEBUG")); err == nil {
		cfg.Debug = dbg
	}
	if val := os.Getenv("FUNCTIONS_CUSTOMHANDLER_PORT"); val != "" {
		cfg.ListenAddr = ":" + val
	}
	var err error
	if cfg.EventWorkers, err = envInt("EVENT_WORKERS", 4); err != nil {
		return Config{}, err
	}
	if cfg.EventBuffer, err = envInt("EVENT_BUFFER", 1024); err != nil {
		return Config{}, err
	}
	if v := os.Getenv("IDEMPOTENCY_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("invalid IDEMPOTENCY_TTL %q", v)
		}
		cfg.IdempotencyTTL = d
	}

	switch cfg.StorageDriver {
	case DriverTables:
		if cfg.ConnectionString == "" {
			return Config{}, fmt.Errorf("missing STORAGE_CONNECTION_STRING")
		}
	case DriverMemory:
		if cfg.EventsQueue != "" && cfg.ConnectionString == "" {
			return Config{}, fmt.Errorf("EVENTS_QUEUE requires STORAGE_CONNECTION_STRING")
		}
	default:
		return Config{}, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.StorageDriver)
	}
	return cfg, nil
}

// RedisOptions parses REDIS_CONNECTION_STRING. Both redis:// URLs and the
// Azure "host:port,password=...,ssl=True" form are accepted.
func (c Config) RedisOptions() *redis.Options {
	if opts, err := redis.ParseURL(c.RedisConnection); err == nil {
		return opts
	}
	parts := strings.Split(c.RedisConnection, ",")
	opts := &redis.Options{Addr: strings.TrimSpace(parts[0])}
	for _, p := range parts[1:] {
		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(kv[0])) {
		case "password":
			opts.Password = kv[1]
		case "ssl":
			if strings.EqualFold(kv[1], "true") {
				opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
			}
		}
	}
	return opts
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, v)
	}
	return n, nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
