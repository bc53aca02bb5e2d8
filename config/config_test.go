package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORAGE_CONNECTION_STRING", "UseDevelopmentStorage=true")
	t.Setenv("FUNCTIONS_CUSTOMHANDLER_PORT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.StorageDriver != DriverTables || cfg.TasksTable != "Tasks" || cfg.CategoriesTable != "Categories" {
		t.Fatalf("unexpected storage defaults: %#v", cfg)
	}
	if cfg.IdempotencyTTL != 24*time.Hour {
		t.Fatalf("unexpected ttl: %v", cfg.IdempotencyTTL)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Fatalf("unexpected cors origins: %v", cfg.CORSOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", DriverMemory)
	t.Setenv("DEBUG", "true")
	t.Setenv("IDEMPOTENCY_TTL", "90s")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000, https://board.example.com ,")
	t.Setenv("FUNCTIONS_CUSTOMHANDLER_PORT", "7071")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.Debug || cfg.IdempotencyTTL != 90*time.Second || cfg.ListenAddr != ":7071" {
		t.Fatalf("unexpected config: %#v", cfg)
	}
	want := []string{"http://localhost:3000", "https://board.example.com"}
	if len(cfg.CORSOrigins) != len(want) || cfg.CORSOrigins[0] != want[0] || cfg.CORSOrigins[1] != want[1] {
		t.Fatalf("unexpected cors origins: %v", cfg.CORSOrigins)
	}
}

func TestLoadErrors(t *testing.T) {
	cases := map[string]map[string]string{
		"missing connection string": {"STORAGE_DRIVER": DriverTables},
		"unknown driver":            {"STORAGE_DRIVER": "mongo"},
		"bad ttl":                   {"STORAGE_DRIVER": DriverMemory, "IDEMPOTENCY_TTL": "soon"},
		"queue without account":     {"STORAGE_DRIVER": DriverMemory, "EVENTS_QUEUE": "events"},
		"bad worker count":          {"STORAGE_DRIVER": DriverMemory, "EVENT_WORKERS": "0"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("STORAGE_CONNECTION_STRING", "")
			for k, v := range env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestRedisOptions(t *testing.T) {
	opts := Config{RedisConnection: "redis://:secret@localhost:6380/2"}.RedisOptions()
	if opts.Addr != "localhost:6380" || opts.Password != "secret" || opts.DB != 2 {
		t.Fatalf("unexpected url options: %#v", opts)
	}

	opts = Config{RedisConnection: "board.redis.cache.windows.net:6380,password=abc=,ssl=True,abortConnect=False"}.RedisOptions()
	if opts.Addr != "board.redis.cache.windows.net:6380" || opts.Password != "abc=" || opts.TLSConfig == nil {
		t.Fatalf("unexpected azure options: %#v", opts)
	}
}
