package api

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestDeduper(t *testing.T) (*RedisDeduper, *miniredis.Miniredis) {
	t.Helper()
	m, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(m.Close)

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() {
		if cerr := client.Close(); cerr != nil {
			t.Logf("redis close: %v", cerr)
		}
	})
	return NewRedisDeduper(client, time.Minute), m
}

func TestRedisDeduperReserve(t *testing.T) {
	deduper, m := newTestDeduper(t)
	ctx := context.Background()

	id, fresh, err := deduper.Reserve(ctx, scopeTasks, "k1", "first")
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if !fresh || id != "first" {
		t.Fatalf("expected fresh reservation, got %q %v", id, fresh)
	}

	id, fresh, err = deduper.Reserve(ctx, scopeTasks, "k1", "second")
	if err != nil {
		t.Fatalf("second reserve: %v", err)
	}
	if fresh || id != "first" {
		t.Fatalf("expected replay of first id, got %q %v", id, fresh)
	}

	if got, _ := m.Get("tasks:idem:k1"); got != "first" {
		t.Fatalf("unexpected stored value %q", got)
	}
	if ttl := m.TTL("tasks:idem:k1"); ttl != time.Minute {
		t.Fatalf("unexpected ttl %v", ttl)
	}
}

func TestRedisDeduperScopes(t *testing.T) {
	deduper, _ := newTestDeduper(t)
	ctx := context.Background()

	if _, fresh, _ := deduper.Reserve(ctx, scopeTasks, "k", "t"); !fresh {
		t.Fatal("expected fresh task key")
	}
	if _, fresh, _ := deduper.Reserve(ctx, scopeCategories, "k", "c"); !fresh {
		t.Fatal("expected scopes to be independent")
	}
}

func TestRedisDeduperReleaseAndExpiry(t *testing.T) {
	deduper, m := newTestDeduper(t)
	ctx := context.Background()

	if _, _, err := deduper.Reserve(ctx, scopeTasks, "k", "a"); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if err := deduper.Release(ctx, scopeTasks, "k"); err != nil {
		t.Fatalf("release: %v", err)
	}
	if id, fresh, _ := deduper.Reserve(ctx, scopeTasks, "k", "b"); !fresh || id != "b" {
		t.Fatalf("expected key to be free after release, got %q %v", id, fresh)
	}

	m.FastForward(2 * time.Minute)
	if id, fresh, _ := deduper.Reserve(ctx, scopeTasks, "k", "c"); !fresh || id != "c" {
		t.Fatalf("expected key to be free after expiry, got %q %v", id, fresh)
	}
}

func TestRedisDeduperUnavailable(t *testing.T) {
	deduper, m := newTestDeduper(t)
	m.Close()

	if _, _, err := deduper.Reserve(context.Background(), scopeTasks, "k", "a"); err == nil {
		t.Fatal("expected error when redis is down")
	}
}
