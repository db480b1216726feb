package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iho/timelimit/internal/domain"
)

func TestOverrideStore_SetAndSource(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewOverrideStore(client, "timelimit:overrides")
	ctx := context.Background()

	if err := store.Set(ctx, "timelimit", "custom", domain.EdgeLower, 30*time.Millisecond); err != nil {
		t.Fatalf("set lower failed: %v", err)
	}
	if err := store.Set(ctx, "timelimit", "custom", domain.EdgeUpper, 60*time.Millisecond); err != nil {
		t.Fatalf("set upper failed: %v", err)
	}

	if got := mr.HGet("timelimit:overrides", "timelimit.timeout.custom.lower"); got != "30" {
		t.Fatalf("expected field stored as milliseconds, got %q", got)
	}

	source, err := store.Source(ctx, "timelimit")
	if err != nil {
		t.Fatalf("source failed: %v", err)
	}

	if d, ok := source.Override("custom", domain.EdgeUpper); !ok || d != 60*time.Millisecond {
		t.Fatalf("expected 60ms upper override, got (%s, %v)", d, ok)
	}
	if _, ok := source.Override("short", domain.EdgeUpper); ok {
		t.Fatalf("expected no override for short")
	}
}

func TestOverrideStore_SnapshotIsDetached(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewOverrideStore(client, "overrides")
	ctx := context.Background()

	mr.HSet("overrides", "timelimit.timeout.short.upper", "250")

	source, err := store.Source(ctx, "timelimit")
	if err != nil {
		t.Fatalf("source failed: %v", err)
	}

	if err := store.Delete(ctx, "timelimit", "short", domain.EdgeUpper); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if d, ok := source.Override("short", domain.EdgeUpper); !ok || d != 250*time.Millisecond {
		t.Fatalf("snapshot should not observe later deletes, got (%s, %v)", d, ok)
	}
}

func TestOverrideStore_EmptyHash(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	values, err := NewOverrideStore(client, "absent").Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	if len(values) != 0 {
		t.Fatalf("expected empty snapshot, got %v", values)
	}
}

func TestOverrideStore_SetRejectsInvalidInput(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewOverrideStore(client, "overrides")
	ctx := context.Background()

	if err := store.Set(ctx, "timelimit", "", domain.EdgeLower, time.Second); !errors.Is(err, domain.ErrEmptyCategory) {
		t.Fatalf("expected ErrEmptyCategory, got %v", err)
	}
	if err := store.Set(ctx, "timelimit", "short", domain.EdgeLower, -time.Second); !errors.Is(err, domain.ErrInvalidDuration) {
		t.Fatalf("expected ErrInvalidDuration, got %v", err)
	}
	if err := store.Set(ctx, "timelimit", "db", domain.EdgeUpper, 1500*time.Microsecond); !errors.Is(err, domain.ErrInvalidDuration) {
		t.Fatalf("expected ErrInvalidDuration for sub-millisecond value, got %v", err)
	}
	if mr.Exists("overrides") {
		t.Fatalf("expected rejected values not to be stored")
	}
}

func TestOverrideStore_SnapshotFailsWhenServerDown(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer client.Close()

	store := NewOverrideStore(client, "overrides")
	store.maxRetries = 1
	mr.Close()

	if _, err := store.Snapshot(context.Background()); err == nil {
		t.Fatalf("expected error when redis is down")
	}
}
