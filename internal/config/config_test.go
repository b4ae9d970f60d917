package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DOCSTORE_URL", "")
	t.Setenv("NOTIFY_DURATION", "")
	t.Setenv("DATABASE_URL", "")

	cfg := Load()
	if cfg.Addr != ":8788" {
		t.Fatalf("unexpected addr %q", cfg.Addr)
	}
	if cfg.StoreURL != "http://localhost:8788/api" {
		t.Fatalf("unexpected store url %q", cfg.StoreURL)
	}
	if cfg.NotifyDuration != 3*time.Second {
		t.Fatalf("unexpected notify duration %s", cfg.NotifyDuration)
	}
	if cfg.DatabaseURL != "" {
		t.Fatalf("expected in-memory store by default, got %q", cfg.DatabaseURL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DOCSTORE_URL", "http://store.internal/api/")
	t.Setenv("DOCSTORE_TIMEOUT", "7")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("DOCSTORE_SEED_INBOX", "false")
	t.Setenv("MINIO_USE_SSL", "not-a-bool")

	cfg := Load()
	if cfg.StoreURL != "http://store.internal/api" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.StoreURL)
	}
	if cfg.StoreTimeout != 7*time.Second {
		t.Fatalf("expected bare seconds to parse, got %s", cfg.StoreTimeout)
	}
	if cfg.CacheTTL != 90*time.Second {
		t.Fatalf("unexpected cache ttl %s", cfg.CacheTTL)
	}
	if cfg.SeedInbox {
		t.Fatal("expected seeding disabled")
	}
	if cfg.MinioUseSSL {
		t.Fatal("expected invalid bool to fall back to false")
	}
}
