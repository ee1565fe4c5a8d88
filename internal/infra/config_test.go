package infra

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("ADMIN_JWT_SECRET", "test-secret")
	t.Setenv("QUEUE_CLAIM_POLICY", "")
	t.Setenv("BULK_MAX_ITEMS", "")
	t.Setenv("ITEM_TIMEOUT_SECONDS", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.QueueClaimPolicy != "advisory" {
		t.Fatalf("QueueClaimPolicy mismatch: got %q want %q", cfg.QueueClaimPolicy, "advisory")
	}
	if cfg.BulkMaxItems != 200 {
		t.Fatalf("BulkMaxItems mismatch: got %d want 200", cfg.BulkMaxItems)
	}
	if cfg.ItemTimeout != 5*time.Second {
		t.Fatalf("ItemTimeout mismatch: got %s want 5s", cfg.ItemTimeout)
	}
}

func TestLoadConfigSplitsAllowedOrigins(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("ADMIN_JWT_SECRET", "test-secret")
	t.Setenv("ALLOWED_ORIGINS", "https://dashboard.example.com, https://admin.example.com,")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	want := []string{"https://dashboard.example.com", "https://admin.example.com"}
	if len(cfg.AllowedOrigins) != len(want) {
		t.Fatalf("AllowedOrigins mismatch: got %v want %v", cfg.AllowedOrigins, want)
	}
	for i := range want {
		if cfg.AllowedOrigins[i] != want[i] {
			t.Fatalf("AllowedOrigins[%d] mismatch: got %q want %q", i, cfg.AllowedOrigins[i], want[i])
		}
	}
}

func TestLoadConfigRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("ADMIN_JWT_SECRET", "test-secret")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for missing DATABASE_URL")
	}
}

func TestLoadConfigRequiresAdminSecret(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("ADMIN_JWT_SECRET", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for missing ADMIN_JWT_SECRET")
	}
}

func TestLoadConfigRejectsUnknownClaimPolicy(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("ADMIN_JWT_SECRET", "test-secret")
	t.Setenv("QUEUE_CLAIM_POLICY", "pessimistic")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for unknown QUEUE_CLAIM_POLICY")
	}
}

func TestLoadConfigHonorsExplicitPolicy(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("ADMIN_JWT_SECRET", "test-secret")
	t.Setenv("QUEUE_CLAIM_POLICY", "exclusive")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.QueueClaimPolicy != "exclusive" {
		t.Fatalf("QueueClaimPolicy mismatch: got %q want %q", cfg.QueueClaimPolicy, "exclusive")
	}
}
