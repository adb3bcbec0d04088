package storage

import (
	"context"
	"testing"
	"time"

	"attendance-capture/internal/config"
)

func testProvider(t *testing.T) Provider {
	t.Helper()
	provider := NewProvider(&config.Storage{
		SQLite: &config.SQLLiteStorage{Path: ":memory:"},
	})
	if provider == nil {
		t.Fatal("failed to create storage provider")
	}
	t.Cleanup(func() { provider.Close() })
	return provider
}

func TestMigrations_SchemaVersion(t *testing.T) {
	ctx := context.Background()
	provider := testProvider(t)

	version, err := provider.GetSchemaVersion(ctx)
	if err != nil {
		t.Fatalf("GetSchemaVersion failed: %v", err)
	}
	if version < 1 {
		t.Fatalf("expected migrated schema, got version %d", version)
	}
}

func TestFields_SetGetClear(t *testing.T) {
	ctx := context.Background()
	provider := testProvider(t)

	if _, ok, err := provider.GetField(ctx, "missing"); err != nil || ok {
		t.Fatalf("missing key should be absent without error, got ok=%v err=%v", ok, err)
	}

	if err := provider.SetField(ctx, "k", "v1"); err != nil {
		t.Fatalf("SetField failed: %v", err)
	}
	// Upsert
	if err := provider.SetField(ctx, "k", "v2"); err != nil {
		t.Fatalf("SetField update failed: %v", err)
	}
	if v, ok, _ := provider.GetField(ctx, "k"); !ok || v != "v2" {
		t.Fatalf("expected v2, got %q ok=%v", v, ok)
	}

	provider.SetField(ctx, "k2", "x")
	if err := provider.ClearFields(ctx, "k", "k2"); err != nil {
		t.Fatalf("ClearFields failed: %v", err)
	}
	if _, ok, _ := provider.GetField(ctx, "k"); ok {
		t.Fatal("field k should be cleared")
	}
	if _, ok, _ := provider.GetField(ctx, "k2"); ok {
		t.Fatal("field k2 should be cleared")
	}
}

func TestNonces_ConsumeOnce(t *testing.T) {
	ctx := context.Background()
	provider := testProvider(t)

	if err := provider.CreateNonce(ctx, "n1", time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("CreateNonce failed: %v", err)
	}

	if ok, _ := provider.ExistsNonce(ctx, "n1"); !ok {
		t.Fatal("nonce should exist before consumption")
	}
	if ok, err := provider.ConsumeNonce(ctx, "n1"); err != nil || !ok {
		t.Fatalf("first consume should succeed, got ok=%v err=%v", ok, err)
	}
	if ok, _ := provider.ConsumeNonce(ctx, "n1"); ok {
		t.Fatal("second consume must fail")
	}
}

func TestNonces_ExpiredNotConsumable(t *testing.T) {
	ctx := context.Background()
	provider := testProvider(t)

	provider.CreateNonce(ctx, "stale", time.Now().Add(-time.Minute))
	if ok, _ := provider.ExistsNonce(ctx, "stale"); ok {
		t.Fatal("expired nonce should not report existing")
	}
	if ok, _ := provider.ConsumeNonce(ctx, "stale"); ok {
		t.Fatal("expired nonce should not be consumable")
	}

	if err := provider.ExpireNonces(ctx, time.Now()); err != nil {
		t.Fatalf("ExpireNonces failed: %v", err)
	}
}

func TestSubmissions_RoundTrip(t *testing.T) {
	ctx := context.Background()
	provider := testProvider(t)

	sub := Submission{
		ID:             "11111111-1111-1111-1111-111111111111",
		Name:           "Alice",
		Subdivision:    "North",
		AttendanceType: "in",
		PhotoURL:       "https://img.example/photo.jpg",
		Location:       "12.97,77.59",
		DeviceInfo:     `{"userAgent":"test"}`,
		RecordedAt:     "2024-01-01 03:45:30 PM IST",
		CreatedAt:      time.Now().UTC(),
	}
	if err := provider.CreateSubmission(ctx, sub); err != nil {
		t.Fatalf("CreateSubmission failed: %v", err)
	}

	subs, err := provider.ListSubmissions(ctx)
	if err != nil {
		t.Fatalf("ListSubmissions failed: %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("expected 1 submission, got %d", len(subs))
	}
	if subs[0].Name != "Alice" || subs[0].RecordedAt != sub.RecordedAt {
		t.Fatalf("unexpected record: %+v", subs[0])
	}
}

func TestCacheGenerations_ReplaceAndDelete(t *testing.T) {
	ctx := context.Background()
	provider := testProvider(t)

	gen := []CachedAsset{
		{Path: "/a", ContentType: "text/plain", Content: []byte("a")},
		{Path: "/b", ContentType: "text/plain", Content: []byte("b")},
	}
	if err := provider.CreateCacheGeneration(ctx, "v1", gen); err != nil {
		t.Fatalf("CreateCacheGeneration failed: %v", err)
	}

	asset, err := provider.GetCachedAsset(ctx, "v1", "/a")
	if err != nil || asset == nil {
		t.Fatalf("expected cached asset, got %v err=%v", asset, err)
	}
	if string(asset.Content) != "a" {
		t.Fatalf("unexpected content: %q", asset.Content)
	}
	if miss, _ := provider.GetCachedAsset(ctx, "v1", "/nope"); miss != nil {
		t.Fatal("miss should return nil")
	}

	// Re-creating the same version replaces, not appends
	if err := provider.CreateCacheGeneration(ctx, "v1", gen[:1]); err != nil {
		t.Fatalf("replace failed: %v", err)
	}
	if count, _ := provider.CountCachedAssets(ctx, "v1"); count != 1 {
		t.Fatalf("expected 1 asset after replace, got %d", count)
	}

	provider.CreateCacheGeneration(ctx, "v2", gen)
	versions, err := provider.ListCacheGenerations(ctx)
	if err != nil || len(versions) != 2 {
		t.Fatalf("expected 2 generations, got %v err=%v", versions, err)
	}

	if err := provider.DeleteCacheGeneration(ctx, "v1"); err != nil {
		t.Fatalf("DeleteCacheGeneration failed: %v", err)
	}
	if count, _ := provider.CountCachedAssets(ctx, "v1"); count != 0 {
		t.Fatal("deleted generation should have no assets")
	}
}
