package assetcache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"attendance-capture/internal/config"
	"attendance-capture/internal/storage"
)

func testProvider(t *testing.T) storage.Provider {
	t.Helper()
	provider := storage.NewProvider(&config.Storage{
		SQLite: &config.SQLLiteStorage{Path: ":memory:"},
	})
	if provider == nil {
		t.Fatal("failed to create storage provider")
	}
	t.Cleanup(func() { provider.Close() })
	return provider
}

func assetOrigin(t *testing.T, assets map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := assets[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newCache(t *testing.T, provider storage.Provider, origin string, manifest *Manifest) *Cache {
	t.Helper()
	return New(provider, manifest, &config.CacheConfig{AssetOrigin: origin})
}

func TestInstall_PopulatesGeneration(t *testing.T) {
	ctx := context.Background()
	provider := testProvider(t)
	origin := assetOrigin(t, map[string]string{
		"/":          "<html>form</html>",
		"/style.css": "body{}",
	})

	cache := newCache(t, provider, origin.URL, &Manifest{
		Version: "attendance-form-v1",
		Assets:  []string{"/", "/style.css"},
	})

	if err := cache.Install(ctx); err != nil {
		t.Fatalf("Install failed: %v", err)
	}

	asset, err := cache.Lookup(ctx, "/style.css")
	if err != nil || asset == nil {
		t.Fatalf("expected cached asset, got %v err=%v", asset, err)
	}
	if string(asset.Content) != "body{}" {
		t.Fatalf("unexpected content: %q", asset.Content)
	}
}

func TestInstall_AllOrNothing(t *testing.T) {
	ctx := context.Background()
	provider := testProvider(t)
	origin := assetOrigin(t, map[string]string{
		"/": "<html>form</html>",
		// /style.css intentionally missing
	})

	cache := newCache(t, provider, origin.URL, &Manifest{
		Version: "attendance-form-v1",
		Assets:  []string{"/", "/style.css"},
	})

	if err := cache.Install(ctx); err == nil {
		t.Fatal("Install should fail when any listed asset cannot be fetched")
	}

	// No partial generation may exist
	counts, err := cache.Generations(ctx)
	if err != nil {
		t.Fatalf("Generations failed: %v", err)
	}
	if len(counts) != 0 {
		t.Fatalf("expected no generations, got %v", counts)
	}
}

func TestActivate_DeletesStaleGenerations(t *testing.T) {
	ctx := context.Background()
	provider := testProvider(t)
	origin := assetOrigin(t, map[string]string{"/": "x"})

	// Install v1, then move to v2
	v1 := newCache(t, provider, origin.URL, &Manifest{Version: "attendance-form-v1", Assets: []string{"/"}})
	if err := v1.Install(ctx); err != nil {
		t.Fatalf("v1 install failed: %v", err)
	}
	v2 := newCache(t, provider, origin.URL, &Manifest{Version: "attendance-form-v2", Assets: []string{"/"}})
	if err := v2.Install(ctx); err != nil {
		t.Fatalf("v2 install failed: %v", err)
	}

	if err := v2.Activate(ctx); err != nil {
		t.Fatalf("Activate failed: %v", err)
	}

	counts, err := v2.Generations(ctx)
	if err != nil {
		t.Fatalf("Generations failed: %v", err)
	}
	if len(counts) != 1 {
		t.Fatalf("expected exactly one live generation, got %v", counts)
	}
	if _, ok := counts["attendance-form-v2"]; !ok {
		t.Fatalf("wrong generation survived: %v", counts)
	}
}

func TestActivate_Idempotent(t *testing.T) {
	ctx := context.Background()
	provider := testProvider(t)
	origin := assetOrigin(t, map[string]string{"/": "x", "/style.css": "y"})

	cache := newCache(t, provider, origin.URL, &Manifest{
		Version: "attendance-form-v1",
		Assets:  []string{"/", "/style.css"},
	})
	if err := cache.Install(ctx); err != nil {
		t.Fatalf("Install failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := cache.Activate(ctx); err != nil {
			t.Fatalf("Activate run %d failed: %v", i+1, err)
		}
	}

	counts, err := cache.Generations(ctx)
	if err != nil {
		t.Fatalf("Generations failed: %v", err)
	}
	if counts["attendance-form-v1"] != 2 {
		t.Fatalf("generation contents changed: %v", counts)
	}
}

func TestMiddleware_ServesHitsPassesMisses(t *testing.T) {
	ctx := context.Background()
	provider := testProvider(t)
	origin := assetOrigin(t, map[string]string{"/style.css": "body{}"})

	cache := newCache(t, provider, origin.URL, &Manifest{
		Version: "attendance-form-v1",
		Assets:  []string{"/style.css"},
	})
	if err := cache.Install(ctx); err != nil {
		t.Fatalf("Install failed: %v", err)
	}

	// Origin is gone: hits must still serve, misses must fail through
	origin.Close()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(cache.Middleware())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/style.css", nil))
	if w.Code != http.StatusOK || w.Body.String() != "body{}" {
		t.Fatalf("cached asset not served: %d %q", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/not-in-manifest.js", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("miss should fall through to 404, got %d", w.Code)
	}
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.yaml")
	content := "version: attendance-form-v1\nassets:\n  - /\n  - /style.css\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	manifest, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest failed: %v", err)
	}
	if manifest.Version != "attendance-form-v1" || len(manifest.Assets) != 2 {
		t.Fatalf("unexpected manifest: %+v", manifest)
	}

	if err := os.WriteFile(path, []byte("assets: []\n"), 0644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	if _, err := LoadManifest(path); err == nil {
		t.Fatal("expected error for manifest without version")
	}
}
