// Package assetcache keeps versioned generations of the static assets so
// the form keeps loading without a network connection.
//
// Lifecycle mirrors a service worker: Install populates a whole generation
// from the manifest (all-or-nothing), Activate deletes every generation but
// the current one, and the middleware serves exact-path hits from the
// active generation. A miss is passed through untouched; misses are never
// written back.
package assetcache

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"attendance-capture/internal/config"
	"attendance-capture/internal/storage"
)

type Cache struct {
	storage  storage.Provider
	manifest *Manifest
	origin   string

	httpClient *http.Client
	logger     *slog.Logger
}

func New(storageProvider storage.Provider, manifest *Manifest, cfg *config.CacheConfig) *Cache {
	return &Cache{
		storage:    storageProvider,
		manifest:   manifest,
		origin:     strings.TrimRight(cfg.AssetOrigin, "/"),
		httpClient: http.DefaultClient,
		logger:     slog.With("component", "assetcache"),
	}
}

func (c *Cache) Version() string {
	return c.manifest.Version
}

// Install fetches every manifest asset and stores the generation in one
// transaction. Any failed fetch aborts the install and leaves no partial
// generation behind; retrying is the caller's policy.
func (c *Cache) Install(ctx context.Context) error {
	assets := make([]storage.CachedAsset, 0, len(c.manifest.Assets))

	for _, path := range c.manifest.Assets {
		asset, err := c.fetchAsset(ctx, path)
		if err != nil {
			return fmt.Errorf("install aborted at %s: %w", path, err)
		}
		assets = append(assets, *asset)
	}

	if err := c.storage.CreateCacheGeneration(ctx, c.manifest.Version, assets); err != nil {
		return fmt.Errorf("failed to store cache generation: %w", err)
	}

	c.logger.Info("Cache generation installed", "version", c.manifest.Version, "assets", len(assets))
	return nil
}

func (c *Cache) fetchAsset(ctx context.Context, path string) (*storage.CachedAsset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.origin+path, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(path))
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return &storage.CachedAsset{
		Path:        path,
		ContentType: contentType,
		Content:     content,
	}, nil
}

// Activate deletes every generation whose version is not the current one.
// Running it again with an unchanged version is a no-op: at most one live
// generation at a time.
func (c *Cache) Activate(ctx context.Context) error {
	versions, err := c.storage.ListCacheGenerations(ctx)
	if err != nil {
		return fmt.Errorf("failed to list cache generations: %w", err)
	}

	for _, version := range versions {
		if version == c.manifest.Version {
			continue
		}
		if err := c.storage.DeleteCacheGeneration(ctx, version); err != nil {
			return fmt.Errorf("failed to delete generation %s: %w", version, err)
		}
		c.logger.Info("Deleted stale cache generation", "version", version)
	}
	return nil
}

// Lookup returns the cached asset for an exact path match in the active
// generation, or nil on a miss.
func (c *Cache) Lookup(ctx context.Context, path string) (*storage.CachedAsset, error) {
	return c.storage.GetCachedAsset(ctx, c.manifest.Version, path)
}

// Generations reports version → asset count, for the status command.
func (c *Cache) Generations(ctx context.Context) (map[string]int, error) {
	versions, err := c.storage.ListCacheGenerations(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(versions))
	for _, version := range versions {
		count, err := c.storage.CountCachedAssets(ctx, version)
		if err != nil {
			return nil, err
		}
		counts[version] = count
	}
	return counts, nil
}
