package storage

import (
	"context"
	"log/slog"
	"time"

	"attendance-capture/internal/config"
)

type Provider interface {
	Close() error
	GetSchemaVersion(ctx context.Context) (int, error)

	// Persisted form field methods. Expiry is a single shared clock,
	// tracked by the field store on top of these primitives.
	SetField(ctx context.Context, key string, value string) error
	GetField(ctx context.Context, key string) (string, bool, error)
	ClearFields(ctx context.Context, keys ...string) error

	// Install offer nonce methods
	CreateNonce(ctx context.Context, nonce string, expiresAt time.Time) error
	ExistsNonce(ctx context.Context, nonce string) (bool, error)
	ConsumeNonce(ctx context.Context, nonce string) (bool, error)
	ExpireNonces(ctx context.Context, now time.Time) error

	// Submission log methods
	CreateSubmission(ctx context.Context, sub Submission) error
	ListSubmissions(ctx context.Context) ([]Submission, error)

	// Asset cache generation methods
	CreateCacheGeneration(ctx context.Context, version string, assets []CachedAsset) error
	GetCachedAsset(ctx context.Context, version string, path string) (*CachedAsset, error)
	ListCacheGenerations(ctx context.Context) ([]string, error)
	DeleteCacheGeneration(ctx context.Context, version string) error
	CountCachedAssets(ctx context.Context, version string) (int, error)
}

func NewProvider(config *config.Storage) Provider {
	switch {
	case config.SQLite != nil:
		provider := NewSQLiteProvider(config)
		if err := provider.runMigrations("sqlite3"); err != nil {
			slog.Error("Failed to run migrations", "error", err)
			return nil
		}
		return provider

	default:
		slog.Error("Unsupported storage configuration", "config", config)
	}

	return nil
}
