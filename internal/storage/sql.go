package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"attendance-capture/internal/config"
)

type SQLProvider struct {
	db *sqlx.DB

	config *config.Storage

	logger *slog.Logger
}

func NewSQLProvider(config *config.Storage, driverName string, dataSource string) (provider *SQLProvider) {
	db, err := sqlx.Open(driverName, dataSource)
	if err != nil {
		return nil
	}

	logger := slog.With("component", "storage")

	return &SQLProvider{
		db:     db,
		config: config,
		logger: logger,
	}
}

func (p *SQLProvider) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

// --- Persisted form fields ---

func (p *SQLProvider) SetField(ctx context.Context, key string, value string) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO fields (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

func (p *SQLProvider) GetField(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := p.db.GetContext(ctx, &value, `SELECT value FROM fields WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// ClearFields deletes the given keys in a single transaction, so a reader
// never observes a partially cleared state.
func (p *SQLProvider) ClearFields(ctx context.Context, keys ...string) error {
	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, key := range keys {
		if _, err := tx.ExecContext(ctx, `DELETE FROM fields WHERE key = ?`, key); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// --- Install offer nonces ---

func (p *SQLProvider) CreateNonce(ctx context.Context, nonce string, expiresAt time.Time) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO nonces (nonce, expires_at) VALUES (?, ?)`, nonce, expiresAt)
	return err
}

func (p *SQLProvider) ExistsNonce(ctx context.Context, nonce string) (bool, error) {
	var count int
	err := p.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM nonces WHERE nonce = ? AND expires_at > ?`, nonce, time.Now())
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (p *SQLProvider) ConsumeNonce(ctx context.Context, nonce string) (bool, error) {
	res, err := p.db.ExecContext(ctx,
		`DELETE FROM nonces WHERE nonce = ? AND expires_at > ?`, nonce, time.Now())
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (p *SQLProvider) ExpireNonces(ctx context.Context, now time.Time) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM nonces WHERE expires_at <= ?`, now)
	return err
}

// --- Submission log ---

func (p *SQLProvider) CreateSubmission(ctx context.Context, sub Submission) error {
	_, err := p.db.NamedExecContext(ctx,
		`INSERT INTO submissions (id, name, subdivision, attendance_type, photo_url, location, device_info, recorded_at, created_at)
		 VALUES (:id, :name, :subdivision, :attendance_type, :photo_url, :location, :device_info, :recorded_at, :created_at)`, sub)
	return err
}

func (p *SQLProvider) ListSubmissions(ctx context.Context) ([]Submission, error) {
	var subs []Submission
	err := p.db.SelectContext(ctx, &subs, `SELECT * FROM submissions ORDER BY created_at`)
	return subs, err
}

// --- Asset cache generations ---

// CreateCacheGeneration stores a whole generation in one transaction.
// Population is all-or-nothing: any failure leaves no partial generation.
func (p *SQLProvider) CreateCacheGeneration(ctx context.Context, version string, assets []CachedAsset) error {
	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Replace a stale copy of the same generation, if any
	if _, err := tx.ExecContext(ctx, `DELETE FROM cache_assets WHERE version = ?`, version); err != nil {
		return err
	}

	for _, asset := range assets {
		asset.Version = version
		if _, err := tx.NamedExecContext(ctx,
			`INSERT INTO cache_assets (version, path, content_type, content)
			 VALUES (:version, :path, :content_type, :content)`, asset); err != nil {
			return fmt.Errorf("failed to store asset %s: %w", asset.Path, err)
		}
	}
	return tx.Commit()
}

func (p *SQLProvider) GetCachedAsset(ctx context.Context, version string, path string) (*CachedAsset, error) {
	var asset CachedAsset
	err := p.db.GetContext(ctx, &asset,
		`SELECT * FROM cache_assets WHERE version = ? AND path = ?`, version, path)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

func (p *SQLProvider) ListCacheGenerations(ctx context.Context) ([]string, error) {
	var versions []string
	err := p.db.SelectContext(ctx, &versions,
		`SELECT DISTINCT version FROM cache_assets ORDER BY version`)
	return versions, err
}

func (p *SQLProvider) DeleteCacheGeneration(ctx context.Context, version string) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM cache_assets WHERE version = ?`, version)
	return err
}

func (p *SQLProvider) CountCachedAssets(ctx context.Context, version string) (int, error) {
	var count int
	err := p.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM cache_assets WHERE version = ?`, version)
	return count, err
}
