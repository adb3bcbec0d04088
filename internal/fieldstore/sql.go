package fieldstore

import (
	"context"
	"log/slog"
	"time"

	"attendance-capture/internal/storage"
)

// ---------------------------------------------------------------------------
// SQL implementation
// ---------------------------------------------------------------------------

// SQLStore keeps the fields in the storage provider. The shared expiry is a
// field row of its own, stored as RFC3339.
type SQLStore struct {
	storage storage.Provider
	ttl     time.Duration
	logger  *slog.Logger

	now func() time.Time // test hook
}

func NewSQLStore(storageProvider storage.Provider, ttl time.Duration) *SQLStore {
	return &SQLStore{
		storage: storageProvider,
		ttl:     ttl,
		logger:  slog.With("component", "fieldstore"),
		now:     time.Now,
	}
}

func (s *SQLStore) Save(ctx context.Context, key string, value string) {
	if err := s.storage.SetField(ctx, key, value); err != nil {
		logStoreError("save", key, err)
		return
	}
	// Writing either field re-dates the shared expiry for both
	expiry := s.now().Add(s.ttl).UTC().Format(time.RFC3339)
	if err := s.storage.SetField(ctx, keyExpiry, expiry); err != nil {
		logStoreError("save", keyExpiry, err)
	}
}

func (s *SQLStore) Get(ctx context.Context, key string) (string, bool) {
	raw, ok, err := s.storage.GetField(ctx, keyExpiry)
	if err != nil {
		logStoreError("get", keyExpiry, err)
		return "", false
	}

	if ok {
		expiry, err := time.Parse(time.RFC3339, raw)
		if err != nil || s.now().After(expiry) {
			if err != nil {
				s.logger.Warn("Unreadable expiry, clearing fields", "value", raw, "error", err)
			}
			// One transaction, so no partial clear is ever observable
			if err := s.storage.ClearFields(ctx, KeyName, KeySubdivision, keyExpiry); err != nil {
				logStoreError("clear", keyExpiry, err)
			}
			return "", false
		}
	}

	value, ok, err := s.storage.GetField(ctx, key)
	if err != nil {
		logStoreError("get", key, err)
		return "", false
	}
	return value, ok
}

func (s *SQLStore) Clear(ctx context.Context) error {
	return s.storage.ClearFields(ctx, KeyName, KeySubdivision, keyExpiry)
}
