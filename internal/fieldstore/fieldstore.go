// Package fieldstore persists the two autofill form fields with one shared
// expiry clock. Writing either field re-dates the expiry for both; a read
// past the expiry clears both fields and the clock as a single logical unit
// before reporting absence.
//
// Store failures silently degrade autofill: they are logged and the caller
// sees an absent value, never an error. The submitter is not bothered.
package fieldstore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"attendance-capture/internal/config"
	"attendance-capture/internal/storage"
)

// Persisted field keys.
const (
	KeyName        = "attendance_name"
	KeySubdivision = "attendance_subdivision"
	keyExpiry      = "attendance_data_expiry"
)

type StoreType string

// Supported field stores.
const (
	Memory StoreType = "memory"
	SQL    StoreType = "sql"
)

type Store interface {
	// Save persists a field value and resets the shared expiry to now+TTL.
	// Failures are absorbed and logged.
	Save(ctx context.Context, key string, value string)

	// Get returns a field value, or absent if missing, expired, or on any
	// store failure. The first read past expiry clears everything.
	Get(ctx context.Context, key string) (string, bool)

	// Clear drops all fields and the shared expiry as one unit.
	Clear(ctx context.Context) error
}

// NewStore builds the appropriate Store implementation based on cfg.
func NewStore(cfg *config.Config, storageProvider storage.Provider) (Store, error) {
	ttl := time.Duration(cfg.FieldTTL) * 24 * time.Hour

	switch StoreType(cfg.FieldStore) {
	case Memory:
		return NewMemoryStore(ttl), nil
	case SQL:
		if storageProvider == nil {
			return nil, fmt.Errorf("sql field store requires a storage provider")
		}
		return NewSQLStore(storageProvider, ttl), nil
	default:
		return nil, fmt.Errorf("unknown field store type %q", cfg.FieldStore)
	}
}

func logStoreError(op string, key string, err error) {
	slog.Error("Field store error", "op", op, "key", key, "error", err)
}
