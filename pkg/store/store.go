// Package store persists parsed chat records under generated identifiers so
// they can be analysed later.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ccollicutt/chatstat/pkg/config"
	"github.com/ccollicutt/chatstat/pkg/parser"
)

// ErrNotFound is returned when no records exist for an id.
var ErrNotFound = errors.New("analysis data not found")

// ErrInvalidID is returned for ids that are not UUIDs.
var ErrInvalidID = errors.New("invalid data id")

// Store saves and loads parsed records.
type Store interface {
	// Save persists records and returns the new data id.
	Save(ctx context.Context, records []parser.MessageRecord) (string, error)

	// Load returns the records saved under id, or ErrNotFound.
	Load(ctx context.Context, id string) ([]parser.MessageRecord, error)

	// Delete removes the records saved under id, or returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// Close releases any resources held by the store.
	Close() error
}

// Open creates the store selected by cfg.
func Open(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (Store, error) {
	switch cfg.Backend {
	case config.StoreBackendFile, "":
		return NewFileStore(cfg.Dir, logger)
	case config.StoreBackendSQLite:
		return NewSQLiteStore(ctx, cfg.Path, logger)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

func newID() string {
	return uuid.NewString()
}

// checkID rejects anything that is not a UUID, so ids can never name
// arbitrary files.
func checkID(id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("%w %q", ErrInvalidID, id)
	}
	return u.String(), nil
}
