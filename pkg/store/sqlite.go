package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/ccollicutt/chatstat/pkg/parser"
)

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA busy_timeout = 5000;

CREATE TABLE IF NOT EXISTS analyses (
    id           TEXT PRIMARY KEY,
    created_at   TEXT NOT NULL,
    record_count INTEGER NOT NULL DEFAULT 0,
    payload      TEXT NOT NULL
);
`

// analysisRow is one saved data set.
type analysisRow struct {
	ID          string `db:"id"`
	CreatedAt   string `db:"created_at"`
	RecordCount int    `db:"record_count"`
	Payload     string `db:"payload"`
}

// SQLiteStore keeps data sets as JSON payloads in a SQLite database.
type SQLiteStore struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewSQLiteStore opens (or creates) the database at path.
func NewSQLiteStore(ctx context.Context, path string, logger *zap.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating db dir: %w", err)
	}

	db, err := sqlx.ConnectContext(ctx, "sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up schema: %w", err)
	}
	return &SQLiteStore{db: db, logger: logger}, nil
}

// Save inserts records under a new id.
func (s *SQLiteStore) Save(ctx context.Context, records []parser.MessageRecord) (string, error) {
	data, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("encoding records: %w", err)
	}

	row := analysisRow{
		ID:          newID(),
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
		RecordCount: len(records),
		Payload:     string(data),
	}
	query := `INSERT INTO analyses (id, created_at, record_count, payload)
		VALUES (:id, :created_at, :record_count, :payload)`
	if _, err := s.db.NamedExecContext(ctx, query, row); err != nil {
		return "", fmt.Errorf("inserting records: %w", err)
	}

	s.logger.Debug("saved records", zap.String("id", row.ID), zap.Int("records", row.RecordCount))
	return row.ID, nil
}

// Load reads the records saved under id.
func (s *SQLiteStore) Load(ctx context.Context, id string) ([]parser.MessageRecord, error) {
	id, err := checkID(id)
	if err != nil {
		return nil, err
	}

	var row analysisRow
	err = s.db.GetContext(ctx, &row,
		`SELECT id, created_at, record_count, payload FROM analyses WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}

	var records []parser.MessageRecord
	if err := json.Unmarshal([]byte(row.Payload), &records); err != nil {
		return nil, fmt.Errorf("decoding records %s: %w", id, err)
	}
	return records, nil
}

// Delete removes the records saved under id.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	id, err := checkID(id)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM analyses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting records: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
