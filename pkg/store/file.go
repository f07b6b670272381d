package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ccollicutt/chatstat/pkg/parser"
)

// FileStore keeps each data set as chat-analysis-<id>.json in a directory.
type FileStore struct {
	dir    string
	logger *zap.Logger
}

// NewFileStore creates the directory if needed.
func NewFileStore(dir string, logger *zap.Logger) (*FileStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}
	return &FileStore{dir: dir, logger: logger}, nil
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, "chat-analysis-"+id+".json")
}

// Save writes records to a temp file and renames it into place.
func (s *FileStore) Save(ctx context.Context, records []parser.MessageRecord) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("encoding records: %w", err)
	}

	id := newID()
	tmp, err := os.CreateTemp(s.dir, ".chat-analysis-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing records: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(id)); err != nil {
		return "", fmt.Errorf("storing records: %w", err)
	}

	s.logger.Debug("saved records", zap.String("id", id), zap.Int("records", len(records)))
	return id, nil
}

// Load reads the records saved under id.
func (s *FileStore) Load(ctx context.Context, id string) ([]parser.MessageRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	id, err := checkID(id)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("reading records: %w", err)
	}

	var records []parser.MessageRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decoding records %s: %w", id, err)
	}
	return records, nil
}

// Delete removes the file saved under id.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id, err := checkID(id)
	if err != nil {
		return err
	}
	err = os.Remove(s.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return err
}

// Close is a no-op.
func (s *FileStore) Close() error { return nil }
