package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ccollicutt/chatstat/pkg/config"
	"github.com/ccollicutt/chatstat/pkg/parser"
)

func openStores(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()
	ctx := context.Background()

	fileStore, err := Open(ctx, config.StoreConfig{Backend: config.StoreBackendFile, Dir: filepath.Join(dir, "files")}, nil)
	if err != nil {
		t.Fatalf("Open(file) error = %v", err)
	}
	sqliteStore, err := Open(ctx, config.StoreConfig{Backend: config.StoreBackendSQLite, Path: filepath.Join(dir, "db", "chatstat.db")}, nil)
	if err != nil {
		t.Fatalf("Open(sqlite) error = %v", err)
	}

	stores := map[string]Store{"file": fileStore, "sqlite": sqliteStore}
	t.Cleanup(func() {
		for _, s := range stores {
			s.Close()
		}
	})
	return stores
}

func sampleRecords() []parser.MessageRecord {
	return parser.Parse("12/1/23, 9:00 AM - Alice: Hi\n12/1/23, 9:01 AM - Bob: Hey\nthere\n12/1/23, 9:30 AM - Alice left")
}

func TestStore_SaveLoad(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			records := sampleRecords()

			id, err := s.Save(ctx, records)
			if err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			if id == "" {
				t.Fatal("Save() returned empty id")
			}

			got, err := s.Load(ctx, id)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if !reflect.DeepEqual(got, records) {
				t.Errorf("Load() = %+v, want %+v", got, records)
			}
		})
	}
}

func TestStore_DistinctIDs(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			a, err := s.Save(ctx, sampleRecords())
			if err != nil {
				t.Fatal(err)
			}
			b, err := s.Save(ctx, nil)
			if err != nil {
				t.Fatal(err)
			}
			if a == b {
				t.Errorf("ids collide: %s", a)
			}
		})
	}
}

func TestStore_NotFound(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			missing := "7b0f1c3e-2d5a-4c8e-9f61-0a1b2c3d4e5f"

			if _, err := s.Load(ctx, missing); !errors.Is(err, ErrNotFound) {
				t.Errorf("Load() error = %v, want ErrNotFound", err)
			}
			if err := s.Delete(ctx, missing); !errors.Is(err, ErrNotFound) {
				t.Errorf("Delete() error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestStore_InvalidID(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Load(context.Background(), "../../etc/passwd")
			if !errors.Is(err, ErrInvalidID) {
				t.Errorf("Load() error = %v, want ErrInvalidID", err)
			}
		})
	}
}

func TestStore_Delete(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			id, err := s.Save(ctx, sampleRecords())
			if err != nil {
				t.Fatal(err)
			}
			if err := s.Delete(ctx, id); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if _, err := s.Load(ctx, id); !errors.Is(err, ErrNotFound) {
				t.Errorf("Load() after Delete() error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestFileStore_Layout(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	id, err := s.Save(context.Background(), sampleRecords())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(filepath.Join(dir, "chat-analysis-"+id+".json")); err != nil {
		t.Errorf("expected data file: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("dir has %d entries, want 1 (temp file left behind?)", len(entries))
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), config.StoreConfig{Backend: "redis"}, nil)
	if err == nil {
		t.Error("Open() expected error for unknown backend")
	}
}
