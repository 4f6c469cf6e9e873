package backend

import (
	"path/filepath"
	"testing"

	"cardledger/internal/config"
	"cardledger/internal/store/memory"
)

func TestBuildMemoryBackend(t *testing.T) {
	cfg := &config.Config{DataBackend: "memory"}

	store, err := Build(cfg, nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	defer store.Close()

	if _, ok := store.(*memory.Store); !ok {
		t.Errorf("Build() returned %T, want *memory.Store", store)
	}
}

func TestBuildSQLiteBackend(t *testing.T) {
	cfg := &config.Config{
		DataBackend:  "sqlite",
		SQLiteDBPath: filepath.Join(t.TempDir(), "ledger.db"),
	}

	store, err := Build(cfg, nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestBuildUnknownBackend(t *testing.T) {
	cfg := &config.Config{DataBackend: "dynamo"}

	if _, err := Build(cfg, nil); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
