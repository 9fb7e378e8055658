// Package testutil provides shared test helpers for building services over
// throwaway stores.
package testutil

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/starford/chainscope/internal/networkservice"
	"github.com/starford/chainscope/internal/persistence"
	"github.com/starford/chainscope/internal/storage"
)

// QuietLogger discards everything.
func QuietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// TestSlotDir creates a temporary data directory with a file-backed slot store.
func TestSlotDir(t *testing.T) (string, *storage.FS) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// TestSQLite creates a temporary SQLite slot store that is closed on cleanup.
func TestSQLite(t *testing.T) *storage.SQLite {
	t.Helper()
	db, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "chainscope-test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestService returns a service over an in-memory slot holding the defaults.
func TestService(t *testing.T, opts ...networkservice.Option) (*networkservice.Service, *storage.Memory) {
	t.Helper()
	mem := storage.NewMemory()
	gw := persistence.NewGateway(mem, "", QuietLogger())
	opts = append([]networkservice.Option{networkservice.WithLogger(QuietLogger())}, opts...)
	return networkservice.New(gw, opts...), mem
}
