package internal

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/starford/chainscope/internal/networkservice"
	"github.com/starford/chainscope/internal/persistence"
	"github.com/starford/chainscope/internal/storage"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openSlot builds the configured slot backend. slotFile is the path of the
// backing file for the file driver and empty otherwise.
func openSlot(cfg StoreConfig) (slot storage.Slot, closer io.Closer, slotFile string, err error) {
	switch cfg.Driver {
	case StoreDriverMemory:
		return storage.NewMemory(), nopCloser{}, "", nil

	case StoreDriverSQLite:
		if dir := filepath.Dir(cfg.Path); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, "", fmt.Errorf("create db dir: %w", err)
			}
		}
		db, err := storage.OpenSQLite(cfg.Path)
		if err != nil {
			return nil, nil, "", err
		}
		return db, db, "", nil

	default:
		if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
			return nil, nil, "", fmt.Errorf("create data dir: %w", err)
		}
		fs, err := storage.NewFS(cfg.Path)
		if err != nil {
			return nil, nil, "", err
		}
		p, err := fs.Path(cfg.Key)
		if err != nil {
			return nil, nil, "", err
		}
		return fs, nopCloser{}, p, nil
	}
}

// newLogger builds the structured JSON logger used everywhere.
func (a *application) newLogger(w io.Writer) *slog.Logger {
	if a.logger != nil {
		return a.logger
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: a.config.App.LogLevel,
	}))
}

func (a *application) output() io.Writer {
	if a.out != nil {
		return a.out
	}
	return os.Stdout
}

func newApplication(opts []Option) (*application, error) {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

// openService wires slot, gateway and service for one-shot commands.
func (a *application) openService(logger *slog.Logger, opts ...networkservice.Option) (*networkservice.Service, io.Closer, string, error) {
	slot, closer, slotFile, err := openSlot(a.config.Store)
	if err != nil {
		return nil, nil, "", fmt.Errorf("init storage: %w", err)
	}
	gw := persistence.NewGateway(slot, a.config.Store.Key, logger)
	opts = append([]networkservice.Option{networkservice.WithLogger(logger)}, opts...)
	return networkservice.New(gw, opts...), closer, slotFile, nil
}
