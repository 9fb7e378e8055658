package internal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/starford/chainscope/internal/mcpserver"
	"github.com/starford/chainscope/internal/persistence"
	"github.com/starford/chainscope/internal/report"
	"github.com/starford/chainscope/internal/view"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

// CheckFormat reports whether format is a known export format. An empty
// format means json.
func CheckFormat(format string) error {
	switch format {
	case "", FormatJSON, FormatXLSX, FormatPDF:
		return nil
	}
	return fmt.Errorf("unknown export format %q (want %s, %s or %s)", format, FormatJSON, FormatXLSX, FormatPDF)
}

// DefaultExportName returns the dated file name for format.
func DefaultExportName(format string, now time.Time) string {
	name := persistence.ExportFilename(now)
	if format == FormatJSON {
		return name
	}
	return name[:len(name)-len(".json")] + "." + format
}

// Export writes the stored dataset in format to the configured output.
func Export(ctx context.Context, format string, opts ...Option) error {
	if err := CheckFormat(format); err != nil {
		return err
	}
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	logger := app.newLogger(os.Stderr)
	svc, closer, _, err := app.openService(logger)
	if err != nil {
		return err
	}
	defer closer.Close()

	var raw []byte
	switch format {
	case FormatJSON, "":
		text, _, err := svc.Export()
		if err != nil {
			return err
		}
		raw = []byte(text + "\n")
	case FormatXLSX:
		ds, _ := svc.Snapshot()
		if raw, err = report.BuildWorkbook(ds); err != nil {
			return err
		}
	case FormatPDF:
		ds, _ := svc.Snapshot()
		if raw, err = report.BuildPDF(ds, view.Filter{}, time.Now()); err != nil {
			return err
		}
	}

	if _, err := app.output().Write(raw); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

// Import replaces the stored dataset with the content of r.
func Import(ctx context.Context, r io.Reader, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	logger := app.newLogger(os.Stderr)
	svc, closer, _, err := app.openService(logger)
	if err != nil {
		return err
	}
	defer closer.Close()

	text, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read import: %w", err)
	}
	res, err := svc.Import(ctx, string(text))
	if err != nil {
		return err
	}
	if !res.Persisted {
		return fmt.Errorf("import: dataset could not be written to the store")
	}
	logger.Info("dataset imported",
		slog.Int("nodes", len(res.Dataset.Nodes)),
		slog.Int("flows", len(res.Dataset.Flows)),
		slog.String("version", res.Version))
	return nil
}

// Reset overwrites the stored dataset with the built-in defaults.
func Reset(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	logger := app.newLogger(os.Stderr)
	svc, closer, _, err := app.openService(logger)
	if err != nil {
		return err
	}
	defer closer.Close()

	res, err := svc.Reset(ctx)
	if err != nil {
		return err
	}
	if !res.Persisted {
		return fmt.Errorf("reset: dataset could not be written to the store")
	}
	logger.Info("dataset reset to defaults", slog.String("version", res.Version))
	return nil
}

// ServeMCP runs the MCP server on stdio. Logs go to stderr since stdout
// carries the protocol.
func ServeMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	logger := app.newLogger(os.Stderr)
	slog.SetDefault(logger)

	svc, closer, _, err := app.openService(logger)
	if err != nil {
		return err
	}
	defer closer.Close()

	logger.Info("MCP server starting on stdio", slog.String("store_driver", app.config.Store.Driver))
	return mcpserver.New(svc).ServeStdio()
}
