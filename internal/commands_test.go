package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/starford/chainscope/internal/dataset"
	"github.com/starford/chainscope/internal/metrics"
	"github.com/starford/chainscope/internal/networkservice"
	"github.com/starford/chainscope/internal/persistence"
	"github.com/starford/chainscope/internal/sse"
)

func testConfig(t *testing.T, driver string) *Config {
	t.Helper()
	cfg := NewDefaultConfig()
	cfg.Store.Driver = driver
	switch driver {
	case StoreDriverSQLite:
		cfg.Store.Path = filepath.Join(t.TempDir(), "db", "chainscope.db")
	default:
		cfg.Store.Path = filepath.Join(t.TempDir(), "data")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	return cfg
}

func quiet() Option {
	return WithLogger(slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func TestImportResetExport(t *testing.T) {
	for _, driver := range []string{StoreDriverFile, StoreDriverSQLite} {
		t.Run(driver, func(t *testing.T) {
			cfg := testConfig(t, driver)
			ctx := context.Background()

			edited, _ := dataset.DeleteNode(dataset.Defaults(), "ndc1")
			text, _ := persistence.ExportText(edited)
			if err := Import(ctx, strings.NewReader(text), WithConfig(cfg), quiet()); err != nil {
				t.Fatalf("Import: %v", err)
			}

			var out bytes.Buffer
			if err := Export(ctx, FormatJSON, WithConfig(cfg), quiet(), WithOutput(&out)); err != nil {
				t.Fatalf("Export: %v", err)
			}
			got, err := persistence.ImportText(out.String())
			if err != nil {
				t.Fatalf("exported text does not import: %v", err)
			}
			if len(got.Nodes) != 13 || len(got.Flows) != 11 {
				t.Errorf("exported %d nodes, %d flows", len(got.Nodes), len(got.Flows))
			}

			if err := Reset(ctx, WithConfig(cfg), quiet()); err != nil {
				t.Fatalf("Reset: %v", err)
			}
			out.Reset()
			_ = Export(ctx, FormatJSON, WithConfig(cfg), quiet(), WithOutput(&out))
			if got, _ := persistence.ImportText(out.String()); len(got.Nodes) != 14 {
				t.Error("reset should restore the defaults")
			}
		})
	}
}

func TestImport_RejectsMalformed(t *testing.T) {
	cfg := testConfig(t, StoreDriverFile)
	if err := Import(context.Background(), strings.NewReader("{not json"), WithConfig(cfg), quiet()); err == nil {
		t.Error("malformed import should fail")
	}
}

func TestExport_Formats(t *testing.T) {
	cfg := testConfig(t, StoreDriverMemory)
	for format, prefix := range map[string]string{FormatXLSX: "PK", FormatPDF: "%PDF"} {
		var out bytes.Buffer
		if err := Export(context.Background(), format, WithConfig(cfg), quiet(), WithOutput(&out)); err != nil {
			t.Fatalf("%s: %v", format, err)
		}
		if !bytes.HasPrefix(out.Bytes(), []byte(prefix)) {
			t.Errorf("%s output starts with %q", format, out.Bytes()[:4])
		}
	}
	if err := Export(context.Background(), "csv", WithConfig(cfg), quiet()); err == nil {
		t.Error("unknown format should fail")
	}
}

func TestCheckFormat(t *testing.T) {
	for _, ok := range []string{"", FormatJSON, FormatXLSX, FormatPDF} {
		if err := CheckFormat(ok); err != nil {
			t.Errorf("CheckFormat(%q) = %v", ok, err)
		}
	}
	if err := CheckFormat("bogus"); err == nil {
		t.Error("unknown format should fail")
	}
}

func TestExport_UnknownFormatWritesNothing(t *testing.T) {
	cfg := testConfig(t, StoreDriverMemory)
	var out bytes.Buffer
	if err := Export(context.Background(), "bogus", WithConfig(cfg), quiet(), WithOutput(&out)); err == nil {
		t.Fatal("unknown format should fail")
	}
	if out.Len() != 0 {
		t.Errorf("wrote %d bytes", out.Len())
	}
}

func TestDefaultExportName(t *testing.T) {
	now := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)
	if got := DefaultExportName(FormatXLSX, now); got != "supply-chain-data-2024-05-06.xlsx" {
		t.Errorf("name = %q", got)
	}
	if got := DefaultExportName(FormatJSON, now); got != "supply-chain-data-2024-05-06.json" {
		t.Errorf("name = %q", got)
	}
}

func TestHTTPHandler(t *testing.T) {
	cfg := testConfig(t, StoreDriverMemory)
	app, _ := newApplication([]Option{WithConfig(cfg), quiet()})
	broker := sse.NewBroker(time.Second)
	defer broker.Close()
	reg := metrics.NewRegistry()
	svc, closer, _, err := app.openService(app.newLogger(io.Discard), networkservice.WithRecorder(reg))
	if err != nil {
		t.Fatal(err)
	}
	defer closer.Close()
	h := newHTTPHandler(cfg, svc, broker, reg)

	for _, path := range []string{"/health/live", "/health/ready", "/api/summary"} {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Errorf("%s = %d", path, w.Code)
		}
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(w.Body.String(), `chainscope_dataset_nodes 14`) {
		t.Error("metrics should report the dataset size")
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/dataset", nil))
	var body struct {
		Version string `json:"version"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body.Version != svc.Version() {
		t.Errorf("version = %q", body.Version)
	}
}
