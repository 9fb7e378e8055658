package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/starford/chainscope/internal/dataset"
	"github.com/starford/chainscope/internal/networkservice"
	"github.com/starford/chainscope/internal/persistence"
	"github.com/starford/chainscope/internal/storage"
)

type countingReloader struct{ calls atomic.Int32 }

func (c *countingReloader) Reload(context.Context) (bool, error) {
	c.calls.Add(1)
	return true, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func TestWatch_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	slot := filepath.Join(dir, "supplyChainData.json")
	r := &countingReloader{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go Watch(ctx, slot, r, 100*time.Millisecond, quietLogger())
	time.Sleep(100 * time.Millisecond)

	for i := 0; i < 5; i++ {
		_ = os.WriteFile(slot, []byte("{}"), 0o644)
	}
	_ = os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0o644)

	eventually(t, 3*time.Second, 20*time.Millisecond, func() bool { return r.calls.Load() >= 1 }, "reload never fired")
	time.Sleep(300 * time.Millisecond)
	if n := r.calls.Load(); n != 1 {
		t.Errorf("reloads = %d, want 1", n)
	}
}

func TestWatch_ExternalEditReachesService(t *testing.T) {
	dir := t.TempDir()
	fs, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	gw := persistence.NewGateway(fs, "", quietLogger())
	svc := networkservice.New(gw, networkservice.WithLogger(quietLogger()))
	slot, _ := fs.Path(gw.Key())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go Watch(ctx, slot, svc, 50*time.Millisecond, quietLogger())
	time.Sleep(100 * time.Millisecond)

	edited, _ := dataset.DeleteNode(dataset.Defaults(), "ndc1")
	text, _ := persistence.ExportText(edited)
	if err := os.WriteFile(slot, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		ds, _ := svc.Snapshot()
		return len(ds.Nodes) == 13
	}, "external edit not picked up")
}
