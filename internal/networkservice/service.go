// Package networkservice owns the current Dataset. It applies mutations,
// persists the result and announces every change.
package networkservice

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/starford/chainscope/internal/apperr"
	"github.com/starford/chainscope/internal/checksum"
	"github.com/starford/chainscope/internal/dataset"
	"github.com/starford/chainscope/internal/persistence"
	"github.com/starford/chainscope/internal/sse"
)

// Publisher receives change notifications. *sse.Broker satisfies it.
type Publisher interface {
	PublishChange(kind, action, id, version string)
}

// Recorder receives operation outcomes. *metrics.Registry satisfies it.
type Recorder interface {
	RecordMutation(op string, err error)
	RecordSave(err error)
	RecordImport(err error)
	RecordReload()
	SetDatasetSize(nodes, flows int)
}

// Result describes the dataset after a successful change.
type Result struct {
	Dataset   *dataset.Dataset `json:"-"`
	ID        string           `json:"id,omitempty"`
	Version   string           `json:"version"`
	Persisted bool             `json:"persisted"`
}

// Service is the single owner of the current dataset. Readers get an
// immutable snapshot; writers are serialised.
type Service struct {
	gw     *persistence.Gateway
	pub    Publisher
	rec    Recorder
	logger *slog.Logger

	mu      sync.RWMutex
	current *dataset.Dataset
	version string
	// unsaved is set while the last write to the slot failed; the slot then
	// holds an older dataset than current.
	unsaved bool
}

// Option configures a Service.
type Option func(*Service)

// WithPublisher sets where change events go.
func WithPublisher(p Publisher) Option { return func(s *Service) { s.pub = p } }

// WithRecorder sets the metrics sink.
func WithRecorder(r Recorder) Option { return func(s *Service) { s.rec = r } }

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(s *Service) { s.logger = l } }

// New loads the stored dataset through gw and returns a service owning it.
func New(gw *persistence.Gateway, opts ...Option) *Service {
	s := &Service{gw: gw, logger: slog.Default()}
	for _, o := range opts {
		o(s)
	}
	s.install(gw.Load())
	return s
}

// Version returns the SHA-256 of ds in its stored encoding.
func Version(ds *dataset.Dataset) string {
	raw, err := json.Marshal(ds)
	if err != nil {
		return ""
	}
	return checksum.Sum(raw)
}

// Snapshot returns the current dataset and its version. The dataset must
// not be modified by the caller.
func (s *Service) Snapshot() (*dataset.Dataset, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.version
}

// Version returns the current dataset version.
func (s *Service) Version() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// install swaps in ds. Caller holds mu (or is the constructor).
func (s *Service) install(ds *dataset.Dataset) {
	s.current = ds
	s.version = Version(ds)
	if s.rec != nil {
		s.rec.SetDatasetSize(len(ds.Nodes), len(ds.Flows))
	}
}

func (s *Service) save(ds *dataset.Dataset) bool {
	err := s.gw.Save(ds)
	if s.rec != nil {
		s.rec.RecordSave(err)
	}
	if err != nil {
		s.unsaved = true
		s.logger.Error("dataset not persisted", slog.String("error", err.Error()))
		return false
	}
	s.unsaved = false
	return true
}

func (s *Service) publish(kind, action, id, version string) {
	if s.pub != nil {
		s.pub.PublishChange(kind, action, id, version)
	}
}

type change func(*dataset.Dataset) (*dataset.Dataset, string, error)

// apply runs fn against the current dataset under the write lock, installs
// and persists the result. A failed save keeps the in-memory change and is
// reported through Result.Persisted.
func (s *Service) apply(ctx context.Context, op, kind, action, ifMatch string, fn change) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	s.mu.Lock()
	if ifMatch != "" && ifMatch != s.version {
		s.mu.Unlock()
		if s.rec != nil {
			s.rec.RecordMutation(op, apperr.ErrConflict)
		}
		return Result{}, fmt.Errorf("%s: %w: dataset changed", op, apperr.ErrConflict)
	}
	next, id, err := fn(s.current)
	if s.rec != nil {
		s.rec.RecordMutation(op, err)
	}
	if err != nil {
		s.mu.Unlock()
		return Result{}, err
	}
	s.install(next)
	res := Result{Dataset: next, ID: id, Version: s.version, Persisted: s.save(next)}
	s.mu.Unlock()

	s.logger.Info("dataset changed", slog.String("op", op), slog.String("id", id), slog.Bool("persisted", res.Persisted))
	s.publish(kind, action, id, res.Version)
	return res, nil
}

// AddNode adds node; an empty id is generated.
func (s *Service) AddNode(ctx context.Context, node dataset.Node, ifMatch string) (Result, error) {
	return s.apply(ctx, "add_node", sse.KindNode, "created", ifMatch, func(d *dataset.Dataset) (*dataset.Dataset, string, error) {
		next, err := dataset.AddNode(d, node)
		if err != nil {
			return nil, "", err
		}
		return next, next.Nodes[len(next.Nodes)-1].ID, nil
	})
}

// UpdateNode merges patch into the node with the given id.
func (s *Service) UpdateNode(ctx context.Context, id string, patch dataset.NodePatch, ifMatch string) (Result, error) {
	return s.apply(ctx, "update_node", sse.KindNode, "updated", ifMatch, func(d *dataset.Dataset) (*dataset.Dataset, string, error) {
		next, err := dataset.UpdateNode(d, id, patch)
		return next, id, err
	})
}

// DeleteNode removes the node and every flow touching it.
func (s *Service) DeleteNode(ctx context.Context, id, ifMatch string) (Result, error) {
	return s.apply(ctx, "delete_node", sse.KindNode, "deleted", ifMatch, func(d *dataset.Dataset) (*dataset.Dataset, string, error) {
		next, err := dataset.DeleteNode(d, id)
		return next, id, err
	})
}

// AddFlow adds flow; an empty id is generated.
func (s *Service) AddFlow(ctx context.Context, flow dataset.Flow, ifMatch string) (Result, error) {
	return s.apply(ctx, "add_flow", sse.KindFlow, "created", ifMatch, func(d *dataset.Dataset) (*dataset.Dataset, string, error) {
		next, err := dataset.AddFlow(d, flow)
		if err != nil {
			return nil, "", err
		}
		return next, next.Flows[len(next.Flows)-1].ID, nil
	})
}

// UpdateFlow merges patch into the flow with the given id.
func (s *Service) UpdateFlow(ctx context.Context, id string, patch dataset.FlowPatch, ifMatch string) (Result, error) {
	return s.apply(ctx, "update_flow", sse.KindFlow, "updated", ifMatch, func(d *dataset.Dataset) (*dataset.Dataset, string, error) {
		next, err := dataset.UpdateFlow(d, id, patch)
		return next, id, err
	})
}

// DeleteFlow removes the flow with the given id.
func (s *Service) DeleteFlow(ctx context.Context, id, ifMatch string) (Result, error) {
	return s.apply(ctx, "delete_flow", sse.KindFlow, "deleted", ifMatch, func(d *dataset.Dataset) (*dataset.Dataset, string, error) {
		next, err := dataset.DeleteFlow(d, id)
		return next, id, err
	})
}

// Import replaces the dataset with the decoded text. On error the current
// dataset is untouched.
func (s *Service) Import(ctx context.Context, text string) (Result, error) {
	res, err := s.apply(ctx, "import", sse.KindDataset, "replaced", "", func(*dataset.Dataset) (*dataset.Dataset, string, error) {
		next, err := persistence.ImportText(text)
		return next, "", err
	})
	if s.rec != nil {
		s.rec.RecordImport(err)
	}
	return res, err
}

// Reset replaces the dataset with the built-in defaults and persists them.
func (s *Service) Reset(ctx context.Context) (Result, error) {
	return s.apply(ctx, "reset", sse.KindDataset, "replaced", "", func(*dataset.Dataset) (*dataset.Dataset, string, error) {
		return s.gw.ResetToDefaults(), "", nil
	})
}

// Reload re-reads the slot and installs its content when it differs from
// the current dataset. It reports whether anything changed.
//
// The in-memory dataset stays authoritative: an empty, unreadable, undecodable
// or invalid slot is logged and ignored, and so is any slot content while
// the last save failed. The read happens under the write lock so it cannot
// undo a concurrent edit.
func (s *Service) Reload(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	if s.unsaved {
		s.mu.Unlock()
		s.logger.Warn("slot changed while edits are unsaved, keeping current dataset")
		return false, nil
	}
	ds, err := s.gw.Read()
	if err == nil {
		if verr := ds.Validate(); verr != nil {
			err = fmt.Errorf("stored dataset invalid: %w", verr)
		}
	}
	if err != nil {
		s.mu.Unlock()
		s.logger.Warn("slot not reloaded, keeping current dataset",
			slog.String("key", s.gw.Key()), slog.String("error", err.Error()))
		return false, nil
	}
	v := Version(ds)
	if v == s.version {
		s.mu.Unlock()
		return false, nil
	}
	s.install(ds)
	s.mu.Unlock()

	if s.rec != nil {
		s.rec.RecordReload()
	}
	s.logger.Info("dataset reloaded from store", slog.String("version", v))
	s.publish(sse.KindDataset, "replaced", "", v)
	return true, nil
}

// Export renders the current dataset in the exchange format.
func (s *Service) Export() (string, string, error) {
	ds, v := s.Snapshot()
	text, err := persistence.ExportText(ds)
	return text, v, err
}
