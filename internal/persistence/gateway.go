// Package persistence moves the Dataset between memory and a durable slot,
// and between memory and the JSON exchange format.
package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/starford/chainscope/internal/apperr"
	"github.com/starford/chainscope/internal/dataset"
	"github.com/starford/chainscope/internal/storage"
)

// DefaultKey is the slot the dataset is stored under.
const DefaultKey = "supplyChainData"

// Gateway loads, saves, imports and exports datasets through one slot.
type Gateway struct {
	slot   storage.Slot
	key    string
	logger *slog.Logger
}

// NewGateway creates a gateway over slot. An empty key selects DefaultKey.
func NewGateway(slot storage.Slot, key string, logger *slog.Logger) *Gateway {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{slot: slot, key: key, logger: logger}
}

// Key returns the slot key.
func (g *Gateway) Key() string { return g.key }

// Read returns the stored dataset without any fallback. An unwritten slot
// yields storage.ErrEmpty; read and decode failures are returned as is.
func (g *Gateway) Read() (*dataset.Dataset, error) {
	raw, err := g.slot.Get(g.key)
	if err != nil {
		return nil, err
	}
	ds, err := decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decode stored dataset: %w", err)
	}
	return ds, nil
}

// Load returns the stored dataset, or a fresh copy of the defaults when the
// slot is empty, unreadable or holds something that does not decode. It is
// meant for startup only.
func (g *Gateway) Load() *dataset.Dataset {
	ds, err := g.Read()
	if errors.Is(err, storage.ErrEmpty) {
		g.logger.Info("no stored dataset, using defaults", slog.String("key", g.key))
		return dataset.Defaults()
	}
	if err != nil {
		g.logger.Warn("stored dataset unusable, using defaults",
			slog.String("key", g.key), slog.String("error", err.Error()))
		return dataset.Defaults()
	}
	// Stored data is kept even when it breaks an invariant; edits re-validate.
	if err := ds.Validate(); err != nil {
		g.logger.Warn("stored dataset failed validation", slog.String("error", err.Error()))
	}
	return ds
}

// Save writes ds to the slot. Failures wrap apperr.ErrStorageUnavailable.
func (g *Gateway) Save(ds *dataset.Dataset) error {
	raw, err := json.Marshal(ds)
	if err != nil {
		return fmt.Errorf("save: encode: %w: %w", apperr.ErrStorageUnavailable, err)
	}
	if err := g.slot.Set(g.key, raw); err != nil {
		g.logger.Error("save dataset failed", slog.String("key", g.key), slog.String("error", err.Error()))
		return fmt.Errorf("save: %w: %w", apperr.ErrStorageUnavailable, err)
	}
	return nil
}

// ResetToDefaults returns a fresh copy of the built-in dataset. It does not persist.
func (g *Gateway) ResetToDefaults() *dataset.Dataset {
	return dataset.Defaults()
}

// ExportText renders ds as indented JSON in the persisted layout.
func ExportText(ds *dataset.Dataset) (string, error) {
	raw, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	return string(raw), nil
}

// ExportFilename is the suggested download name for an export made at now.
func ExportFilename(now time.Time) string {
	return "supply-chain-data-" + now.Format(time.DateOnly) + ".json"
}

// ImportText decodes and validates an exported dataset. The result shares
// nothing with any existing dataset.
func ImportText(text string) (*dataset.Dataset, error) {
	ds, err := decode([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}
	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("import: %w: %w", apperr.ErrInvalidDataset, err)
	}
	return ds, nil
}

// decode parses raw into a Dataset. nodes and flows must be present and
// non-null; businessProcesses and teams default to empty.
func decode(raw []byte) (*dataset.Dataset, error) {
	if !json.Valid(raw) {
		return nil, apperr.ErrMalformedImport
	}
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil || top == nil {
		return nil, fmt.Errorf("%w: top level is not an object", apperr.ErrMissingRequiredField)
	}
	for _, field := range []string{"nodes", "flows"} {
		v, ok := top[field]
		if !ok || string(v) == "null" {
			return nil, fmt.Errorf("%w: %s", apperr.ErrMissingRequiredField, field)
		}
	}

	var ds dataset.Dataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrInvalidDataset, err)
	}
	if ds.BusinessProcesses == nil {
		ds.BusinessProcesses = map[string]dataset.BusinessProcess{}
	}
	if ds.Teams == nil {
		ds.Teams = map[string]dataset.Team{}
	}
	return &ds, nil
}
