package dataset

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/chainscope/internal/apperr"
)

var (
	nodeTypeRule = validation.In(anySlice(NodeTypes)...)
	nodeTempRule = validation.In(anySlice(NodeTemps)...)
	flowTempRule = validation.In(TempAmbient, TempChilled, TempFrozen, TempMulti)
)

func anySlice[T any](in []T) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}

// Validate checks a single node in isolation.
func (n Node) Validate() error {
	return validation.ValidateStruct(&n,
		validation.Field(&n.ID, validation.Required),
		validation.Field(&n.Type, validation.Required, nodeTypeRule),
		validation.Field(&n.Name, validation.Required),
		validation.Field(&n.Temp, validation.Required, validation.Each(nodeTempRule)),
		validation.Field(&n.Location, validation.Required),
		validation.Field(&n.Systems, validation.Each(validation.Required)),
	)
}

// Validate checks a single flow in isolation. Endpoint resolution needs the
// dataset and is done by the mutation operations and Dataset.Validate.
func (f Flow) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.ID, validation.Required),
		validation.Field(&f.From, validation.Required),
		validation.Field(&f.To, validation.Required),
		validation.Field(&f.Type, validation.Required),
		validation.Field(&f.Temp, validation.Required, flowTempRule),
	)
}

// Validate checks every invariant of the aggregate: entity fields, id
// uniqueness and flow endpoint resolution.
func (d *Dataset) Validate() error {
	nodeIDs := make(map[string]struct{}, len(d.Nodes))
	for i, n := range d.Nodes {
		if err := n.Validate(); err != nil {
			return fmt.Errorf("nodes[%d]: %w: %w", i, apperr.ErrValidation, err)
		}
		if _, dup := nodeIDs[n.ID]; dup {
			return fmt.Errorf("nodes[%d]: %w: node %q", i, apperr.ErrDuplicateID, n.ID)
		}
		nodeIDs[n.ID] = struct{}{}
	}

	flowIDs := make(map[string]struct{}, len(d.Flows))
	for i, f := range d.Flows {
		if err := f.Validate(); err != nil {
			return fmt.Errorf("flows[%d]: %w: %w", i, apperr.ErrValidation, err)
		}
		if _, dup := flowIDs[f.ID]; dup {
			return fmt.Errorf("flows[%d]: %w: flow %q", i, apperr.ErrDuplicateID, f.ID)
		}
		flowIDs[f.ID] = struct{}{}
		if err := checkEndpoints(nodeIDs, f); err != nil {
			return fmt.Errorf("flows[%d]: %w", i, err)
		}
	}
	return nil
}

func checkEndpoints(nodeIDs map[string]struct{}, f Flow) error {
	if _, ok := nodeIDs[f.From]; !ok {
		return fmt.Errorf("%w: flow %q from unknown node %q", apperr.ErrDanglingReference, f.ID, f.From)
	}
	if _, ok := nodeIDs[f.To]; !ok {
		return fmt.Errorf("%w: flow %q to unknown node %q", apperr.ErrDanglingReference, f.ID, f.To)
	}
	return nil
}
