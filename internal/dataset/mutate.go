package dataset

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/starford/chainscope/internal/apperr"
)

// NodePatch carries the fields of an update. Nil slices and unset optionals
// leave the current value in place. The id is not patchable.
type NodePatch struct {
	Type     *NodeType        `json:"type,omitempty"`
	Name     *string          `json:"name,omitempty"`
	Temp     []TempRegime     `json:"temp,omitempty"`
	Operator Optional[string] `json:"operator"`
	Location *string          `json:"location,omitempty"`
	Systems  []string         `json:"systems,omitempty"`
}

// FlowPatch carries the fields of a flow update.
type FlowPatch struct {
	From   *string        `json:"from,omitempty"`
	To     *string        `json:"to,omitempty"`
	Type   *string        `json:"type,omitempty"`
	Temp   *TempRegime    `json:"temp,omitempty"`
	HasASN Optional[bool] `json:"hasASN"`
}

// newID returns a time-ordered identifier with the given prefix.
func newID(prefix string) string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return prefix + "-" + id.String()
}

// AddNode returns a dataset with node appended. An empty id is generated.
func AddNode(d *Dataset, node Node) (*Dataset, error) {
	node = node.clone()
	if node.ID == "" {
		node.ID = newID("node")
	}
	node.Temp = dedupe(node.Temp)
	if err := node.Validate(); err != nil {
		return nil, fmt.Errorf("add node: %w: %w", apperr.ErrValidation, err)
	}
	if d.nodeIndex(node.ID) >= 0 {
		return nil, fmt.Errorf("add node: %w: %q", apperr.ErrDuplicateID, node.ID)
	}

	out := d.shallow()
	out.Nodes = append(slices.Clip(slices.Clone(d.Nodes)), node)
	return out, nil
}

// UpdateNode returns a dataset with patch merged into the node with the given id.
func UpdateNode(d *Dataset, id string, patch NodePatch) (*Dataset, error) {
	i := d.nodeIndex(id)
	if i < 0 {
		return nil, fmt.Errorf("update node %q: %w", id, apperr.ErrNotFound)
	}

	n := d.Nodes[i].clone()
	if patch.Type != nil {
		n.Type = *patch.Type
	}
	if patch.Name != nil {
		n.Name = *patch.Name
	}
	if patch.Temp != nil {
		n.Temp = dedupe(patch.Temp)
	}
	if patch.Operator.Set {
		n.Operator = nil
		if patch.Operator.Value != nil {
			op := *patch.Operator.Value
			n.Operator = &op
		}
	}
	if patch.Location != nil {
		n.Location = *patch.Location
	}
	if patch.Systems != nil {
		n.Systems = slices.Clone(patch.Systems)
	}
	if err := n.Validate(); err != nil {
		return nil, fmt.Errorf("update node %q: %w: %w", id, apperr.ErrValidation, err)
	}

	out := d.shallow()
	out.Nodes = slices.Clone(d.Nodes)
	out.Nodes[i] = n
	return out, nil
}

// DeleteNode returns a dataset without the node and without every flow that
// starts or ends at it.
func DeleteNode(d *Dataset, id string) (*Dataset, error) {
	if d.nodeIndex(id) < 0 {
		return nil, fmt.Errorf("delete node %q: %w", id, apperr.ErrNotFound)
	}

	out := d.shallow()
	out.Nodes = slices.DeleteFunc(slices.Clone(d.Nodes), func(n Node) bool { return n.ID == id })
	out.Flows = slices.DeleteFunc(slices.Clone(d.Flows), func(f Flow) bool { return f.Touches(id) })
	return out, nil
}

// AddFlow returns a dataset with flow appended. Both endpoints must exist.
func AddFlow(d *Dataset, flow Flow) (*Dataset, error) {
	flow = flow.clone()
	if flow.ID == "" {
		flow.ID = newID("flow")
	}
	if err := flow.Validate(); err != nil {
		return nil, fmt.Errorf("add flow: %w: %w", apperr.ErrValidation, err)
	}
	if d.flowIndex(flow.ID) >= 0 {
		return nil, fmt.Errorf("add flow: %w: %q", apperr.ErrDuplicateID, flow.ID)
	}
	if err := checkEndpoints(d.nodeIDs(), flow); err != nil {
		return nil, fmt.Errorf("add flow: %w", err)
	}

	out := d.shallow()
	out.Flows = append(slices.Clip(slices.Clone(d.Flows)), flow)
	return out, nil
}

// UpdateFlow returns a dataset with patch merged into the flow with the given id.
func UpdateFlow(d *Dataset, id string, patch FlowPatch) (*Dataset, error) {
	i := d.flowIndex(id)
	if i < 0 {
		return nil, fmt.Errorf("update flow %q: %w", id, apperr.ErrNotFound)
	}

	f := d.Flows[i].clone()
	if patch.From != nil {
		f.From = *patch.From
	}
	if patch.To != nil {
		f.To = *patch.To
	}
	if patch.Type != nil {
		f.Type = *patch.Type
	}
	if patch.Temp != nil {
		f.Temp = *patch.Temp
	}
	if patch.HasASN.Set {
		f.HasASN = nil
		if patch.HasASN.Value != nil {
			v := *patch.HasASN.Value
			f.HasASN = &v
		}
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("update flow %q: %w: %w", id, apperr.ErrValidation, err)
	}
	if err := checkEndpoints(d.nodeIDs(), f); err != nil {
		return nil, fmt.Errorf("update flow %q: %w", id, err)
	}

	out := d.shallow()
	out.Flows = slices.Clone(d.Flows)
	out.Flows[i] = f
	return out, nil
}

// DeleteFlow returns a dataset without the flow. Flows are leaves; nothing cascades.
func DeleteFlow(d *Dataset, id string) (*Dataset, error) {
	if d.flowIndex(id) < 0 {
		return nil, fmt.Errorf("delete flow %q: %w", id, apperr.ErrNotFound)
	}

	out := d.shallow()
	out.Flows = slices.DeleteFunc(slices.Clone(d.Flows), func(f Flow) bool { return f.ID == id })
	return out, nil
}

// shallow copies the aggregate header. Callers replace whichever collection
// they change; the rest is shared read-only with d.
func (d *Dataset) shallow() *Dataset {
	out := *d
	return &out
}

func (d *Dataset) nodeIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(d.Nodes))
	for _, n := range d.Nodes {
		ids[n.ID] = struct{}{}
	}
	return ids
}

func dedupe[T comparable](in []T) []T {
	if in == nil {
		return nil
	}
	seen := make(map[T]struct{}, len(in))
	out := make([]T, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
