// Package dataset defines the supply-chain domain types and the pure
// operations that derive a new Dataset from an old one.
package dataset

import "slices"

// NodeType is the closed set of node kinds, in pipeline order.
type NodeType string

const (
	NodeSupplier NodeType = "supplier"
	NodeNDC      NodeType = "ndc"
	NodePrimary  NodeType = "primary"
	NodeRDC      NodeType = "rdc"
	NodeStore    NodeType = "store"
)

// NodeTypes lists every node type in the order goods move through the network.
var NodeTypes = []NodeType{NodeSupplier, NodeNDC, NodePrimary, NodeRDC, NodeStore}

// TempRegime is a temperature handling capability or flow regime.
type TempRegime string

const (
	TempAmbient TempRegime = "ambient"
	TempChilled TempRegime = "chilled"
	TempFrozen  TempRegime = "frozen"
	// TempMulti marks a flow carrying mixed regimes. Never valid on a node.
	TempMulti TempRegime = "multi"
)

// NodeTemps are the regimes a node may handle.
var NodeTemps = []TempRegime{TempAmbient, TempChilled, TempFrozen}

// Known flow types. The set is open; these are the ones the defaults use.
const (
	FlowInbound   = "inbound"
	FlowTransfer  = "transfer"
	FlowCrossdock = "crossdock"
	FlowDelivery  = "delivery"
)

// NoOperator is how an unoperated node is named in operator filters.
const NoOperator = "None"

// Node is a location in the network.
type Node struct {
	ID       string       `json:"id"`
	Type     NodeType     `json:"type"`
	Name     string       `json:"name"`
	Temp     []TempRegime `json:"temp"`
	Operator *string      `json:"operator"`
	Location string       `json:"location"`
	Systems  []string     `json:"systems"`
}

// OperatorName returns the operator, or NoOperator when the node is unoperated.
func (n Node) OperatorName() string {
	if n.Operator == nil || *n.Operator == "" {
		return NoOperator
	}
	return *n.Operator
}

// Handles reports whether the node handles regime t.
func (n Node) Handles(t TempRegime) bool {
	return slices.Contains(n.Temp, t)
}

// RunsSystem reports whether system runs at the node.
func (n Node) RunsSystem(system string) bool {
	return slices.Contains(n.Systems, system)
}

// Flow is a directed goods movement between two nodes.
type Flow struct {
	ID     string     `json:"id"`
	From   string     `json:"from"`
	To     string     `json:"to"`
	Type   string     `json:"type"`
	Temp   TempRegime `json:"temp"`
	HasASN *bool      `json:"hasASN,omitempty"`
}

// Touches reports whether nodeID is either endpoint of the flow.
func (f Flow) Touches(nodeID string) bool {
	return f.From == nodeID || f.To == nodeID
}

// Step is one stage of a business process.
type Step struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Systems     []string `json:"systems"`
	Description string   `json:"description"`
}

// BusinessProcess is an ordered sequence of steps under a logical stage.
type BusinessProcess struct {
	Name    string `json:"name"`
	Logical string `json:"logical"`
	Steps   []Step `json:"steps"`
}

// Team owns exactly one system, keyed by that system's name in Dataset.Teams.
type Team struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

// Dataset is the aggregate root. Values are treated as immutable once
// published; every mutation returns a new Dataset.
type Dataset struct {
	Nodes             []Node                     `json:"nodes"`
	Flows             []Flow                     `json:"flows"`
	BusinessProcesses map[string]BusinessProcess `json:"businessProcesses"`
	Teams             map[string]Team            `json:"teams"`
}

// Node returns the node with the given id.
func (d *Dataset) Node(id string) (Node, bool) {
	i := d.nodeIndex(id)
	if i < 0 {
		return Node{}, false
	}
	return d.Nodes[i], true
}

// Flow returns the flow with the given id.
func (d *Dataset) Flow(id string) (Flow, bool) {
	i := d.flowIndex(id)
	if i < 0 {
		return Flow{}, false
	}
	return d.Flows[i], true
}

func (d *Dataset) nodeIndex(id string) int {
	return slices.IndexFunc(d.Nodes, func(n Node) bool { return n.ID == id })
}

func (d *Dataset) flowIndex(id string) int {
	return slices.IndexFunc(d.Flows, func(f Flow) bool { return f.ID == id })
}

// Clone returns a deep copy sharing no mutable state with d.
func (d *Dataset) Clone() *Dataset {
	out := &Dataset{
		Nodes:             make([]Node, len(d.Nodes)),
		Flows:             make([]Flow, len(d.Flows)),
		BusinessProcesses: make(map[string]BusinessProcess, len(d.BusinessProcesses)),
		Teams:             make(map[string]Team, len(d.Teams)),
	}
	for i, n := range d.Nodes {
		out.Nodes[i] = n.clone()
	}
	for i, f := range d.Flows {
		out.Flows[i] = f.clone()
	}
	for k, bp := range d.BusinessProcesses {
		steps := make([]Step, len(bp.Steps))
		for i, s := range bp.Steps {
			s.Systems = slices.Clone(s.Systems)
			steps[i] = s
		}
		bp.Steps = steps
		out.BusinessProcesses[k] = bp
	}
	for k, t := range d.Teams {
		out.Teams[k] = t
	}
	return out
}

func (n Node) clone() Node {
	n.Temp = slices.Clone(n.Temp)
	n.Systems = slices.Clone(n.Systems)
	if n.Operator != nil {
		op := *n.Operator
		n.Operator = &op
	}
	return n
}

func (f Flow) clone() Flow {
	if f.HasASN != nil {
		v := *f.HasASN
		f.HasASN = &v
	}
	return f
}
