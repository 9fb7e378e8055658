package view

import (
	"slices"

	"github.com/starford/chainscope/internal/dataset"
)

// TeamsForSystems returns the distinct names of teams owning at least one of
// systems, in first-seen order. Systems without a team are skipped.
func TeamsForSystems(teams map[string]dataset.Team, systems []string) []string {
	out := []string{}
	for _, s := range systems {
		t, ok := teams[s]
		if !ok || slices.Contains(out, t.Name) {
			continue
		}
		out = append(out, t.Name)
	}
	return out
}

// NodesBySystem returns the nodes running system.
func NodesBySystem(nodes []dataset.Node, system string) []dataset.Node {
	return filterNodes(nodes, func(n dataset.Node) bool { return n.RunsSystem(system) })
}

// NodesAtLocation returns the nodes located in city.
func NodesAtLocation(nodes []dataset.Node, city string) []dataset.Node {
	return filterNodes(nodes, func(n dataset.Node) bool { return n.Location == city })
}

// NodesOfType returns the nodes of type t.
func NodesOfType(nodes []dataset.Node, t dataset.NodeType) []dataset.Node {
	return filterNodes(nodes, func(n dataset.Node) bool { return n.Type == t })
}

// ConnectedFlows returns the flows starting or ending at nodeID.
func ConnectedFlows(flows []dataset.Flow, nodeID string) []dataset.Flow {
	out := []dataset.Flow{}
	for _, f := range flows {
		if f.Touches(nodeID) {
			out = append(out, f)
		}
	}
	return out
}

// AllSystems returns every system used by any node, in first-seen order.
func AllSystems(nodes []dataset.Node) []string {
	out := []string{}
	for _, n := range nodes {
		for _, s := range n.Systems {
			if !slices.Contains(out, s) {
				out = append(out, s)
			}
		}
	}
	return out
}

// Operators returns every distinct operator name, with dataset.NoOperator
// for unoperated nodes, in first-seen order.
func Operators(nodes []dataset.Node) []string {
	out := []string{}
	for _, n := range nodes {
		if op := n.OperatorName(); !slices.Contains(out, op) {
			out = append(out, op)
		}
	}
	return out
}

func filterNodes(nodes []dataset.Node, keep func(dataset.Node) bool) []dataset.Node {
	out := []dataset.Node{}
	for _, n := range nodes {
		if keep(n) {
			out = append(out, n)
		}
	}
	return out
}
