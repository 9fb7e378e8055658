package view

import "github.com/starford/chainscope/internal/dataset"

// View is the visible slice of a dataset under a filter.
type View struct {
	Filter Filter         `json:"filter"`
	Nodes  []dataset.Node `json:"nodes"`
	Flows  []dataset.Flow `json:"flows"`
}

// Compute evaluates f over every node and flow of d, in dataset order.
func Compute(d *dataset.Dataset, f Filter) View {
	nodes := VisibleNodes(d, f)
	return View{
		Filter: f,
		Nodes:  nodes,
		Flows:  VisibleFlows(d, f, nodes),
	}
}

// VisibleNodes returns the nodes passing f.
func VisibleNodes(d *dataset.Dataset, f Filter) []dataset.Node {
	out := []dataset.Node{}
	for _, n := range d.Nodes {
		if f.NodeVisible(n) {
			out = append(out, n)
		}
	}
	return out
}

// VisibleFlows returns the flows of d consistent with the visible node set.
func VisibleFlows(d *dataset.Dataset, f Filter, visibleNodes []dataset.Node) []dataset.Flow {
	ids := make(map[string]struct{}, len(visibleNodes))
	for _, n := range visibleNodes {
		ids[n.ID] = struct{}{}
	}
	out := []dataset.Flow{}
	for _, fl := range d.Flows {
		if f.FlowVisible(fl, ids) {
			out = append(out, fl)
		}
	}
	return out
}
