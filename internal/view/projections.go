package view

import (
	"sort"

	"github.com/starford/chainscope/internal/dataset"
)

// NodeCard is a node annotated with the names of the teams owning its systems.
type NodeCard struct {
	dataset.Node
	Teams []string `json:"teams"`
}

// TypeColumn is one stage of the logical pipeline.
type TypeColumn struct {
	Type  dataset.NodeType `json:"type"`
	Nodes []NodeCard       `json:"nodes"`
}

// ProcessStep is a business process step with its owning teams resolved.
type ProcessStep struct {
	dataset.Step
	Teams []string `json:"teams"`
}

// Process is a business process keyed for display.
type Process struct {
	Key     string        `json:"key"`
	Name    string        `json:"name"`
	Logical string        `json:"logical"`
	Steps   []ProcessStep `json:"steps"`
}

// Logical is the pipeline view: node columns in supply order plus processes.
type Logical struct {
	Columns   []TypeColumn `json:"columns"`
	Processes []Process    `json:"processes"`
}

// LogicalView groups visible nodes by type and resolves process teams.
func LogicalView(d *dataset.Dataset, visible []dataset.Node) Logical {
	out := Logical{Columns: make([]TypeColumn, 0, len(dataset.NodeTypes)), Processes: []Process{}}
	for _, t := range dataset.NodeTypes {
		col := TypeColumn{Type: t, Nodes: []NodeCard{}}
		for _, n := range NodesOfType(visible, t) {
			col.Nodes = append(col.Nodes, NodeCard{Node: n, Teams: TeamsForSystems(d.Teams, n.Systems)})
		}
		out.Columns = append(out.Columns, col)
	}

	keys := make([]string, 0, len(d.BusinessProcesses))
	for k := range d.BusinessProcesses {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		bp := d.BusinessProcesses[k]
		p := Process{Key: k, Name: bp.Name, Logical: bp.Logical, Steps: make([]ProcessStep, 0, len(bp.Steps))}
		for _, s := range bp.Steps {
			p.Steps = append(p.Steps, ProcessStep{Step: s, Teams: TeamsForSystems(d.Teams, s.Systems)})
		}
		out.Processes = append(out.Processes, p)
	}
	return out
}

// CityGroup lists the visible nodes in one city.
type CityGroup struct {
	City  string         `json:"city"`
	Nodes []dataset.Node `json:"nodes"`
}

// RegionGroup lists the non-empty cities of one region.
type RegionGroup struct {
	Region string      `json:"region"`
	Cities []CityGroup `json:"cities"`
}

// PhysicalView groups visible nodes by region and city. Cities with no
// visible node are left out; regions are always present.
func PhysicalView(visible []dataset.Node) []RegionGroup {
	out := make([]RegionGroup, 0, len(Regions))
	for _, r := range Regions {
		rg := RegionGroup{Region: r.Name, Cities: []CityGroup{}}
		for _, city := range r.Cities {
			nodes := NodesAtLocation(visible, city)
			if len(nodes) == 0 {
				continue
			}
			rg.Cities = append(rg.Cities, CityGroup{City: city, Nodes: nodes})
		}
		out = append(out, rg)
	}
	return out
}

// SystemEntry is one card of the systems view.
type SystemEntry struct {
	System string         `json:"system"`
	Team   *dataset.Team  `json:"team"`
	Nodes  []dataset.Node `json:"nodes"`
}

// SystemsView lists every system used anywhere in the dataset with its
// owning team and the visible nodes running it.
func SystemsView(d *dataset.Dataset, visible []dataset.Node) []SystemEntry {
	systems := AllSystems(d.Nodes)
	out := make([]SystemEntry, 0, len(systems))
	for _, s := range systems {
		e := SystemEntry{System: s, Nodes: NodesBySystem(visible, s)}
		if t, ok := d.Teams[s]; ok {
			e.Team = &t
		}
		out = append(out, e)
	}
	return out
}

// TeamEntry is one card of the teams view.
type TeamEntry struct {
	System  string         `json:"system"`
	Name    string         `json:"name"`
	Contact string         `json:"contact"`
	Nodes   []dataset.Node `json:"nodes"`
}

// TeamsView lists every team entry, ordered by system, with the visible
// nodes running the team's system.
func TeamsView(d *dataset.Dataset, visible []dataset.Node) []TeamEntry {
	systems := make([]string, 0, len(d.Teams))
	for s := range d.Teams {
		systems = append(systems, s)
	}
	sort.Strings(systems)

	out := make([]TeamEntry, 0, len(systems))
	for _, s := range systems {
		t := d.Teams[s]
		out = append(out, TeamEntry{System: s, Name: t.Name, Contact: t.Contact, Nodes: NodesBySystem(visible, s)})
	}
	return out
}

// TypeCount is the visible/total count for one node type.
type TypeCount struct {
	Type    dataset.NodeType `json:"type"`
	Visible int              `json:"visible"`
	Total   int              `json:"total"`
}

// Summary counts nodes per type, visible against total.
func Summary(d *dataset.Dataset, visible []dataset.Node) []TypeCount {
	out := make([]TypeCount, 0, len(dataset.NodeTypes))
	for _, t := range dataset.NodeTypes {
		out = append(out, TypeCount{
			Type:    t,
			Visible: len(NodesOfType(visible, t)),
			Total:   len(NodesOfType(d.Nodes, t)),
		})
	}
	return out
}
