package view

import (
	"sort"

	"github.com/starford/chainscope/internal/dataset"
)

// Coordinate is a map position for a known city.
type Coordinate struct {
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Region string  `json:"region"`
}

var cities = map[string]Coordinate{
	"Glasgow":       {Lat: 55.8642, Lng: -4.2518, Region: "Scotland"},
	"Edinburgh":     {Lat: 55.9533, Lng: -3.1883, Region: "Scotland"},
	"Manchester":    {Lat: 53.4808, Lng: -2.2426, Region: "North"},
	"Leeds":         {Lat: 53.8008, Lng: -1.5491, Region: "North"},
	"Sheffield":     {Lat: 53.3811, Lng: -1.4701, Region: "North"},
	"Doncaster":     {Lat: 53.5233, Lng: -1.1367, Region: "North"},
	"Birmingham":    {Lat: 52.5086, Lng: -1.8853, Region: "Midlands"},
	"Nottingham":    {Lat: 52.9549, Lng: -1.1584, Region: "Midlands"},
	"Milton Keynes": {Lat: 52.0406, Lng: -0.7594, Region: "South"},
	"Reading":       {Lat: 51.4545, Lng: -0.9735, Region: "South"},
	"Bristol":       {Lat: 51.4545, Lng: -2.5879, Region: "South"},
}

// Regions in display order, each with its cities in display order.
var Regions = []struct {
	Name   string
	Cities []string
}{
	{Name: "Scotland", Cities: []string{"Glasgow", "Edinburgh"}},
	{Name: "North", Cities: []string{"Manchester", "Leeds", "Sheffield", "Doncaster"}},
	{Name: "Midlands", Cities: []string{"Birmingham", "Nottingham"}},
	{Name: "South", Cities: []string{"Milton Keynes", "Reading", "Bristol"}},
}

// Locate resolves a city name to its coordinate.
func Locate(city string) (Coordinate, bool) {
	c, ok := cities[city]
	return c, ok
}

// Marker is one map pin: every visible node of one type in one city.
type Marker struct {
	Location  string           `json:"location"`
	Type      dataset.NodeType `json:"type"`
	Lat       float64          `json:"lat"`
	Lng       float64          `json:"lng"`
	Count     int              `json:"count"`
	NodeIDs   []string         `json:"nodeIds"`
	NodeNames []string         `json:"nodeNames"`
	// SelectNodeID is set only when exactly one node backs the marker; a
	// click on a multi-node marker picks from NodeIDs instead.
	SelectNodeID string `json:"selectNodeId,omitempty"`
}

// Markers groups nodes by (location, type). Nodes in cities missing from the
// coordinate table are not plotted. Output is ordered by city then pipeline type.
func Markers(nodes []dataset.Node) []Marker {
	type key struct {
		city string
		typ  dataset.NodeType
	}
	groups := make(map[key]*Marker)
	var keys []key
	for _, n := range nodes {
		c, ok := Locate(n.Location)
		if !ok {
			continue
		}
		k := key{n.Location, n.Type}
		m, ok := groups[k]
		if !ok {
			m = &Marker{Location: n.Location, Type: n.Type, Lat: c.Lat, Lng: c.Lng}
			groups[k] = m
			keys = append(keys, k)
		}
		m.Count++
		m.NodeIDs = append(m.NodeIDs, n.ID)
		m.NodeNames = append(m.NodeNames, n.Name)
	}

	sort.SliceStable(keys, func(i, j int) bool {
		if keys[i].city != keys[j].city {
			return keys[i].city < keys[j].city
		}
		return typeRank(keys[i].typ) < typeRank(keys[j].typ)
	})

	out := make([]Marker, 0, len(keys))
	for _, k := range keys {
		m := groups[k]
		if m.Count == 1 {
			m.SelectNodeID = m.NodeIDs[0]
		}
		out = append(out, *m)
	}
	return out
}

func typeRank(t dataset.NodeType) int {
	for i, nt := range dataset.NodeTypes {
		if nt == t {
			return i
		}
	}
	return len(dataset.NodeTypes)
}
