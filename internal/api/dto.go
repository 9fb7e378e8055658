package api

import (
	"github.com/starford/chainscope/internal/dataset"
	"github.com/starford/chainscope/internal/view"
)

// DatasetResponse is the full dataset with its version.
type DatasetResponse struct {
	Version string           `json:"version" example:"9f86d081..." validate:"required"`
	Dataset *dataset.Dataset `json:"dataset" validate:"required"`
}

// ViewResponse is the visible part of the dataset under a filter.
type ViewResponse struct {
	Version string `json:"version" validate:"required"`
	view.View
}

// MutationResponse is returned by every edit. Persisted is false when the
// edit was applied but could not be written to the store.
type MutationResponse struct {
	ID        string        `json:"id,omitempty" example:"node-0190b6c2-..."`
	Version   string        `json:"version" validate:"required"`
	Persisted bool          `json:"persisted"`
	Node      *dataset.Node `json:"node,omitempty"`
	Flow      *dataset.Flow `json:"flow,omitempty"`
}

// ReplaceResponse is returned by import and reset.
type ReplaceResponse struct {
	Version   string `json:"version" validate:"required"`
	Persisted bool   `json:"persisted"`
	Nodes     int    `json:"nodes" example:"14"`
	Flows     int    `json:"flows" example:"16"`
}

// NodeDetailResponse is a node with its connected flows and owning teams.
type NodeDetailResponse struct {
	Node  dataset.Node   `json:"node" validate:"required"`
	Flows []dataset.Flow `json:"flows" validate:"required"`
	Teams []string       `json:"teams" validate:"required"`
}

// NodesResponse wraps a node list.
type NodesResponse struct {
	Nodes []dataset.Node `json:"nodes" validate:"required"`
}

// FlowsResponse wraps a flow list.
type FlowsResponse struct {
	Flows []dataset.Flow `json:"flows" validate:"required"`
}

// TeamsResponse wraps team names.
type TeamsResponse struct {
	Teams []string `json:"teams" validate:"required"`
}

// RegionsResponse is the physical view.
type RegionsResponse struct {
	Regions []view.RegionGroup `json:"regions" validate:"required"`
}

// SystemsResponse is the systems view.
type SystemsResponse struct {
	Systems []view.SystemEntry `json:"systems" validate:"required"`
}

// TeamsViewResponse is the teams view.
type TeamsViewResponse struct {
	Teams []view.TeamEntry `json:"teams" validate:"required"`
}

// MarkersResponse lists map markers.
type MarkersResponse struct {
	Markers []view.Marker `json:"markers" validate:"required"`
}

// SummaryResponse is the per-type node count under a filter.
type SummaryResponse struct {
	ActiveFilters int              `json:"activeFilters" example:"2"`
	Types         []view.TypeCount `json:"types" validate:"required"`
}

// FiltersResponse describes the filter panel: selectable values and the
// filter that results from the request's selections and toggles.
type FiltersResponse struct {
	Options     view.Options `json:"options" validate:"required"`
	Filter      view.Filter  `json:"filter" validate:"required"`
	ActiveCount int          `json:"activeCount" example:"1"`
}
