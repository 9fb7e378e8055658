// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the supply-chain views and query helpers over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/chainscope/internal/networkservice"
	"github.com/starford/chainscope/internal/view"
)

// FormatURI is the resource describing the dataset layout.
const FormatURI = "chainscope://dataset-format"

// Server wraps the MCP server with chainscope tools.
type Server struct {
	mcp *server.MCPServer
	svc *networkservice.Service
}

func withFilter(opts ...mcp.ToolOption) []mcp.ToolOption {
	return append(opts,
		mcp.WithString("temp", mcp.Description("Comma-separated temperature regimes: ambient, chilled, frozen")),
		mcp.WithString("operator", mcp.Description("Comma-separated operators; None selects unoperated nodes")),
		mcp.WithString("nodeType", mcp.Description("Comma-separated node types: supplier, ndc, primary, rdc, store")),
	)
}

// New creates a new MCP server with all tools registered.
func New(svc *networkservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"chainscope",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("query_view", withFilter(
		mcp.WithDescription("Visible nodes and flows under a filter. Omitted dimensions do not filter. "+
			"A flow is visible only when both endpoints are visible."),
	)...), s.queryView)

	s.mcp.AddTool(mcp.NewTool("map_markers", withFilter(
		mcp.WithDescription("Map markers for visible nodes, one per (city, node type)."),
	)...), s.mapMarkers)

	s.mcp.AddTool(mcp.NewTool("filter_options", withFilter(
		mcp.WithDescription("Selectable filter values, and the filter that results from the given "+
			"selection after clear and toggles are applied."),
		mcp.WithString("toggle", mcp.Description("Comma-separated dimension:value pairs to flip, e.g. temp:frozen,operator:None")),
		mcp.WithBoolean("clear", mcp.Description("Drop the given selection before toggling")),
	)...), s.filterOptions)

	s.mcp.AddTool(mcp.NewTool("get_node",
		mcp.WithDescription("A node with its connected flows and the teams owning its systems."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Node id, e.g. rdc1")),
	), s.getNode)

	s.mcp.AddTool(mcp.NewTool("connected_flows",
		mcp.WithDescription("Flows starting or ending at a node."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Node id")),
	), s.connectedFlows)

	s.mcp.AddTool(mcp.NewTool("nodes_by_system",
		mcp.WithDescription("Nodes running a system."),
		mcp.WithString("system", mcp.Required(), mcp.Description("System name, e.g. TMS")),
	), s.nodesBySystem)

	s.mcp.AddTool(mcp.NewTool("nodes_at_location",
		mcp.WithDescription("Nodes located in a city."),
		mcp.WithString("city", mcp.Required(), mcp.Description("City name, e.g. Glasgow")),
	), s.nodesAtLocation)

	s.mcp.AddTool(mcp.NewTool("teams_for_systems",
		mcp.WithDescription("Distinct team names owning any of the given systems."),
		mcp.WithString("systems", mcp.Required(), mcp.Description("Comma-separated system names")),
	), s.teamsForSystems)

	s.mcp.AddTool(mcp.NewTool("export_dataset",
		mcp.WithDescription("The whole dataset in the exchange format. Read the "+FormatURI+" resource for the layout."),
	), s.exportDataset)

	s.mcp.AddTool(mcp.NewTool("import_dataset",
		mcp.WithDescription("Replace the whole dataset. The text must follow the exchange format; "+
			"on any error the current dataset is kept."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Dataset JSON")),
	), s.importDataset)

	s.mcp.AddResource(
		mcp.NewResource(FormatURI, "Dataset Format",
			mcp.WithResourceDescription("Layout of the exported and persisted dataset."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func filterFrom(req mcp.CallToolRequest) (view.Filter, error) {
	q := url.Values{}
	for _, dim := range []string{view.DimTemp, view.DimOperator, view.DimNodeType} {
		if v := req.GetString(dim, ""); v != "" {
			q.Set(dim, v)
		}
	}
	return view.ParseFilter(q)
}

func (s *Server) queryView(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f, err := filterFrom(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ds, _ := s.svc.Snapshot()
	return jsonResult(view.Compute(ds, f))
}

type filterState struct {
	Options     view.Options `json:"options"`
	Filter      view.Filter  `json:"filter"`
	ActiveCount int          `json:"activeCount"`
}

func (s *Server) filterOptions(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f, err := filterFrom(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if req.GetBool("clear", false) {
		f = f.Clear()
	}
	for _, term := range strings.Split(req.GetString("toggle", ""), ",") {
		if term = strings.TrimSpace(term); term == "" {
			continue
		}
		if f, err = f.ToggleTerm(term); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	ds, _ := s.svc.Snapshot()
	return jsonResult(filterState{Options: view.FilterOptions(ds), Filter: f, ActiveCount: f.ActiveCount()})
}

func (s *Server) mapMarkers(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f, err := filterFrom(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ds, _ := s.svc.Snapshot()
	return jsonResult(view.Markers(view.VisibleNodes(ds, f)))
}

func (s *Server) getNode(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ds, _ := s.svc.Snapshot()
	n, ok := ds.Node(id)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	return jsonResult(map[string]any{
		"node":  n,
		"flows": view.ConnectedFlows(ds.Flows, id),
		"teams": view.TeamsForSystems(ds.Teams, n.Systems),
	})
}

func (s *Server) connectedFlows(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ds, _ := s.svc.Snapshot()
	return jsonResult(view.ConnectedFlows(ds.Flows, id))
}

func (s *Server) nodesBySystem(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	system, err := req.RequireString("system")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ds, _ := s.svc.Snapshot()
	return jsonResult(view.NodesBySystem(ds.Nodes, system))
}

func (s *Server) nodesAtLocation(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	city, err := req.RequireString("city")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ds, _ := s.svc.Snapshot()
	return jsonResult(view.NodesAtLocation(ds.Nodes, city))
}

func (s *Server) teamsForSystems(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("systems")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var systems []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			systems = append(systems, p)
		}
	}
	ds, _ := s.svc.Snapshot()
	teams := view.TeamsForSystems(ds.Teams, systems)
	if len(teams) == 0 {
		return mcp.NewToolResultText("no teams found"), nil
	}
	return mcp.NewToolResultText(strings.Join(teams, "\n")), nil
}

func (s *Server) exportDataset(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, _, err := s.svc.Export()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) importDataset(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.svc.Import(ctx, content)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("imported: %d nodes, %d flows (persisted: %t)",
		len(res.Dataset.Nodes), len(res.Dataset.Flows), res.Persisted)), nil
}

func (s *Server) readFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      FormatURI,
			MIMEType: "text/markdown",
			Text:     DatasetFormat,
		},
	}, nil
}
