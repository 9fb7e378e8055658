package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/chainscope/internal/networkservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *networkservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Dataset.
	r.Get("/dataset", h.GetDataset)
	r.Get("/export", h.Export)
	r.Get("/export.xlsx", h.ExportXLSX)
	r.Get("/export.pdf", h.ExportPDF)
	r.Post("/import", h.Import)
	r.Post("/reset", h.Reset)

	// Derived views.
	r.Get("/view", h.GetView)
	r.Get("/views/logical", h.LogicalView)
	r.Get("/views/physical", h.PhysicalView)
	r.Get("/views/systems", h.SystemsView)
	r.Get("/views/teams", h.TeamsView)
	r.Get("/map/markers", h.MapMarkers)
	r.Get("/summary", h.Summary)
	r.Get("/filters", h.Filters)

	// Query helpers.
	r.Get("/systems/{name}/nodes", h.NodesBySystem)
	r.Get("/locations/{city}/nodes", h.NodesAtLocation)
	r.Get("/teams", h.Teams)

	// Nodes.
	r.Post("/nodes", h.CreateNode)
	r.Get("/nodes/{id}", h.GetNode)
	r.Get("/nodes/{id}/flows", h.NodeFlows)
	r.Patch("/nodes/{id}", h.UpdateNode)
	r.Delete("/nodes/{id}", h.DeleteNode)

	// Flows.
	r.Post("/flows", h.CreateFlow)
	r.Patch("/flows/{id}", h.UpdateFlow)
	r.Delete("/flows/{id}", h.DeleteFlow)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
