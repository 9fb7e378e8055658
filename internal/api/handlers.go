package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/starford/chainscope/internal/apperr"
	"github.com/starford/chainscope/internal/checksum"
	"github.com/starford/chainscope/internal/dataset"
	"github.com/starford/chainscope/internal/networkservice"
	"github.com/starford/chainscope/internal/persistence"
	"github.com/starford/chainscope/internal/report"
	"github.com/starford/chainscope/internal/view"
)

const maxBody = 10 << 20

// Handler holds API route handlers.
type Handler struct {
	svc *networkservice.Service
	now func() time.Time
}

// NewHandler creates a new Handler.
func NewHandler(svc *networkservice.Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

func ifMatch(r *http.Request) string {
	return checksum.FromIfMatch(r.Header.Get("If-Match"))
}

func setETag(w http.ResponseWriter, version string) {
	w.Header().Set("ETag", checksum.ETag(version))
}

// pathParam returns a URL parameter, unescaping encoded characters so names
// like "Milton%20Keynes" resolve.
func pathParam(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

func confirmed(r *http.Request) bool {
	return r.URL.Query().Get("confirm") == "true"
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return false
	}
	return true
}

// snapshot returns the current dataset and writes its ETag.
func (h *Handler) snapshot(w http.ResponseWriter) (*dataset.Dataset, string) {
	ds, v := h.svc.Snapshot()
	setETag(w, v)
	return ds, v
}

// filtered parses the request's filter and returns the visible nodes.
func (h *Handler) filtered(w http.ResponseWriter, r *http.Request) (*dataset.Dataset, view.Filter, []dataset.Node, bool) {
	f, err := view.ParseFilter(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return nil, view.Filter{}, nil, false
	}
	ds, _ := h.snapshot(w)
	return ds, f, view.VisibleNodes(ds, f), true
}

// GetDataset handles GET /api/dataset.
//
//	@Summary		Current dataset
//	@Tags			dataset
//	@Produce		json
//	@Success		200	{object}	DatasetResponse
//	@Security		BearerAuth
//	@Router			/dataset [get]
func (h *Handler) GetDataset(w http.ResponseWriter, r *http.Request) {
	ds, v := h.snapshot(w)
	writeJSON(w, http.StatusOK, DatasetResponse{Version: v, Dataset: ds})
}

// GetView handles GET /api/view.
//
//	@Summary		Visible nodes and flows under a filter
//	@Tags			views
//	@Produce		json
//	@Param			temp		query		string	false	"Temperature regimes, comma separated"
//	@Param			operator	query		string	false	"Operators; None selects unoperated nodes"
//	@Param			nodeType	query		string	false	"Node types"
//	@Success		200			{object}	ViewResponse
//	@Failure		400			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/view [get]
func (h *Handler) GetView(w http.ResponseWriter, r *http.Request) {
	f, err := view.ParseFilter(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	ds, v := h.snapshot(w)
	writeJSON(w, http.StatusOK, ViewResponse{Version: v, View: view.Compute(ds, f)})
}

// LogicalView handles GET /api/views/logical.
//
//	@Summary		Nodes by pipeline stage and business processes
//	@Tags			views
//	@Produce		json
//	@Param			temp		query		string	false	"Temperature regimes, comma separated"
//	@Param			operator	query		string	false	"Operators; None selects unoperated nodes"
//	@Param			nodeType	query		string	false	"Node types"
//	@Success		200			{object}	view.Logical
//	@Failure		400			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/views/logical [get]
func (h *Handler) LogicalView(w http.ResponseWriter, r *http.Request) {
	if ds, _, visible, ok := h.filtered(w, r); ok {
		writeJSON(w, http.StatusOK, view.LogicalView(ds, visible))
	}
}

// PhysicalView handles GET /api/views/physical.
//
//	@Summary		Visible nodes by region and city
//	@Tags			views
//	@Produce		json
//	@Param			temp		query		string	false	"Temperature regimes, comma separated"
//	@Param			operator	query		string	false	"Operators; None selects unoperated nodes"
//	@Param			nodeType	query		string	false	"Node types"
//	@Success		200			{object}	RegionsResponse
//	@Failure		400			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/views/physical [get]
func (h *Handler) PhysicalView(w http.ResponseWriter, r *http.Request) {
	if _, _, visible, ok := h.filtered(w, r); ok {
		writeJSON(w, http.StatusOK, RegionsResponse{Regions: view.PhysicalView(visible)})
	}
}

// SystemsView handles GET /api/views/systems.
//
//	@Summary		Systems with owning team and visible nodes
//	@Tags			views
//	@Produce		json
//	@Param			temp		query		string	false	"Temperature regimes, comma separated"
//	@Param			operator	query		string	false	"Operators; None selects unoperated nodes"
//	@Param			nodeType	query		string	false	"Node types"
//	@Success		200			{object}	SystemsResponse
//	@Failure		400			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/views/systems [get]
func (h *Handler) SystemsView(w http.ResponseWriter, r *http.Request) {
	if ds, _, visible, ok := h.filtered(w, r); ok {
		writeJSON(w, http.StatusOK, SystemsResponse{Systems: view.SystemsView(ds, visible)})
	}
}

// TeamsView handles GET /api/views/teams.
//
//	@Summary		Teams with the visible nodes running their system
//	@Tags			views
//	@Produce		json
//	@Param			temp		query		string	false	"Temperature regimes, comma separated"
//	@Param			operator	query		string	false	"Operators; None selects unoperated nodes"
//	@Param			nodeType	query		string	false	"Node types"
//	@Success		200			{object}	TeamsViewResponse
//	@Failure		400			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/views/teams [get]
func (h *Handler) TeamsView(w http.ResponseWriter, r *http.Request) {
	if ds, _, visible, ok := h.filtered(w, r); ok {
		writeJSON(w, http.StatusOK, TeamsViewResponse{Teams: view.TeamsView(ds, visible)})
	}
}

// MapMarkers handles GET /api/map/markers.
//
//	@Summary		Map markers grouped by city and node type
//	@Tags			views
//	@Produce		json
//	@Param			temp		query		string	false	"Temperature regimes, comma separated"
//	@Param			operator	query		string	false	"Operators; None selects unoperated nodes"
//	@Param			nodeType	query		string	false	"Node types"
//	@Success		200			{object}	MarkersResponse
//	@Failure		400			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/map/markers [get]
func (h *Handler) MapMarkers(w http.ResponseWriter, r *http.Request) {
	if _, _, visible, ok := h.filtered(w, r); ok {
		writeJSON(w, http.StatusOK, MarkersResponse{Markers: view.Markers(visible)})
	}
}

// Summary handles GET /api/summary.
//
//	@Summary		Visible and total node counts per type
//	@Tags			views
//	@Produce		json
//	@Param			temp		query		string	false	"Temperature regimes, comma separated"
//	@Param			operator	query		string	false	"Operators; None selects unoperated nodes"
//	@Param			nodeType	query		string	false	"Node types"
//	@Success		200			{object}	SummaryResponse
//	@Failure		400			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/summary [get]
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	if ds, f, visible, ok := h.filtered(w, r); ok {
		writeJSON(w, http.StatusOK, SummaryResponse{
			ActiveFilters: f.ActiveCount(),
			Types:         view.Summary(ds, visible),
		})
	}
}

// Filters handles GET /api/filters. The query carries the current selection
// in the same form as /view; toggle=dimension:value flips one value and
// clear=true starts from the empty filter before toggles apply.
//
//	@Summary		Filter options and the resulting selection
//	@Tags			views
//	@Produce		json
//	@Param			temp		query		string	false	"Temperature regimes, comma separated"
//	@Param			operator	query		string	false	"Operators; None selects unoperated nodes"
//	@Param			nodeType	query		string	false	"Node types"
//	@Param			toggle		query		string	false	"dimension:value to flip, repeatable"
//	@Param			clear		query		bool	false	"Drop the current selection first"
//	@Success		200			{object}	FiltersResponse
//	@Failure		400			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/filters [get]
func (h *Handler) Filters(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f, err := view.ParseFilter(q)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	if q.Get("clear") == "true" {
		f = f.Clear()
	}
	for _, term := range q["toggle"] {
		if f, err = f.ToggleTerm(term); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
			return
		}
	}
	ds, _ := h.snapshot(w)
	writeJSON(w, http.StatusOK, FiltersResponse{
		Options:     view.FilterOptions(ds),
		Filter:      f,
		ActiveCount: f.ActiveCount(),
	})
}

// GetNode handles GET /api/nodes/{id}.
//
//	@Summary		Node detail with connected flows and owning teams
//	@Tags			nodes
//	@Produce		json
//	@Param			id	path		string	true	"Node id"
//	@Success		200	{object}	NodeDetailResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/nodes/{id} [get]
func (h *Handler) GetNode(w http.ResponseWriter, r *http.Request) {
	ds, _ := h.snapshot(w)
	n, ok := ds.Node(pathParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	writeJSON(w, http.StatusOK, NodeDetailResponse{
		Node:  n,
		Flows: view.ConnectedFlows(ds.Flows, n.ID),
		Teams: view.TeamsForSystems(ds.Teams, n.Systems),
	})
}

// NodeFlows handles GET /api/nodes/{id}/flows. An unknown id yields an empty list.
//
//	@Summary		Flows that start or end at a node
//	@Tags			nodes
//	@Produce		json
//	@Param			id	path		string	true	"Node id"
//	@Success		200	{object}	FlowsResponse
//	@Security		BearerAuth
//	@Router			/nodes/{id}/flows [get]
func (h *Handler) NodeFlows(w http.ResponseWriter, r *http.Request) {
	ds, _ := h.snapshot(w)
	writeJSON(w, http.StatusOK, FlowsResponse{Flows: view.ConnectedFlows(ds.Flows, pathParam(r, "id"))})
}

// NodesBySystem handles GET /api/systems/{name}/nodes.
//
//	@Summary		Nodes running a system
//	@Tags			queries
//	@Produce		json
//	@Param			name	path		string	true	"System name"
//	@Success		200		{object}	NodesResponse
//	@Security		BearerAuth
//	@Router			/systems/{name}/nodes [get]
func (h *Handler) NodesBySystem(w http.ResponseWriter, r *http.Request) {
	ds, _ := h.snapshot(w)
	writeJSON(w, http.StatusOK, NodesResponse{Nodes: view.NodesBySystem(ds.Nodes, pathParam(r, "name"))})
}

// NodesAtLocation handles GET /api/locations/{city}/nodes.
//
//	@Summary		Nodes in a city
//	@Tags			queries
//	@Produce		json
//	@Param			city	path		string	true	"City"
//	@Success		200		{object}	NodesResponse
//	@Security		BearerAuth
//	@Router			/locations/{city}/nodes [get]
func (h *Handler) NodesAtLocation(w http.ResponseWriter, r *http.Request) {
	ds, _ := h.snapshot(w)
	writeJSON(w, http.StatusOK, NodesResponse{Nodes: view.NodesAtLocation(ds.Nodes, pathParam(r, "city"))})
}

// Teams handles GET /api/teams?system=a&system=b.
//
//	@Summary		Teams owning any of the given systems
//	@Tags			queries
//	@Produce		json
//	@Param			system	query		string	false	"Systems, repeated or comma separated"
//	@Success		200		{object}	TeamsResponse
//	@Security		BearerAuth
//	@Router			/teams [get]
func (h *Handler) Teams(w http.ResponseWriter, r *http.Request) {
	ds, _ := h.snapshot(w)
	var systems []string
	for _, v := range r.URL.Query()["system"] {
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				systems = append(systems, s)
			}
		}
	}
	writeJSON(w, http.StatusOK, TeamsResponse{Teams: view.TeamsForSystems(ds.Teams, systems)})
}

func (h *Handler) writeMutation(w http.ResponseWriter, status int, res networkservice.Result, withNode, withFlow bool) {
	setETag(w, res.Version)
	out := MutationResponse{ID: res.ID, Version: res.Version, Persisted: res.Persisted}
	if withNode {
		if n, ok := res.Dataset.Node(res.ID); ok {
			out.Node = &n
		}
	}
	if withFlow {
		if f, ok := res.Dataset.Flow(res.ID); ok {
			out.Flow = &f
		}
	}
	writeJSON(w, status, out)
}

// CreateNode handles POST /api/nodes.
//
//	@Summary		Add a node; an empty id is generated
//	@Tags			nodes
//	@Accept			json
//	@Produce		json
//	@Param			If-Match	header		string			false	"Dataset version for optimistic concurrency"
//	@Param			body		body		dataset.Node	true	"Node to add"
//	@Success		201			{object}	MutationResponse
//	@Failure		400			{object}	errResponse
//	@Failure		409			{object}	errResponse
//	@Failure		422			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/nodes [post]
func (h *Handler) CreateNode(w http.ResponseWriter, r *http.Request) {
	var n dataset.Node
	if !decodeBody(w, r, &n) {
		return
	}
	res, err := h.svc.AddNode(r.Context(), n, ifMatch(r))
	if err != nil {
		writeError(w, "add node", err)
		return
	}
	h.writeMutation(w, http.StatusCreated, res, true, false)
}

// UpdateNode handles PATCH /api/nodes/{id}. Absent fields are kept; an
// explicit null operator clears it.
//
//	@Summary		Update node fields
//	@Tags			nodes
//	@Accept			json
//	@Produce		json
//	@Param			id			path		string				true	"Node id"
//	@Param			If-Match	header		string				false	"Dataset version for optimistic concurrency"
//	@Param			body		body		dataset.NodePatch	true	"Fields to change"
//	@Success		200			{object}	MutationResponse
//	@Failure		400			{object}	errResponse
//	@Failure		404			{object}	errResponse
//	@Failure		409			{object}	errResponse
//	@Failure		422			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/nodes/{id} [patch]
func (h *Handler) UpdateNode(w http.ResponseWriter, r *http.Request) {
	var p dataset.NodePatch
	if !decodeBody(w, r, &p) {
		return
	}
	res, err := h.svc.UpdateNode(r.Context(), pathParam(r, "id"), p, ifMatch(r))
	if err != nil {
		writeError(w, "update node", err)
		return
	}
	h.writeMutation(w, http.StatusOK, res, true, false)
}

// DeleteNode handles DELETE /api/nodes/{id}?confirm=true. Connected flows go too.
//
//	@Summary		Delete a node and its flows
//	@Tags			nodes
//	@Produce		json
//	@Param			id			path		string	true	"Node id"
//	@Param			confirm		query		bool	true	"Must be true"
//	@Param			If-Match	header		string	false	"Dataset version for optimistic concurrency"
//	@Success		200			{object}	MutationResponse
//	@Failure		404			{object}	errResponse
//	@Failure		409			{object}	errResponse
//	@Failure		428			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/nodes/{id} [delete]
func (h *Handler) DeleteNode(w http.ResponseWriter, r *http.Request) {
	if !confirmed(r) {
		writeError(w, "delete node", fmt.Errorf("%w: deleting a node removes its flows; pass confirm=true", apperr.ErrConfirmationRequired))
		return
	}
	res, err := h.svc.DeleteNode(r.Context(), pathParam(r, "id"), ifMatch(r))
	if err != nil {
		writeError(w, "delete node", err)
		return
	}
	h.writeMutation(w, http.StatusOK, res, false, false)
}

// CreateFlow handles POST /api/flows. Both endpoints must exist.
//
//	@Summary		Add a flow; an empty id is generated
//	@Tags			flows
//	@Accept			json
//	@Produce		json
//	@Param			If-Match	header		string			false	"Dataset version for optimistic concurrency"
//	@Param			body		body		dataset.Flow	true	"Flow to add"
//	@Success		201			{object}	MutationResponse
//	@Failure		400			{object}	errResponse
//	@Failure		404			{object}	errResponse
//	@Failure		409			{object}	errResponse
//	@Failure		422			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/flows [post]
func (h *Handler) CreateFlow(w http.ResponseWriter, r *http.Request) {
	var f dataset.Flow
	if !decodeBody(w, r, &f) {
		return
	}
	res, err := h.svc.AddFlow(r.Context(), f, ifMatch(r))
	if err != nil {
		writeError(w, "add flow", err)
		return
	}
	h.writeMutation(w, http.StatusCreated, res, false, true)
}

// UpdateFlow handles PATCH /api/flows/{id}.
//
//	@Summary		Update flow fields
//	@Tags			flows
//	@Accept			json
//	@Produce		json
//	@Param			id			path		string				true	"Flow id"
//	@Param			If-Match	header		string				false	"Dataset version for optimistic concurrency"
//	@Param			body		body		dataset.FlowPatch	true	"Fields to change"
//	@Success		200			{object}	MutationResponse
//	@Failure		400			{object}	errResponse
//	@Failure		404			{object}	errResponse
//	@Failure		409			{object}	errResponse
//	@Failure		422			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/flows/{id} [patch]
func (h *Handler) UpdateFlow(w http.ResponseWriter, r *http.Request) {
	var p dataset.FlowPatch
	if !decodeBody(w, r, &p) {
		return
	}
	res, err := h.svc.UpdateFlow(r.Context(), pathParam(r, "id"), p, ifMatch(r))
	if err != nil {
		writeError(w, "update flow", err)
		return
	}
	h.writeMutation(w, http.StatusOK, res, false, true)
}

// DeleteFlow handles DELETE /api/flows/{id}?confirm=true.
//
//	@Summary		Delete a flow
//	@Tags			flows
//	@Produce		json
//	@Param			id			path		string	true	"Flow id"
//	@Param			confirm		query		bool	true	"Must be true"
//	@Param			If-Match	header		string	false	"Dataset version for optimistic concurrency"
//	@Success		200			{object}	MutationResponse
//	@Failure		404			{object}	errResponse
//	@Failure		409			{object}	errResponse
//	@Failure		428			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/flows/{id} [delete]
func (h *Handler) DeleteFlow(w http.ResponseWriter, r *http.Request) {
	if !confirmed(r) {
		writeError(w, "delete flow", fmt.Errorf("%w: pass confirm=true", apperr.ErrConfirmationRequired))
		return
	}
	res, err := h.svc.DeleteFlow(r.Context(), pathParam(r, "id"), ifMatch(r))
	if err != nil {
		writeError(w, "delete flow", err)
		return
	}
	h.writeMutation(w, http.StatusOK, res, false, false)
}

func (h *Handler) attachment(w http.ResponseWriter, contentType, ext string) {
	name := strings.TrimSuffix(persistence.ExportFilename(h.now()), ".json") + ext
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
}

// Export handles GET /api/export: the dataset as a dated JSON download.
//
//	@Summary		Download the dataset
//	@Tags			dataset
//	@Produce		json
//	@Success		200	{object}	dataset.Dataset
//	@Security		BearerAuth
//	@Router			/export [get]
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	text, v, err := h.svc.Export()
	if err != nil {
		writeError(w, "export", err)
		return
	}
	setETag(w, v)
	h.attachment(w, "application/json; charset=utf-8", ".json")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, text)
}

// ExportXLSX handles GET /api/export.xlsx.
//
//	@Summary		Download the dataset as a workbook
//	@Tags			dataset
//	@Produce		application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
//	@Success		200	{file}		binary
//	@Security		BearerAuth
//	@Router			/export.xlsx [get]
func (h *Handler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	ds, _ := h.snapshot(w)
	raw, err := report.BuildWorkbook(ds)
	if err != nil {
		writeError(w, "export xlsx", err)
		return
	}
	h.attachment(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", ".xlsx")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

// ExportPDF handles GET /api/export.pdf; the summary honours the filter query.
//
//	@Summary		Download a PDF summary
//	@Tags			dataset
//	@Produce		application/pdf
//	@Param			temp		query		string	false	"Temperature regimes, comma separated"
//	@Param			operator	query		string	false	"Operators; None selects unoperated nodes"
//	@Param			nodeType	query		string	false	"Node types"
//	@Success		200			{file}		binary
//	@Failure		400			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/export.pdf [get]
func (h *Handler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	f, err := view.ParseFilter(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	ds, _ := h.snapshot(w)
	raw, err := report.BuildPDF(ds, f, h.now())
	if err != nil {
		writeError(w, "export pdf", err)
		return
	}
	h.attachment(w, "application/pdf", ".pdf")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

// Import handles POST /api/import. The body is an exported dataset; on any
// error the current dataset is left as it was.
//
//	@Summary		Replace the dataset from an export
//	@Tags			dataset
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	ReplaceResponse
//	@Failure		400	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/import [post]
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("could not read body"))
		return
	}
	res, err := h.svc.Import(r.Context(), string(body))
	if err != nil {
		writeError(w, "import", err)
		return
	}
	setETag(w, res.Version)
	writeJSON(w, http.StatusOK, ReplaceResponse{
		Version: res.Version, Persisted: res.Persisted,
		Nodes: len(res.Dataset.Nodes), Flows: len(res.Dataset.Flows),
	})
}

// Reset handles POST /api/reset?confirm=true.
//
//	@Summary		Restore the built-in dataset
//	@Tags			dataset
//	@Produce		json
//	@Param			confirm	query		bool	true	"Must be true"
//	@Success		200		{object}	ReplaceResponse
//	@Failure		428		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/reset [post]
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	if !confirmed(r) {
		writeError(w, "reset", fmt.Errorf("%w: reset discards every edit; pass confirm=true", apperr.ErrConfirmationRequired))
		return
	}
	res, err := h.svc.Reset(r.Context())
	if err != nil {
		writeError(w, "reset", err)
		return
	}
	setETag(w, res.Version)
	writeJSON(w, http.StatusOK, ReplaceResponse{
		Version: res.Version, Persisted: res.Persisted,
		Nodes: len(res.Dataset.Nodes), Flows: len(res.Dataset.Flows),
	})
}
