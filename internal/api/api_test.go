package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/starford/chainscope/internal/networkservice"
	"github.com/starford/chainscope/internal/storage"
	"github.com/starford/chainscope/internal/testutil"
)

// testEnv builds a service over an in-memory slot and a router in front of it.
// An empty authToken means auth is disabled.
func testEnv(t *testing.T, authToken string) (*networkservice.Service, *storage.Memory, http.Handler) {
	t.Helper()
	svc, mem := testutil.TestService(t)
	router := NewRouter(svc, authToken != "", authToken, nil)
	return svc, mem, router
}

func do(router http.Handler, method, target string, body []byte, header ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGetDataset(t *testing.T) {
	svc, _, router := testEnv(t, "")
	w := do(router, http.MethodGet, "/dataset", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp DatasetResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Dataset.Nodes) != 14 || resp.Version != svc.Version() {
		t.Errorf("nodes = %d, version = %q", len(resp.Dataset.Nodes), resp.Version)
	}
	if w.Header().Get("ETag") != `"`+svc.Version()+`"` {
		t.Errorf("etag = %q", w.Header().Get("ETag"))
	}
}

func TestGetView_FrozenFilter(t *testing.T) {
	_, _, router := testEnv(t, "")
	w := do(router, http.MethodGet, "/view?temp=frozen", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp ViewResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Nodes) != 10 || len(resp.Flows) != 6 {
		t.Errorf("nodes = %d, flows = %d", len(resp.Nodes), len(resp.Flows))
	}
}

func TestGetView_BadFilter(t *testing.T) {
	_, _, router := testEnv(t, "")
	if w := do(router, http.MethodGet, "/view?nodeType=depot", nil); w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestProjectionEndpoints(t *testing.T) {
	_, _, router := testEnv(t, "")
	for _, target := range []string{
		"/views/logical", "/views/physical?operator=None", "/views/systems",
		"/views/teams", "/map/markers?nodeType=store", "/summary?temp=chilled",
	} {
		w := do(router, http.MethodGet, target, nil)
		if w.Code != http.StatusOK {
			t.Errorf("%s status = %d", target, w.Code)
		}
	}

	w := do(router, http.MethodGet, "/map/markers?nodeType=store", nil)
	var markers struct {
		Markers []struct {
			Location string `json:"location"`
			Count    int    `json:"count"`
		} `json:"markers"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &markers)
	if len(markers.Markers) != 4 {
		t.Errorf("store markers = %+v", markers.Markers)
	}
}

func TestFilters(t *testing.T) {
	_, _, router := testEnv(t, "")

	w := do(router, http.MethodGet, "/filters?temp=frozen&toggle=operator:None&toggle=temp:frozen", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body)
	}
	var resp FiltersResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if got := strings.Join(resp.Options.Operator, ","); got != "Company A,Company B,None" {
		t.Errorf("operator options = %q", got)
	}
	if len(resp.Options.Temp) != 3 || len(resp.Options.NodeType) != 5 {
		t.Errorf("options = %+v", resp.Options)
	}
	if len(resp.Filter.Temp) != 0 || len(resp.Filter.Operator) != 1 || resp.ActiveCount != 1 {
		t.Errorf("filter = %+v, active = %d", resp.Filter, resp.ActiveCount)
	}

	w = do(router, http.MethodGet, "/filters?nodeType=rdc,store&clear=true&toggle=nodeType:ndc", nil)
	resp = FiltersResponse{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.ActiveCount != 1 || len(resp.Filter.NodeType) != 1 || resp.Filter.NodeType[0] != "ndc" {
		t.Errorf("clear then toggle = %+v", resp.Filter)
	}

	for _, bad := range []string{"toggle=temp:multi", "toggle=nodeType:warehouse", "toggle=system:TMS", "toggle=frozen"} {
		if w := do(router, http.MethodGet, "/filters?"+bad, nil); w.Code != http.StatusBadRequest {
			t.Errorf("%s = %d, want 400", bad, w.Code)
		}
	}
}

func TestQueryEndpoints(t *testing.T) {
	_, _, router := testEnv(t, "")

	w := do(router, http.MethodGet, "/nodes/rdc1", nil)
	var detail NodeDetailResponse
	_ = json.Unmarshal(w.Body.Bytes(), &detail)
	if w.Code != http.StatusOK || len(detail.Flows) != 5 || len(detail.Teams) != 2 {
		t.Errorf("rdc1 detail = %d %+v", w.Code, detail)
	}

	w = do(router, http.MethodGet, "/systems/TMS/nodes", nil)
	var nodes NodesResponse
	_ = json.Unmarshal(w.Body.Bytes(), &nodes)
	if len(nodes.Nodes) != 4 {
		t.Errorf("TMS nodes = %d", len(nodes.Nodes))
	}

	w = do(router, http.MethodGet, "/locations/Milton%20Keynes/nodes", nil)
	_ = json.Unmarshal(w.Body.Bytes(), &nodes)
	if len(nodes.Nodes) != 1 || nodes.Nodes[0].ID != "ndc2" {
		t.Errorf("Milton Keynes nodes = %+v", nodes.Nodes)
	}

	w = do(router, http.MethodGet, "/teams?system=POS,Stock%20Counter&system=Nope", nil)
	var teams TeamsResponse
	_ = json.Unmarshal(w.Body.Bytes(), &teams)
	if len(teams.Teams) != 1 || teams.Teams[0] != "Store Systems" {
		t.Errorf("teams = %v", teams.Teams)
	}

	w = do(router, http.MethodGet, "/nodes/ghost/flows", nil)
	var flows FlowsResponse
	_ = json.Unmarshal(w.Body.Bytes(), &flows)
	if w.Code != http.StatusOK || flows.Flows == nil || len(flows.Flows) != 0 {
		t.Errorf("unknown node flows = %d %s", w.Code, w.Body.String())
	}
}

func TestGetNode_NotFound(t *testing.T) {
	_, _, router := testEnv(t, "")
	if w := do(router, http.MethodGet, "/nodes/nope", nil); w.Code != http.StatusNotFound {
		t.Errorf("missing node = %d, want 404", w.Code)
	}
}

func TestCreateUpdateDeleteNode(t *testing.T) {
	svc, _, router := testEnv(t, "")

	body := []byte(`{"type":"store","name":"Store Leeds","temp":["ambient","ambient"],"operator":null,"location":"Leeds","systems":["POS"]}`)
	w := do(router, http.MethodPost, "/nodes", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}
	var created MutationResponse
	_ = json.Unmarshal(w.Body.Bytes(), &created)
	if !strings.HasPrefix(created.ID, "node-") || !created.Persisted || created.Node == nil || len(created.Node.Temp) != 1 {
		t.Fatalf("created = %+v", created)
	}

	w = do(router, http.MethodPatch, "/nodes/"+created.ID, []byte(`{"operator":"Company B"}`))
	var updated MutationResponse
	_ = json.Unmarshal(w.Body.Bytes(), &updated)
	if w.Code != http.StatusOK || updated.Node.Operator == nil || *updated.Node.Operator != "Company B" {
		t.Fatalf("update = %d %s", w.Code, w.Body.String())
	}
	if updated.Node.Name != "Store Leeds" {
		t.Error("absent fields must be kept")
	}

	if w := do(router, http.MethodDelete, "/nodes/"+created.ID, nil); w.Code != http.StatusPreconditionRequired {
		t.Errorf("unconfirmed delete = %d, want 428", w.Code)
	}
	if w := do(router, http.MethodDelete, "/nodes/"+created.ID+"?confirm=true", nil); w.Code != http.StatusOK {
		t.Errorf("confirmed delete = %d", w.Code)
	}
	ds, _ := svc.Snapshot()
	if len(ds.Nodes) != 14 {
		t.Errorf("nodes = %d, want 14", len(ds.Nodes))
	}
}

func TestCreateNode_Errors(t *testing.T) {
	_, _, router := testEnv(t, "")
	cases := []struct {
		name string
		body string
		want int
	}{
		{"bad json", `{`, http.StatusBadRequest},
		{"duplicate", `{"id":"sup1","type":"supplier","name":"X","temp":["ambient"],"location":"Leeds"}`, http.StatusConflict},
		{"empty temp", `{"type":"store","name":"X","temp":[],"location":"Leeds"}`, http.StatusUnprocessableEntity},
		{"bad type", `{"type":"depot","name":"X","temp":["ambient"],"location":"Leeds"}`, http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if w := do(router, http.MethodPost, "/nodes", []byte(tc.body)); w.Code != tc.want {
				t.Errorf("status = %d, want %d (%s)", w.Code, tc.want, w.Body.String())
			}
		})
	}
}

func TestDeleteNode_Cascade(t *testing.T) {
	svc, _, router := testEnv(t, "")
	if w := do(router, http.MethodDelete, "/nodes/ndc1?confirm=true", nil); w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	ds, _ := svc.Snapshot()
	if len(ds.Nodes) != 13 || len(ds.Flows) != 11 {
		t.Errorf("after cascade: %d nodes, %d flows", len(ds.Nodes), len(ds.Flows))
	}
	if w := do(router, http.MethodDelete, "/nodes/ndc1?confirm=true", nil); w.Code != http.StatusNotFound {
		t.Errorf("second delete = %d, want 404", w.Code)
	}
}

func TestFlowEndpoints(t *testing.T) {
	_, _, router := testEnv(t, "")

	w := do(router, http.MethodPost, "/flows", []byte(`{"from":"sup3","to":"rdc2","type":"inbound","temp":"ambient","hasASN":false}`))
	if w.Code != http.StatusCreated {
		t.Fatalf("create = %d %s", w.Code, w.Body.String())
	}
	var created MutationResponse
	_ = json.Unmarshal(w.Body.Bytes(), &created)
	if created.Flow == nil || created.Flow.HasASN == nil || *created.Flow.HasASN {
		t.Fatalf("created = %+v", created)
	}

	w = do(router, http.MethodPatch, "/flows/"+created.ID, []byte(`{"hasASN":null}`))
	var updated MutationResponse
	_ = json.Unmarshal(w.Body.Bytes(), &updated)
	if w.Code != http.StatusOK || updated.Flow.HasASN != nil {
		t.Errorf("clearing hasASN = %d %s", w.Code, w.Body.String())
	}

	if w := do(router, http.MethodPost, "/flows", []byte(`{"from":"sup3","to":"ghost","type":"inbound","temp":"ambient"}`)); w.Code != http.StatusUnprocessableEntity {
		t.Errorf("dangling flow = %d, want 422", w.Code)
	}
	if w := do(router, http.MethodPatch, "/flows/nope", []byte(`{}`)); w.Code != http.StatusNotFound {
		t.Errorf("missing flow = %d, want 404", w.Code)
	}
	if w := do(router, http.MethodDelete, "/flows/"+created.ID+"?confirm=true", nil); w.Code != http.StatusOK {
		t.Errorf("delete flow = %d", w.Code)
	}
}

func TestIfMatch(t *testing.T) {
	svc, _, router := testEnv(t, "")
	v := svc.Version()

	w := do(router, http.MethodPatch, "/nodes/sup1", []byte(`{"name":"Renamed"}`), "If-Match", `"stale"`)
	if w.Code != http.StatusConflict {
		t.Errorf("stale If-Match = %d, want 409", w.Code)
	}
	w = do(router, http.MethodPatch, "/nodes/sup1", []byte(`{"name":"Renamed"}`), "If-Match", `"`+v+`"`)
	if w.Code != http.StatusOK {
		t.Errorf("current If-Match = %d", w.Code)
	}
	if w.Header().Get("ETag") == `"`+v+`"` {
		t.Error("etag should change after an edit")
	}
}

func TestPersistedFalseOnSaveFailure(t *testing.T) {
	_, mem, router := testEnv(t, "")
	mem.FailWrites = errors.New("quota exceeded")
	w := do(router, http.MethodDelete, "/flows/f1?confirm=true", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp MutationResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Persisted {
		t.Error("persisted should be false")
	}
}

func TestExportImportReset(t *testing.T) {
	svc, _, router := testEnv(t, "")

	w := do(router, http.MethodGet, "/export", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("export = %d", w.Code)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, `filename="supply-chain-data-`) {
		t.Errorf("content-disposition = %q", cd)
	}
	exported := w.Body.Bytes()

	if w := do(router, http.MethodPost, "/import", []byte("{not json")); w.Code != http.StatusBadRequest {
		t.Errorf("malformed import = %d, want 400", w.Code)
	}
	if w := do(router, http.MethodPost, "/import", []byte(`{"nodes":[]}`)); w.Code != http.StatusBadRequest {
		t.Errorf("missing field import = %d, want 400", w.Code)
	}
	if ds, _ := svc.Snapshot(); len(ds.Nodes) != 14 {
		t.Error("failed import must not change the dataset")
	}

	w = do(router, http.MethodPost, "/import", []byte(`{"nodes":[],"flows":[]}`))
	if w.Code != http.StatusOK {
		t.Fatalf("import = %d %s", w.Code, w.Body.String())
	}
	if ds, _ := svc.Snapshot(); len(ds.Nodes) != 0 {
		t.Error("import should replace the dataset")
	}

	if w := do(router, http.MethodPost, "/reset", nil); w.Code != http.StatusPreconditionRequired {
		t.Errorf("unconfirmed reset = %d", w.Code)
	}
	if w := do(router, http.MethodPost, "/reset?confirm=true", nil); w.Code != http.StatusOK {
		t.Errorf("reset = %d", w.Code)
	}

	w = do(router, http.MethodGet, "/export", nil)
	if !bytes.Equal(w.Body.Bytes(), exported) {
		t.Error("export after reset should match the original export")
	}
}

func TestBinaryExports(t *testing.T) {
	_, _, router := testEnv(t, "")

	w := do(router, http.MethodGet, "/export.xlsx", nil)
	if w.Code != http.StatusOK || !bytes.HasPrefix(w.Body.Bytes(), []byte("PK")) {
		t.Errorf("xlsx = %d", w.Code)
	}
	w = do(router, http.MethodGet, "/export.pdf?nodeType=rdc", nil)
	if w.Code != http.StatusOK || !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")) {
		t.Errorf("pdf = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("content-type = %q", ct)
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	_, _, router := testEnv(t, "secret123")
	w := do(router, http.MethodGet, "/dataset", nil, "Authorization", "Bearer secret123")
	if w.Code != http.StatusOK {
		t.Errorf("authed = %d, want 200", w.Code)
	}
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	_, _, router := testEnv(t, "secret123")
	if w := do(router, http.MethodGet, "/dataset", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("unauthed = %d, want 401", w.Code)
	}
}

func TestAuthMiddleware_WrongToken(t *testing.T) {
	_, _, router := testEnv(t, "secret123")
	if w := do(router, http.MethodGet, "/dataset", nil, "Authorization", "Bearer wrong"); w.Code != http.StatusUnauthorized {
		t.Errorf("wrong token = %d, want 401", w.Code)
	}
}

// testEnvWithSSE creates a router with a stub SSE handler to test auth on /events.
func testEnvWithSSE(t *testing.T, authEnabled bool, token string) http.Handler {
	t.Helper()
	svc, _ := testutil.TestService(t)

	sseHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		<-r.Context().Done()
	})
	return NewRouter(svc, authEnabled, token, sseHandler)
}

func TestSSEEvents_AuthProtected(t *testing.T) {
	router := testEnvWithSSE(t, true, "secret")
	if w := do(router, http.MethodGet, "/events", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("SSE no auth = %d, want 401", w.Code)
	}
}

func TestSSEEvents_ValidToken(t *testing.T) {
	router := testEnvWithSSE(t, true, "tok")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/events", nil).WithContext(ctx)
	req.Header.Set("Authorization", "Bearer tok")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code == http.StatusUnauthorized {
		t.Error("SSE with valid token should not 401")
	}
}

func TestSSEEvents_QueryToken(t *testing.T) {
	router := testEnvWithSSE(t, true, "tok")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/events?access_token=tok", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code == http.StatusUnauthorized {
		t.Error("SSE with query token should not 401")
	}

	// The query form is only honoured on the event stream.
	if w := do(router, http.MethodGet, "/dataset?access_token=tok", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("dataset with query token = %d, want 401", w.Code)
	}
}
