package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chirouter "github.com/go-chi/chi/v5"

	"github.com/openregistry/prodex/internal/domain/professional"
	"github.com/openregistry/prodex/internal/ingest"
	"github.com/openregistry/prodex/internal/repository/dataset"
	adminuc "github.com/openregistry/prodex/internal/usecase/admin"
	cataloguc "github.com/openregistry/prodex/internal/usecase/catalog"
	healthuc "github.com/openregistry/prodex/internal/usecase/health"
	searchuc "github.com/openregistry/prodex/internal/usecase/search"
)

// --- Mocks ---

type mockLoader struct {
	records []*professional.Professional
}

func (m *mockLoader) Load(_ context.Context) (*ingest.Result, error) {
	return &ingest.Result{
		Professionals: m.records,
		Stats:         ingest.Stats{RowsRead: len(m.records), Accepted: len(m.records)},
	}, nil
}

func testRecords() []*professional.Professional {
	return []*professional.Professional{
		{
			ID: "idfpr_471012345", Slug: "jane-doe-springfield", Name: "Jane Doe",
			LicenseNumber: "471012345", City: "Springfield", State: "IL", Zip: "62704",
			Category: professional.CategoryRealtor,
		},
		{
			ID: "idfpr_471099999", Slug: "pat-inspector-chicago", Name: "Pat Inspector",
			LicenseNumber: "471099999", City: "Chicago", State: "IL", Zip: "60601",
			Category: professional.CategoryHomeInspector,
		},
	}
}

func newTestServer(t *testing.T, apiKeys []string) http.Handler {
	t.Helper()

	sources := []ingest.Source{
		{Name: "il", Path: "il.csv", Shape: ingest.ShapeLicense, IDPrefix: "idfpr_", DefaultState: "IL"},
	}
	cache := dataset.New(&mockLoader{records: testRecords()}, "", nil)

	server := NewServer(
		searchuc.New(cache),
		cataloguc.New(cache),
		adminuc.New(t.TempDir(), sources, cache, nil),
		healthuc.New(cache),
		apiKeys,
		nil,
	)

	r := chirouter.NewRouter()
	server.Routes(r)
	return r
}

func doRequest(t *testing.T, h http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody *strings.Reader
	if body != "" {
		reqBody = strings.NewReader(body)
	} else {
		reqBody = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, reqBody)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSearchEndpoint(t *testing.T) {
	h := newTestServer(t, nil)

	rec := doRequest(t, h, http.MethodGet, "/api/v1/professionals?q=jane+doe", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp searchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 1 || len(resp.Data) != 1 {
		t.Fatalf("total = %d, data = %d", resp.Total, len(resp.Data))
	}
	if resp.Data[0].Slug != "jane-doe-springfield" {
		t.Errorf("slug = %q", resp.Data[0].Slug)
	}
	if resp.Limit != 50 || resp.Offset != 0 {
		t.Errorf("limit/offset = %d/%d", resp.Limit, resp.Offset)
	}
}

func TestSearchEndpointFiltersAndPaging(t *testing.T) {
	h := newTestServer(t, nil)

	rec := doRequest(t, h, http.MethodGet,
		"/api/v1/professionals?category=Home+Inspector&limit=1&offset=0", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp searchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 1 || resp.Data[0].Name != "Pat Inspector" {
		t.Errorf("resp = %+v", resp)
	}
	if resp.Limit != 1 {
		t.Errorf("limit = %d", resp.Limit)
	}
}

func TestGetByIDEndpoint(t *testing.T) {
	h := newTestServer(t, nil)

	rec := doRequest(t, h, http.MethodGet, "/api/v1/professionals/idfpr_471012345", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var p professional.Professional
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatal(err)
	}
	if p.Name != "Jane Doe" {
		t.Errorf("name = %q", p.Name)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	h := newTestServer(t, nil)

	rec := doRequest(t, h, http.MethodGet, "/api/v1/professionals/nope", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Code != codeNotFound {
		t.Errorf("code = %q", resp.Code)
	}
}

func TestGetBySlugEndpoint(t *testing.T) {
	h := newTestServer(t, nil)

	rec := doRequest(t, h, http.MethodGet, "/api/v1/professionals/by-slug/pat-inspector-chicago", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var p professional.Professional
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatal(err)
	}
	if p.ID != "idfpr_471099999" {
		t.Errorf("id = %q", p.ID)
	}
}

func TestStatsEndpoint(t *testing.T) {
	h := newTestServer(t, nil)

	rec := doRequest(t, h, http.MethodGet, "/api/v1/professionals/stats", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp statsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 2 {
		t.Errorf("total = %d", resp.Total)
	}
	if resp.ByCategory["Realtor"] != 1 || resp.ByCategory["Home Inspector"] != 1 {
		t.Errorf("byCategory = %v", resp.ByCategory)
	}
	if resp.LastLoaded == nil {
		t.Error("lastLoaded should be set after a load")
	}
}

func TestHealthEndpoint(t *testing.T) {
	h := newTestServer(t, nil)

	// Before any read the dataset is empty but the service is healthy.
	rec := doRequest(t, h, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var report map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatal(err)
	}
	if report["status"] != "ok" || report["dataset"] != "empty" {
		t.Errorf("report = %v", report)
	}
}

func TestImportEndpoint(t *testing.T) {
	h := newTestServer(t, nil)

	body := `{"filename":"il.csv","content":"name,license_number,type\nJane Doe,1,Licensed Real Estate Broker\n"}`
	rec := doRequest(t, h, http.MethodPost, "/api/v1/admin/import", body, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp importResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.ImportedCount != 1 || resp.Filename != "il.csv" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestImportEndpointValidation(t *testing.T) {
	h := newTestServer(t, nil)

	tests := []struct {
		name string
		body string
		code string
	}{
		{"invalid json", "{not json", codeBadRequest},
		{"bad filename", `{"filename":"../x.csv","content":"a,b\n1,2\n"}`, codeValidationFailed},
		{"empty content", `{"filename":"x.csv","content":"  "}`, codeValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, h, http.MethodPost, "/api/v1/admin/import", tt.body, nil)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d", rec.Code)
			}
			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatal(err)
			}
			if resp.Code != tt.code {
				t.Errorf("code = %q, want %q", resp.Code, tt.code)
			}
		})
	}
}

func TestReloadEndpoint(t *testing.T) {
	h := newTestServer(t, nil)

	rec := doRequest(t, h, http.MethodPost, "/api/v1/admin/reload", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp reloadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 2 {
		t.Errorf("total = %d", resp.Total)
	}
	if resp.Stats == nil || resp.Stats.Accepted != 2 {
		t.Errorf("stats = %+v", resp.Stats)
	}
}

func TestAdminAuth(t *testing.T) {
	h := newTestServer(t, []string{"secret-key"})

	// No header
	rec := doRequest(t, h, http.MethodPost, "/api/v1/admin/reload", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("missing header status = %d", rec.Code)
	}

	// Wrong scheme
	rec = doRequest(t, h, http.MethodPost, "/api/v1/admin/reload", "",
		map[string]string{"Authorization": "Basic secret-key"})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong scheme status = %d", rec.Code)
	}

	// Wrong key
	rec = doRequest(t, h, http.MethodPost, "/api/v1/admin/reload", "",
		map[string]string{"Authorization": "Bearer wrong"})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong key status = %d", rec.Code)
	}

	// Valid key
	rec = doRequest(t, h, http.MethodPost, "/api/v1/admin/reload", "",
		map[string]string{"Authorization": "Bearer secret-key"})
	if rec.Code != http.StatusOK {
		t.Errorf("valid key status = %d, body = %s", rec.Code, rec.Body.String())
	}

	// Read endpoints stay open.
	rec = doRequest(t, h, http.MethodGet, "/api/v1/professionals", "", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("read endpoint status = %d", rec.Code)
	}
}
