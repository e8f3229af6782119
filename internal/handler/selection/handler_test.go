package selection

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/adeslas-assistant/backend/internal/model/catalog"
	"github.com/zhouzirui/adeslas-assistant/backend/internal/service/comparison"
	"github.com/zhouzirui/adeslas-assistant/backend/internal/service/selection"
)

func setupRouter(t *testing.T) *chi.Mux {
	t.Helper()
	store, err := catalog.NewMemoryStore(catalog.Seed())
	if err != nil {
		t.Fatalf("NewMemoryStore err: %v", err)
	}
	r := chi.NewRouter()
	New(store, selection.New(store)).RegisterRoutes(r)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestSetFilter(t *testing.T) {
	r := setupRouter(t)

	resp := do(r, http.MethodPut, "/selection/filter", `{"category":"Productos Hospitalarios"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var view selectionView
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if view.Category == nil || *view.Category != catalog.Hospital {
		t.Fatalf("unexpected filter %v", view.Category)
	}
	for _, p := range view.Visible {
		if p.Category != catalog.Hospital {
			t.Fatalf("unexpected visible product %s", p.ID)
		}
	}

	resp = do(r, http.MethodPut, "/selection/filter", `{"category":null}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	resp = do(r, http.MethodPut, "/selection/filter", `{"category":"coche"}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestComparisonRequiresTwoProducts(t *testing.T) {
	r := setupRouter(t)

	if resp := do(r, http.MethodPost, "/selection/compare/adeslas-go", ""); resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if resp := do(r, http.MethodGet, "/comparison", ""); resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.Code)
	}

	do(r, http.MethodPost, "/selection/compare/adeslas-plena", "")
	resp := do(r, http.MethodGet, "/comparison", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var table comparison.Table
	if err := json.NewDecoder(resp.Body).Decode(&table); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if len(table.Columns) != 2 || table.Columns[0].ID != "adeslas-go" {
		t.Fatalf("unexpected columns %+v", table.Columns)
	}

	do(r, http.MethodDelete, "/selection/compare", "")
	if resp := do(r, http.MethodGet, "/comparison", ""); resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 after clear, got %d", resp.Code)
	}
}

func TestToggleUnknownProduct(t *testing.T) {
	r := setupRouter(t)
	if resp := do(r, http.MethodPost, "/selection/compare/missing", ""); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
