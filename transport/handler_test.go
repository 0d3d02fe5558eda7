package transport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/katalvlaran/routekernel/coordinate"
	"github.com/katalvlaran/routekernel/facade"
	"github.com/katalvlaran/routekernel/geoquery"
	"github.com/katalvlaran/routekernel/spatial"
)

func newTestFacade(t *testing.T) *facade.DataFacade {
	t.Helper()
	segments := []spatial.Segment{
		{ID: 1, Start: coordinate.FromDegrees(0, 0), End: coordinate.FromDegrees(0, 1),
			ForwardNode: 0, ReverseNode: 1, ForwardWeight: 10, ReverseWeight: 10, IsStartpoint: true},
	}
	idx, err := spatial.Build(segments)
	if err != nil {
		t.Fatalf("spatial.Build: %v", err)
	}
	return &facade.DataFacade{
		Index: idx,
		Query: geoquery.New(idx),
	}
}

func TestHandleNearestReturnsClosestSegment(t *testing.T) {
	f := newTestFacade(t)
	h := New(f)

	req := httptest.NewRequest(http.MethodGet, "/nearest?lat=0&lon=0.5", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp["segment_id"] != float64(1) {
		t.Errorf("expected segment_id 1, got %v", resp["segment_id"])
	}
}

func TestHandleNearestRejectsMissingParams(t *testing.T) {
	f := newTestFacade(t)
	h := New(f)

	req := httptest.NewRequest(http.MethodGet, "/nearest", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
