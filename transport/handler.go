package transport

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/katalvlaran/routekernel/coordinate"
	"github.com/katalvlaran/routekernel/facade"
)

// Handler exposes a loaded facade.DataFacade's query API over HTTP. It is
// the single point a caller plugs a DataFacade into a running process;
// the core itself never imports net/http.
type Handler struct {
	facade *facade.DataFacade
	mux    *http.ServeMux
}

// New builds a Handler wired to facade. Callers may mount additional
// routes (e.g. metrics.Handler) on the returned mux before serving.
func New(facade *facade.DataFacade) *Handler {
	h := &Handler{facade: facade, mux: http.NewServeMux()}
	h.mux.HandleFunc("/nearest", h.handleNearest)
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) { h.mux.ServeHTTP(w, r) }

// Mux exposes the underlying ServeMux so callers can add routes like
// metrics.Handler alongside this one.
func (h *Handler) Mux() *http.ServeMux { return h.mux }

type nearestResponse struct {
	SegmentID      uint32  `json:"segment_id"`
	SnappedLat     float64 `json:"snapped_lat"`
	SnappedLon     float64 `json:"snapped_lon"`
	DistanceMeters float64 `json:"distance_meters"`
	FractionAlong  float64 `json:"fraction_along"`
	ForwardNode    uint32  `json:"forward_node"`
	ReverseNode    uint32  `json:"reverse_node"`
}

// handleNearest answers ?lat=...&lon=... with the robust-snapped phantom
// node, per spec.md §6's query API (nearest/nearest_in_range/search),
// narrowed here to the one operation an HTTP caller is most likely to
// need: "where on the graph is this coordinate".
func (h *Handler) handleNearest(w http.ResponseWriter, r *http.Request) {
	lat, err := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if err != nil {
		http.Error(w, "invalid lat", http.StatusBadRequest)
		return
	}
	lon, err := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if err != nil {
		http.Error(w, "invalid lon", http.StatusBadRequest)
		return
	}

	result := h.facade.RobustSnap(coordinate.FromDegrees(lat, lon))
	match := result.Best
	if match == nil {
		match = result.BestAny
	}
	if match == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode([]nearestResponse{})
		return
	}

	lat2, lon2 := match.Snapped.Degrees()
	resp := nearestResponse{
		SegmentID:      match.SegmentID,
		SnappedLat:     lat2,
		SnappedLon:     lon2,
		DistanceMeters: match.DistanceMeters,
		FractionAlong:  match.FractionAlong,
		ForwardNode:    match.ForwardNode,
		ReverseNode:    match.ReverseNode,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
