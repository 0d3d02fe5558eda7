package nodegraph

import (
	"log/slog"

	"github.com/katalvlaran/routekernel/psort"
)

// defaultHeadroomFactor is the fraction of extra capacity reserved per
// node's edge range at build time, so subsequent InsertEdge calls on the same
// source rarely force a relocation (spec.md §4.1).
const defaultHeadroomFactor = 0.20

type edgeSlot struct {
	target NodeID
	data   EdgeData
}

type nodeRange struct {
	first EdgeID
	count uint32
	cap   uint32 // contiguous capacity reserved starting at first
}

// Option configures a Graph at Build time, following the teacher's
// functional-options idiom (builder.BuilderOption, generalized).
type Option func(*options)

type options struct {
	headroom float64
	logger   *slog.Logger
}

// WithHeadroom overrides the per-node trailing capacity reserved at Build
// time. Values <= 0 are ignored.
func WithHeadroom(fraction float64) Option {
	return func(o *options) {
		if fraction > 0 {
			o.headroom = fraction
		}
	}
}

// WithLogger attaches a structured logger for build-time diagnostics. A nil
// logger is ignored; the default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func newOptions(opts ...Option) *options {
	o := &options{headroom: defaultHeadroomFactor, logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Graph is the CSR-with-tombstones adjacency store described in spec.md
// §4.1 / §9: nodes own a contiguous range of a shared edge array; deletes
// tombstone a slot instead of shrinking the array, and inserts reuse a
// trailing tombstone or relocate the node's whole range to the array's end.
type Graph struct {
	opts  *options
	nodes []nodeRange
	edges []edgeSlot
}

// NodeCount returns the number of nodes the graph was built with.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// Build sorts edges by source, groups them, and reserves headroom capacity
// per node so later InsertEdge calls on the same source rarely require a
// copy. Per spec.md §5, the sort runs in parallel through psort.Sort.
func Build(nodeCount int, input []InputEdge, opts ...Option) (*Graph, error) {
	o := newOptions(opts...)

	for _, e := range input {
		if err := e.validate(); err != nil {
			return nil, err
		}
		if int(e.Source) >= nodeCount || int(e.Target) >= nodeCount {
			return nil, ErrNodeOutOfRange
		}
	}

	sorted := make([]InputEdge, len(input))
	copy(sorted, input)
	psort.Sort(sorted, func(a, b InputEdge) bool { return a.Source < b.Source })

	g := &Graph{
		opts:  o,
		nodes: make([]nodeRange, nodeCount),
	}

	// Size the backing array up front: live edges plus headroom per node
	// that actually owns at least one edge.
	counts := make([]uint32, nodeCount)
	for _, e := range sorted {
		counts[e.Source]++
	}

	total := uint32(0)
	for _, c := range counts {
		if c == 0 {
			continue
		}
		reserve := c + uint32(float64(c)*o.headroom)
		if reserve < c+1 {
			reserve = c + 1
		}
		total += reserve
	}
	if uint64(total) > uint64(InvalidEdge) {
		return nil, ErrEdgeOverflow
	}

	g.edges = make([]edgeSlot, 0, total)
	idx := 0
	for node := 0; node < nodeCount; node++ {
		c := counts[node]
		if c == 0 {
			g.nodes[node] = nodeRange{first: EdgeID(len(g.edges)), count: 0, cap: 0}
			continue
		}
		reserve := c + uint32(float64(c)*o.headroom)
		if reserve < c+1 {
			reserve = c + 1
		}
		first := EdgeID(len(g.edges))
		for idx < len(sorted) && sorted[idx].Source == NodeID(node) {
			g.edges = append(g.edges, edgeSlot{target: sorted[idx].Target, data: sorted[idx].Data})
			idx++
		}
		for uint32(len(g.edges))-uint32(first) < reserve {
			g.edges = append(g.edges, edgeSlot{target: InvalidNode})
		}
		g.nodes[node] = nodeRange{first: first, count: c, cap: reserve}
	}

	o.logger.Debug("nodegraph: build complete", "nodes", nodeCount, "edges", len(sorted), "slots", len(g.edges))
	return g, nil
}

// IsDummy reports whether e is a tombstoned slot.
func (g *Graph) IsDummy(e EdgeID) bool {
	return g.edges[e].target == InvalidNode
}

// OutDegree returns the number of live outgoing edges for n.
func (g *Graph) OutDegree(n NodeID) int { return int(g.nodes[n].count) }

// BeginEdges returns the first EdgeID in n's range (inclusive).
func (g *Graph) BeginEdges(n NodeID) EdgeID { return g.nodes[n].first }

// EndEdges returns one past the last slot reserved for n's range
// (exclusive); the range may contain tombstones, skip them with IsDummy.
func (g *Graph) EndEdges(n NodeID) EdgeID {
	r := g.nodes[n]
	return r.first + EdgeID(r.cap)
}

// Target returns the target node of edge e.
func (g *Graph) Target(e EdgeID) NodeID { return g.edges[e].target }

// EdgeData returns the payload of edge e.
func (g *Graph) EdgeData(e EdgeID) EdgeData { return g.edges[e].data }

// SetEdgeData overwrites the payload of edge e in place.
func (g *Graph) SetEdgeData(e EdgeID, data EdgeData) { g.edges[e].data = data }

// SetTarget overwrites the target of edge e in place (used by compressor to
// retarget u→v into u→w without moving the slot).
func (g *Graph) SetTarget(e EdgeID, target NodeID) { g.edges[e].target = target }

// FindEdge returns the edge id for the (live) edge from→to, or InvalidEdge
// on a miss. O(out_degree(from)).
func (g *Graph) FindEdge(from, to NodeID) EdgeID {
	for e := g.BeginEdges(from); e < g.EndEdges(from); e++ {
		if !g.IsDummy(e) && g.edges[e].target == to {
			return e
		}
	}
	return InvalidEdge
}

// ForEachEdge invokes fn for every live edge id in n's range, in slot order.
func (g *Graph) ForEachEdge(n NodeID, fn func(e EdgeID)) {
	for e := g.BeginEdges(n); e < g.EndEdges(n); e++ {
		if !g.IsDummy(e) {
			fn(e)
		}
	}
}

// InsertEdge appends target/data to from's range. It reuses a trailing
// tombstone slot if one exists; otherwise it relocates from's whole range
// to the end of the backing array (tombstoning the old slots) and grows
// the new range's headroom. Only outgoing iterators for `from` are
// invalidated.
func (g *Graph) InsertEdge(from, to NodeID, data EdgeData) (EdgeID, error) {
	r := g.nodes[from]

	// Trailing tombstone within the reserved capacity: reuse in place.
	if r.count < r.cap {
		slot := r.first + EdgeID(r.count)
		g.edges[slot] = edgeSlot{target: to, data: data}
		g.nodes[from].count++
		return slot, nil
	}

	// No headroom left: relocate the whole range to the array's end with
	// fresh headroom, tombstoning the vacated slots.
	newCount := r.count + 1
	newCap := newCount + uint32(float64(newCount)*g.opts.headroom)
	if newCap < newCount+1 {
		newCap = newCount + 1
	}
	if uint64(len(g.edges))+uint64(newCap) > uint64(InvalidEdge) {
		return InvalidEdge, ErrEdgeOverflow
	}

	newFirst := EdgeID(len(g.edges))
	for e := r.first; e < r.first+EdgeID(r.count); e++ {
		g.edges = append(g.edges, g.edges[e])
		g.edges[e].target = InvalidNode // tombstone the vacated slot
	}
	g.edges = append(g.edges, edgeSlot{target: to, data: data})
	for uint32(len(g.edges))-uint32(newFirst) < newCap {
		g.edges = append(g.edges, edgeSlot{target: InvalidNode})
	}

	g.nodes[from] = nodeRange{first: newFirst, count: newCount, cap: newCap}
	return newFirst + EdgeID(newCount) - 1, nil
}

// DeleteEdge removes edge e (which must belong to src's range) by swapping
// it with the last live edge in src's range and tombstoning the freed tail
// slot.
func (g *Graph) DeleteEdge(src NodeID, e EdgeID) {
	r := g.nodes[src]
	last := r.first + EdgeID(r.count) - 1
	if e != last {
		g.edges[e] = g.edges[last]
	}
	g.edges[last] = edgeSlot{target: InvalidNode}
	g.nodes[src].count--
}
