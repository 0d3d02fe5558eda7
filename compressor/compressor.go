package compressor

import (
	"log/slog"

	"github.com/katalvlaran/routekernel/geometry"
	"github.com/katalvlaran/routekernel/nodegraph"
	"github.com/katalvlaran/routekernel/restriction"
)

// Option configures a Compressor, following the teacher's functional
// options idiom.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger attaches a structured logger for compression diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func newOptions(opts ...Option) *options {
	o := &options{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Stats reports how many chain links were collapsed during a Compress run.
type Stats struct {
	NodesCompressed int
}

// Compressor runs the GraphCompressor pass (C4) over a nodegraph.Graph.
type Compressor struct {
	opts          *options
	graph         *nodegraph.Graph
	restrictions  *restriction.Map
	geom          *geometry.Container
	barriers      map[nodegraph.NodeID]bool
	trafficLights map[nodegraph.NodeID]bool
}

// New returns a Compressor over graph, consulting restrictions for via-node
// membership and recording absorbed geometry into geom. barriers and
// trafficLights are sets of node ids carrying those attributes (spec.md
// §4.4 step 1).
func New(graph *nodegraph.Graph, restrictions *restriction.Map, geom *geometry.Container,
	barriers, trafficLights map[nodegraph.NodeID]bool, opts ...Option) *Compressor {
	if barriers == nil {
		barriers = map[nodegraph.NodeID]bool{}
	}
	if trafficLights == nil {
		trafficLights = map[nodegraph.NodeID]bool{}
	}
	return &Compressor{
		opts:          newOptions(opts...),
		graph:         graph,
		restrictions:  restrictions,
		geom:          geom,
		barriers:      barriers,
		trafficLights: trafficLights,
	}
}

// Compress runs the full pass (spec.md §4.4): collapses every eligible
// degree-2 chain, then calls AddUncompressed on every surviving edge so
// every edge ends up with a geometry bucket.
func (c *Compressor) Compress() Stats {
	var stats Stats

	for v := nodegraph.NodeID(0); int(v) < c.graph.NodeCount(); v++ {
		if c.tryCompress(v) {
			stats.NodesCompressed++
		}
	}

	for n := nodegraph.NodeID(0); int(n) < c.graph.NodeCount(); n++ {
		c.graph.ForEachEdge(n, func(e nodegraph.EdgeID) {
			if c.geom.IsRetired(e) {
				return
			}
			c.geom.AddUncompressed(e, c.graph.Target(e), c.graph.EdgeData(e).Weight)
		})
	}

	c.opts.logger.Debug("compressor: pass complete", "nodes_compressed", stats.NodesCompressed)
	return stats
}

// tryCompress attempts to collapse node v as the middle of a degree-2
// chain u-v-w, returning true if it did.
func (c *Compressor) tryCompress(v nodegraph.NodeID) bool {
	if c.graph.OutDegree(v) != 2 {
		return false
	}
	if c.barriers[v] || c.trafficLights[v] || c.restrictions.IsViaNode(v) {
		return false
	}

	var neighbors []nodegraph.NodeID
	var outEdges []nodegraph.EdgeID
	c.graph.ForEachEdge(v, func(e nodegraph.EdgeID) {
		neighbors = append(neighbors, c.graph.Target(e))
		outEdges = append(outEdges, e)
	})
	if len(neighbors) != 2 {
		return false
	}
	u, w := neighbors[0], neighbors[1]
	vu, vw := outEdges[0], outEdges[1]

	uv := c.graph.FindEdge(u, v)
	wv := c.graph.FindEdge(w, v)
	if uv == nodegraph.InvalidEdge || wv == nodegraph.InvalidEdge {
		return false // not a true bidirectional chain link
	}

	if !compatible(c.graph.EdgeData(uv), c.graph.EdgeData(vw)) {
		return false
	}
	if !compatible(c.graph.EdgeData(wv), c.graph.EdgeData(vu)) {
		return false
	}

	if c.graph.FindEdge(u, w) != nodegraph.InvalidEdge || c.graph.FindEdge(w, u) != nodegraph.InvalidEdge {
		return false
	}

	uvData := c.graph.EdgeData(uv)
	vwData := c.graph.EdgeData(vw)
	wvData := c.graph.EdgeData(wv)
	vuData := c.graph.EdgeData(vu)

	if err := c.geom.Compress(uv, vw, v, w, uvData.Weight, vwData.Weight); err != nil {
		c.opts.logger.Warn("compressor: forward geometry compress failed", "v", v, "err", err)
		return false
	}
	if err := c.geom.Compress(wv, vu, v, u, wvData.Weight, vuData.Weight); err != nil {
		c.opts.logger.Warn("compressor: reverse geometry compress failed", "v", v, "err", err)
		return false
	}

	uvData.Weight += vwData.Weight
	c.graph.SetEdgeData(uv, uvData)
	c.graph.SetTarget(uv, w)

	wvData.Weight += vuData.Weight
	c.graph.SetEdgeData(wv, wvData)
	c.graph.SetTarget(wv, u)

	c.restrictions.FixupStarting(u, v, w)
	c.restrictions.FixupArriving(u, v, w)
	c.restrictions.FixupStarting(w, v, u)
	c.restrictions.FixupArriving(w, v, u)

	// Remove v's own out-edges; repeatedly take the first live edge rather
	// than reusing vu/vw by id, since DeleteEdge's swap-with-last semantics
	// can relocate a not-yet-deleted edge into the slot we just freed.
	for c.graph.OutDegree(v) > 0 {
		var first nodegraph.EdgeID
		found := false
		c.graph.ForEachEdge(v, func(e nodegraph.EdgeID) {
			if !found {
				first = e
				found = true
			}
		})
		if !found {
			break
		}
		c.graph.DeleteEdge(v, first)
	}

	return true
}

// compatible reports whether two edges may be collapsed across a shared
// via-node: same name, same directional flags, and the same roundabout,
// ignore-for-snapping, contraflow and access-restricted attributes
// (spec.md §4.4 step 3). Lane metadata is not modeled on EdgeData (spec.md
// §3 does not carry it), so there is nothing to preserve/merge for lanes.
func compatible(a, b nodegraph.EdgeData) bool {
	const mask = nodegraph.FlagRoundabout | nodegraph.FlagIgnoreForSnapping |
		nodegraph.FlagContraflow | nodegraph.FlagAccessRestricted
	return a.NameID == b.NameID &&
		a.Direction == b.Direction &&
		(a.Flags&mask) == (b.Flags&mask)
}
