package edgebased

import (
	"log/slog"

	"github.com/katalvlaran/routekernel/coordinate"
	"github.com/katalvlaran/routekernel/geometry"
	"github.com/katalvlaran/routekernel/nodegraph"
	"github.com/katalvlaran/routekernel/restriction"
)

// Option configures a Factory, following the teacher's functional options
// idiom.
type Option func(*options)

type options struct {
	logger                 *slog.Logger
	uTurnPenalty           uint32
	signalPenalty          uint32
	representativeDistance float64
	barrierStraightDegrees float64
	penaltyFunc            TurnPenaltyFunc
	penaltyFuncCtx         TurnPenaltyFuncCtx
	penaltyContext         func(u, v, w nodegraph.NodeID) TurnPenaltyContext
}

// WithLogger attaches a structured logger for build diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithUTurnPenalty sets the additional weight added to a permitted U-turn
// (spec.md §4.5 step 3g).
func WithUTurnPenalty(weight uint32) Option {
	return func(o *options) { o.uTurnPenalty = weight }
}

// WithSignalPenalty sets the additional weight added when the via-node is a
// traffic light (spec.md §4.5 step 3f).
func WithSignalPenalty(weight uint32) Option {
	return func(o *options) { o.signalPenalty = weight }
}

// WithRepresentativeDistance sets the desired downstream distance (meters)
// used to locate the representative coordinate on each side of a turn,
// default 10.0 (spec.md §9 Open Question #3).
func WithRepresentativeDistance(meters float64) Option {
	return func(o *options) {
		if meters > 0 {
			o.representativeDistance = meters
		}
	}
}

// WithBarrierStraightThreshold sets the maximum angular deviation, in
// degrees, still considered a "straight pass-through" at a barrier node
// (spec.md §4.5 step 3c).
func WithBarrierStraightThreshold(degrees float64) Option {
	return func(o *options) {
		if degrees > 0 {
			o.barrierStraightDegrees = degrees
		}
	}
}

// WithTurnPenaltyFunc overrides the default turn-penalty function.
func WithTurnPenaltyFunc(fn TurnPenaltyFunc) Option {
	return func(o *options) {
		if fn != nil {
			o.penaltyFunc = fn
		}
	}
}

// WithPenaltyContext installs a context-aware penalty function together
// with the provider that derives a TurnPenaltyContext for a given turn;
// when set, this takes precedence over the plain TurnPenaltyFunc (spec.md
// §9 Open Question #2).
func WithPenaltyContext(fn TurnPenaltyFuncCtx, provider func(u, v, w nodegraph.NodeID) TurnPenaltyContext) Option {
	return func(o *options) {
		if fn != nil && provider != nil {
			o.penaltyFuncCtx = fn
			o.penaltyContext = provider
		}
	}
}

// DefaultTurnPenaltyFunc models the general shape of a turn-penalty curve —
// negligible for a near-straight turn, larger for a sharp one — without
// reproducing any particular profile-scripting polynomial (that lives in
// LUA profile scripting, explicitly out of scope).
func DefaultTurnPenaltyFunc(deviationDegrees float64) uint32 {
	switch {
	case deviationDegrees < 20:
		return 0
	case deviationDegrees < 90:
		return uint32((deviationDegrees - 20) / 70 * 400)
	default:
		return uint32(400 + (deviationDegrees-90)/90*600)
	}
}

func newOptions(opts ...Option) *options {
	o := &options{
		logger:                 slog.Default(),
		uTurnPenalty:           2000,
		signalPenalty:          200,
		representativeDistance: 10.0,
		barrierStraightDegrees: 35.0,
		penaltyFunc:            DefaultTurnPenaltyFunc,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Factory builds the edge-based graph (C5) from a compressed node-based
// graph, its geometry container, and its restriction map.
type Factory struct {
	opts          *options
	graph         *nodegraph.Graph
	geom          *geometry.Container
	restrictions  *restriction.Map
	barriers      map[nodegraph.NodeID]bool
	trafficLights map[nodegraph.NodeID]bool
	coords        CoordinateLookup

	nextSyntheticGeom uint32
}

// New returns a Factory over graph (already passed through compressor.
// Compress), geom, and restrictions. coords resolves node-based node ids to
// geographic positions for turn-angle computation.
func New(graph *nodegraph.Graph, geom *geometry.Container, restrictions *restriction.Map,
	barriers, trafficLights map[nodegraph.NodeID]bool, coords CoordinateLookup, opts ...Option) *Factory {
	if barriers == nil {
		barriers = map[nodegraph.NodeID]bool{}
	}
	if trafficLights == nil {
		trafficLights = map[nodegraph.NodeID]bool{}
	}
	return &Factory{
		opts:          newOptions(opts...),
		graph:         graph,
		geom:          geom,
		restrictions:  restrictions,
		barriers:      barriers,
		trafficLights: trafficLights,
		coords:        coords,
	}
}

type incomingEdge struct {
	u nodegraph.NodeID
	e nodegraph.EdgeID
}

// Build runs the full C5 pass: node generation (step 1-2), turn enumeration
// (step 3), and bearing/entry classification (step 4).
func (f *Factory) Build() (*Result, error) {
	result := &Result{
		Bearings:        NewBearingClassTable(),
		Entries:         NewEntryClassTable(),
		Classifications: make(map[EdgeKey]Classification),
	}

	nodeIDByEdge := make(map[nodegraph.EdgeID]NodeID)
	weightByEdge := make(map[nodegraph.EdgeID]uint32)

	if err := f.generateNodes(result, nodeIDByEdge, weightByEdge); err != nil {
		return nil, err
	}

	incomingAt := make(map[nodegraph.NodeID][]incomingEdge)
	for u := nodegraph.NodeID(0); int(u) < f.graph.NodeCount(); u++ {
		f.graph.ForEachEdge(u, func(e nodegraph.EdgeID) {
			v := f.graph.Target(e)
			incomingAt[v] = append(incomingAt[v], incomingEdge{u: u, e: e})
		})
	}

	for v := nodegraph.NodeID(0); int(v) < f.graph.NodeCount(); v++ {
		f.enumerateTurns(v, incomingAt[v], nodeIDByEdge, weightByEdge, result)
	}

	result.Stats.NodeCount = len(result.Nodes)
	result.Stats.EdgeCount = len(result.Edges)
	f.opts.logger.Debug("edgebased: build complete",
		"nodes", result.Stats.NodeCount, "edges", result.Stats.EdgeCount,
		"restricted", result.Stats.RestrictedTurns, "uturn_rejected", result.Stats.UTurnsRejected,
		"barrier_blocked", result.Stats.BarrierBlocked)
	return result, nil
}

// generateNodes implements spec.md §4.5 steps 1-2: renumber every forward
// edge, zip its geometry with its reverse counterpart if any, and emit one
// Node per surviving forward edge.
func (f *Factory) generateNodes(result *Result, nodeIDByEdge map[nodegraph.EdgeID]NodeID, weightByEdge map[nodegraph.EdgeID]uint32) error {
	for u := nodegraph.NodeID(0); int(u) < f.graph.NodeCount(); u++ {
		var buildErr error
		f.graph.ForEachEdge(u, func(e nodegraph.EdgeID) {
			if buildErr != nil {
				return
			}
			data := f.graph.EdgeData(e)
			if data.Reversed {
				return // only the forward slot of a pair becomes a Node
			}
			v := f.graph.Target(e)

			fwdWeight := data.Weight
			if fwdWeight == 0 {
				buildErr = ErrInvalidWeight
				return
			}

			reverseEdge := f.graph.FindEdge(v, u)
			reverseWeight := InvalidWeight
			if reverseEdge != nodegraph.InvalidEdge {
				rd := f.graph.EdgeData(reverseEdge)
				if rd.Weight == 0 {
					buildErr = ErrInvalidWeight
					return
				}
				reverseWeight = rd.Weight
			}

			packedID, length := f.packGeometry(e, reverseEdge)

			// is_startpoint = fwd.startpoint ∨ rev.startpoint (spec.md §4.5
			// step 2): snappable if either direction isn't flagged
			// ignore-for-snapping.
			isStartpoint := !data.Flags.Has(nodegraph.FlagIgnoreForSnapping)
			if !isStartpoint && reverseEdge != nodegraph.InvalidEdge {
				isStartpoint = !f.graph.EdgeData(reverseEdge).Flags.Has(nodegraph.FlagIgnoreForSnapping)
			}

			n := Node{
				Index:            len(result.Nodes),
				ForwardEdge:      e,
				ReverseEdge:      reverseEdge,
				U:                u,
				V:                v,
				PackedGeometryID: packedID,
				GeometryLength:   length,
				ForwardWeight:    fwdWeight,
				ReverseWeight:    reverseWeight,
				IsStartpoint:     isStartpoint,
			}
			result.Nodes = append(result.Nodes, n)

			nodeIDByEdge[e] = n.ForwardID()
			weightByEdge[e] = fwdWeight
			// A reverse slot that is not Reversed gets a Node of its own
			// whose ForwardID identifies it; only a Reversed mirror maps here.
			if reverseEdge != nodegraph.InvalidEdge && f.graph.EdgeData(reverseEdge).Reversed {
				nodeIDByEdge[reverseEdge] = n.ReverseID()
				weightByEdge[reverseEdge] = reverseWeight
			}
		})
		if buildErr != nil {
			return buildErr
		}
	}
	return nil
}

// packGeometry zips the forward and reverse buckets of a physical segment
// into a shared id via geometry.Container.ZipEdges. If there is no reverse
// edge, or zipping fails (e.g. length mismatch on malformed input), it
// falls back to a synthetic id addressing the forward bucket alone so the
// Node is still usable for interpolation.
func (f *Factory) packGeometry(forward, reverse nodegraph.EdgeID) (id uint32, length int) {
	bucket, _ := f.geom.GetBucket(forward)
	length = len(bucket)

	if reverse == nodegraph.InvalidEdge {
		id = f.syntheticGeomID()
		return id, length
	}

	zipID, err := f.geom.ZipEdges(forward, reverse)
	if err != nil {
		f.opts.logger.Warn("edgebased: geometry zip failed, using synthetic id", "err", err)
		return f.syntheticGeomID(), length
	}
	return zipID, length
}

func (f *Factory) syntheticGeomID() uint32 {
	id := f.nextSyntheticGeom
	f.nextSyntheticGeom++
	return id
}

// enumerateTurns implements spec.md §4.5 step 3: for intersection v, pair
// every incoming edge with every outgoing edge and apply the rejection and
// penalty rules.
func (f *Factory) enumerateTurns(v nodegraph.NodeID, ins []incomingEdge,
	nodeIDByEdge map[nodegraph.EdgeID]NodeID, weightByEdge map[nodegraph.EdgeID]uint32, result *Result) {
	if len(ins) == 0 {
		return
	}

	type outgoingEdge struct {
		w nodegraph.NodeID
		e nodegraph.EdgeID
	}
	var outs []outgoingEdge
	f.graph.ForEachEdge(v, func(e nodegraph.EdgeID) {
		outs = append(outs, outgoingEdge{w: f.graph.Target(e), e: e})
	})
	if len(outs) == 0 {
		return
	}

	neighbors := map[nodegraph.NodeID]struct{}{}
	for _, in := range ins {
		neighbors[in.u] = struct{}{}
	}
	for _, out := range outs {
		neighbors[out.w] = struct{}{}
	}
	soleNeighbor := len(neighbors) == 1

	bearingBuckets := make([]uint16, 0, len(outs))
	for _, out := range outs {
		dep := f.representativeDeparting(v, out.e)
		bearingBuckets = append(bearingBuckets, discretizeBearing(coordinate.BearingDegrees(f.coords(v), dep)))
	}
	bearingClassID := result.Bearings.Intern(BearingClass{Buckets: append([]uint16(nil), bearingBuckets...)})

	for _, in := range ins {
		u := in.u
		inApproach := f.representativeApproaching(u, v, in.e)
		inBearing := coordinate.BearingDegrees(inApproach, f.coords(v))

		mandatedTo, hasOnly := f.restrictions.CheckOnlyTurn(u, v)

		var allowedMask uint64
		for i, out := range outs {
			w := out.w
			allowed := f.evaluateTurn(u, v, w, soleNeighbor, hasOnly, mandatedTo, &result.Stats)
			if allowed && i < 64 {
				allowedMask |= 1 << uint(i)
			}
			if !allowed {
				continue
			}

			dep := f.representativeDeparting(v, out.e)
			outBearing := coordinate.BearingDegrees(f.coords(v), dep)
			deviation := coordinate.AngularDeviation(inBearing, outBearing)

			var penalty uint32
			if f.opts.penaltyFuncCtx != nil {
				penalty = f.opts.penaltyFuncCtx(deviation, f.opts.penaltyContext(u, v, w))
			} else {
				penalty = f.opts.penaltyFunc(deviation)
			}
			if f.trafficLights[v] {
				penalty += f.opts.signalPenalty
			}
			if u == w {
				penalty += f.opts.uTurnPenalty
			}

			fromID, fromOK := nodeIDByEdge[in.e]
			toID, toOK := nodeIDByEdge[out.e]
			if !fromOK || !toOK {
				continue
			}
			weight := weightByEdge[in.e] + penalty

			result.Edges = append(result.Edges, Edge{From: fromID, To: toID, Weight: weight})
		}

		entryClassID := result.Entries.Intern(EntryClass{Mask: allowedMask})
		result.Classifications[EdgeKey{From: u, Via: v}] = Classification{
			BearingClassID: bearingClassID,
			EntryClassID:   entryClassID,
		}
	}
}

// evaluateTurn applies spec.md §4.5 step 3's rejection rules a-d, updating
// stats for every rejection. It returns whether the turn (u, v, w) survives.
func (f *Factory) evaluateTurn(u, v, w nodegraph.NodeID, soleNeighbor, hasOnly bool, mandatedTo nodegraph.NodeID, stats *Stats) bool {
	if f.restrictions.IsRestricted(u, v, w) {
		if hasOnly && mandatedTo != w {
			stats.OnlyTurnMismatches++
		} else {
			stats.RestrictedTurns++
		}
		return false
	}
	if u == w && !soleNeighbor {
		stats.UTurnsRejected++
		return false
	}
	if f.barriers[v] {
		dep := f.representativeDepartingByNodes(v, w)
		app := f.representativeApproachingByNodes(u, v)
		deviation := coordinate.AngularDeviation(coordinate.BearingDegrees(app, f.coords(v)), coordinate.BearingDegrees(f.coords(v), dep))
		if deviation > f.opts.barrierStraightDegrees {
			stats.BarrierBlocked++
			return false
		}
	}
	return true
}

// representativeDepartingByNodes and representativeApproachingByNodes are
// coordinate-only fallbacks used by the barrier straight-through check,
// where only the endpoints (not a specific edge id) are at hand.
func (f *Factory) representativeDepartingByNodes(v, w nodegraph.NodeID) coordinate.Coordinate {
	e := f.graph.FindEdge(v, w)
	if e == nodegraph.InvalidEdge {
		return f.coords(w)
	}
	return f.representativeDeparting(v, e)
}

func (f *Factory) representativeApproachingByNodes(u, v nodegraph.NodeID) coordinate.Coordinate {
	e := f.graph.FindEdge(u, v)
	if e == nodegraph.InvalidEdge {
		return f.coords(u)
	}
	return f.representativeApproaching(u, v, e)
}

// representativeDeparting returns the point roughly opts.representativeDistance
// meters downstream of v along edge (v -> w's edge id e), per spec.md
// §4.5 step 3's "representative coordinate" definition.
func (f *Factory) representativeDeparting(v nodegraph.NodeID, e nodegraph.EdgeID) coordinate.Coordinate {
	bucket, ok := f.geom.GetBucket(e)
	if !ok || len(bucket) == 0 {
		return f.coords(f.graph.Target(e))
	}
	start := f.coords(v)
	prev := start
	cum := 0.0
	for _, b := range bucket {
		p := f.coords(b.Node)
		d := coordinate.HaversineMeters(prev, p)
		if d > 0 && cum+d >= f.opts.representativeDistance {
			t := (f.opts.representativeDistance - cum) / d
			return coordinate.Interpolate(prev, p, t)
		}
		cum += d
		prev = p
	}
	return prev
}

// representativeApproaching returns the point roughly
// opts.representativeDistance meters upstream of v along edge (u -> v, edge
// id e), walking the geometry backward from v.
func (f *Factory) representativeApproaching(u, v nodegraph.NodeID, e nodegraph.EdgeID) coordinate.Coordinate {
	bucket, ok := f.geom.GetBucket(e)
	if !ok || len(bucket) == 0 {
		return f.coords(u)
	}

	pts := make([]coordinate.Coordinate, 0, len(bucket)+1)
	pts = append(pts, f.coords(u))
	for _, b := range bucket {
		pts = append(pts, f.coords(b.Node))
	}
	// pts[len-1] == v's own coordinate; walk backward from there.
	prev := pts[len(pts)-1]
	cum := 0.0
	for i := len(pts) - 2; i >= 0; i-- {
		p := pts[i]
		d := coordinate.HaversineMeters(prev, p)
		if d > 0 && cum+d >= f.opts.representativeDistance {
			t := (f.opts.representativeDistance - cum) / d
			return coordinate.Interpolate(prev, p, t)
		}
		cum += d
		prev = p
	}
	return prev
}
