package edgebased

import (
	"testing"

	"github.com/katalvlaran/routekernel/coordinate"
	"github.com/katalvlaran/routekernel/geometry"
	"github.com/katalvlaran/routekernel/nodegraph"
	"github.com/katalvlaran/routekernel/restriction"
)

func bidir(u, v nodegraph.NodeID, weight uint32) []nodegraph.InputEdge {
	data := nodegraph.EdgeData{Weight: weight, Direction: nodegraph.DirBoth}
	return []nodegraph.InputEdge{
		{Source: u, Target: v, Data: data},
		{Source: v, Target: u, Data: data},
	}
}

// fourWayCoords places V at the origin with neighbors due north, east,
// south, and west, so bearings resolve cleanly for test assertions.
func fourWayCoords() map[nodegraph.NodeID]coordinate.Coordinate {
	return map[nodegraph.NodeID]coordinate.Coordinate{
		0: coordinate.FromDegrees(0, 0),      // V, the intersection
		1: coordinate.FromDegrees(0.001, 0),  // N
		2: coordinate.FromDegrees(0, 0.001),  // E
		3: coordinate.FromDegrees(-0.001, 0), // S
		4: coordinate.FromDegrees(0, -0.001), // W
	}
}

func lookup(coords map[nodegraph.NodeID]coordinate.Coordinate) CoordinateLookup {
	return func(n nodegraph.NodeID) coordinate.Coordinate { return coords[n] }
}

func countEdges(edges []Edge, from, to NodeID) int {
	n := 0
	for _, e := range edges {
		if e.From == from && e.To == to {
			n++
		}
	}
	return n
}

func TestFourWayIntersectionRejectsRestrictedAndUTurn(t *testing.T) {
	const V, N, E, S, W = 0, 1, 2, 3, 4
	var input []nodegraph.InputEdge
	input = append(input, bidir(V, N, 10)...)
	input = append(input, bidir(V, E, 10)...)
	input = append(input, bidir(V, S, 10)...)
	input = append(input, bidir(V, W, 10)...)

	g, err := nodegraph.Build(5, input)
	if err != nil {
		t.Fatal(err)
	}
	geom := geometry.NewContainer()
	// Every edge survives uncompressed (degree-4 intersection never
	// collapses); seed buckets directly as the compressor would.
	for n := nodegraph.NodeID(0); int(n) < g.NodeCount(); n++ {
		g.ForEachEdge(n, func(e nodegraph.EdgeID) {
			geom.AddUncompressed(e, g.Target(e), g.EdgeData(e).Weight)
		})
	}

	restr := restriction.NewMap()
	if err := restr.Insert(N, V, S, false); err != nil {
		t.Fatal(err)
	}

	f := New(g, geom, restr, nil, nil, lookup(fourWayCoords()))
	result, err := f.Build()
	if err != nil {
		t.Fatal(err)
	}

	var fromN, toS, toE, toW NodeID
	var foundFromN, foundToS, foundToE, foundToW bool
	for _, n := range result.Nodes {
		switch {
		case n.U == N && n.V == V:
			fromN, foundFromN = n.ForwardID(), true
		case n.U == V && n.V == S:
			toS, foundToS = n.ForwardID(), true
		case n.U == V && n.V == E:
			toE, foundToE = n.ForwardID(), true
		case n.U == V && n.V == W:
			toW, foundToW = n.ForwardID(), true
		}
	}
	if !foundFromN || !foundToS || !foundToE || !foundToW {
		t.Fatalf("expected to find all four Nodes, got fromN=%v toS=%v toE=%v toW=%v", foundFromN, foundToS, foundToE, foundToW)
	}

	if countEdges(result.Edges, fromN, toS) != 0 {
		t.Error("expected the restricted N->V->S turn to be rejected")
	}
	if countEdges(result.Edges, fromN, toE) != 1 {
		t.Error("expected the N->V->E turn to be allowed")
	}
	if countEdges(result.Edges, fromN, toW) != 1 {
		t.Error("expected the N->V->W turn to be allowed")
	}
	if result.Stats.RestrictedTurns != 1 {
		t.Errorf("expected 1 restricted turn counted, got %d", result.Stats.RestrictedTurns)
	}
	if result.Stats.UTurnsRejected == 0 {
		t.Error("expected at least one U-turn rejected at the 4-way intersection")
	}
}

func TestDeadEndAllowsUTurn(t *testing.T) {
	const V, N = 0, 1
	input := bidir(V, N, 10)

	g, err := nodegraph.Build(2, input)
	if err != nil {
		t.Fatal(err)
	}
	geom := geometry.NewContainer()
	for n := nodegraph.NodeID(0); int(n) < g.NodeCount(); n++ {
		g.ForEachEdge(n, func(e nodegraph.EdgeID) {
			geom.AddUncompressed(e, g.Target(e), g.EdgeData(e).Weight)
		})
	}
	restr := restriction.NewMap()
	coords := map[nodegraph.NodeID]coordinate.Coordinate{
		V: coordinate.FromDegrees(0, 0),
		N: coordinate.FromDegrees(0.001, 0),
	}

	f := New(g, geom, restr, nil, nil, lookup(coords), WithUTurnPenalty(500))
	result, err := f.Build()
	if err != nil {
		t.Fatal(err)
	}

	var nvID, vnID NodeID
	var foundNV, foundVN bool
	for _, n := range result.Nodes {
		if n.U == N && n.V == V {
			nvID, foundNV = n.ForwardID(), true
		}
		if n.U == V && n.V == N {
			vnID, foundVN = n.ForwardID(), true
		}
	}
	if !foundNV || !foundVN {
		t.Fatal("expected to find both directions of the dead-end segment")
	}

	found := false
	for _, e := range result.Edges {
		if e.From == nvID && e.To == vnID {
			found = true
			if e.Weight < 500 {
				t.Errorf("expected the U-turn penalty folded into the edge weight, got %d", e.Weight)
			}
		}
	}
	if !found {
		t.Fatal("expected the dead-end U-turn to be permitted")
	}
}

func TestBarrierBlocksNonStraightTurn(t *testing.T) {
	const V, N, E, S = 0, 1, 2, 3
	var input []nodegraph.InputEdge
	input = append(input, bidir(V, N, 10)...)
	input = append(input, bidir(V, E, 10)...)
	input = append(input, bidir(V, S, 10)...)

	g, err := nodegraph.Build(4, input)
	if err != nil {
		t.Fatal(err)
	}
	geom := geometry.NewContainer()
	for n := nodegraph.NodeID(0); int(n) < g.NodeCount(); n++ {
		g.ForEachEdge(n, func(e nodegraph.EdgeID) {
			geom.AddUncompressed(e, g.Target(e), g.EdgeData(e).Weight)
		})
	}
	restr := restriction.NewMap()
	barriers := map[nodegraph.NodeID]bool{V: true}

	f := New(g, geom, restr, barriers, nil, lookup(fourWayCoords()))
	result, err := f.Build()
	if err != nil {
		t.Fatal(err)
	}

	var fromN, toE, toS NodeID
	var foundFromN, foundToE, foundToS bool
	for _, n := range result.Nodes {
		switch {
		case n.U == N && n.V == V:
			fromN, foundFromN = n.ForwardID(), true
		case n.U == V && n.V == E:
			toE, foundToE = n.ForwardID(), true
		case n.U == V && n.V == S:
			toS, foundToS = n.ForwardID(), true
		}
	}
	if !foundFromN || !foundToE || !foundToS {
		t.Fatal("expected to find all three Nodes")
	}

	if countEdges(result.Edges, fromN, toE) != 0 {
		t.Error("expected the sharp turn through the barrier to be blocked")
	}
	if countEdges(result.Edges, fromN, toS) != 1 {
		t.Error("expected the straight pass-through at the barrier to be allowed")
	}
	if result.Stats.BarrierBlocked == 0 {
		t.Error("expected at least one barrier-blocked turn counted")
	}
}

func TestOneWaySegmentGetsInvalidReverseWeight(t *testing.T) {
	const U, V = 0, 1
	input := []nodegraph.InputEdge{
		{Source: U, Target: V, Data: nodegraph.EdgeData{Weight: 5, Direction: nodegraph.DirForward}},
	}
	g, err := nodegraph.Build(2, input)
	if err != nil {
		t.Fatal(err)
	}
	geom := geometry.NewContainer()
	e := g.FindEdge(U, V)
	geom.AddUncompressed(e, V, 5)

	restr := restriction.NewMap()
	coords := map[nodegraph.NodeID]coordinate.Coordinate{
		U: coordinate.FromDegrees(0, 0),
		V: coordinate.FromDegrees(0.001, 0),
	}
	f := New(g, geom, restr, nil, nil, lookup(coords))
	result, err := f.Build()
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Nodes) != 1 {
		t.Fatalf("expected exactly one Node for the one-way segment, got %d", len(result.Nodes))
	}
	n := result.Nodes[0]
	if n.ReverseEdge != nodegraph.InvalidEdge {
		t.Error("expected no reverse edge for a one-way segment")
	}
	if n.ReverseWeight != InvalidWeight {
		t.Errorf("expected ReverseWeight == InvalidWeight, got %d", n.ReverseWeight)
	}
}
