package scc

import "testing"

// listGraph is a plain adjacency-list Graph used only by tests.
type listGraph struct {
	adj [][]NodeID
}

func (g *listGraph) NodeCount() int { return len(g.adj) }
func (g *listGraph) ForEachSuccessor(n NodeID, fn func(NodeID)) {
	for _, v := range g.adj[n] {
		fn(v)
	}
}

func TestSingleCycleIsOneComponent(t *testing.T) {
	// 0 -> 1 -> 2 -> 0
	g := &listGraph{adj: [][]NodeID{
		0: {1},
		1: {2},
		2: {0},
	}}
	r := New().Run(g)
	if r.ComponentCount() != 1 {
		t.Fatalf("expected 1 component, got %d", r.ComponentCount())
	}
	if r.ComponentSize(r.ComponentOf[0]) != 3 {
		t.Fatalf("expected component size 3, got %d", r.ComponentSize(r.ComponentOf[0]))
	}
}

func TestDisjointSingletonsAreOwnComponents(t *testing.T) {
	// 0 -> 1, 2 -> 3, no cycles at all
	g := &listGraph{adj: [][]NodeID{
		0: {1},
		1: {},
		2: {3},
		3: {},
	}}
	r := New().Run(g)
	if r.ComponentCount() != 4 {
		t.Fatalf("expected 4 singleton components, got %d", r.ComponentCount())
	}
	for n := NodeID(0); n < 4; n++ {
		if r.ComponentSize(r.ComponentOf[n]) != 1 {
			t.Errorf("node %d: expected singleton component, got size %d", n, r.ComponentSize(r.ComponentOf[n]))
		}
	}
}

func TestTwoCyclesBridgedOneWayStayDistinct(t *testing.T) {
	// cycle A: 0<->1, cycle B: 2<->3, bridge 1 -> 2 (one-way, no return path)
	g := &listGraph{adj: [][]NodeID{
		0: {1},
		1: {0, 2},
		2: {3},
		3: {2},
	}}
	r := New().Run(g)
	if r.ComponentCount() != 2 {
		t.Fatalf("expected 2 components, got %d", r.ComponentCount())
	}
	if r.ComponentOf[0] != r.ComponentOf[1] {
		t.Error("expected nodes 0 and 1 in the same component")
	}
	if r.ComponentOf[2] != r.ComponentOf[3] {
		t.Error("expected nodes 2 and 3 in the same component")
	}
	if r.ComponentOf[0] == r.ComponentOf[2] {
		t.Error("expected the one-way-bridged cycles to stay distinct components")
	}
}

func TestDiamondWithDuplicateEdgeConverges(t *testing.T) {
	// 0 -> 1, 0 -> 2, 1 -> 3, 2 -> 3, and a duplicate 0 -> 1 edge to
	// exercise the "already visited before its frame popped" path.
	g := &listGraph{adj: [][]NodeID{
		0: {1, 1, 2},
		1: {3},
		2: {3},
		3: {},
	}}
	r := New().Run(g)
	if r.ComponentCount() != 4 {
		t.Fatalf("expected 4 singleton components (a DAG), got %d", r.ComponentCount())
	}
}

func TestHistogramBucketsBySize(t *testing.T) {
	g := &listGraph{adj: [][]NodeID{
		0: {1}, 1: {0}, // size-2 component
		2: {}, // singleton
	}}
	r := New(WithTinyThreshold(3)).Run(g)
	h := r.Histogram()
	if h.Singletons != 1 {
		t.Errorf("expected 1 singleton, got %d", h.Singletons)
	}
	if h.TinyComponents != 1 {
		t.Errorf("expected 1 tiny component, got %d", h.TinyComponents)
	}
	if h.LargestSize != 2 {
		t.Errorf("expected largest size 2, got %d", h.LargestSize)
	}
}

func TestIsTinyRespectsThreshold(t *testing.T) {
	g := &listGraph{adj: [][]NodeID{
		0: {1}, 1: {0},
	}}
	r := New(WithTinyThreshold(5)).Run(g)
	if !r.IsTiny(0) {
		t.Error("expected a size-2 component under threshold 5 to be tiny")
	}
	r2 := New(WithTinyThreshold(1)).Run(g)
	if r2.IsTiny(0) {
		t.Error("expected a size-2 component to not be tiny under threshold 1")
	}
}
