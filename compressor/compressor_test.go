package compressor

import (
	"testing"

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

// TestScenarioADegreeTwoCompression mirrors spec.md §8 Scenario A.
func TestScenarioADegreeTwoCompression(t *testing.T) {
	var input []nodegraph.InputEdge
	input = append(input, bidir(0, 1, 1)...)
	input = append(input, bidir(1, 2, 1)...)
	input = append(input, bidir(2, 3, 1)...)
	input = append(input, bidir(3, 4, 1)...)

	g, err := nodegraph.Build(5, input)
	if err != nil {
		t.Fatal(err)
	}
	geom := geometry.NewContainer()
	restr := restriction.NewMap()
	c := New(g, restr, geom, nil, nil)
	stats := c.Compress()

	if stats.NodesCompressed != 3 {
		t.Fatalf("expected 3 interior nodes compressed, got %d", stats.NodesCompressed)
	}

	for _, pair := range [][2]nodegraph.NodeID{{0, 1}, {1, 2}, {2, 3}, {3, 4}} {
		if g.FindEdge(pair[0], pair[1]) != nodegraph.InvalidEdge {
			t.Fatalf("expected edge %d->%d to be gone", pair[0], pair[1])
		}
	}

	e04 := g.FindEdge(0, 4)
	if e04 == nodegraph.InvalidEdge {
		t.Fatal("expected surviving edge 0->4")
	}
	if w := g.EdgeData(e04).Weight; w != 4 {
		t.Fatalf("expected weight 4, got %d", w)
	}

	bucket, ok := geom.GetBucket(e04)
	if !ok || len(bucket) != 4 {
		t.Fatalf("expected 4-entry bucket, got %+v", bucket)
	}
	if bucket[len(bucket)-1].Node != 4 {
		t.Fatalf("expected final bucket node to be target 4, got %d", bucket[len(bucket)-1].Node)
	}
	wantWeights := []uint32{1, 2, 3, 4}
	for i, e := range bucket {
		if e.CumulativeWeight != wantWeights[i] {
			t.Fatalf("entry %d: got weight %d, want %d", i, e.CumulativeWeight, wantWeights[i])
		}
	}

	e40 := g.FindEdge(4, 0)
	if e40 == nodegraph.InvalidEdge {
		t.Fatal("expected surviving reverse edge 4->0")
	}
	if w := g.EdgeData(e40).Weight; w != 4 {
		t.Fatalf("expected reverse weight 4, got %d", w)
	}
}

// TestScenarioBBarrierPreventsCompression mirrors spec.md §8 Scenario B.
func TestScenarioBBarrierPreventsCompression(t *testing.T) {
	var input []nodegraph.InputEdge
	input = append(input, bidir(0, 1, 1)...)
	input = append(input, bidir(1, 2, 1)...)
	input = append(input, bidir(2, 3, 1)...)
	input = append(input, bidir(3, 4, 1)...)

	g, err := nodegraph.Build(5, input)
	if err != nil {
		t.Fatal(err)
	}
	geom := geometry.NewContainer()
	restr := restriction.NewMap()
	barriers := map[nodegraph.NodeID]bool{2: true}
	c := New(g, restr, geom, barriers, nil)
	c.Compress()

	e02 := g.FindEdge(0, 2)
	e24 := g.FindEdge(2, 4)
	if e02 == nodegraph.InvalidEdge || e24 == nodegraph.InvalidEdge {
		t.Fatal("expected edges 0->2 and 2->4 after compressing around the barrier")
	}
	if w := g.EdgeData(e02).Weight; w != 2 {
		t.Fatalf("expected weight 2 for 0->2, got %d", w)
	}
	if w := g.EdgeData(e24).Weight; w != 2 {
		t.Fatalf("expected weight 2 for 2->4, got %d", w)
	}
	if g.FindEdge(0, 4) != nodegraph.InvalidEdge {
		t.Fatal("expected no direct 0->4 edge: the barrier must not be skipped over")
	}
}

// TestScenarioCTIntersectionBlocksCompression mirrors spec.md §8 Scenario C.
func TestScenarioCTIntersectionBlocksCompression(t *testing.T) {
	var input []nodegraph.InputEdge
	input = append(input, bidir(0, 1, 1)...)
	input = append(input, bidir(1, 2, 1)...)
	input = append(input, bidir(1, 3, 1)...)

	g, err := nodegraph.Build(4, input)
	if err != nil {
		t.Fatal(err)
	}
	geom := geometry.NewContainer()
	restr := restriction.NewMap()
	c := New(g, restr, geom, nil, nil)
	stats := c.Compress()

	if stats.NodesCompressed != 0 {
		t.Fatalf("expected no compression at a T-intersection, got %d", stats.NodesCompressed)
	}
	for _, pair := range [][2]nodegraph.NodeID{{0, 1}, {1, 2}, {1, 3}} {
		if g.FindEdge(pair[0], pair[1]) == nodegraph.InvalidEdge {
			t.Fatalf("expected edge %d->%d to survive", pair[0], pair[1])
		}
	}
}

func TestCompressionIsIdempotent(t *testing.T) {
	var input []nodegraph.InputEdge
	input = append(input, bidir(0, 1, 1)...)
	input = append(input, bidir(1, 2, 1)...)
	input = append(input, bidir(2, 3, 1)...)

	g, err := nodegraph.Build(4, input)
	if err != nil {
		t.Fatal(err)
	}
	geom := geometry.NewContainer()
	restr := restriction.NewMap()
	c := New(g, restr, geom, nil, nil)
	c.Compress()

	edgesBefore := g.FindEdge(0, 3)
	bucketBefore, _ := geom.GetBucket(edgesBefore)

	stats := c.Compress()
	if stats.NodesCompressed != 0 {
		t.Fatalf("expected a second pass to be a no-op, compressed %d", stats.NodesCompressed)
	}
	bucketAfter, _ := geom.GetBucket(edgesBefore)
	if len(bucketBefore) != len(bucketAfter) {
		t.Fatalf("expected bucket unchanged by idempotent pass: %+v vs %+v", bucketBefore, bucketAfter)
	}
}
