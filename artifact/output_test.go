package artifact

import (
	"bytes"
	"testing"

	"github.com/katalvlaran/routekernel/geometry"
	"github.com/katalvlaran/routekernel/nodegraph"
)

func TestWriteReadEdgesRoundTrip(t *testing.T) {
	edges := []OutputEdgeRecord{
		{From: 0, To: 2, Weight: 15, Forward: 1, Backward: 0},
		{From: 2, To: 4, Weight: 9, Forward: 1, Backward: 1},
	}
	var buf bytes.Buffer
	if err := WriteEdges(&buf, edges); err != nil {
		t.Fatalf("WriteEdges: %v", err)
	}
	got, err := ReadEdges(&buf)
	if err != nil {
		t.Fatalf("ReadEdges: %v", err)
	}
	if len(got) != len(edges) {
		t.Fatalf("expected %d edges, got %d", len(edges), len(got))
	}
	for i := range edges {
		if got[i] != edges[i] {
			t.Errorf("edge %d: expected %+v, got %+v", i, edges[i], got[i])
		}
	}
}

func TestWriteReadNodesRoundTrip(t *testing.T) {
	nodes := []OutputNodeRecord{
		{PackedGeometryID: 1, NameID: 2, ComponentID: 3, TravelModes: 1, BearingClassID: 4},
		{PackedGeometryID: 5, NameID: 6, ComponentID: 7, TravelModes: 3, BearingClassID: 8},
	}
	var buf bytes.Buffer
	if err := WriteNodes(&buf, nodes); err != nil {
		t.Fatalf("WriteNodes: %v", err)
	}
	got, err := ReadNodes(&buf)
	if err != nil {
		t.Fatalf("ReadNodes: %v", err)
	}
	if len(got) != len(nodes) {
		t.Fatalf("expected %d nodes, got %d", len(nodes), len(got))
	}
	for i := range nodes {
		if got[i] != nodes[i] {
			t.Errorf("node %d: expected %+v, got %+v", i, nodes[i], got[i])
		}
	}
}

func TestWriteReadGeometryRoundTrip(t *testing.T) {
	c := geometry.NewContainer()
	c.AddUncompressed(nodegraph.EdgeID(1), nodegraph.NodeID(10), 5)
	c.AddUncompressed(nodegraph.EdgeID(2), nodegraph.NodeID(20), 7)
	if err := c.Compress(nodegraph.EdgeID(1), nodegraph.EdgeID(2), nodegraph.NodeID(10), nodegraph.NodeID(20), 5, 7); err != nil {
		t.Fatalf("Compress: %v", err)
	}
	c.AddUncompressed(nodegraph.EdgeID(3), nodegraph.NodeID(30), 2)
	c.AddUncompressed(nodegraph.EdgeID(4), nodegraph.NodeID(30), 2)
	zippedID, err := c.ZipEdges(nodegraph.EdgeID(3), nodegraph.EdgeID(4))
	if err != nil {
		t.Fatalf("ZipEdges: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteGeometry(&buf, c); err != nil {
		t.Fatalf("WriteGeometry: %v", err)
	}
	got, err := ReadGeometry(&buf)
	if err != nil {
		t.Fatalf("ReadGeometry: %v", err)
	}
	if len(got.Unzipped) != 1 {
		t.Fatalf("expected 1 surviving unzipped bucket (edge 1, after edge 2 retired), got %d", len(got.Unzipped))
	}
	if got.Unzipped[0].ID != 1 {
		t.Errorf("expected surviving bucket id 1, got %d", got.Unzipped[0].ID)
	}
	if len(got.Unzipped[0].Entries) != 2 {
		t.Errorf("expected 2 merged entries, got %d", len(got.Unzipped[0].Entries))
	}

	if len(got.Zipped) != 1 || got.Zipped[0].ID != zippedID {
		t.Fatalf("expected 1 zipped bucket with id %d, got %+v", zippedID, got.Zipped)
	}
	if len(got.Zipped[0].Entries) != 1 {
		t.Errorf("expected 1 zipped entry, got %d", len(got.Zipped[0].Entries))
	}
}

func TestNewChecksumIsDeterministic(t *testing.T) {
	a := NewChecksum()
	a.Write([]byte("hello"))
	a.Write([]byte("world"))

	b := NewChecksum()
	b.Write([]byte("helloworld"))

	if a.Sum64() != b.Sum64() {
		t.Errorf("expected identical digests for the same byte stream split differently, got %x vs %x", a.Sum64(), b.Sum64())
	}
}
