package facade

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/katalvlaran/routekernel/artifact"
	"github.com/katalvlaran/routekernel/coordinate"
	"github.com/katalvlaran/routekernel/geometry"
	"github.com/katalvlaran/routekernel/nodegraph"
	"github.com/katalvlaran/routekernel/spatial"
)

func writeTestArtifacts(t *testing.T) Paths {
	t.Helper()
	dir := t.TempDir()
	paths := Paths{
		EdgesPath:      filepath.Join(dir, "edges.bin"),
		NodesPath:      filepath.Join(dir, "nodes.bin"),
		GeometryPath:   filepath.Join(dir, "geometry.bin"),
		ComponentsPath: filepath.Join(dir, "components.bin"),
		ManifestPath:   filepath.Join(dir, "manifest.bin"),
		LeafIndexPath:  filepath.Join(dir, "leaf.bin"),
		RAMIndexPath:   filepath.Join(dir, "ram.bin"),
	}

	edges := []artifact.OutputEdgeRecord{{From: 0, To: 2, Weight: 10, Forward: 1}}
	nodes := []artifact.OutputNodeRecord{
		{PackedGeometryID: 0, NameID: 1, ComponentID: 0, TravelModes: 1, BearingClassID: 0},
		{PackedGeometryID: 1, NameID: 2, ComponentID: 1, TravelModes: 1, BearingClassID: 0},
	}
	sizes := []uint32{2000, 5}

	c := geometry.NewContainer()
	c.AddUncompressed(nodegraph.EdgeID(0), nodegraph.NodeID(1), 10)

	writeArtifactFile(t, paths.EdgesPath, func(w *os.File) error { return artifact.WriteEdges(w, edges) })
	writeArtifactFile(t, paths.NodesPath, func(w *os.File) error { return artifact.WriteNodes(w, nodes) })
	writeArtifactFile(t, paths.GeometryPath, func(w *os.File) error { return artifact.WriteGeometry(w, c) })
	writeArtifactFile(t, paths.ComponentsPath, func(w *os.File) error { return artifact.WriteComponentSizes(w, sizes) })

	edgesSum := digestFile(t, paths.EdgesPath)
	nodesSum := digestFile(t, paths.NodesPath)
	geomSum := digestFile(t, paths.GeometryPath)
	writeArtifactFile(t, paths.ManifestPath, func(w *os.File) error {
		return artifact.WriteManifest(w, artifact.Manifest{EdgesSum: edgesSum, NodesSum: nodesSum, GeometrySum: geomSum})
	})

	segments := []spatial.Segment{
		{ID: 1, Start: coordinate.FromDegrees(0, 0), End: coordinate.FromDegrees(0, 1),
			ForwardNode: 0, ReverseNode: 1, ForwardWeight: 10, ReverseWeight: 10, IsStartpoint: true},
		{ID: 2, Start: coordinate.FromDegrees(10, 10), End: coordinate.FromDegrees(10, 11),
			ForwardNode: 2, ReverseNode: 3, ForwardWeight: 5, ReverseWeight: 5, IsStartpoint: true},
	}
	idx, err := spatial.Build(segments)
	if err != nil {
		t.Fatalf("spatial.Build: %v", err)
	}
	if err := idx.Save(paths.LeafIndexPath, paths.RAMIndexPath); err != nil {
		t.Fatalf("spatial.Save: %v", err)
	}

	return paths
}

func writeArtifactFile(t *testing.T, path string, write func(*os.File) error) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := write(f); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func digestFile(t *testing.T, path string) uint64 {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	sum := artifact.NewChecksum()
	sum.Write(b)
	return sum.Sum64()
}

func TestLoadRoundTrip(t *testing.T) {
	paths := writeTestArtifacts(t)

	f, err := Load(paths)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(f.Edges) != 1 || len(f.Nodes) != 2 {
		t.Fatalf("unexpected facade contents: edges=%d nodes=%d", len(f.Edges), len(f.Nodes))
	}
	if f.Index.Len() != 2 {
		t.Fatalf("expected 2 indexed segments, got %d", f.Index.Len())
	}

	// node 0 (forward id 0/1) -> component 0, size 2000: not tiny.
	if f.IsTiny(0) {
		t.Errorf("expected node 0 to not be tiny")
	}
	// node 2 (forward id 2/3) -> component 1, size 5: tiny.
	if !f.IsTiny(2) {
		t.Errorf("expected node 2 to be tiny")
	}

	result := f.RobustSnap(coordinate.FromDegrees(10, 10.5))
	if result.BestAny == nil {
		t.Fatalf("expected a BestAny result")
	}
}

func TestLoadRejectsManifestMismatch(t *testing.T) {
	paths := writeTestArtifacts(t)

	// Corrupt the edges file after the manifest was computed from its
	// original bytes.
	writeArtifactFile(t, paths.EdgesPath, func(w *os.File) error {
		return artifact.WriteEdges(w, []artifact.OutputEdgeRecord{{From: 9, To: 9, Weight: 1}})
	})

	_, err := Load(paths)
	if err == nil {
		t.Fatalf("expected manifest mismatch error")
	}
}
