package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/katalvlaran/routekernel/artifact"
	"github.com/katalvlaran/routekernel/compressor"
	"github.com/katalvlaran/routekernel/config"
	"github.com/katalvlaran/routekernel/coordinate"
	"github.com/katalvlaran/routekernel/edgebased"
	"github.com/katalvlaran/routekernel/geometry"
	"github.com/katalvlaran/routekernel/nodegraph"
	"github.com/katalvlaran/routekernel/restriction"
	"github.com/katalvlaran/routekernel/scc"
	"github.com/katalvlaran/routekernel/spatial"
)

// runBuild executes the full C1-C7 pipeline over cfg.InputPath and writes
// the artifact streams cfg.FacadePaths names. Per spec.md §7, a build
// either writes every stream or leaves none usable: the manifest, which
// facade.Load checks first, is written last, after every other stream has
// landed on disk.
func runBuild(cfg *config.Config) error {
	logger := cfg.Logger()
	start := time.Now()

	input, err := readInput(cfg.InputPath)
	if err != nil {
		return fmt.Errorf("build: read input: %w", err)
	}
	logger.Info("build: input decoded", "nodes", len(input.Nodes), "edges", len(input.Edges),
		"restrictions", len(input.Restrictions))

	coords := make([]coordinate.Coordinate, len(input.Nodes))
	for i, n := range input.Nodes {
		coords[i] = coordinate.Coordinate{Lat: n.Lat, Lon: n.Lon}
	}

	graph, err := nodegraph.Build(len(input.Nodes), toInputEdges(input.Edges), cfg.NodeGraphOptions()...)
	if err != nil {
		return fmt.Errorf("build: nodegraph: %w", err)
	}

	restrictions := restriction.NewMap()
	for _, r := range input.Restrictions {
		if err := restrictions.Insert(nodegraph.NodeID(r.From), nodegraph.NodeID(r.Via), nodegraph.NodeID(r.To), r.IsOnly); err != nil {
			return fmt.Errorf("build: restriction: %w", err)
		}
	}

	barriers := toNodeSet(input.Barriers)
	trafficLights := toNodeSet(input.TrafficLights)

	geom := geometry.NewContainer()
	compStats := compressor.New(graph, restrictions, geom, barriers, trafficLights, cfg.CompressorOptions()...).Compress()
	logger.Info("build: compression complete", "nodes_compressed", compStats.NodesCompressed)

	lookup := func(n nodegraph.NodeID) coordinate.Coordinate { return coords[n] }
	result, err := edgebased.New(graph, geom, restrictions, barriers, trafficLights, lookup, cfg.EdgeBasedOptions()...).Build()
	if err != nil {
		return fmt.Errorf("build: edge-based graph: %w", err)
	}
	logger.Info("build: edge-based graph complete", "nodes", result.Stats.NodeCount, "edges", result.Stats.EdgeCount,
		"restricted_turns", result.Stats.RestrictedTurns, "uturn_rejected", result.Stats.UTurnsRejected,
		"barrier_blocked", result.Stats.BarrierBlocked)

	sccResult := scc.New(cfg.SCCOptions()...).Run(result.SCCGraph())
	histogram := sccResult.Histogram()
	logger.Info("build: component labeling complete", "components", sccResult.ComponentCount(),
		"singletons", histogram.Singletons, "tiny", histogram.TinyComponents, "largest", histogram.LargestSize)

	componentSizes := make([]uint32, sccResult.ComponentCount())
	for i := range componentSizes {
		componentSizes[i] = uint32(sccResult.ComponentSize(uint32(i)))
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("build: create output dir: %w", err)
	}
	paths := cfg.FacadePaths()

	segments := toSegments(result, coords)
	index, err := spatial.Build(segments, cfg.SpatialOptions()...)
	if err != nil {
		return fmt.Errorf("build: spatial index: %w", err)
	}
	if err := index.Save(paths.LeafIndexPath, paths.RAMIndexPath); err != nil {
		return fmt.Errorf("build: save spatial index: %w", err)
	}

	outEdges := toOutputEdges(result)
	outNodes := toOutputNodes(result, graph, sccResult)

	edgesSum, err := writeChecksummed(paths.EdgesPath, func(w io.Writer) error { return artifact.WriteEdges(w, outEdges) })
	if err != nil {
		return fmt.Errorf("build: write edges: %w", err)
	}
	nodesSum, err := writeChecksummed(paths.NodesPath, func(w io.Writer) error { return artifact.WriteNodes(w, outNodes) })
	if err != nil {
		return fmt.Errorf("build: write nodes: %w", err)
	}
	geomSum, err := writeChecksummed(paths.GeometryPath, func(w io.Writer) error { return artifact.WriteGeometry(w, geom) })
	if err != nil {
		return fmt.Errorf("build: write geometry: %w", err)
	}

	if err := writePlain(paths.ComponentsPath, func(w io.Writer) error { return artifact.WriteComponentSizes(w, componentSizes) }); err != nil {
		return fmt.Errorf("build: write component sizes: %w", err)
	}

	manifest := artifact.Manifest{EdgesSum: edgesSum, NodesSum: nodesSum, GeometrySum: geomSum}
	if err := writePlain(paths.ManifestPath, func(w io.Writer) error { return artifact.WriteManifest(w, manifest) }); err != nil {
		return fmt.Errorf("build: write manifest: %w", err)
	}

	logger.Info("build: complete", "elapsed", time.Since(start))
	return nil
}

func readInput(path string) (*artifact.InputGraph, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return artifact.ReadInputGraph(file)
}

// toInputEdges expands each wire EdgeRecord into one or two nodegraph.
// InputEdge entries. A bidirectional record becomes a forward slot and a
// Reversed mirror slot, both carrying DirBoth (the compressor and edge-based
// factory both use Direction to test whether two collapsible edges still
// agree on directionality after a contraction); a one-way record becomes a
// single slot traveling whichever way it is open, never marked Reversed
// since it has no mirror to be the reverse of.
func toInputEdges(edges []artifact.EdgeRecord) []nodegraph.InputEdge {
	out := make([]nodegraph.InputEdge, 0, len(edges)*2)
	for _, e := range edges {
		flags := nodegraph.Flags(e.Flags)
		switch e.Direction {
		case artifact.DirBoth:
			out = append(out,
				nodegraph.InputEdge{
					Source: nodegraph.NodeID(e.Source), Target: nodegraph.NodeID(e.Target),
					Data: nodegraph.EdgeData{Weight: e.Weight, Direction: nodegraph.DirBoth, NameID: e.NameID, RoadClass: e.Type, Flags: flags},
				},
				nodegraph.InputEdge{
					Source: nodegraph.NodeID(e.Target), Target: nodegraph.NodeID(e.Source),
					Data: nodegraph.EdgeData{Weight: e.Weight, Direction: nodegraph.DirBoth, NameID: e.NameID, RoadClass: e.Type, Flags: flags, Reversed: true},
				},
			)
		case artifact.DirForward:
			out = append(out, nodegraph.InputEdge{
				Source: nodegraph.NodeID(e.Source), Target: nodegraph.NodeID(e.Target),
				Data: nodegraph.EdgeData{Weight: e.Weight, Direction: nodegraph.DirForward, NameID: e.NameID, RoadClass: e.Type, Flags: flags},
			})
		case artifact.DirBackward:
			out = append(out, nodegraph.InputEdge{
				Source: nodegraph.NodeID(e.Target), Target: nodegraph.NodeID(e.Source),
				Data: nodegraph.EdgeData{Weight: e.Weight, Direction: nodegraph.DirBackward, NameID: e.NameID, RoadClass: e.Type, Flags: flags},
			})
		}
	}
	return out
}

func toNodeSet(ids []uint32) map[nodegraph.NodeID]bool {
	set := make(map[nodegraph.NodeID]bool, len(ids))
	for _, id := range ids {
		set[nodegraph.NodeID(id)] = true
	}
	return set
}

// toSegments builds one spatial.Segment per edge-based Node, per the
// one-Segment-per-physical-pair layout spatial.Segment documents.
func toSegments(result *edgebased.Result, coords []coordinate.Coordinate) []spatial.Segment {
	segments := make([]spatial.Segment, len(result.Nodes))
	for i, n := range result.Nodes {
		reverseNode := spatial.InvalidNode
		if n.ReverseEdge != nodegraph.InvalidEdge {
			reverseNode = uint32(n.ReverseID())
		}
		segments[i] = spatial.Segment{
			ID:            uint32(i),
			Start:         coords[n.U],
			End:           coords[n.V],
			ForwardNode:   uint32(n.ForwardID()),
			ReverseNode:   reverseNode,
			ForwardWeight: n.ForwardWeight,
			ReverseWeight: n.ReverseWeight,
			IsStartpoint:  n.IsStartpoint,
		}
	}
	return segments
}

func toOutputEdges(result *edgebased.Result) []artifact.OutputEdgeRecord {
	out := make([]artifact.OutputEdgeRecord, len(result.Edges))
	for i, e := range result.Edges {
		// A Node's travel-mode mask is not modeled yet (spec.md §3 carries
		// no per-mode data); every permitted turn is forward-traversable
		// only, matching how edge-based edges are consumed by a search.
		out[i] = artifact.OutputEdgeRecord{From: uint32(e.From), To: uint32(e.To), Weight: e.Weight, Forward: 1}
	}
	return out
}

// toOutputNodes derives the per-node metadata not already carried by the
// spatial segment: packed geometry id, street name, component id (from the
// node's forward direction, per the same simplification facade.IsTiny
// applies), and the bearing classification recorded against the incoming
// edge arriving from n.U into n.V.
func toOutputNodes(result *edgebased.Result, graph *nodegraph.Graph, sccResult *scc.Result) []artifact.OutputNodeRecord {
	out := make([]artifact.OutputNodeRecord, len(result.Nodes))
	for i, n := range result.Nodes {
		cls := result.Classifications[edgebased.EdgeKey{From: n.U, Via: n.V}]
		out[i] = artifact.OutputNodeRecord{
			PackedGeometryID: n.PackedGeometryID,
			NameID:           graph.EdgeData(n.ForwardEdge).NameID,
			ComponentID:      sccResult.ComponentOf[n.ForwardID()],
			BearingClassID:   cls.BearingClassID,
		}
	}
	return out
}

// writeChecksummed writes encode's output to path while accumulating an
// FNV-1a digest over the same bytes, mirroring facade.Load's io.TeeReader
// read-side checksum with its write-side counterpart.
func writeChecksummed(path string, encode func(io.Writer) error) (uint64, error) {
	file, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	sum := artifact.NewChecksum()
	mw := io.MultiWriter(file, checksumWriter{sum})
	if err := encode(mw); err != nil {
		return 0, err
	}
	return sum.Sum64(), nil
}

func writePlain(path string, encode func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return encode(file)
}

type checksumWriter struct{ sum *artifact.Checksum }

func (w checksumWriter) Write(p []byte) (int, error) {
	w.sum.Write(p)
	return len(p), nil
}
