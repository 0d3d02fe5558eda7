package facade

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/katalvlaran/routekernel/artifact"
	"github.com/katalvlaran/routekernel/coordinate"
	"github.com/katalvlaran/routekernel/geoquery"
	"github.com/katalvlaran/routekernel/spatial"
)

// ErrManifestMismatch indicates a loaded edges/nodes/geometry stream's
// recomputed digest does not match the value recorded in the build's
// manifest file, per spec.md §7 ResourceExhaustion/InputCorruption
// ("builds either complete... or abort before writing any final file").
var ErrManifestMismatch = errors.New("facade: stream digest does not match manifest")

// Paths names every file one build's artifact set is spread across.
type Paths struct {
	EdgesPath      string
	NodesPath      string
	GeometryPath   string
	ComponentsPath string
	ManifestPath   string
	LeafIndexPath  string
	RAMIndexPath   string
}

// Option configures a DataFacade at Load time, following the teacher's
// functional-options idiom.
type Option func(*options)

type options struct {
	tinyThreshold int
	logger        *slog.Logger
}

// WithTinyThreshold overrides the component size below which IsTiny
// reports true (spec.md §4.7, default 1000).
func WithTinyThreshold(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.tinyThreshold = n
		}
	}
}

// WithLogger attaches a structured logger for load-time diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func newOptions(opts ...Option) *options {
	o := &options{tinyThreshold: 1000, logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// DataFacade is the sole process-wide handle onto one build's artifact set
// (spec.md §5/§9): loaded once, read-only, safe for concurrent queries.
type DataFacade struct {
	Edges          []artifact.OutputEdgeRecord
	Nodes          []artifact.OutputNodeRecord
	Geometry       *artifact.Geometry
	ComponentSizes []uint32

	Index *spatial.Index
	Query *geoquery.Query

	opts *options
}

// Load opens every file named by paths, decodes it, and cross-checks the
// edges/nodes/geometry digests against the build's manifest and the two
// spatial files' shared checksum (the latter enforced inside
// spatial.Load). No field of the returned DataFacade is ever partially
// populated: any error here means Load returns a nil facade.
func Load(paths Paths, opts ...Option) (*DataFacade, error) {
	o := newOptions(opts...)

	manifestFile, err := os.Open(paths.ManifestPath)
	if err != nil {
		return nil, fmt.Errorf("facade: open manifest: %w", err)
	}
	defer manifestFile.Close()
	manifest, err := artifact.ReadManifest(manifestFile)
	if err != nil {
		return nil, fmt.Errorf("facade: read manifest: %w", err)
	}

	edges, edgesSum, err := readChecksummed(paths.EdgesPath, artifact.ReadEdges)
	if err != nil {
		return nil, fmt.Errorf("facade: load edges: %w", err)
	}
	if edgesSum != manifest.EdgesSum {
		return nil, fmt.Errorf("facade: edges stream: %w", ErrManifestMismatch)
	}

	nodes, nodesSum, err := readChecksummed(paths.NodesPath, artifact.ReadNodes)
	if err != nil {
		return nil, fmt.Errorf("facade: load nodes: %w", err)
	}
	if nodesSum != manifest.NodesSum {
		return nil, fmt.Errorf("facade: nodes stream: %w", ErrManifestMismatch)
	}

	geom, geomSum, err := readChecksummed(paths.GeometryPath, artifact.ReadGeometry)
	if err != nil {
		return nil, fmt.Errorf("facade: load geometry: %w", err)
	}
	if geomSum != manifest.GeometrySum {
		return nil, fmt.Errorf("facade: geometry stream: %w", ErrManifestMismatch)
	}

	componentsFile, err := os.Open(paths.ComponentsPath)
	if err != nil {
		return nil, fmt.Errorf("facade: open component sizes: %w", err)
	}
	defer componentsFile.Close()
	sizes, err := artifact.ReadComponentSizes(componentsFile)
	if err != nil {
		return nil, fmt.Errorf("facade: read component sizes: %w", err)
	}

	index, err := spatial.Load(paths.LeafIndexPath, paths.RAMIndexPath, spatial.WithLogger(o.logger))
	if err != nil {
		return nil, fmt.Errorf("facade: load spatial index: %w", err)
	}

	o.logger.Debug("facade: load complete", "edges", len(edges), "nodes", len(nodes), "segments", index.Len())

	f := &DataFacade{
		Edges:          edges,
		Nodes:          nodes,
		Geometry:       geom,
		ComponentSizes: sizes,
		Index:          index,
		opts:           o,
	}
	f.Query = geoquery.New(index)
	return f, nil
}

// readChecksummed opens path, runs its bytes through an FNV-1a digest
// while decode reads them, and returns the decoded value plus the digest
// — so the caller can cross-check it against the build's manifest without
// buffering the whole file twice.
func readChecksummed[T any](path string, decode func(io.Reader) (T, error)) (T, uint64, error) {
	var zero T
	file, err := os.Open(path)
	if err != nil {
		return zero, 0, err
	}
	defer file.Close()

	sum := artifact.NewChecksum()
	tee := io.TeeReader(file, checksumWriter{sum})
	value, err := decode(tee)
	if err != nil {
		return zero, 0, err
	}
	return value, sum.Sum64(), nil
}

// checksumWriter adapts artifact.Checksum's Write method to io.Writer so
// it can sit behind io.TeeReader.
type checksumWriter struct {
	sum *artifact.Checksum
}

func (w checksumWriter) Write(p []byte) (int, error) {
	w.sum.Write(p)
	return len(p), nil
}

// IsTiny reports whether the component owning edge-based node id n (either
// travel direction) is smaller than the configured tiny threshold. Per the
// spatial package's one-Segment-per-Node simplification, both travel
// directions of a Node share its single persisted ComponentID.
func (f *DataFacade) IsTiny(n uint32) bool {
	idx := int(n / 2)
	if idx < 0 || idx >= len(f.Nodes) {
		return true
	}
	componentID := f.Nodes[idx].ComponentID
	if int(componentID) >= len(f.ComponentSizes) {
		return true
	}
	return int(f.ComponentSizes[componentID]) < f.opts.tinyThreshold
}

// RobustSnap wraps Query.RobustSnap with this facade's own IsTiny
// component lookup, so callers never need to wire edgebased/scc
// themselves.
func (f *DataFacade) RobustSnap(coord coordinate.Coordinate, opts ...spatial.QueryOption) geoquery.RobustSnapResult {
	return f.Query.RobustSnap(coord, f.IsTiny, opts...)
}
