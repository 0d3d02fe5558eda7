package geometry

import (
	"errors"

	"github.com/katalvlaran/routekernel/nodegraph"
)

// Sentinel errors for geometry operations.
var (
	// ErrEdgeRetired indicates an operation referenced an edge already
	// absorbed into another bucket by Compress.
	ErrEdgeRetired = errors.New("geometry: edge already retired by compression")

	// ErrBucketLengthMismatch indicates ZipEdges was called on two
	// directional buckets of differing length, violating spec.md §4.2's
	// zip invariant.
	ErrBucketLengthMismatch = errors.New("geometry: forward/reverse bucket length mismatch")

	// ErrNoBucket indicates ZipEdges was called before both directions
	// had a bucket (via Compress or AddUncompressed).
	ErrNoBucket = errors.New("geometry: edge has no geometry bucket yet")
)

// BucketEntry is one record of a compressed-edge geometry bucket: an
// intermediate node and the cumulative weight from the bucket's owning
// edge's source up to (and including) that node.
type BucketEntry struct {
	Node             nodegraph.NodeID
	CumulativeWeight uint32
}

// Container is the CompressedEdgeContainer (C2): a map from edge id to its
// geometry bucket, plus the zipped bothway vectors produced by ZipEdges.
type Container struct {
	buckets map[nodegraph.EdgeID][]BucketEntry
	retired map[nodegraph.EdgeID]bool

	zipped     map[uint32][]BucketEntry
	nextZip    uint32
	zippedFrom map[nodegraph.EdgeID]bool
}

// NewContainer returns an empty CompressedEdgeContainer.
func NewContainer() *Container {
	return &Container{
		buckets:    make(map[nodegraph.EdgeID][]BucketEntry),
		retired:    make(map[nodegraph.EdgeID]bool),
		zipped:     make(map[uint32][]BucketEntry),
		zippedFrom: make(map[nodegraph.EdgeID]bool),
	}
}

// Compress merges the geometry of edge2 onto edge1 during the contraction
// of u–v–w (spec.md §4.2): bucket(edge2)'s entries are appended to
// bucket(edge1), each cumulative weight shifted by w1 (edge1's
// pre-contraction weight, i.e. the weight of u→v). edge2 is marked
// retired; callers must not address it again except to confirm retirement.
//
// v and w are the contraction's middle and far node; w1, w2 are the
// pre-contraction weights of u→v and v→w respectively.
func (c *Container) Compress(edge1, edge2 nodegraph.EdgeID, v, w nodegraph.NodeID, w1, w2 uint32) error {
	if c.retired[edge2] {
		return ErrEdgeRetired
	}

	bucket1, ok := c.buckets[edge1]
	if !ok {
		bucket1 = []BucketEntry{{Node: v, CumulativeWeight: w1}}
	}

	bucket2, ok := c.buckets[edge2]
	if !ok {
		bucket2 = []BucketEntry{{Node: w, CumulativeWeight: w2}}
	}

	merged := make([]BucketEntry, 0, len(bucket1)+len(bucket2))
	merged = append(merged, bucket1...)
	for _, e := range bucket2 {
		merged = append(merged, BucketEntry{Node: e.Node, CumulativeWeight: e.CumulativeWeight + w1})
	}

	c.buckets[edge1] = merged
	delete(c.buckets, edge2)
	c.retired[edge2] = true
	return nil
}

// AddUncompressed lazily creates a length-1 bucket {target, weight} for
// edge, if it does not already have one. Must be called after all
// Compress calls touching edge are done — calling it first would leave a
// later Compress call appending onto a premature single-entry bucket,
// which is harmless for edge1 (it already handles the missing-bucket case)
// but would silently no-op for an edge that should instead have received
// further compression.
func (c *Container) AddUncompressed(edge nodegraph.EdgeID, target nodegraph.NodeID, weight uint32) {
	if c.retired[edge] {
		return
	}
	if _, ok := c.buckets[edge]; ok {
		return
	}
	c.buckets[edge] = []BucketEntry{{Node: target, CumulativeWeight: weight}}
}

// GetBucket returns the geometry bucket for edge and whether it exists.
func (c *Container) GetBucket(edge nodegraph.EdgeID) ([]BucketEntry, bool) {
	b, ok := c.buckets[edge]
	return b, ok
}

// IsRetired reports whether edge was absorbed by a Compress call and
// should no longer be addressed directly.
func (c *Container) IsRetired(edge nodegraph.EdgeID) bool { return c.retired[edge] }

// ZipEdges merges the forward and reverse directional buckets of one
// physical (bidirectional) road into a single packed bothway geometry id,
// per spec.md §4.2: both directions traverse the same physical points, so
// the packed id stores the node sequence once, in forward order, as the
// canonical geometry. Per-direction weights are not recomputed here — the
// forward and reverse EdgeBasedNode records each keep their own
// CumulativeWeight from their own bucket; only the shared point sequence
// is deduplicated into the zipped id.
//
// Requires forward and reverse buckets of equal length (spec.md §4.2's
// invariant); returns ErrBucketLengthMismatch otherwise.
func (c *Container) ZipEdges(forward, reverse nodegraph.EdgeID) (uint32, error) {
	fwd, ok := c.buckets[forward]
	if !ok {
		return 0, ErrNoBucket
	}
	rev, ok := c.buckets[reverse]
	if !ok {
		return 0, ErrNoBucket
	}
	if len(fwd) != len(rev) {
		return 0, ErrBucketLengthMismatch
	}

	zipped := make([]BucketEntry, len(fwd))
	copy(zipped, fwd)

	id := c.nextZip
	c.nextZip++
	c.zipped[id] = zipped
	c.zippedFrom[forward] = true
	c.zippedFrom[reverse] = true
	return id, nil
}

// IsZippedSource reports whether edge's bucket was folded into a packed
// bothway vector by ZipEdges. Its per-direction bucket in GetBucket remains
// addressable (the per-direction cumulative weights still differ), but it
// should be skipped when serializing the unzipped geometry section, since
// its points are already covered by the zipped vector.
func (c *Container) IsZippedSource(edge nodegraph.EdgeID) bool { return c.zippedFrom[edge] }

// ZippedBucket returns the packed bothway geometry previously produced by
// ZipEdges.
func (c *Container) ZippedBucket(packedID uint32) ([]BucketEntry, bool) {
	b, ok := c.zipped[packedID]
	return b, ok
}

// ForEachBucket calls fn once per surviving, non-zipped-source bucket, for
// serializing the "unzipped per-edge buckets" section of the geometry
// artifact (spec.md §6). Buckets absorbed into a zipped bothway vector by
// ZipEdges are skipped, since their points are covered by that vector.
func (c *Container) ForEachBucket(fn func(edge nodegraph.EdgeID, bucket []BucketEntry)) {
	for edge, bucket := range c.buckets {
		if c.zippedFrom[edge] {
			continue
		}
		fn(edge, bucket)
	}
}

// ForEachZipped calls fn once per zipped bothway vector, for serializing
// the "zipped bothway vectors" section of the geometry artifact (spec.md
// §6).
func (c *Container) ForEachZipped(fn func(packedID uint32, bucket []BucketEntry)) {
	for id, bucket := range c.zipped {
		fn(id, bucket)
	}
}
