package spatial

import (
	"github.com/katalvlaran/routekernel/coordinate"
	"github.com/katalvlaran/routekernel/psort"
)

// Index is the built, queryable spatial index (spec.md §4.6): a leaf
// array plus a branch tree over it. Immutable after Build/Load — safe
// for concurrent queries (spec.md §5 "query-time parallelism").
type Index struct {
	leaves   []leaf
	branches []branchNode
	root     uint32
	isEmpty  bool
	opts     *options
}

// Empty reports whether the index holds zero segments.
func (idx *Index) Empty() bool { return idx.isEmpty }

// Len returns the total number of indexed segments.
func (idx *Index) Len() int {
	n := 0
	for _, l := range idx.leaves {
		n += len(l.Entries)
	}
	return n
}

func segmentBox(s Segment) Box {
	start := coordinate.ToMercator(s.Start)
	end := coordinate.ToMercator(s.End)
	return boxOf(start).expand(end)
}

type rankedSegment struct {
	seg     Segment
	box     Box
	hilbert uint32
}

// Build packs segments into a fanout-F, leaf-capacity-L tree (spec.md
// §4.6 "Build"). Segments are sorted by Hilbert-curve rank on their
// bounding-box centroid via psort.Sort, the one parallel-sort primitive
// the kernel uses at build time (spec.md §5).
func Build(segments []Segment, opts ...Option) (*Index, error) {
	if len(segments) == 0 {
		return nil, ErrEmptyIndex
	}
	o := newOptions(opts...)

	ranked := make([]rankedSegment, len(segments))
	for i, s := range segments {
		box := segmentBox(s)
		centroid := coordinate.Point{X: (box.MinX + box.MaxX) / 2, Y: (box.MinY + box.MaxY) / 2}
		ranked[i] = rankedSegment{seg: s, box: box, hilbert: hilbertIndex(centroid)}
	}

	psort.Sort(ranked, func(a, b rankedSegment) bool {
		if a.hilbert != b.hilbert {
			return a.hilbert < b.hilbert
		}
		return a.seg.ID < b.seg.ID
	})

	leaves := packLeaves(ranked, o.leafCapacity)
	branches, root := packBranches(leaves, o.fanout)

	o.logger.Debug("spatial: index built", "segments", len(segments), "leaves", len(leaves), "branches", len(branches))

	return &Index{leaves: leaves, branches: branches, root: root, opts: o}, nil
}

func packLeaves(ranked []rankedSegment, capacity int) []leaf {
	var leaves []leaf
	for i := 0; i < len(ranked); i += capacity {
		end := i + capacity
		if end > len(ranked) {
			end = len(ranked)
		}
		chunk := ranked[i:end]
		l := leaf{Entries: make([]Segment, len(chunk))}
		l.Box = chunk[0].box
		for j, r := range chunk {
			l.Entries[j] = r.seg
			l.Box = l.Box.union(r.box)
		}
		leaves = append(leaves, l)
	}
	return leaves
}

type levelItem struct {
	box Box
	knd kind
	ref uint32
}

// packBranches builds the branch tree bottom-up over leaves, fanout F
// per branch, and returns the flat branch slice plus the root's index
// into it (spec.md §4.6 "Recursively pack F consecutive leaf/branch
// boxes into a parent branch until a single root remains").
func packBranches(leaves []leaf, fanout int) ([]branchNode, uint32) {
	items := make([]levelItem, len(leaves))
	for i, l := range leaves {
		items[i] = levelItem{box: l.Box, knd: kindLeaf, ref: uint32(i)}
	}

	var branches []branchNode
	for len(items) > 1 {
		levelStart := len(branches)
		for i := 0; i < len(items); i += fanout {
			end := i + fanout
			if end > len(items) {
				end = len(items)
			}
			chunk := items[i:end]
			box := chunk[0].box
			for _, it := range chunk[1:] {
				box = box.union(it.box)
			}
			branches = append(branches, branchNode{
				Box:        box,
				FirstChild: chunk[0].ref,
				ChildCount: uint16(len(chunk)),
				Kind:       chunk[0].knd,
			})
		}

		next := make([]levelItem, 0, len(branches)-levelStart)
		for i := levelStart; i < len(branches); i++ {
			next = append(next, levelItem{box: branches[i].Box, knd: kindBranch, ref: uint32(i)})
		}
		items = next
	}

	if len(items) == 0 {
		return nil, 0
	}
	if items[0].knd == kindLeaf {
		// A single leaf with no parent yet: synthesize a root branch
		// wrapping it directly.
		branches = append(branches, branchNode{Box: items[0].box, FirstChild: items[0].ref, ChildCount: 1, Kind: kindLeaf})
		return branches, uint32(len(branches) - 1)
	}
	return branches, items[0].ref
}
