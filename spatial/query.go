package spatial

import (
	"container/heap"
	"math"

	"github.com/katalvlaran/routekernel/coordinate"
)

// Nearest returns up to k segment matches for coord, nearest first, ties
// broken by ascending segment id (spec.md §5 "ordering guarantees").
func (idx *Index) Nearest(coord coordinate.Coordinate, k int, opts ...QueryOption) []PhantomNode {
	return idx.search(coord, k, math.Inf(1), newQueryOptions(opts...))
}

// NearestInRange returns every segment match within radiusMeters of
// coord, nearest first (spec.md §4.6 "Query — nearest-in-range").
func (idx *Index) NearestInRange(coord coordinate.Coordinate, radiusMeters float64, opts ...QueryOption) []PhantomNode {
	return idx.search(coord, math.MaxInt32, radiusMeters, newQueryOptions(opts...))
}

// Search returns every segment whose bounding box intersects bbox
// (spec.md §4.6 "Query — bounding box").
func (idx *Index) Search(bbox Box) []Segment {
	if idx.isEmpty {
		return nil
	}
	var out []Segment
	var walk func(node branchNode)
	walk = func(node branchNode) {
		if !node.Box.Intersects(bbox) {
			return
		}
		if node.Kind == kindLeaf {
			for li := node.FirstChild; li < node.FirstChild+uint32(node.ChildCount); li++ {
				for _, seg := range idx.leaves[li].Entries {
					if segmentBox(seg).Intersects(bbox) {
						out = append(out, seg)
					}
				}
			}
			return
		}
		for ci := node.FirstChild; ci < node.FirstChild+uint32(node.ChildCount); ci++ {
			walk(idx.branches[ci])
		}
	}
	walk(idx.branches[idx.root])
	return out
}

// qKind discriminates a priority-queue entry: either a tree node still to
// be expanded, or a concrete segment candidate awaiting the
// is_startpoint test (spec.md §4.6 "Query — nearest K").
type qKind uint8

const (
	qNode qKind = iota
	qSegment
)

type qItem struct {
	distSq float64
	knd    qKind
	branch uint32
	seg    Segment
}

type priorityQueue []qItem

func (q priorityQueue) Len() int { return len(q) }
func (q priorityQueue) Less(i, j int) bool {
	if q[i].distSq != q[j].distSq {
		return q[i].distSq < q[j].distSq
	}
	// stable tie-break: segment candidates always sort by id; node vs
	// node ties don't affect correctness, only exploration order.
	return q[i].seg.ID < q[j].seg.ID
}
func (q priorityQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *priorityQueue) Push(x any)   { *q = append(*q, x.(qItem)) }
func (q *priorityQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

func (idx *Index) search(coord coordinate.Coordinate, k int, radiusMeters float64, qo *queryOptions) []PhantomNode {
	if idx.isEmpty || k <= 0 {
		return nil
	}
	qp := coordinate.ToMercator(coord)
	radiusSq := radiusMeters * radiusMeters

	pq := &priorityQueue{{distSq: idx.branches[idx.root].Box.distanceSq(qp), knd: qNode, branch: idx.root}}
	heap.Init(pq)

	var results []PhantomNode
	for pq.Len() > 0 && len(results) < k {
		top := heap.Pop(pq).(qItem)
		if top.distSq > radiusSq {
			break // every remaining entry is >= this one; none can be in range
		}

		if top.knd == qNode {
			node := idx.branches[top.branch]
			if node.Kind == kindLeaf {
				for li := node.FirstChild; li < node.FirstChild+uint32(node.ChildCount); li++ {
					for _, seg := range idx.leaves[li].Entries {
						d := segmentDistanceSq(seg, qp)
						heap.Push(pq, qItem{distSq: d, knd: qSegment, seg: seg})
					}
				}
			} else {
				for ci := node.FirstChild; ci < node.FirstChild+uint32(node.ChildCount); ci++ {
					d := idx.branches[ci].Box.distanceSq(qp)
					heap.Push(pq, qItem{distSq: d, knd: qNode, branch: ci})
				}
			}
			continue
		}

		// qSegment: a concrete candidate, only emitted if eligible.
		if !top.seg.IsStartpoint {
			continue
		}
		phantom := idx.toPhantom(top.seg, qp, qo)
		if phantom == nil {
			continue // bearing filter excluded both directions
		}
		results = append(results, *phantom)
	}
	return results
}

// segmentDistanceSq returns the squared mercator distance from qp to the
// nearest point of seg's straight span.
func segmentDistanceSq(seg Segment, qp coordinate.Point) float64 {
	foot, _ := projectOnto(seg, qp)
	dx := foot.X - qp.X
	dy := foot.Y - qp.Y
	return dx*dx + dy*dy
}

// projectOnto returns the perpendicular foot of qp onto seg (clamped to
// the segment's extent) and the fraction along the segment [0,1].
func projectOnto(seg Segment, qp coordinate.Point) (coordinate.Point, float64) {
	start := coordinate.ToMercator(seg.Start)
	end := coordinate.ToMercator(seg.End)

	dx := end.X - start.X
	dy := end.Y - start.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return start, 0
	}

	t := ((qp.X-start.X)*dx + (qp.Y-start.Y)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	return coordinate.Point{X: start.X + t*dx, Y: start.Y + t*dy}, t
}

// toPhantom enriches seg into a PhantomNode, applying the bearing filter
// if requested (spec.md §4.6 "Query — bearing filter"): forward and
// reverse directions are tested independently against the window, and a
// direction failing the test is replaced with the invalid sentinel. If
// both directions fail, the whole match is dropped (nil).
func (idx *Index) toPhantom(seg Segment, qp coordinate.Point, qo *queryOptions) *PhantomNode {
	foot, frac := projectOnto(seg, qp)
	snapped := coordinate.FromMercator(foot)

	forwardNode, forwardWeight := seg.ForwardNode, proratedWeight(seg.ForwardWeight, frac)
	reverseNode, reverseWeight := seg.ReverseNode, InvalidWeight
	if seg.ReverseNode != InvalidNode {
		reverseWeight = proratedWeight(seg.ReverseWeight, 1-frac)
	}

	if qo.hasBearing {
		forwardBearing := coordinate.BearingDegrees(seg.Start, seg.End)
		if !withinBearingWindow(forwardBearing, qo.bearing, qo.bearingRange) {
			forwardNode, forwardWeight = InvalidNode, InvalidWeight
		}
		if reverseNode != InvalidNode {
			reverseBearing := coordinate.BearingDegrees(seg.End, seg.Start)
			if !withinBearingWindow(reverseBearing, qo.bearing, qo.bearingRange) {
				reverseNode, reverseWeight = InvalidNode, InvalidWeight
			}
		}
		if forwardNode == InvalidNode && reverseNode == InvalidNode {
			return nil
		}
	}

	return &PhantomNode{
		SegmentID:      seg.ID,
		Snapped:        snapped,
		FractionAlong:  frac,
		ForwardNode:    forwardNode,
		ReverseNode:    reverseNode,
		ForwardWeight:  forwardWeight,
		ReverseWeight:  reverseWeight,
		DistanceMeters: coordinate.HaversineMeters(coordinate.FromMercator(qp), snapped),
	}
}

func proratedWeight(full uint32, frac float64) uint32 {
	if full == InvalidWeight {
		return InvalidWeight
	}
	w := uint32(math.Round(float64(full) * frac))
	if w < 1 {
		w = 1
	}
	return w
}

// withinBearingWindow reports whether bearing lies within
// target±rangeDegrees, wrapping correctly across the 0/360 boundary.
func withinBearingWindow(bearing, target, rangeDegrees float64) bool {
	return coordinate.AngularDeviation(bearing, target) <= rangeDegrees
}
