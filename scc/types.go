package scc

// NodeID indexes a node in the graph being labeled. scc is decoupled from
// edgebased.NodeID so it can run over any directed graph exposing Graph.
type NodeID uint32

// Graph is the minimal adjacency view Driver.Run needs: a node count and a
// successor iterator. scc deliberately does not import edgebased — the
// edgebased package provides an adapter (Result.SCCGraph) satisfying this
// interface, keeping the dependency pointing the natural build-pipeline
// direction (edgebased -> scc).
type Graph interface {
	NodeCount() int
	ForEachSuccessor(n NodeID, fn func(NodeID))
}

// Result is the output of a Tarjan pass: a component id per node, the size
// of each component, and a per-node "tiny component" flag.
type Result struct {
	ComponentOf  []uint32
	componentLen []int
	tinyThreshold int
}

// ComponentCount returns the number of distinct components found.
func (r *Result) ComponentCount() int { return len(r.componentLen) }

// ComponentSize returns the number of nodes in component id.
func (r *Result) ComponentSize(id uint32) int { return r.componentLen[id] }

// IsTiny reports whether node n's component has fewer than the configured
// tiny-component threshold (spec.md §4.7, default 1000).
func (r *Result) IsTiny(n NodeID) bool {
	return r.componentLen[r.ComponentOf[n]] < r.tinyThreshold
}

// Histogram buckets component sizes into singleton (size 1), tiny
// (1 < size < threshold), and normal (size >= threshold) counts, the Go
// analogue of original_source's componentAnalysis report. It reports
// counts and sizes only — never a specific component id assignment, since
// cross-machine determinism of component numbering is explicitly out of
// scope.
type Histogram struct {
	Singletons      int
	TinyComponents  int
	NormalComponents int
	LargestSize     int
}

// Histogram computes the component-size distribution.
func (r *Result) Histogram() Histogram {
	var h Histogram
	for _, size := range r.componentLen {
		switch {
		case size == 1:
			h.Singletons++
		case size < r.tinyThreshold:
			h.TinyComponents++
		default:
			h.NormalComponents++
		}
		if size > h.LargestSize {
			h.LargestSize = size
		}
	}
	return h
}
