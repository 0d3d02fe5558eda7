package scc

import "log/slog"

// Option configures a Driver, following the teacher's functional options
// idiom.
type Option func(*options)

type options struct {
	logger        *slog.Logger
	tinyThreshold int
}

// WithLogger attaches a structured logger for driver diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTinyThreshold sets the component size below which Result.IsTiny
// reports true, default 1000 (spec.md §4.7).
func WithTinyThreshold(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.tinyThreshold = n
		}
	}
}

func newOptions(opts ...Option) *options {
	o := &options{logger: slog.Default(), tinyThreshold: 1000}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Driver runs Tarjan's algorithm over a Graph (C7).
type Driver struct {
	opts *options
}

// New returns a Driver.
func New(opts ...Option) *Driver {
	return &Driver{opts: newOptions(opts...)}
}

type tarjanPhase uint8

const (
	phasePre tarjanPhase = iota
	phasePost
)

// frame is one entry of the explicit call stack, replacing the recursive
// activation record a textbook Tarjan implementation would use (spec.md
// §4.7: "implemented iteratively to avoid stack growth proportional to the
// longest path").
type frame struct {
	node   NodeID
	parent NodeID
	phase  tarjanPhase
}

// Run computes strongly-connected components of g.
func (d *Driver) Run(g Graph) *Result {
	n := g.NodeCount()
	index := make([]int32, n)
	lowlink := make([]int32, n)
	onStack := make([]bool, n)
	for i := range index {
		index[i] = -1
	}

	componentOf := make([]uint32, n)
	var componentSizes []int
	var tarjanStack []NodeID
	var callStack []frame
	var nextIndex int32

	for start := 0; start < n; start++ {
		if index[start] != -1 {
			continue
		}
		callStack = append(callStack, frame{node: NodeID(start), parent: NodeID(start), phase: phasePre})

		for len(callStack) > 0 {
			top := callStack[len(callStack)-1]
			callStack = callStack[:len(callStack)-1]
			u := top.node

			if top.phase == phasePre {
				if index[u] != -1 {
					// u was reached and fully scheduled via an earlier
					// duplicate edge before this frame got processed;
					// only its effect on the caller's lowlink survives.
					if onStack[u] && index[u] < lowlink[top.parent] {
						lowlink[top.parent] = index[u]
					}
					continue
				}

				index[u] = nextIndex
				lowlink[u] = nextIndex
				nextIndex++
				onStack[u] = true
				tarjanStack = append(tarjanStack, u)

				callStack = append(callStack, frame{node: u, parent: top.parent, phase: phasePost})

				g.ForEachSuccessor(u, func(v NodeID) {
					if index[v] == -1 {
						callStack = append(callStack, frame{node: v, parent: u, phase: phasePre})
					} else if onStack[v] && index[v] < lowlink[u] {
						lowlink[u] = index[v]
					}
				})
				continue
			}

			// phasePost
			parent := top.parent
			if parent != u && lowlink[u] < lowlink[parent] {
				lowlink[parent] = lowlink[u]
			}
			if lowlink[u] == index[u] {
				id := uint32(len(componentSizes))
				size := 0
				for {
					w := tarjanStack[len(tarjanStack)-1]
					tarjanStack = tarjanStack[:len(tarjanStack)-1]
					onStack[w] = false
					componentOf[w] = id
					size++
					if w == u {
						break
					}
				}
				componentSizes = append(componentSizes, size)
			}
		}
	}

	d.opts.logger.Debug("scc: pass complete", "nodes", n, "components", len(componentSizes))
	return &Result{ComponentOf: componentOf, componentLen: componentSizes, tinyThreshold: d.opts.tinyThreshold}
}
