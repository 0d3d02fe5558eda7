package geoquery

import (
	"log/slog"

	"github.com/katalvlaran/routekernel/coordinate"
	"github.com/katalvlaran/routekernel/spatial"
)

// Option configures a Query, following the teacher's functional-options
// idiom.
type Option func(*options)

type options struct {
	robustSnapBatch int
	maxRobustSnapK  int
	logger          *slog.Logger
}

// WithRobustSnapBatch sets the initial candidate count RobustSnap
// requests before widening (default 8).
func WithRobustSnapBatch(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.robustSnapBatch = n
		}
	}
}

// WithMaxRobustSnapK caps how far RobustSnap will widen its search
// before giving up on finding a non-tiny-component match (default 256).
func WithMaxRobustSnapK(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxRobustSnapK = n
		}
	}
}

// WithLogger attaches a structured logger for query diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func newOptions(opts ...Option) *options {
	o := &options{robustSnapBatch: 8, maxRobustSnapK: 256, logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Query wraps a built spatial.Index with the query-side conveniences
// spec.md §4.8 describes.
type Query struct {
	index *spatial.Index
	opts  *options
}

// New wraps an already-built spatial.Index.
func New(index *spatial.Index, opts ...Option) *Query {
	return &Query{index: index, opts: newOptions(opts...)}
}

// Nearest forwards to spatial.Index.Nearest unchanged.
func (q *Query) Nearest(coord coordinate.Coordinate, k int, opts ...spatial.QueryOption) []spatial.PhantomNode {
	return q.index.Nearest(coord, k, opts...)
}

// NearestInRange forwards to spatial.Index.NearestInRange unchanged.
func (q *Query) NearestInRange(coord coordinate.Coordinate, radiusMeters float64, opts ...spatial.QueryOption) []spatial.PhantomNode {
	return q.index.NearestInRange(coord, radiusMeters, opts...)
}

// Search forwards to spatial.Index.Search unchanged.
func (q *Query) Search(bbox spatial.Box) []spatial.Segment {
	return q.index.Search(bbox)
}

// IsTinyFunc reports whether the strongly-connected component an
// edge-based NodeID belongs to is "tiny" (spec.md §4.7: size below a
// configured threshold). The caller builds this from an
// edgebased.Result/scc.Result pair; geoquery has no dependency on
// either package.
type IsTinyFunc func(node uint32) bool

// RobustSnapResult bundles the two candidates RobustSnap distinguishes.
type RobustSnapResult struct {
	// Best is the closest candidate touching a non-tiny component in
	// either travel direction, or nil if none was found within the
	// configured search widening limit.
	Best *spatial.PhantomNode

	// BestAny is the single closest candidate regardless of component
	// size — nil only when the index has no match at all for coord
	// (spec.md §7 EmptyResult).
	BestAny *spatial.PhantomNode
}

// RobustSnap widens a nearest search (spec.md §4.8 "force at least one
// result from a non-tiny component, plus optionally a best-from-tiny")
// until it finds a candidate whose forward or reverse direction belongs
// to a non-tiny component, or gives up at opts.maxRobustSnapK.
func (q *Query) RobustSnap(coord coordinate.Coordinate, isTiny IsTinyFunc, opts ...spatial.QueryOption) RobustSnapResult {
	var result RobustSnapResult

	for batch := q.opts.robustSnapBatch; ; batch *= 2 {
		candidates := q.index.Nearest(coord, batch, opts...)
		if len(candidates) == 0 {
			return result
		}
		if result.BestAny == nil {
			c := candidates[0]
			result.BestAny = &c
		}

		for i := range candidates {
			c := candidates[i]
			if directionIsNonTiny(c.ForwardNode, isTiny) || directionIsNonTiny(c.ReverseNode, isTiny) {
				result.Best = &c
				return result
			}
		}

		if batch >= q.opts.maxRobustSnapK || len(candidates) < batch {
			q.opts.logger.Debug("geoquery: robust snap exhausted search without a non-tiny match", "candidates", len(candidates))
			return result
		}
	}
}

func directionIsNonTiny(node uint32, isTiny IsTinyFunc) bool {
	return node != spatial.InvalidNode && !isTiny(node)
}
