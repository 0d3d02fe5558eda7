package restriction

import (
	"errors"

	"github.com/katalvlaran/routekernel/nodegraph"
)

// Sentinel errors for restriction operations.
var (
	// ErrSelfFromTo indicates a restriction whose from and to nodes are
	// identical, rejected as InputCorruption by default (spec.md §9 Open
	// Question #1).
	ErrSelfFromTo = errors.New("restriction: from and to node must differ")
)

// Target is a tagged (to-node, is-only) pair: the "RestrictionTarget"
// design-note tagged variant (spec.md §9), used instead of an inheritance
// hierarchy for prohibition vs only-turn restrictions.
type Target struct {
	To     nodegraph.NodeID
	IsOnly bool
}

type pairKey struct {
	From, Via nodegraph.NodeID
}

// Option configures a Map at construction, following the teacher's
// functional-options idiom.
type Option func(*config)

type config struct {
	allowSelfFromTo bool
}

// AllowSelfFromTo accepts and ignores restrictions with from == to instead
// of rejecting them as InputCorruption — a compatibility knob for the
// older behavior noted in spec.md §9 Open Question #1. Off by default.
func AllowSelfFromTo(allow bool) Option {
	return func(c *config) { c.allowSelfFromTo = allow }
}
