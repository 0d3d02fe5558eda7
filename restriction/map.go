package restriction

import "github.com/katalvlaran/routekernel/nodegraph"

// Map is the RestrictionMap (C3): O(1)-average lookup of turn restrictions
// keyed on (from, via) node pairs.
type Map struct {
	cfg config

	startSet map[nodegraph.NodeID]struct{}
	viaSet   map[nodegraph.NodeID]struct{}
	index    map[pairKey]int
	buckets  [][]Target
}

// NewMap returns an empty RestrictionMap.
func NewMap(opts ...Option) *Map {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Map{
		cfg:      cfg,
		startSet: make(map[nodegraph.NodeID]struct{}),
		viaSet:   make(map[nodegraph.NodeID]struct{}),
		index:    make(map[pairKey]int),
	}
}

// Insert adds a turn restriction (from, via, to, isOnly). Per spec.md §4.3:
// inserting an only-restriction discards all previous targets sharing
// (from, via); inserting a prohibition into a bucket that already holds an
// only-restriction is silently ignored.
//
// from == to is rejected as ErrSelfFromTo unless the Map was constructed
// with AllowSelfFromTo(true), in which case the record is accepted and
// silently ignored (spec.md §9 Open Question #1).
func (m *Map) Insert(from, via, to nodegraph.NodeID, isOnly bool) error {
	if from == to {
		if m.cfg.allowSelfFromTo {
			return nil
		}
		return ErrSelfFromTo
	}

	key := pairKey{From: from, Via: via}
	idx, exists := m.index[key]

	if isOnly {
		bucket := []Target{{To: to, IsOnly: true}}
		if exists {
			m.buckets[idx] = bucket
		} else {
			m.index[key] = len(m.buckets)
			m.buckets = append(m.buckets, bucket)
		}
	} else {
		if exists {
			bucket := m.buckets[idx]
			for _, t := range bucket {
				if t.IsOnly {
					// An only-restriction already owns this (from, via)
					// pair; prohibitions are silently ignored.
					m.startSet[from] = struct{}{}
					m.viaSet[via] = struct{}{}
					return nil
				}
				if t.To == to {
					return nil // duplicate prohibition, no-op
				}
			}
			m.buckets[idx] = append(bucket, Target{To: to, IsOnly: false})
		} else {
			m.index[key] = len(m.buckets)
			m.buckets = append(m.buckets, []Target{{To: to, IsOnly: false}})
		}
	}

	m.startSet[from] = struct{}{}
	m.viaSet[via] = struct{}{}
	return nil
}

// IsViaNode reports whether n appears as a via-node in any restriction.
func (m *Map) IsViaNode(n nodegraph.NodeID) bool {
	_, ok := m.viaSet[n]
	return ok
}

// StartsAt reports whether n appears as a from-node in any restriction.
func (m *Map) StartsAt(n nodegraph.NodeID) bool {
	_, ok := m.startSet[n]
	return ok
}

// CheckOnlyTurn returns the mandated target and true if (u,v) maps to an
// only-restriction; otherwise it returns the zero value and false.
func (m *Map) CheckOnlyTurn(u, v nodegraph.NodeID) (nodegraph.NodeID, bool) {
	idx, ok := m.index[pairKey{From: u, Via: v}]
	if !ok {
		return 0, false
	}
	for _, t := range m.buckets[idx] {
		if t.IsOnly {
			return t.To, true
		}
	}
	return 0, false
}

// IsRestricted reports whether the turn (u, v, w) — entering via the edge
// u->v and continuing to w — is prohibited: either an explicit prohibition
// names w, or an only-restriction names a target other than w.
func (m *Map) IsRestricted(u, v, w nodegraph.NodeID) bool {
	idx, ok := m.index[pairKey{From: u, Via: v}]
	if !ok {
		return false
	}
	for _, t := range m.buckets[idx] {
		if t.IsOnly {
			return t.To != w
		}
		if t.To == w {
			return true
		}
	}
	return false
}

// FixupStarting rewrites any restriction keyed on (from=v, via=w) to
// (from=u, via=w), called by compressor.Compress when node v is absorbed
// into the u-v-w chain collapse and its outgoing edge v->w becomes part of
// the compressed edge u->w (spec.md §4.3/§4.4 step 7).
//
// If (u, w) is already a distinct key, the (v, w) bucket is dropped rather
// than silently merged into an unrelated restriction's bucket.
func (m *Map) FixupStarting(u, v, w nodegraph.NodeID) {
	oldKey := pairKey{From: v, Via: w}
	idx, ok := m.index[oldKey]
	if !ok {
		return
	}
	delete(m.index, oldKey)

	newKey := pairKey{From: u, Via: w}
	if _, collide := m.index[newKey]; collide {
		return
	}
	m.index[newKey] = idx
	m.startSet[u] = struct{}{}
}

// FixupArriving rewrites the target v into w for every restriction keyed
// via u — i.e. whose via-node is u — leaving restrictions keyed via any
// other node untouched, called when v is absorbed into a u-v-w chain
// collapse and the only remaining node reachable where v used to be is w
// (spec.md §4.3/§4.4 step 7).
//
// A restriction keyed (from=v, via=u) is skipped here: it is the (v,u)
// edge's own restriction, and compressor.Compress's paired
// FixupStarting(w, v, u) call re-keys it to (from=w, via=u) in the same
// compression step, so this rewrite would otherwise race that re-keying.
func (m *Map) FixupArriving(u, v, w nodegraph.NodeID) {
	for key, idx := range m.index {
		if key.Via != u || key.From == v {
			continue
		}
		bucket := m.buckets[idx]
		for j, t := range bucket {
			if t.To == v {
				bucket[j].To = w
			}
		}
	}
}
