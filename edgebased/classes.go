package edgebased

import (
	"fmt"
	"math"
	"sort"
)

// bearingStepDegrees discretizes compass bearings into 36 buckets of 10
// degrees each, matching the "fixed step" spec.md §4.5 step 4 calls for.
const bearingStepDegrees = 10.0

func discretizeBearing(bearing float64) uint16 {
	b := math.Mod(bearing, 360)
	if b < 0 {
		b += 360
	}
	return uint16(b / bearingStepDegrees)
}

// BearingClass is the sorted, deduplicated list of discretized outgoing
// bearings available at an intersection, as seen from one incoming edge
// (spec.md §4.5 step 4).
type BearingClass struct {
	Buckets []uint16
}

func (b BearingClass) key() string {
	return fmt.Sprint(b.Buckets)
}

// indexOf returns the position of bucket within b.Buckets, or -1.
func (b BearingClass) indexOf(bucket uint16) int {
	for i, v := range b.Buckets {
		if v == bucket {
			return i
		}
	}
	return -1
}

// EntryClass is a bitmask over a BearingClass's bucket positions recording
// which outgoing turns were permitted for one incoming edge (spec.md §4.5
// step 4).
type EntryClass struct {
	Mask uint64
}

func (e EntryClass) key() string { return fmt.Sprintf("%x", e.Mask) }

// Allowed reports whether the turn toward the bearing at position i in the
// owning BearingClass was permitted.
func (e EntryClass) Allowed(i int) bool {
	if i < 0 || i >= 64 {
		return false
	}
	return e.Mask&(1<<uint(i)) != 0
}

// BearingClassTable is a content-addressed dictionary deduplicating
// BearingClass values, mirroring the dedup-by-content idiom used elsewhere
// in the corpus for small recurring records.
type BearingClassTable struct {
	byKey map[string]uint32
	list  []BearingClass
}

// NewBearingClassTable returns an empty dictionary.
func NewBearingClassTable() *BearingClassTable {
	return &BearingClassTable{byKey: make(map[string]uint32)}
}

// Intern returns the dictionary id for bc, registering it if new.
func (t *BearingClassTable) Intern(bc BearingClass) uint32 {
	sorted := append([]uint16(nil), bc.Buckets...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	bc.Buckets = sorted

	k := bc.key()
	if id, ok := t.byKey[k]; ok {
		return id
	}
	id := uint32(len(t.list))
	t.list = append(t.list, bc)
	t.byKey[k] = id
	return id
}

// Get returns the BearingClass registered under id.
func (t *BearingClassTable) Get(id uint32) BearingClass { return t.list[id] }

// Len returns the number of distinct classes interned.
func (t *BearingClassTable) Len() int { return len(t.list) }

// EntryClassTable is the EntryClass analogue of BearingClassTable.
type EntryClassTable struct {
	byKey map[string]uint32
	list  []EntryClass
}

// NewEntryClassTable returns an empty dictionary.
func NewEntryClassTable() *EntryClassTable {
	return &EntryClassTable{byKey: make(map[string]uint32)}
}

// Intern returns the dictionary id for ec, registering it if new.
func (t *EntryClassTable) Intern(ec EntryClass) uint32 {
	k := ec.key()
	if id, ok := t.byKey[k]; ok {
		return id
	}
	id := uint32(len(t.list))
	t.list = append(t.list, ec)
	t.byKey[k] = id
	return id
}

// Get returns the EntryClass registered under id.
func (t *EntryClassTable) Get(id uint32) EntryClass { return t.list[id] }

// Len returns the number of distinct classes interned.
func (t *EntryClassTable) Len() int { return len(t.list) }
