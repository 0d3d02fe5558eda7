// Package restriction implements C3: an O(1)-average indexed lookup of
// via-node and from-to turn restrictions.
//
// Internally it mirrors spec.md §4.3: a pre-filter set of "from" nodes, a
// pre-filter set of "via" nodes, a (from,via) -> bucket-index map, and a
// slice of buckets holding (to, isOnly) pairs. Only-restrictions are
// mutually exclusive with any other restriction sharing the same
// (from, via): inserting an only-restriction discards prior entries for
// that pair, and a later prohibition for the same pair is silently
// ignored.
package restriction
