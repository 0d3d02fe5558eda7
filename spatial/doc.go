// Package spatial implements the persistent spatial index over edge-based
// node segments (spec.md §4.6): a fanout-F, leaf-capacity-L bounding-box
// tree, packed bottom-up over a Hilbert-curve ordering of segment
// centroids, queryable by nearest-K, nearest-in-range, bearing window, and
// bounding-box search.
//
// The tree is built once, fully in memory, then optionally persisted as a
// pair of files: a leaf file (a fixed-stride array of leaf records,
// positioned-read friendly) and a RAM-index file (the branch tree
// flattened breadth-first). Loading never reconstructs the tree: the
// RAM-index file is read back verbatim into the branch slice, and the leaf
// file is read back verbatim into the leaf slice — both are just
// encoding/binary framed records, no parsing beyond field extraction.
package spatial
