// Package compressor implements C4: collapsing degree-2 chains of the
// node-based graph into single logical edges, updating turn restrictions
// and recording the absorbed geometry into a geometry.Container.
//
// Compression is a tight serial loop over nodes in increasing id order
// (spec.md §5: "GraphCompressor mutates the graph and RestrictionMap in a
// tight serial loop" — not a parallel build step), matching the teacher's
// gridgraph.ConnectedComponents explicit-traversal idiom rather than
// recursion.
package compressor
