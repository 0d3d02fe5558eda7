// Package edgebased implements EdgeBasedGraphFactory (C5): it reifies each
// surviving forward node-based edge as a graph node and each permitted turn
// as a graph edge, computing turn penalties from the geometric deviation at
// each intersection.
//
// Node granularity follows the node-based graph directly: one Node per
// surviving forward edge (spec.md §4.5 step 2), carrying both the forward
// and (if present) reverse direction's weight so either can serve as a
// search frontier. The distilled spec's "record per original segment"
// phrasing is honored by keeping the packed geometry id and its point count
// on the Node rather than exploding a single compressed chain into many
// graph nodes — turns only occur at true intersections, and a compressed
// chain's interior points carry no decision, matching the node-based
// graph's own post-compression shape.
package edgebased
