// Package nodegraph implements C1 of the routing kernel: a compact,
// CSR-like adjacency store over the node-based road graph that remains
// mutable after build.
//
// Edges for a given source node occupy a contiguous range of the shared
// edge array; the range is recorded as (first, count) per node, in the
// spirit of a static CSR layout, but insert_edge/delete_edge can still
// mutate a single node's range in place or by relocation, which a true CSR
// array cannot do without a full rebuild. This mutability is required
// because compressor.Compress (C4) rewrites the graph in place.
//
// Deleted edges are not removed from the backing array; they are
// tombstoned (target set to the sentinel InvalidNode) and may be reused by
// a later insert on the same source.
package nodegraph
