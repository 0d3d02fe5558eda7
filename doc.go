// Package routekernel is the preprocessing-and-query graph kernel for an
// offline road-network router: it turns a node-based road graph with turn
// restrictions into a compact edge-based graph and a persistent spatial
// index suitable for fast point-to-point routing and nearest-road snapping.
//
// The kernel is organized as a small pipeline of packages, leaves first:
//
//	coordinate/  — fixed-point lat/lon, web-mercator projection, bearing
//	nodegraph/   — C1: CSR-with-tombstones adjacency store, post-build mutable
//	geometry/    — C2: compressed-edge geometry buckets + zip
//	restriction/ — C3: turn-restriction lookup
//	compressor/  — C4: degree-2 chain collapse
//	edgebased/   — C5: edge-based graph + turn enumeration
//	spatial/     — C6: persistent R-tree over road segments
//	scc/         — C7: iterative Tarjan strongly-connected-components
//	geoquery/    — C8: phantom-node projection for snapping
//	artifact/    — binary codec for the input/output streams (spec §6)
//	facade/      — DataFacade: holds loaded artifacts for concurrent queries
//
// A build runs raw node-based edges + restrictions through nodegraph,
// compressor, edgebased and spatial/scc in turn, producing the artifact set
// that facade loads for query serving. HTTP transport, OSM parsing, profile
// scripting and contraction-hierarchy search are deliberately not part of
// this module; see SPEC_FULL.md for the exact boundary.
//
//	go get github.com/katalvlaran/routekernel
package routekernel
