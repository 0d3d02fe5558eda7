// Package facade implements the DataFacade spec.md §5/§9 describes: the
// sole process-wide state the query side holds, encapsulating every loaded
// preprocessing artifact (edges, nodes, geometry, component sizes, and the
// R-tree spatial index) behind one read-only handle. Multiple DataFacade
// instances may coexist — e.g. to hot-reload a newer build without
// disrupting in-flight queries against the old one.
package facade
