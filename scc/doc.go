// Package scc implements SCCDriver (C7): strongly-connected component
// labeling of the edge-based graph using Tarjan's algorithm, implemented
// iteratively with an explicit call stack so recursion depth never grows
// with path length.
package scc
