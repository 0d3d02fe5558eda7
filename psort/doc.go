// Package psort provides the one parallel-sort primitive the kernel uses at
// build time (spec.md §5): chunk a slice, sort each chunk concurrently with
// golang.org/x/sync/errgroup, then k-way merge. Every other build step is
// serial by design; correctness never depends on this package running
// concurrently — Sort degrades to a single sorted chunk below
// minParallelLen.
package psort
