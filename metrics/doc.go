// Package metrics wires the kernel's build and query counters into
// Prometheus, following the teacher's promhttp.Handler() exposition
// pattern. Unlike the teacher, each Metrics value owns its own
// prometheus.Registry rather than registering against the global default
// — spec.md §9 rules out global singleton state, and a build and a query
// facade running in the same process should be able to expose independent
// metric sets.
package metrics
