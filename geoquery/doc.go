// Package geoquery is the thin projection layer over spatial.Index
// (spec.md §4.8): it forwards nearest/nearest-in-range/search calls
// as-is, and adds the "robust snap" helper that widens a nearest search
// until it finds a result touching a non-tiny strongly-connected
// component, falling back to the closest match of any size when the
// index has nothing better to offer.
//
// geoquery never imports edgebased or scc directly — which node belongs
// to which component is supplied by the caller as an IsTinyFunc,
// mirroring the edgebased/scc decoupling elsewhere in the kernel.
package geoquery
