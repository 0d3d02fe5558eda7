// Package coordinate provides the fixed-point geographic primitives shared
// across the kernel: 1e-6-degree lat/lon, web-mercator projection for planar
// distance comparisons, great-circle distance, and bearing.
//
// Coordinates are stored as signed fixed-point integers (degrees * 1e6) to
// match the on-the-wire format of spec.md §6. Planar work, including the
// spatial index's bounding boxes, uses float64 web-mercator meters.
package coordinate
