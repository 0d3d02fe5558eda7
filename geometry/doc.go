// Package geometry implements C2 of the routing kernel:
// CompressedEdgeContainer, the map from a surviving edge id to the ordered
// geometry it was contracted from.
//
// An uncompressed edge carries a length-1 bucket holding just its target.
// compressor.Compress (C4) grows buckets as it collapses degree-2 chains;
// once compression is done, every surviving edge must have a bucket —
// AddUncompressed lazily creates the length-1 case for edges compression
// never touched.
package geometry
