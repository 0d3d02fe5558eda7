// Package artifact implements the binary codecs for the kernel's external
// interfaces (spec.md §6): reading the serialized node-based graph the
// build pipeline consumes, and writing the edge-based artifact set a build
// produces — edges, nodes, and geometry streams. The ramIndex/fileIndex
// streams are produced and consumed directly by spatial.Index.Save/Load;
// this package does not duplicate that codec.
//
// Every stream is framed the same way as the teacher's network protocol: a
// magic/version header followed by fixed-size big-endian records, read back
// with io.ReadFull so a truncated stream fails loudly instead of silently
// decoding garbage.
package artifact
