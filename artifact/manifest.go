package artifact

import (
	"encoding/binary"
	"fmt"
	"io"
)

// manifestMagic/manifestVersion identify the small companion file a build
// writes alongside edges/nodes/geometry, recording the FNV-1a digest of
// each stream so a later facade load can detect silent corruption the
// per-stream magic/version header alone would not catch.
const (
	manifestMagic   uint32 = 0x4d414e31 // "MAN1"
	manifestVersion uint16 = 1
)

// Manifest records the per-stream digest a build computed while writing
// the edges/nodes/geometry artifacts.
type Manifest struct {
	EdgesSum, NodesSum, GeometrySum uint64
}

// WriteManifest encodes m as a fixed 24-byte record behind the usual
// header.
func WriteManifest(w io.Writer, m Manifest) error {
	if err := writeHeader(w, manifestMagic, manifestVersion); err != nil {
		return err
	}
	var buf [24]byte
	binary.BigEndian.PutUint64(buf[0:8], m.EdgesSum)
	binary.BigEndian.PutUint64(buf[8:16], m.NodesSum)
	binary.BigEndian.PutUint64(buf[16:24], m.GeometrySum)
	_, err := w.Write(buf[:])
	return err
}

// ReadManifest decodes a stream written by WriteManifest.
func ReadManifest(r io.Reader) (Manifest, error) {
	var header [6]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return Manifest{}, fmt.Errorf("artifact: read manifest header: %w", err)
	}
	magic := binary.BigEndian.Uint32(header[0:4])
	version := binary.BigEndian.Uint16(header[4:6])
	if magic != manifestMagic {
		return Manifest{}, ErrBadMagic
	}
	if version != manifestVersion {
		return Manifest{}, ErrUnsupportedVersion
	}

	var buf [24]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Manifest{}, fmt.Errorf("artifact: read manifest body: %w", err)
	}
	return Manifest{
		EdgesSum:    binary.BigEndian.Uint64(buf[0:8]),
		NodesSum:    binary.BigEndian.Uint64(buf[8:16]),
		GeometrySum: binary.BigEndian.Uint64(buf[16:24]),
	}, nil
}
