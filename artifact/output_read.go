package artifact

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/katalvlaran/routekernel/geometry"
	"github.com/katalvlaran/routekernel/nodegraph"
)

// ReadEdges decodes a stream written by WriteEdges.
func ReadEdges(r io.Reader) ([]OutputEdgeRecord, error) {
	if err := readHeader(r); err != nil {
		return nil, err
	}
	n, err := readCount(r)
	if err != nil {
		return nil, err
	}
	edges := make([]OutputEdgeRecord, n)
	buf := make([]byte, 14)
	for i := range edges {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("artifact: read edge %d: %w", i, err)
		}
		edges[i] = OutputEdgeRecord{
			From:     binary.BigEndian.Uint32(buf[0:4]),
			To:       binary.BigEndian.Uint32(buf[4:8]),
			Weight:   binary.BigEndian.Uint32(buf[8:12]),
			Forward:  buf[12],
			Backward: buf[13],
		}
	}
	return edges, nil
}

// ReadNodes decodes a stream written by WriteNodes.
func ReadNodes(r io.Reader) ([]OutputNodeRecord, error) {
	if err := readHeader(r); err != nil {
		return nil, err
	}
	n, err := readCount(r)
	if err != nil {
		return nil, err
	}
	nodes := make([]OutputNodeRecord, n)
	buf := make([]byte, 17)
	for i := range nodes {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("artifact: read node %d: %w", i, err)
		}
		nodes[i] = OutputNodeRecord{
			PackedGeometryID: binary.BigEndian.Uint32(buf[0:4]),
			NameID:           binary.BigEndian.Uint32(buf[4:8]),
			ComponentID:      binary.BigEndian.Uint32(buf[8:12]),
			TravelModes:      buf[12],
			BearingClassID:   binary.BigEndian.Uint32(buf[13:17]),
		}
	}
	return nodes, nil
}

// GeometryBucket is one decoded bucket of the geometry stream, tagged with
// its owning edge or zipped-vector id.
type GeometryBucket struct {
	ID      uint32
	Entries []geometry.BucketEntry
}

// Geometry is the fully decoded geometry stream.
type Geometry struct {
	Unzipped []GeometryBucket
	Zipped   []GeometryBucket
}

// ReadGeometry decodes a stream written by WriteGeometry.
func ReadGeometry(r io.Reader) (*Geometry, error) {
	if err := readHeader(r); err != nil {
		return nil, err
	}
	unzipped, err := readBucketSection(r)
	if err != nil {
		return nil, fmt.Errorf("artifact: read unzipped section: %w", err)
	}
	zipped, err := readBucketSection(r)
	if err != nil {
		return nil, fmt.Errorf("artifact: read zipped section: %w", err)
	}
	return &Geometry{Unzipped: unzipped, Zipped: zipped}, nil
}

func readBucketSection(r io.Reader) ([]GeometryBucket, error) {
	n, err := readCount(r)
	if err != nil {
		return nil, err
	}
	buckets := make([]GeometryBucket, n)
	head := make([]byte, 8)
	for i := range buckets {
		if _, err := io.ReadFull(r, head); err != nil {
			return nil, fmt.Errorf("bucket %d header: %w", i, err)
		}
		id := binary.BigEndian.Uint32(head[0:4])
		count := binary.BigEndian.Uint32(head[4:8])

		entries := make([]geometry.BucketEntry, count)
		buf := make([]byte, 8)
		for j := range entries {
			if _, err := io.ReadFull(r, buf); err != nil {
				return nil, fmt.Errorf("bucket %d entry %d: %w", i, j, err)
			}
			entries[j] = geometry.BucketEntry{
				Node:             nodegraph.NodeID(binary.BigEndian.Uint32(buf[0:4])),
				CumulativeWeight: binary.BigEndian.Uint32(buf[4:8]),
			}
		}
		buckets[i] = GeometryBucket{ID: id, Entries: entries}
	}
	return buckets, nil
}

func readHeader(r io.Reader) error {
	var buf [6]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return fmt.Errorf("artifact: read header: %w", err)
	}
	magic := binary.BigEndian.Uint32(buf[0:4])
	version := binary.BigEndian.Uint16(buf[4:6])
	if magic != outputMagic {
		return ErrBadMagic
	}
	if version != outputVersion {
		return ErrUnsupportedVersion
	}
	return nil
}
