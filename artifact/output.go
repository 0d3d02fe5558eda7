package artifact

import (
	"encoding/binary"
	"io"
	"sort"

	"github.com/katalvlaran/routekernel/geometry"
	"github.com/katalvlaran/routekernel/nodegraph"
)

// outputMagic/outputVersion identify the edge-based artifact streams
// (spec.md §6 "Output: edge-based artifacts").
const (
	outputMagic   uint32 = 0x45424731 // "EBG1"
	outputVersion uint16 = 1
)

// OutputEdgeRecord is one record of the edges stream: a permitted turn
// between two edge-based node traversals, plus the travel-mode bitmasks
// open in each direction.
type OutputEdgeRecord struct {
	From, To          uint32
	Weight            uint32
	Forward, Backward uint8
}

// WriteEdges encodes the edges stream (spec.md §6): header followed by one
// 14-byte record per entry — (from:4, to:4, weight:4, forward:1,
// backward:1).
func WriteEdges(w io.Writer, edges []OutputEdgeRecord) error {
	if err := writeHeader(w, outputMagic, outputVersion); err != nil {
		return err
	}
	if err := writeCount(w, len(edges)); err != nil {
		return err
	}
	buf := make([]byte, 14)
	for _, e := range edges {
		binary.BigEndian.PutUint32(buf[0:4], e.From)
		binary.BigEndian.PutUint32(buf[4:8], e.To)
		binary.BigEndian.PutUint32(buf[8:12], e.Weight)
		buf[12] = e.Forward
		buf[13] = e.Backward
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

// OutputNodeRecord is one record of the nodes stream: the per-edge-based-
// node metadata not already carried by the spatial index's own segment
// records (spec.md §6 "packed geometry id, name id, component id, travel
// modes, bearing class id").
type OutputNodeRecord struct {
	PackedGeometryID uint32
	NameID           uint32
	ComponentID      uint32
	TravelModes      uint8
	BearingClassID   uint32
}

// WriteNodes encodes the nodes stream: header followed by one 17-byte
// record per entry.
func WriteNodes(w io.Writer, nodes []OutputNodeRecord) error {
	if err := writeHeader(w, outputMagic, outputVersion); err != nil {
		return err
	}
	if err := writeCount(w, len(nodes)); err != nil {
		return err
	}
	buf := make([]byte, 17)
	for _, n := range nodes {
		binary.BigEndian.PutUint32(buf[0:4], n.PackedGeometryID)
		binary.BigEndian.PutUint32(buf[4:8], n.NameID)
		binary.BigEndian.PutUint32(buf[8:12], n.ComponentID)
		buf[12] = n.TravelModes
		binary.BigEndian.PutUint32(buf[13:17], n.BearingClassID)
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

// WriteGeometry encodes the geometry stream (spec.md §6): the surviving
// unzipped per-edge buckets, followed by the zipped bothway vectors, each
// bucket prefixed by its entry count. Bucket order is sorted by key so two
// builds over the same Container produce byte-identical output despite the
// Container's own map-based storage.
func WriteGeometry(w io.Writer, c *geometry.Container) error {
	if err := writeHeader(w, outputMagic, outputVersion); err != nil {
		return err
	}

	var unzipped []nodegraph.EdgeID
	c.ForEachBucket(func(edge nodegraph.EdgeID, _ []geometry.BucketEntry) {
		unzipped = append(unzipped, edge)
	})
	sort.Slice(unzipped, func(i, j int) bool { return unzipped[i] < unzipped[j] })

	if err := writeCount(w, len(unzipped)); err != nil {
		return err
	}
	for _, edge := range unzipped {
		bucket, _ := c.GetBucket(edge)
		if err := writeBucket(w, uint32(edge), bucket); err != nil {
			return err
		}
	}

	var zippedIDs []uint32
	c.ForEachZipped(func(id uint32, _ []geometry.BucketEntry) {
		zippedIDs = append(zippedIDs, id)
	})
	sort.Slice(zippedIDs, func(i, j int) bool { return zippedIDs[i] < zippedIDs[j] })

	if err := writeCount(w, len(zippedIDs)); err != nil {
		return err
	}
	for _, id := range zippedIDs {
		bucket, _ := c.ZippedBucket(id)
		if err := writeBucket(w, id, bucket); err != nil {
			return err
		}
	}

	return nil
}

func writeBucket(w io.Writer, id uint32, bucket []geometry.BucketEntry) error {
	var head [8]byte
	binary.BigEndian.PutUint32(head[0:4], id)
	binary.BigEndian.PutUint32(head[4:8], uint32(len(bucket)))
	if _, err := w.Write(head[:]); err != nil {
		return err
	}
	buf := make([]byte, 8)
	for _, entry := range bucket {
		binary.BigEndian.PutUint32(buf[0:4], uint32(entry.Node))
		binary.BigEndian.PutUint32(buf[4:8], entry.CumulativeWeight)
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

func writeHeader(w io.Writer, magic uint32, version uint16) error {
	var buf [6]byte
	binary.BigEndian.PutUint32(buf[0:4], magic)
	binary.BigEndian.PutUint16(buf[4:6], version)
	_, err := w.Write(buf[:])
	return err
}

func writeCount(w io.Writer, n int) error {
	if n < 0 || uint64(n) > uint64(^uint32(0)) {
		return ErrPayloadTooLarge
	}
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(n))
	_, err := w.Write(buf[:])
	return err
}
