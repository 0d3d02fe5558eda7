package spatial

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"math"
	"os"
)

func floatBits(f float64) uint64     { return math.Float64bits(f) }
func floatFromBits(b uint64) float64 { return math.Float64frombits(b) }

// fileMagic identifies both spatial artifact files; version allows
// future format changes to be rejected cleanly rather than misread.
const (
	fileMagic   uint32 = 0x52545253 // "RTRS"
	fileVersion uint16 = 1
)

// leafEntrySize is the fixed on-disk size of one Segment record:
// id(4) + startLat(4) + startLon(4) + endLat(4) + endLon(4) +
// forwardNode(4) + reverseNode(4) + forwardWeight(4) + reverseWeight(4) +
// isStartpoint(1) + pad(3) = 40 bytes (spec.md §6 `fileIndex`, "exactly L
// entries... enables O(1) positioned read per leaf").
const leafEntrySize = 40

// leafHeaderSize: magic(4) + version(2) + pad(2) + leafCapacity(4) +
// leafCount(4) + checksum(4) = 20 bytes.
const leafHeaderSize = 20

// branchRecordSize: minX/minY/maxX/maxY float64 (32) + firstChild(4) +
// childCount(2) + kind(1) + pad(1) = 40 bytes (spec.md §6 `ramIndex`).
const branchRecordSize = 40

// ramHeaderSize: magic(4) + version(2) + pad(2) + branchCount(4) +
// root(4) + checksum(4) = 20 bytes.
const ramHeaderSize = 20

// checksum computes the shared artifact checksum (spec.md §6
// "Persistence contract: both spatial files must be produced in the same
// build; they carry a shared checksum that the loader verifies") over the
// leaf count, the branch count and every segment id. Save stamps it into
// both file headers and Load compares the two stamped values.
func (idx *Index) checksum() uint32 {
	h := crc32.NewIEEE()
	var buf [8]byte
	binary.LittleEndian.PutUint32(buf[0:4], uint32(len(idx.leaves)))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(len(idx.branches)))
	h.Write(buf[:])
	for _, l := range idx.leaves {
		for _, s := range l.Entries {
			var idBuf [4]byte
			binary.LittleEndian.PutUint32(idBuf[:], s.ID)
			h.Write(idBuf[:])
		}
	}
	return h.Sum32()
}

// Save persists the index as a leaf file and a RAM-index file (spec.md
// §6 `fileIndex`/`ramIndex`), matching the fixed-size-record,
// positioned-read-friendly layout the on-disk contract requires.
func (idx *Index) Save(leafPath, ramIndexPath string) error {
	sum := idx.checksum()

	if err := idx.saveLeaves(leafPath, sum); err != nil {
		return fmt.Errorf("spatial: save leaf file: %w", err)
	}
	if err := idx.saveBranches(ramIndexPath, sum); err != nil {
		return fmt.Errorf("spatial: save ram-index file: %w", err)
	}
	return nil
}

func (idx *Index) saveLeaves(path string, sum uint32) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)

	capacity := idx.opts.leafCapacity
	header := make([]byte, leafHeaderSize)
	binary.LittleEndian.PutUint32(header[0:4], fileMagic)
	binary.LittleEndian.PutUint16(header[4:6], fileVersion)
	binary.LittleEndian.PutUint32(header[8:12], uint32(capacity))
	binary.LittleEndian.PutUint32(header[12:16], uint32(len(idx.leaves)))
	binary.LittleEndian.PutUint32(header[16:20], sum)
	if _, err := w.Write(header); err != nil {
		return err
	}

	record := make([]byte, leafEntrySize)
	empty := make([]byte, leafEntrySize)
	binary.LittleEndian.PutUint32(empty[20:24], InvalidNode) // ForwardNode sentinel marks a padding slot

	for _, l := range idx.leaves {
		for _, seg := range l.Entries {
			encodeSegment(record, seg)
			if _, err := w.Write(record); err != nil {
				return err
			}
		}
		for pad := len(l.Entries); pad < capacity; pad++ {
			if _, err := w.Write(empty); err != nil {
				return err
			}
		}
	}

	return w.Flush()
}

func encodeSegment(b []byte, seg Segment) {
	binary.LittleEndian.PutUint32(b[0:4], seg.ID)
	binary.LittleEndian.PutUint32(b[4:8], uint32(seg.Start.Lat))
	binary.LittleEndian.PutUint32(b[8:12], uint32(seg.Start.Lon))
	binary.LittleEndian.PutUint32(b[12:16], uint32(seg.End.Lat))
	binary.LittleEndian.PutUint32(b[16:20], uint32(seg.End.Lon))
	binary.LittleEndian.PutUint32(b[20:24], seg.ForwardNode)
	binary.LittleEndian.PutUint32(b[24:28], seg.ReverseNode)
	binary.LittleEndian.PutUint32(b[28:32], seg.ForwardWeight)
	binary.LittleEndian.PutUint32(b[32:36], seg.ReverseWeight)
	if seg.IsStartpoint {
		b[36] = 1
	} else {
		b[36] = 0
	}
	b[37], b[38], b[39] = 0, 0, 0
}

func decodeSegment(b []byte) Segment {
	var seg Segment
	seg.ID = binary.LittleEndian.Uint32(b[0:4])
	seg.Start.Lat = int32(binary.LittleEndian.Uint32(b[4:8]))
	seg.Start.Lon = int32(binary.LittleEndian.Uint32(b[8:12]))
	seg.End.Lat = int32(binary.LittleEndian.Uint32(b[12:16]))
	seg.End.Lon = int32(binary.LittleEndian.Uint32(b[16:20]))
	seg.ForwardNode = binary.LittleEndian.Uint32(b[20:24])
	seg.ReverseNode = binary.LittleEndian.Uint32(b[24:28])
	seg.ForwardWeight = binary.LittleEndian.Uint32(b[28:32])
	seg.ReverseWeight = binary.LittleEndian.Uint32(b[32:36])
	seg.IsStartpoint = b[36] != 0
	return seg
}

func (idx *Index) saveBranches(path string, sum uint32) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)

	header := make([]byte, ramHeaderSize)
	binary.LittleEndian.PutUint32(header[0:4], fileMagic)
	binary.LittleEndian.PutUint16(header[4:6], fileVersion)
	binary.LittleEndian.PutUint32(header[8:12], uint32(len(idx.branches)))
	binary.LittleEndian.PutUint32(header[12:16], idx.root)
	binary.LittleEndian.PutUint32(header[16:20], sum)
	if _, err := w.Write(header); err != nil {
		return err
	}

	record := make([]byte, branchRecordSize)
	for _, b := range idx.branches {
		encodeBranch(record, b)
		if _, err := w.Write(record); err != nil {
			return err
		}
	}

	return w.Flush()
}

func encodeBranch(b []byte, n branchNode) {
	binary.LittleEndian.PutUint64(b[0:8], floatBits(n.Box.MinX))
	binary.LittleEndian.PutUint64(b[8:16], floatBits(n.Box.MinY))
	binary.LittleEndian.PutUint64(b[16:24], floatBits(n.Box.MaxX))
	binary.LittleEndian.PutUint64(b[24:32], floatBits(n.Box.MaxY))
	binary.LittleEndian.PutUint32(b[32:36], n.FirstChild)
	binary.LittleEndian.PutUint16(b[36:38], n.ChildCount)
	b[38] = byte(n.Kind)
	b[39] = 0
}

func decodeBranch(b []byte) branchNode {
	return branchNode{
		Box: Box{
			MinX: floatFromBits(binary.LittleEndian.Uint64(b[0:8])),
			MinY: floatFromBits(binary.LittleEndian.Uint64(b[8:16])),
			MaxX: floatFromBits(binary.LittleEndian.Uint64(b[16:24])),
			MaxY: floatFromBits(binary.LittleEndian.Uint64(b[24:32])),
		},
		FirstChild: binary.LittleEndian.Uint32(b[32:36]),
		ChildCount: binary.LittleEndian.Uint16(b[36:38]),
		Kind:       kind(b[38]),
	}
}

// Load reads back a leaf file and RAM-index file produced by Save,
// verifying their shared checksum before returning a ready-to-query
// Index (spec.md §6 "Persistence contract").
func Load(leafPath, ramIndexPath string, opts ...Option) (*Index, error) {
	o := newOptions(opts...)

	leaves, leafSum, capacity, err := loadLeaves(leafPath)
	if err != nil {
		return nil, fmt.Errorf("spatial: load leaf file: %w", err)
	}
	branches, root, ramSum, err := loadBranches(ramIndexPath)
	if err != nil {
		return nil, fmt.Errorf("spatial: load ram-index file: %w", err)
	}
	if leafSum != ramSum {
		return nil, ErrChecksumMismatch
	}

	o.leafCapacity = capacity
	idx := &Index{leaves: leaves, branches: branches, root: root, opts: o}
	idx.isEmpty = len(leaves) == 0
	return idx, nil
}

func loadLeaves(path string) ([]leaf, uint32, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, err
	}
	defer f.Close()

	header := make([]byte, leafHeaderSize)
	if _, err := io.ReadFull(f, header); err != nil {
		return nil, 0, 0, err
	}
	if binary.LittleEndian.Uint32(header[0:4]) != fileMagic {
		return nil, 0, 0, fmt.Errorf("spatial: bad leaf file magic")
	}
	capacity := int(binary.LittleEndian.Uint32(header[8:12]))
	leafCount := int(binary.LittleEndian.Uint32(header[12:16]))
	sum := binary.LittleEndian.Uint32(header[16:20])

	leaves := make([]leaf, leafCount)
	record := make([]byte, leafEntrySize)
	for i := 0; i < leafCount; i++ {
		var l leaf
		for e := 0; e < capacity; e++ {
			if _, err := io.ReadFull(f, record); err != nil {
				return nil, 0, 0, err
			}
			if binary.LittleEndian.Uint32(record[20:24]) == InvalidNode {
				continue // padding slot
			}
			seg := decodeSegment(record)
			box := segmentBox(seg)
			if len(l.Entries) == 0 {
				l.Box = box
			} else {
				l.Box = l.Box.union(box)
			}
			l.Entries = append(l.Entries, seg)
		}
		leaves[i] = l
	}
	return leaves, sum, capacity, nil
}

func loadBranches(path string) ([]branchNode, uint32, uint32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, err
	}
	defer f.Close()

	header := make([]byte, ramHeaderSize)
	if _, err := io.ReadFull(f, header); err != nil {
		return nil, 0, 0, err
	}
	if binary.LittleEndian.Uint32(header[0:4]) != fileMagic {
		return nil, 0, 0, fmt.Errorf("spatial: bad ram-index file magic")
	}
	branchCount := int(binary.LittleEndian.Uint32(header[8:12]))
	root := binary.LittleEndian.Uint32(header[12:16])
	sum := binary.LittleEndian.Uint32(header[16:20])

	branches := make([]branchNode, branchCount)
	record := make([]byte, branchRecordSize)
	for i := 0; i < branchCount; i++ {
		if _, err := io.ReadFull(f, record); err != nil {
			return nil, 0, 0, err
		}
		branches[i] = decodeBranch(record)
	}
	return branches, root, sum, nil
}
