package artifact

import (
	"encoding/binary"
	"fmt"
	"io"
)

// inputMagic/inputVersion identify the input stream's schema (spec.md §6
// item 1).
const (
	inputMagic   uint32 = 0x4e424731 // "NBG1"
	inputVersion uint16 = 1
)

const (
	nodeRecordSize        = 16 // external_id(8) + lat(4) + lon(4)
	edgeRecordSize        = 24 // source(4) + target(4) + length(4) + direction(1) + weight(4) + type(2) + name_id(4) + flags(1)
	restrictionRecordSize = 13 // from(4) + via(4) + to(4) + is_only(1)
)

// ReadInputGraph decodes the serialized node-based graph stream (spec.md
// §6): header, node records, edge records, barrier/traffic-light id lists,
// restriction records, in that fixed order. It validates the input
// invariants (positive weights/lengths, ids within range) as it goes and
// returns the first violation found — spec.md §7 classifies all of these
// as fatal InputCorruption.
func ReadInputGraph(r io.Reader) (*InputGraph, error) {
	var header [6]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("artifact: read header: %w", err)
	}
	magic := binary.BigEndian.Uint32(header[0:4])
	version := binary.BigEndian.Uint16(header[4:6])
	if magic != inputMagic {
		return nil, ErrBadMagic
	}
	if version != inputVersion {
		return nil, ErrUnsupportedVersion
	}

	nodeCount, err := readCount(r)
	if err != nil {
		return nil, err
	}
	nodes := make([]NodeRecord, nodeCount)
	buf := make([]byte, nodeRecordSize)
	for i := range nodes {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("artifact: read node %d: %w", i, err)
		}
		nodes[i] = NodeRecord{
			ExternalID: binary.BigEndian.Uint64(buf[0:8]),
			Lat:        int32(binary.BigEndian.Uint32(buf[8:12])),
			Lon:        int32(binary.BigEndian.Uint32(buf[12:16])),
		}
	}

	edgeCount, err := readCount(r)
	if err != nil {
		return nil, err
	}
	edges := make([]EdgeRecord, edgeCount)
	ebuf := make([]byte, edgeRecordSize)
	for i := range edges {
		if _, err := io.ReadFull(r, ebuf); err != nil {
			return nil, fmt.Errorf("artifact: read edge %d: %w", i, err)
		}
		e := EdgeRecord{
			Source:    binary.BigEndian.Uint32(ebuf[0:4]),
			Target:    binary.BigEndian.Uint32(ebuf[4:8]),
			Length:    int32(binary.BigEndian.Uint32(ebuf[8:12])),
			Direction: Direction(ebuf[12]),
			Weight:    binary.BigEndian.Uint32(ebuf[13:17]),
			Type:      int16(binary.BigEndian.Uint16(ebuf[17:19])),
			NameID:    binary.BigEndian.Uint32(ebuf[19:23]),
			Flags:     ebuf[23],
		}
		if int(e.Source) >= int(nodeCount) || int(e.Target) >= int(nodeCount) {
			return nil, fmt.Errorf("artifact: edge %d: %w", i, ErrNodeOutOfRange)
		}
		if e.Length <= 0 || e.Weight == 0 {
			return nil, fmt.Errorf("artifact: edge %d: %w", i, ErrNonPositiveWeight)
		}
		edges[i] = e
	}

	barriers, err := readIDList(r, nodeCount)
	if err != nil {
		return nil, fmt.Errorf("artifact: read barrier list: %w", err)
	}
	trafficLights, err := readIDList(r, nodeCount)
	if err != nil {
		return nil, fmt.Errorf("artifact: read traffic-light list: %w", err)
	}

	restrictionCount, err := readCount(r)
	if err != nil {
		return nil, err
	}
	restrictions := make([]RestrictionRecord, restrictionCount)
	rbuf := make([]byte, restrictionRecordSize)
	for i := range restrictions {
		if _, err := io.ReadFull(r, rbuf); err != nil {
			return nil, fmt.Errorf("artifact: read restriction %d: %w", i, err)
		}
		rec := RestrictionRecord{
			From:   binary.BigEndian.Uint32(rbuf[0:4]),
			Via:    binary.BigEndian.Uint32(rbuf[4:8]),
			To:     binary.BigEndian.Uint32(rbuf[8:12]),
			IsOnly: rbuf[12] != 0,
		}
		if int(rec.From) >= int(nodeCount) || int(rec.Via) >= int(nodeCount) || int(rec.To) >= int(nodeCount) {
			return nil, fmt.Errorf("artifact: restriction %d: %w", i, ErrNodeOutOfRange)
		}
		restrictions[i] = rec
	}

	return &InputGraph{
		Nodes:         nodes,
		Edges:         edges,
		Barriers:      barriers,
		TrafficLights: trafficLights,
		Restrictions:  restrictions,
	}, nil
}

func readCount(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, fmt.Errorf("artifact: read count: %w", err)
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

func readIDList(r io.Reader, nodeCount uint32) ([]uint32, error) {
	count, err := readCount(r)
	if err != nil {
		return nil, err
	}
	ids := make([]uint32, count)
	buf := make([]byte, 4)
	for i := range ids {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("read id %d: %w", i, err)
		}
		id := binary.BigEndian.Uint32(buf)
		if id >= nodeCount {
			return nil, fmt.Errorf("id %d: %w", i, ErrNodeOutOfRange)
		}
		ids[i] = id
	}
	return ids, nil
}
