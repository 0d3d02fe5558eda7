package artifact

import (
	"encoding/binary"
	"fmt"
	"io"
)

// componentsMagic/componentsVersion identify the component-size array a
// build writes alongside the nodes stream: nodes carry a ComponentID, this
// stream gives the size of the component at that index, so a facade can
// derive the "tiny component" flag (spec.md §4.7) without re-running
// Tarjan at load time.
const (
	componentsMagic   uint32 = 0x434d5031 // "CMP1"
	componentsVersion uint16 = 1
)

// WriteComponentSizes encodes one u32 per component, in component-id
// order, behind the usual header.
func WriteComponentSizes(w io.Writer, sizes []uint32) error {
	if err := writeHeader(w, componentsMagic, componentsVersion); err != nil {
		return err
	}
	if err := writeCount(w, len(sizes)); err != nil {
		return err
	}
	buf := make([]byte, 4)
	for _, s := range sizes {
		binary.BigEndian.PutUint32(buf, s)
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

// ReadComponentSizes decodes a stream written by WriteComponentSizes.
func ReadComponentSizes(r io.Reader) ([]uint32, error) {
	var header [6]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("artifact: read component-sizes header: %w", err)
	}
	magic := binary.BigEndian.Uint32(header[0:4])
	version := binary.BigEndian.Uint16(header[4:6])
	if magic != componentsMagic {
		return nil, ErrBadMagic
	}
	if version != componentsVersion {
		return nil, ErrUnsupportedVersion
	}

	n, err := readCount(r)
	if err != nil {
		return nil, err
	}
	sizes := make([]uint32, n)
	buf := make([]byte, 4)
	for i := range sizes {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("artifact: read component size %d: %w", i, err)
		}
		sizes[i] = binary.BigEndian.Uint32(buf)
	}
	return sizes, nil
}
