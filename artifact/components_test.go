package artifact

import (
	"bytes"
	"testing"
)

func TestWriteReadComponentSizesRoundTrip(t *testing.T) {
	sizes := []uint32{1, 4000, 3, 1500}
	var buf bytes.Buffer
	if err := WriteComponentSizes(&buf, sizes); err != nil {
		t.Fatalf("WriteComponentSizes: %v", err)
	}
	got, err := ReadComponentSizes(&buf)
	if err != nil {
		t.Fatalf("ReadComponentSizes: %v", err)
	}
	if len(got) != len(sizes) {
		t.Fatalf("expected %d sizes, got %d", len(sizes), len(got))
	}
	for i := range sizes {
		if got[i] != sizes[i] {
			t.Errorf("size %d: expected %d, got %d", i, sizes[i], got[i])
		}
	}
}
