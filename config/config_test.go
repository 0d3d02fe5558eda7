package config

import (
	"strings"
	"testing"
)

const minimalYAML = `
paths:
  input: graph.bin
  output_dir: ./out
`

func TestDecodeAppliesDefaults(t *testing.T) {
	c, err := Decode(strings.NewReader(minimalYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Headroom != 0.20 {
		t.Errorf("expected default headroom 0.20, got %v", c.Headroom)
	}
	if c.TinyThreshold != 1000 {
		t.Errorf("expected default tiny threshold 1000, got %v", c.TinyThreshold)
	}
	if c.SpatialFanout != 16 || c.SpatialLeafCapacity != 64 {
		t.Errorf("expected default spatial knobs, got fanout=%d leaf=%d", c.SpatialFanout, c.SpatialLeafCapacity)
	}
}

func TestDecodeRejectsMissingInput(t *testing.T) {
	_, err := Decode(strings.NewReader("paths:\n  output_dir: ./out\n"))
	if err == nil {
		t.Fatalf("expected an error for missing paths.input")
	}
}

func TestDecodeHonorsExplicitValues(t *testing.T) {
	yaml := `
paths:
  input: graph.bin
  output_dir: ./out
build:
  headroom: 0.5
  tiny_threshold: 200
  spatial_fanout: 8
  spatial_leaf_capacity: 32
`
	c, err := Decode(strings.NewReader(yaml))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Headroom != 0.5 || c.TinyThreshold != 200 || c.SpatialFanout != 8 || c.SpatialLeafCapacity != 32 {
		t.Errorf("expected explicit values to be honored, got %+v", c)
	}
}

func TestFacadePathsDerivesFromOutputDir(t *testing.T) {
	c, err := Decode(strings.NewReader(minimalYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	paths := c.FacadePaths()
	if paths.EdgesPath != "out/edges.bin" {
		t.Errorf("expected out/edges.bin, got %s", paths.EdgesPath)
	}
}
