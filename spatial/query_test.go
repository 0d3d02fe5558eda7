package spatial

import "testing"

func TestNearestInRangeExcludesBeyondRadius(t *testing.T) {
	segments := []Segment{
		seg(1, 0, 0, 0.01, 0),
		seg(2, 50, 0, 50.01, 0),
	}
	idx, err := Build(segments)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The query point is segment 1's start; a 5 km radius reaches it but
	// falls far short of segment 2, about 5500 km away at 50 degrees east.
	results := idx.NearestInRange(pt(0, 0), 5000)
	if len(results) != 1 {
		t.Fatalf("expected 1 result within range, got %d", len(results))
	}
	if results[0].SegmentID != 1 {
		t.Fatalf("expected segment 1, got %d", results[0].SegmentID)
	}
}

func TestNearestInRangeEmptyWhenNothingWithinRadius(t *testing.T) {
	segments := []Segment{seg(1, 50, 0, 50.01, 0)}
	idx, err := Build(segments)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	results := idx.NearestInRange(pt(0, 0), 1000)
	if len(results) != 0 {
		t.Fatalf("expected 0 results, got %d", len(results))
	}
}

func TestBearingFilterKeepsOnlyMatchingDirection(t *testing.T) {
	// A segment running due east (forward bearing ~90).
	s := seg(1, 0, 0, 0.1, 0)
	idx, err := Build([]Segment{s})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	eastward := idx.Nearest(pt(0.05, 0.001), 1, WithBearing(90, 10))
	if len(eastward) != 1 {
		t.Fatalf("expected 1 result, got %d", len(eastward))
	}
	if eastward[0].ForwardNode != s.ForwardNode {
		t.Errorf("expected forward direction to survive an eastward bearing filter")
	}
	if eastward[0].ReverseNode != InvalidNode {
		t.Errorf("expected reverse direction to be filtered out, got %d", eastward[0].ReverseNode)
	}

	westward := idx.Nearest(pt(0.05, 0.001), 1, WithBearing(270, 10))
	if len(westward) != 1 {
		t.Fatalf("expected 1 result, got %d", len(westward))
	}
	if westward[0].ReverseNode != s.ReverseNode {
		t.Errorf("expected reverse direction to survive a westward bearing filter")
	}
	if westward[0].ForwardNode != InvalidNode {
		t.Errorf("expected forward direction to be filtered out, got %d", westward[0].ForwardNode)
	}
}

func TestBearingFilterDropsResultWhenNeitherDirectionMatches(t *testing.T) {
	s := seg(1, 0, 0, 0.1, 0) // east-west segment
	idx, err := Build([]Segment{s})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	results := idx.Nearest(pt(0.05, 0.001), 1, WithBearing(0, 10)) // due north, matches neither
	if len(results) != 0 {
		t.Fatalf("expected 0 results when neither direction matches bearing window, got %d", len(results))
	}
}

func TestNearestSkipsNonStartpointSegments(t *testing.T) {
	s := seg(1, 0, 0, 1, 0)
	s.IsStartpoint = false
	idx, err := Build([]Segment{s})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	results := idx.Nearest(pt(0.5, 0), 1)
	if len(results) != 0 {
		t.Fatalf("expected 0 results for a non-startpoint-only index, got %d", len(results))
	}
}
