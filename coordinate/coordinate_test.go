package coordinate

import (
	"math"
	"testing"
)

func TestFromDegreesRoundTrip(t *testing.T) {
	c := FromDegrees(50.4501, 30.5234) // Kyiv
	lat, lon := c.Degrees()
	if math.Abs(lat-50.4501) > 1e-6 || math.Abs(lon-30.5234) > 1e-6 {
		t.Fatalf("round trip mismatch: got (%v,%v)", lat, lon)
	}
	if !c.Valid() {
		t.Fatalf("expected valid coordinate")
	}
}

func TestMercatorRoundTrip(t *testing.T) {
	c := FromDegrees(48.8566, 2.3522) // Paris
	p := ToMercator(c)
	back := FromMercator(p)
	lat1, lon1 := c.Degrees()
	lat2, lon2 := back.Degrees()
	if math.Abs(lat1-lat2) > 1e-4 || math.Abs(lon1-lon2) > 1e-4 {
		t.Fatalf("mercator round trip mismatch: (%v,%v) vs (%v,%v)", lat1, lon1, lat2, lon2)
	}
}

func TestHaversineMetersKnownDistance(t *testing.T) {
	kyiv := FromDegrees(50.4501, 30.5234)
	lviv := FromDegrees(49.8397, 24.0297)
	d := HaversineMeters(kyiv, lviv)
	// Approximately 470-540 km depending on the exact great-circle path.
	if d < 400_000 || d > 600_000 {
		t.Fatalf("unexpected distance Kyiv-Lviv: %v meters", d)
	}
}

func TestBearingDegreesCardinal(t *testing.T) {
	a := FromDegrees(0, 0)
	north := FromDegrees(1, 0)
	east := FromDegrees(0, 1)

	if b := BearingDegrees(a, north); math.Abs(b-0) > 1 {
		t.Errorf("expected bearing ~0 for due north, got %v", b)
	}
	if b := BearingDegrees(a, east); math.Abs(b-90) > 1 {
		t.Errorf("expected bearing ~90 for due east, got %v", b)
	}
}

func TestAngularDeviationStraightAndUTurn(t *testing.T) {
	if d := AngularDeviation(90, 90); d != 0 {
		t.Errorf("expected 0 deviation for straight continuation, got %v", d)
	}
	if d := AngularDeviation(90, 270); d != 180 {
		t.Errorf("expected 180 deviation for a U-turn, got %v", d)
	}
}

func TestInterpolateMidpoint(t *testing.T) {
	a := FromDegrees(0, 0)
	b := FromDegrees(0, 2)
	mid := Interpolate(a, b, 0.5)
	_, lon := mid.Degrees()
	if math.Abs(lon-1) > 1e-3 {
		t.Errorf("expected midpoint lon ~1, got %v", lon)
	}
}
