package coordinate

import "math"

// FixedPrecision is the scale factor between a degree and its fixed-point
// representation (1e-6 degrees), per spec.md §6.
const FixedPrecision = 1e6

// earthRadiusMeters is the mean Earth radius used for haversine distance.
const earthRadiusMeters = 6372797.560856

// Coordinate is a geographic point in 1e-6-degree fixed point.
type Coordinate struct {
	Lat int32 // latitude  * 1e6
	Lon int32 // longitude * 1e6
}

// FromDegrees builds a Coordinate from floating-point degrees.
func FromDegrees(lat, lon float64) Coordinate {
	return Coordinate{
		Lat: int32(math.Round(lat * FixedPrecision)),
		Lon: int32(math.Round(lon * FixedPrecision)),
	}
}

// Degrees returns the coordinate as floating-point (lat, lon) degrees.
func (c Coordinate) Degrees() (lat, lon float64) {
	return float64(c.Lat) / FixedPrecision, float64(c.Lon) / FixedPrecision
}

// Valid reports whether the coordinate lies within the representable
// geographic range.
func (c Coordinate) Valid() bool {
	lat, lon := c.Degrees()
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// Point is a planar point, used for both web-mercator projections and
// arbitrary 2-D query rectangles.
type Point struct {
	X, Y float64
}

// maxMercatorLat is the latitude beyond which the web-mercator projection
// is clipped, matching the conventional web-mercator limit.
const maxMercatorLat = 85.051128779806589

// ToMercator projects a Coordinate into web-mercator space in meters,
// suitable for planar bounding-box and distance comparisons over the short
// spans a road segment spans (spec.md §4.6).
func ToMercator(c Coordinate) Point {
	lat, lon := c.Degrees()
	if lat > maxMercatorLat {
		lat = maxMercatorLat
	} else if lat < -maxMercatorLat {
		lat = -maxMercatorLat
	}
	x := earthRadiusMeters * lon * math.Pi / 180
	y := earthRadiusMeters * math.Log(math.Tan(math.Pi/4+lat*math.Pi/360))
	return Point{X: x, Y: y}
}

// FromMercator inverse-projects a planar mercator point back to a
// Coordinate.
func FromMercator(p Point) Coordinate {
	lon := p.X / earthRadiusMeters * 180 / math.Pi
	lat := (2*math.Atan(math.Exp(p.Y/earthRadiusMeters)) - math.Pi/2) * 180 / math.Pi
	return FromDegrees(lat, lon)
}

// HaversineMeters returns the great-circle distance between two coordinates
// in meters.
func HaversineMeters(a, b Coordinate) float64 {
	lat1, lon1 := a.Degrees()
	lat2, lon2 := b.Degrees()

	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	sinDPhi := math.Sin(dPhi / 2)
	sinDLambda := math.Sin(dLambda / 2)

	h := sinDPhi*sinDPhi + math.Cos(phi1)*math.Cos(phi2)*sinDLambda*sinDLambda
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}

// BearingDegrees returns the initial compass bearing (0..360, 0 = north,
// clockwise) for travel from a to b.
func BearingDegrees(a, b Coordinate) float64 {
	lat1, lon1 := a.Degrees()
	lat2, lon2 := b.Degrees()

	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	y := math.Sin(dLambda) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLambda)
	theta := math.Atan2(y, x) * 180 / math.Pi
	return math.Mod(theta+360, 360)
}

// AngularDeviation returns the deviation from a straight-through path, in
// degrees (0 = dead straight, 180 = full U-turn), for a turn whose incoming
// bearing is `in` and outgoing bearing is `out`.
func AngularDeviation(in, out float64) float64 {
	turn := math.Mod(out-in+540, 360) - 180 // signed turn angle in [-180,180)
	return math.Abs(turn)
}

// Interpolate returns the point a fraction t (0..1) of the way from a to b
// in mercator space, then reprojects it to a Coordinate.
func Interpolate(a, b Coordinate, t float64) Coordinate {
	pa, pb := ToMercator(a), ToMercator(b)
	return FromMercator(Point{
		X: pa.X + (pb.X-pa.X)*t,
		Y: pa.Y + (pb.Y-pa.Y)*t,
	})
}
