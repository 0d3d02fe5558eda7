package spatial

import "github.com/katalvlaran/routekernel/coordinate"

// hilbertOrder is the number of bits per axis used to discretize a
// mercator point before computing its Hilbert index (spec.md §4.6 "Sort
// segments by their Hilbert-curve ranking... at a chosen resolution").
// 16 bits per axis gives a 32-bit combined index with cells of roughly
// 600 m over the ~40000 km mercator span, ample for build-time locality
// ordering (this is not a coordinate storage format).
const hilbertOrder = 16

// worldExtentMeters bounds the web-mercator plane used to discretize
// centroids onto the Hilbert grid; it is the conventional web-mercator
// half-extent (see coordinate.maxMercatorLat).
const worldExtentMeters = 20037508.342789244

// hilbertIndex maps a mercator point to its position along a Hilbert
// curve of order hilbertOrder, used purely as a sort key for spatial
// locality (spec.md §4.6).
func hilbertIndex(p coordinate.Point) uint32 {
	side := uint32(1) << hilbertOrder
	x := clampToGrid(p.X, side)
	y := clampToGrid(p.Y, side)
	return xy2d(side, x, y)
}

func clampToGrid(v float64, side uint32) uint32 {
	normalized := (v + worldExtentMeters) / (2 * worldExtentMeters)
	if normalized < 0 {
		normalized = 0
	}
	if normalized > 1 {
		normalized = 1
	}
	g := uint32(normalized * float64(side-1))
	if g >= side {
		g = side - 1
	}
	return g
}

// xy2d converts (x,y) grid coordinates into a Hilbert curve distance,
// the standard bit-rotation algorithm (Wikipedia "Hilbert curve", public
// domain formulation).
func xy2d(side, x, y uint32) uint32 {
	var d uint32
	for s := side / 2; s > 0; s /= 2 {
		var rx, ry uint32
		if x&s > 0 {
			rx = 1
		}
		if y&s > 0 {
			ry = 1
		}
		d += s * s * ((3 * rx) ^ ry)
		x, y = rotate(side, x, y, rx, ry)
	}
	return d
}

func rotate(side, x, y, rx, ry uint32) (uint32, uint32) {
	if ry != 0 {
		return x, y
	}
	if rx == 1 {
		x = side - 1 - x
		y = side - 1 - y
	}
	return y, x
}
