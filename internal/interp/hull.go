package interp

import "sort"

// hullEps absorbs floating-point noise when testing mesh points against
// hull edges, so boundary points count as inside.
const hullEps = 1e-12

// hullPolygon is a convex polygon in counterclockwise vertex order.
type hullPolygon struct {
	verts [][2]float64
}

// convexHull computes the convex hull of the samples with Andrew's
// monotone chain. Collinear inputs yield a degenerate polygon with
// fewer than three vertices, which contains nothing.
func convexHull(samples []samplePoint) hullPolygon {
	pts := make([][2]float64, len(samples))
	for i, s := range samples {
		pts[i] = [2]float64{s.lon, s.lat}
	}
	sort.Slice(pts, func(i, j int) bool {
		if pts[i][0] != pts[j][0] {
			return pts[i][0] < pts[j][0]
		}
		return pts[i][1] < pts[j][1]
	})

	var lower [][2]float64
	for _, p := range pts {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}
	var upper [][2]float64
	for i := len(pts) - 1; i >= 0; i-- {
		p := pts[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}

	hull := append(lower[:len(lower)-1], upper[:len(upper)-1]...)
	return hullPolygon{verts: hull}
}

// contains reports whether (lon, lat) lies inside or on the hull.
func (h hullPolygon) contains(lon, lat float64) bool {
	if len(h.verts) < 3 {
		return false
	}
	p := [2]float64{lon, lat}
	for i, a := range h.verts {
		b := h.verts[(i+1)%len(h.verts)]
		if cross(a, b, p) < -hullEps {
			return false
		}
	}
	return true
}

// cross is the z-component of (a-o) x (b-o): positive when o→a→b turns
// counterclockwise.
func cross(o, a, b [2]float64) float64 {
	return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
}
