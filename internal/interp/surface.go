package interp

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// cubicSurface is a cubic radial basis function interpolant with a
// linear polynomial tail:
//
//	s(p) = Σ wᵢ·‖p-pᵢ‖³ + a + b·lon + c·lat
//
// subject to Σw = Σw·lon = Σw·lat = 0. The tail keeps the system
// nonsingular for stations in general position and makes the surface
// exact at every station.
type cubicSurface struct {
	points  []samplePoint
	weights []float64 // len(points) RBF weights, then a, b, c
}

// newCubicSurface solves the interpolation system. Stations that all
// lie on one line make it singular; the resulting error tells the
// caller no surface exists.
func newCubicSurface(points []samplePoint) (*cubicSurface, error) {
	n := len(points)
	dim := n + 3
	a := mat.NewDense(dim, dim, nil)
	b := mat.NewVecDense(dim, nil)
	for i, pi := range points {
		for j, pj := range points {
			a.Set(i, j, cubicKernel(math.Hypot(pi.lon-pj.lon, pi.lat-pj.lat)))
		}
		a.Set(i, n, 1)
		a.Set(i, n+1, pi.lon)
		a.Set(i, n+2, pi.lat)
		a.Set(n, i, 1)
		a.Set(n+1, i, pi.lon)
		a.Set(n+2, i, pi.lat)
		b.SetVec(i, pi.value)
	}

	var w mat.VecDense
	if err := w.SolveVec(a, b); err != nil {
		return nil, fmt.Errorf("fit cubic surface: %w", err)
	}
	return &cubicSurface{points: points, weights: w.RawVector().Data}, nil
}

// eval samples the surface at one mesh point.
func (s *cubicSurface) eval(lon, lat float64) float64 {
	n := len(s.points)
	v := s.weights[n] + s.weights[n+1]*lon + s.weights[n+2]*lat
	for i, p := range s.points {
		v += s.weights[i] * cubicKernel(math.Hypot(lon-p.lon, lat-p.lat))
	}
	return v
}

func cubicKernel(r float64) float64 {
	return r * r * r
}
