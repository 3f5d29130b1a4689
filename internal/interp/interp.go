// Package interp builds distance-masked interpolation grids from
// scattered station observations, the data behind the heatmap layer.
//
// Values are scaled into [0,1] against the slice maximum, a smooth
// cubic surface is fitted through the station points, and the surface
// is sampled on a regular mesh over the stations' bounding box. Mesh
// points outside the stations' convex hull, or farther than the cutoff
// radius from every real observation, are absent from the output: the
// interpolator never fabricates plausible-looking values far from any
// sensor.
package interp

import (
	"math"
	"strconv"
	"sync"

	"gonum.org/v1/gonum/floats"

	"github.com/oysteike/miljodataAnalyse/internal/domain"
)

// kmPerDegree approximates kilometers per degree at southern Norwegian
// latitudes. An equirectangular shortcut, not geodesically exact.
const kmPerDegree = 111.0

// minSamples is the smallest station count that can span a surface.
const minSamples = 3

// Config controls grid construction.
type Config struct {
	// Resolution is the number of mesh points per axis.
	Resolution int
	// CutoffRadiusKM masks mesh points farther than this from every
	// real observation.
	CutoffRadiusKM float64
}

// DefaultConfig returns the rendering defaults: a 200x200 mesh masked
// at 75 km.
func DefaultConfig() Config {
	return Config{Resolution: 200, CutoffRadiusKM: 75}
}

// Validate rejects parameters that would make the mesh meaningless.
func (c Config) Validate() error {
	if c.Resolution <= 0 {
		return &domain.ConfigurationError{
			Param:  "grid resolution",
			Value:  strconv.Itoa(c.Resolution),
			Reason: "must be positive",
		}
	}
	if c.CutoffRadiusKM <= 0 {
		return &domain.ConfigurationError{
			Param:  "cutoff radius",
			Value:  strconv.FormatFloat(c.CutoffRadiusKM, 'g', -1, 64),
			Reason: "must be positive",
		}
	}
	return nil
}

// GridPoint is one surviving mesh point with its interpolated value.
type GridPoint struct {
	Lon         float64
	Lat         float64
	ScaledValue float64
}

// samplePoint is a usable observation: coordinates plus scaled value.
type samplePoint struct {
	lon, lat, value float64
}

// BuildGrid interpolates one day/datatype slice of observations onto a
// regular mesh and masks untrustworthy points.
//
// A slice with fewer than three usable points, a degenerate value
// maximum, or degenerate geometry (all stations on one line) cannot
// support interpolation; those cases return an empty grid, not an
// error. Invalid configuration is a *domain.ConfigurationError.
func BuildGrid(obs []domain.Observation, cfg Config) ([]GridPoint, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	samples := scale(obs)
	samples = mergeColocated(samples)
	if len(samples) < minSamples {
		return nil, nil
	}

	surface, err := newCubicSurface(samples)
	if err != nil {
		return nil, nil
	}
	hull := convexHull(samples)

	minLon, maxLon := bounds(samples, func(p samplePoint) float64 { return p.lon })
	minLat, maxLat := bounds(samples, func(p samplePoint) float64 { return p.lat })
	lons := linspace(minLon, maxLon, cfg.Resolution)
	lats := linspace(minLat, maxLat, cfg.Resolution)

	// Mesh rows are independent; evaluation fans out across them.
	rows := make([][]GridPoint, len(lats))
	var wg sync.WaitGroup
	for yi := range lats {
		wg.Add(1)
		go func(yi int) {
			defer wg.Done()
			lat := lats[yi]
			var row []GridPoint
			for _, lon := range lons {
				if !hull.contains(lon, lat) {
					continue
				}
				if nearestDistanceKM(samples, lon, lat) > cfg.CutoffRadiusKM {
					continue
				}
				row = append(row, GridPoint{
					Lon:         lon,
					Lat:         lat,
					ScaledValue: clamp01(surface.eval(lon, lat)),
				})
			}
			rows[yi] = row
		}(yi)
	}
	wg.Wait()

	var out []GridPoint
	for _, row := range rows {
		out = append(out, row...)
	}
	return out, nil
}

// scale keeps observations that carry coordinates and a value, divides
// by the slice maximum and clips to [0,1]. A zero, negative or NaN
// maximum means there is no data to scale.
func scale(obs []domain.Observation) []samplePoint {
	var samples []samplePoint
	var values []float64
	for _, o := range obs {
		if o.Missing || !o.HasCoords {
			continue
		}
		samples = append(samples, samplePoint{lon: o.Lon, lat: o.Lat, value: o.Value})
		values = append(values, o.Value)
	}
	if len(samples) == 0 {
		return nil
	}
	max := floats.Max(values)
	if math.IsNaN(max) || max <= 0 {
		return nil
	}
	for i := range samples {
		samples[i].value = clamp01(samples[i].value / max)
	}
	return samples
}

// mergeColocated averages readings that share exact coordinates so the
// surface system stays nonsingular.
func mergeColocated(samples []samplePoint) []samplePoint {
	type coord struct{ lon, lat float64 }
	type acc struct {
		sum float64
		n   int
	}
	var order []coord
	sums := make(map[coord]*acc)
	for _, s := range samples {
		c := coord{s.lon, s.lat}
		a, ok := sums[c]
		if !ok {
			a = &acc{}
			sums[c] = a
			order = append(order, c)
		}
		a.sum += s.value
		a.n++
	}
	out := make([]samplePoint, 0, len(order))
	for _, c := range order {
		a := sums[c]
		out = append(out, samplePoint{lon: c.lon, lat: c.lat, value: a.sum / float64(a.n)})
	}
	return out
}

// nearestDistanceKM is the equirectangular distance from (lon, lat) to
// the closest observation.
func nearestDistanceKM(samples []samplePoint, lon, lat float64) float64 {
	best := math.Inf(1)
	for _, p := range samples {
		if d := math.Hypot(lon-p.lon, lat-p.lat); d < best {
			best = d
		}
	}
	return best * kmPerDegree
}

func bounds(samples []samplePoint, axis func(samplePoint) float64) (min, max float64) {
	min, max = axis(samples[0]), axis(samples[0])
	for _, s := range samples[1:] {
		v := axis(s)
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

func linspace(min, max float64, n int) []float64 {
	if n == 1 {
		return []float64{min}
	}
	return floats.Span(make([]float64, n), min, max)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
