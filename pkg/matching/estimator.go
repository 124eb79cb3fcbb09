package matching

import (
	"errors"
	"math"

	"cellroi/pkg/geometry"
)

// ErrDegenerateShape is returned when a boundary cannot be estimated from
// the given outline
var ErrDegenerateShape = errors.New("degenerate shape")

// BoundaryEstimator synthesizes a whole-cell outline from a nuclear outline
// when no segmented membrane region matches the nucleus.
//
// distance is the expansion in calibrated units and scale is the physical
// length of one pixel, so the expansion in pixels is distance/scale.
type BoundaryEstimator interface {
	Estimate(shape geometry.Polygon, distance, scale float64) (geometry.Polygon, error)
}

// EstimatorFunc adapts a function to the BoundaryEstimator interface
type EstimatorFunc func(shape geometry.Polygon, distance, scale float64) (geometry.Polygon, error)

// Estimate calls f
func (f EstimatorFunc) Estimate(shape geometry.Polygon, distance, scale float64) (geometry.Polygon, error) {
	return f(shape, distance, scale)
}

// RadialEstimator grows an outline by moving every vertex directly away
// from the outline centroid. It is exact for circles and a reasonable
// approximation for the convex, roughly round shapes of most nuclei.
type RadialEstimator struct{}

// Estimate implements BoundaryEstimator
func (RadialEstimator) Estimate(shape geometry.Polygon, distance, scale float64) (geometry.Polygon, error) {
	if len(shape) < 3 {
		return nil, ErrDegenerateShape
	}
	if scale <= 0 || math.IsNaN(scale) {
		scale = 1
	}
	grow := distance / scale

	c := shape.Centroid()
	if math.IsNaN(c.X) || math.IsNaN(c.Y) {
		return nil, ErrDegenerateShape
	}

	out := make(geometry.Polygon, len(shape))
	for i, v := range shape {
		dx, dy := v.X-c.X, v.Y-c.Y
		r := math.Hypot(dx, dy)
		if r == 0 {
			out[i] = v
			continue
		}
		// never shrink past the centroid for negative distances
		f := math.Max(0, (r+grow)/r)
		out[i] = geometry.Point{X: c.X + dx*f, Y: c.Y + dy*f}
	}
	return out, nil
}
