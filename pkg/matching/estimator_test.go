package matching

import (
	"math"
	"testing"

	"cellroi/pkg/geometry"
)

func TestRadialEstimatorGrowsCircle(t *testing.T) {
	const n = 64
	circle := make(geometry.Polygon, n)
	for i := range circle {
		a := 2 * math.Pi * float64(i) / n
		circle[i] = geometry.Point{X: 100 + 10*math.Cos(a), Y: 80 + 10*math.Sin(a)}
	}

	tests := []struct {
		name     string
		distance float64
		scale    float64
		radius   float64
	}{
		{"pixels", 5, 1, 15},
		{"calibrated", 5, 0.5, 20},
		{"zero scale treated as one", 3, 0, 13},
		{"negative shrinks", -4, 1, 6},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := RadialEstimator{}.Estimate(circle, tc.distance, tc.scale)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if len(out) != n {
				t.Fatalf("Expected %d vertices, got %d", n, len(out))
			}
			for i, v := range out {
				r := math.Hypot(v.X-100, v.Y-80)
				if math.Abs(r-tc.radius) > 1e-9 {
					t.Errorf("Vertex %d: expected radius %f, got %f", i, tc.radius, r)
				}
			}
		})
	}
}

func TestRadialEstimatorRejectsDegenerate(t *testing.T) {
	_, err := RadialEstimator{}.Estimate(geometry.Polygon{{X: 1, Y: 1}, {X: 2, Y: 2}}, 5, 1)
	if err != ErrDegenerateShape {
		t.Errorf("Expected ErrDegenerateShape, got %v", err)
	}
}
