// Package geometry provides the small set of planar types used to describe
// segmented regions: points, axis-aligned rectangles and simple polygons,
// together with rasterization of polygons into binary masks.
package geometry

import (
	"math"
)

// Point is a position in full-resolution image coordinates
type Point struct {
	X, Y float64
}

// Distance returns the Euclidean distance between two points
func (p Point) Distance(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Rect is an axis-aligned rectangle given by its top-left corner and size
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// MaxX returns the right edge of the rectangle
func (r Rect) MaxX() float64 { return r.X + r.Width }

// MaxY returns the bottom edge of the rectangle
func (r Rect) MaxY() float64 { return r.Y + r.Height }

// IsFinite reports whether every component of the rectangle is a finite number
func (r Rect) IsFinite() bool {
	for _, v := range []float64{r.X, r.Y, r.Width, r.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// ContainedIn reports whether the rectangle lies entirely inside
// [0, width] x [0, height]. The image edges themselves count as inside.
func (r Rect) ContainedIn(width, height float64) bool {
	if !r.IsFinite() {
		return false
	}
	return r.X >= 0 && r.Y >= 0 && r.MaxX() <= width && r.MaxY() <= height
}

// Polygon is a simple closed ring of vertices. The closing edge from the
// last vertex back to the first is implicit.
type Polygon []Point

// Area returns the signed area of the polygon (positive for
// counter-clockwise rings in a y-up frame) using the shoelace formula
func (p Polygon) Area() float64 {
	n := len(p)
	if n < 3 {
		return 0
	}

	sum := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += p[i].X*p[j].Y - p[j].X*p[i].Y
	}
	return sum / 2
}

// Centroid returns the area centroid of the polygon. Degenerate polygons
// (fewer than three vertices or zero area) fall back to the vertex mean.
func (p Polygon) Centroid() Point {
	n := len(p)
	if n == 0 {
		return Point{X: math.NaN(), Y: math.NaN()}
	}

	area := p.Area()
	if n < 3 || area == 0 {
		var cx, cy float64
		for _, v := range p {
			cx += v.X
			cy += v.Y
		}
		return Point{X: cx / float64(n), Y: cy / float64(n)}
	}

	var cx, cy float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		cross := p[i].X*p[j].Y - p[j].X*p[i].Y
		cx += (p[i].X + p[j].X) * cross
		cy += (p[i].Y + p[j].Y) * cross
	}
	return Point{X: cx / (6 * area), Y: cy / (6 * area)}
}

// Bounds returns the axis-aligned bounding rectangle of the polygon.
// An empty polygon yields a rectangle of NaNs.
func (p Polygon) Bounds() Rect {
	if len(p) == 0 {
		nan := math.NaN()
		return Rect{X: nan, Y: nan, Width: nan, Height: nan}
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, v := range p {
		minX = math.Min(minX, v.X)
		minY = math.Min(minY, v.Y)
		maxX = math.Max(maxX, v.X)
		maxY = math.Max(maxY, v.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Translate returns a copy of the polygon shifted by (dx, dy)
func (p Polygon) Translate(dx, dy float64) Polygon {
	out := make(Polygon, len(p))
	for i, v := range p {
		out[i] = Point{X: v.X + dx, Y: v.Y + dy}
	}
	return out
}

// RectPolygon returns the four-vertex polygon covering r
func RectPolygon(r Rect) Polygon {
	return Polygon{
		{X: r.X, Y: r.Y},
		{X: r.MaxX(), Y: r.Y},
		{X: r.MaxX(), Y: r.MaxY()},
		{X: r.X, Y: r.MaxY()},
	}
}
