package models

import (
	"cellroi/pkg/geometry"
)

// Region is an immutable segmented object: a polygon outline with its
// centroid and bounding box. Regions are compared by pointer identity.
type Region struct {
	// label is the value the object carried in its source label mask
	label int

	shape    geometry.Polygon
	centroid geometry.Point
	bounds   geometry.Rect
}

// NewRegion creates a region from a polygon outline, deriving the centroid
// from the polygon area
func NewRegion(label int, shape geometry.Polygon) *Region {
	return NewRegionWithCentroid(label, shape, shape.Centroid())
}

// NewRegionWithCentroid creates a region whose centroid was already
// computed by the caller, e.g. as the pixel mean of a labelled object
func NewRegionWithCentroid(label int, shape geometry.Polygon, centroid geometry.Point) *Region {
	own := make(geometry.Polygon, len(shape))
	copy(own, shape)
	return &Region{
		label:    label,
		shape:    own,
		centroid: centroid,
		bounds:   own.Bounds(),
	}
}

// Label returns the source label value
func (r *Region) Label() int { return r.label }

// Centroid returns the region centroid in full-resolution coordinates
func (r *Region) Centroid() geometry.Point { return r.centroid }

// Bounds returns the axis-aligned bounding box of the outline
func (r *Region) Bounds() geometry.Rect { return r.bounds }

// Shape returns a copy of the polygon outline
func (r *Region) Shape() geometry.Polygon {
	out := make(geometry.Polygon, len(r.shape))
	copy(out, r.shape)
	return out
}
