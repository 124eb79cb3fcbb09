package matching

import (
	"gonum.org/v1/gonum/spatial/kdtree"

	"cellroi/internal/models"
)

// centroidPoint is a region centroid tagged with the region's input index
type centroidPoint struct {
	X, Y  float64
	index int
}

// Compare implements the kdtree.Comparable interface
func (p centroidPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(centroidPoint)
	switch d {
	case 0:
		return p.X - q.X
	case 1:
		return p.Y - q.Y
	default:
		panic("illegal dimension")
	}
}

// Dims returns the number of dimensions for the KD-tree
func (p centroidPoint) Dims() int { return 2 }

// Distance returns the squared Euclidean distance between two centroids
func (p centroidPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(centroidPoint)
	dx := p.X - q.X
	dy := p.Y - q.Y
	return dx*dx + dy*dy
}

// centroidPoints is a collection of centroidPoint that satisfies kdtree.Interface
type centroidPoints []centroidPoint

func (p centroidPoints) Index(i int) kdtree.Comparable         { return p[i] }
func (p centroidPoints) Len() int                              { return len(p) }
func (p centroidPoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

// Pivot implements the kdtree.Interface method
func (p centroidPoints) Pivot(d kdtree.Dim) int {
	return kdtree.Partition(centroidPlane{centroidPoints: p, Dim: d}, kdtree.MedianOfRandoms(centroidPlane{centroidPoints: p, Dim: d}, 100))
}

// centroidPlane implements sort.Interface and kdtree.SortSlicer for centroidPoints
type centroidPlane struct {
	centroidPoints
	kdtree.Dim
}

func (p centroidPlane) Less(i, j int) bool {
	switch p.Dim {
	case 0:
		return p.centroidPoints[i].X < p.centroidPoints[j].X
	case 1:
		return p.centroidPoints[i].Y < p.centroidPoints[j].Y
	default:
		panic("illegal dimension")
	}
}

func (p centroidPlane) Slice(start, end int) kdtree.SortSlicer {
	return centroidPlane{centroidPoints: p.centroidPoints[start:end], Dim: p.Dim}
}

func (p centroidPlane) Swap(i, j int) {
	p.centroidPoints[i], p.centroidPoints[j] = p.centroidPoints[j], p.centroidPoints[i]
}

// centroidIndex answers radius queries over region centroids. It is
// read-only after construction and safe for concurrent queries.
type centroidIndex struct {
	tree *kdtree.Tree
}

func newCentroidIndex(regions []*models.Region) *centroidIndex {
	if len(regions) == 0 {
		return &centroidIndex{}
	}
	// kdtree.New reorders its input, so build from a private slice
	points := make(centroidPoints, 0, len(regions))
	for i, r := range regions {
		c := r.Centroid()
		points = append(points, centroidPoint{X: c.X, Y: c.Y, index: i})
	}
	return &centroidIndex{tree: kdtree.New(points, false)}
}

// within returns the input indices of all centroids whose squared distance
// from (x, y) is at most radiusSq, in no particular order
func (ix *centroidIndex) within(x, y, radiusSq float64) []int {
	if ix.tree == nil {
		return nil
	}
	keeper := kdtree.NewDistKeeper(radiusSq)
	ix.tree.NearestSet(keeper, centroidPoint{X: x, Y: y, index: -1})

	var out []int
	for _, c := range keeper.Heap {
		// skip the keeper's sentinel if it survived the search
		if c.Comparable == nil {
			continue
		}
		out = append(out, c.Comparable.(centroidPoint).index)
	}
	return out
}
