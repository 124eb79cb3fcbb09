// Package matching pairs nuclear regions with whole-cell regions and
// filters the resulting cells against the image extent.
package matching

import (
	"fmt"
	"math"

	"cellroi/internal/logger"
	"cellroi/internal/models"
	"cellroi/pkg/parallel"
)

const component = "matcher"

// Matcher pairs every nuclear region with the whole-cell region whose
// centroid is nearest, falling back to boundary estimation when no
// whole-cell centroid lies within DistanceThreshold.
type Matcher struct {
	// DistanceThreshold is the exclusive upper bound on the centroid
	// distance, in pixels, for a membrane region to be accepted
	DistanceThreshold float64

	// ExpansionDistance is passed to the Estimator for unmatched nuclei
	ExpansionDistance float64

	// Scale is the physical length of one pixel, passed to the Estimator
	Scale float64

	// Workers bounds the number of nuclei matched concurrently
	Workers int

	// Estimator synthesizes a membrane for unmatched nuclei.
	// RadialEstimator is used when nil.
	Estimator BoundaryEstimator

	// Logger receives progress information; nil disables logging
	Logger logger.Logger
}

// Match pairs nuclei with membranes using a Matcher with a single worker
// and unit pixel scale
func Match(nuclei, membranes []*models.Region, distanceThreshold, expansionDistance float64, estimator BoundaryEstimator) ([]*models.PairedCell, error) {
	m := &Matcher{
		DistanceThreshold: distanceThreshold,
		ExpansionDistance: expansionDistance,
		Scale:             1,
		Workers:           1,
		Estimator:         estimator,
	}
	return m.Match(nuclei, membranes)
}

// Match returns exactly one PairedCell per nucleus, in nucleus input order.
//
// For each nucleus the membrane region with the smallest centroid distance
// is chosen, provided that distance is strictly below DistanceThreshold.
// Equidistant candidates resolve to the one earliest in the membranes
// slice. Membranes are not consumed: a membrane that is nearest to several
// nuclei is paired with each of them.
//
// An error is returned only if the Estimator fails.
func (m *Matcher) Match(nuclei, membranes []*models.Region) ([]*models.PairedCell, error) {
	if len(nuclei) == 0 {
		return []*models.PairedCell{}, nil
	}

	estimator := m.Estimator
	if estimator == nil {
		estimator = RadialEstimator{}
	}
	scale := m.Scale
	if scale <= 0 {
		scale = 1
	}

	index := newCentroidIndex(membranes)

	cells, err := parallel.MapErr(nuclei, m.Workers, func(i int, nucleus *models.Region) (*models.PairedCell, error) {
		if j, ok := m.nearest(index, nucleus, membranes); ok {
			return models.NewPairedCell(membranes[j], nucleus, false), nil
		}

		shape, err := estimator.Estimate(nucleus.Shape(), m.ExpansionDistance, scale)
		if err != nil {
			return nil, fmt.Errorf("failed to estimate boundary for nucleus %d (label %d): %w", i, nucleus.Label(), err)
		}
		return models.NewPairedCell(models.NewRegion(nucleus.Label(), shape), nucleus, true), nil
	})
	if err != nil {
		return nil, err
	}

	if m.Logger != nil {
		estimated := 0
		for _, c := range cells {
			if c.Estimated {
				estimated++
			}
		}
		m.Logger.Info(component, "matched nuclei to membranes", map[string]interface{}{
			"nuclei":    len(nuclei),
			"membranes": len(membranes),
			"matched":   len(cells) - estimated,
			"estimated": estimated,
		})
	}
	return cells, nil
}

// nearest returns the index of the membrane selected for nucleus
func (m *Matcher) nearest(index *centroidIndex, nucleus *models.Region, membranes []*models.Region) (int, bool) {
	threshold := m.DistanceThreshold
	if !(threshold > 0) {
		return 0, false
	}

	c := nucleus.Centroid()
	// widen the squared radius slightly so rounding never drops a candidate;
	// the exact strict comparison happens below
	radius := threshold * (1 + 1e-9)
	candidates := index.within(c.X, c.Y, radius*radius)

	best, bestDist := -1, math.Inf(1)
	for _, j := range candidates {
		d := c.Distance(membranes[j].Centroid())
		if d >= threshold {
			continue
		}
		if d < bestDist || (d == bestDist && j < best) {
			best, bestDist = j, d
		}
	}
	return best, best >= 0
}
