// Package pipeline runs the full cell construction and measurement flow:
// matching nuclei to whole-cell regions, resolving overlaps, discarding
// cells that leave the image and measuring compartment intensities.
package pipeline

import (
	"fmt"
	"time"

	"cellroi/internal/logger"
	"cellroi/internal/models"
	"cellroi/pkg/config"
	"cellroi/pkg/imagesource"
	"cellroi/pkg/matching"
	"cellroi/pkg/measurement"
)

const component = "pipeline"

// Params holds the pipeline parameters
type Params struct {
	// Workers bounds the goroutines of each parallel phase
	Workers int

	// DistanceThreshold is the exclusive maximum centroid distance in
	// pixels between a nucleus and its whole-cell region
	DistanceThreshold float64

	// ExpansionDistance is how far unmatched nuclei are grown, in the
	// units of PixelSize
	ExpansionDistance float64

	// PixelSize is the physical length of one pixel
	PixelSize float64

	// Downsample is the resolution intensities are measured at
	Downsample float64

	// Percentiles to compute for every channel and compartment
	Percentiles []float64

	// Compartments to measure, in output order
	Compartments []models.Compartment

	// ExtraStatistics adds mean, standard deviation, minimum and maximum
	ExtraStatistics bool
}

// ParamsFromConfig builds pipeline parameters from a validated configuration
func ParamsFromConfig(cfg *config.Config) (*Params, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	comps, err := cfg.ParseCompartments()
	if err != nil {
		return nil, err
	}
	return &Params{
		Workers:           cfg.Processing.NumWorkers,
		DistanceThreshold: cfg.Matching.DistanceThreshold,
		ExpansionDistance: cfg.Matching.ExpansionDistance,
		PixelSize:         cfg.Matching.PixelSize,
		Downsample:        cfg.Measurement.Downsample,
		Percentiles:       append([]float64(nil), cfg.Measurement.Percentiles...),
		Compartments:      comps,
		ExtraStatistics:   cfg.Measurement.ExtraStatistics,
	}, nil
}

// OverlapResolver adjusts paired cells so that neighbouring cells do not
// overlap. It runs once, after matching and before bounds filtering.
type OverlapResolver interface {
	Resolve(cells []*models.PairedCell) ([]*models.PairedCell, error)
}

// Summary counts what happened to the cells in the last run
type Summary struct {
	Nuclei    int
	Matched   int
	Estimated int
	Filtered  int
	Measured  int
	Duration  time.Duration
}

// Pipeline turns nuclear and whole-cell regions into measured cells
type Pipeline struct {
	params    *Params
	source    imagesource.Source
	estimator matching.BoundaryEstimator
	resolver  OverlapResolver
	log       logger.Logger

	summary Summary
}

// NewPipeline creates a pipeline reading intensities from source. A nil
// estimator selects matching.RadialEstimator and a nil log discards
// messages.
func NewPipeline(params *Params, source imagesource.Source, estimator matching.BoundaryEstimator, log logger.Logger) (*Pipeline, error) {
	if params == nil {
		return nil, fmt.Errorf("missing pipeline parameters")
	}
	if params.Workers < 1 {
		return nil, fmt.Errorf("%w, got %d", config.ErrInvalidWorkers, params.Workers)
	}
	if source == nil {
		return nil, fmt.Errorf("missing image source")
	}
	if estimator == nil {
		estimator = matching.RadialEstimator{}
	}
	if log == nil {
		log = logger.NewNop()
	}

	return &Pipeline{
		params:    params,
		source:    source,
		estimator: estimator,
		log:       log,
	}, nil
}

// WithOverlapResolver installs a resolver applied between matching and
// bounds filtering
func (p *Pipeline) WithOverlapResolver(r OverlapResolver) *Pipeline {
	p.resolver = r
	return p
}

// Process runs every phase in sequence and returns the surviving cells in
// nucleus input order, each carrying its measurements
func (p *Pipeline) Process(nuclei, membranes []*models.Region) ([]*models.PairedCell, error) {
	start := time.Now()
	p.summary = Summary{Nuclei: len(nuclei)}

	// Step 1: pair nuclei with whole-cell regions
	matcher := &matching.Matcher{
		DistanceThreshold: p.params.DistanceThreshold,
		ExpansionDistance: p.params.ExpansionDistance,
		Scale:             p.params.PixelSize,
		Workers:           p.params.Workers,
		Estimator:         p.estimator,
		Logger:            p.log,
	}
	cells, err := matcher.Match(nuclei, membranes)
	if err != nil {
		return nil, fmt.Errorf("failed to match regions: %w", err)
	}
	for _, c := range cells {
		if c.Estimated {
			p.summary.Estimated++
		} else {
			p.summary.Matched++
		}
	}

	// Step 2: resolve overlaps between neighbouring cells
	if p.resolver != nil {
		cells, err = p.resolver.Resolve(cells)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve overlaps: %w", err)
		}
	}

	// Step 3: drop cells that leave the image
	kept := matching.FilterByBounds(cells, float64(p.source.Width()), float64(p.source.Height()))
	p.summary.Filtered = len(cells) - len(kept)
	if p.summary.Filtered > 0 {
		p.log.Info(component, "removed cells outside the image", map[string]interface{}{
			"removed": p.summary.Filtered,
		})
	}

	// Step 4: compartment intensities
	if len(p.params.Percentiles) > 0 || p.params.ExtraStatistics {
		engine := &measurement.Engine{
			Source:          p.source,
			Downsample:      p.params.Downsample,
			Percentiles:     p.params.Percentiles,
			Compartments:    p.params.Compartments,
			ExtraStatistics: p.params.ExtraStatistics,
			Logger:          p.log,
		}
		p.summary.Measured = engine.MeasureAll(kept, p.params.Workers)
	}

	p.summary.Duration = time.Since(start)
	p.log.Info(component, "pipeline finished", map[string]interface{}{
		"nuclei":    p.summary.Nuclei,
		"matched":   p.summary.Matched,
		"estimated": p.summary.Estimated,
		"filtered":  p.summary.Filtered,
		"measured":  p.summary.Measured,
		"duration":  p.summary.Duration.String(),
	})
	return kept, nil
}

// Summary returns the counts of the last Process call
func (p *Pipeline) Summary() Summary {
	return p.summary
}
