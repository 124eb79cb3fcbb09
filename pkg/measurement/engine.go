// Package measurement computes per-channel, per-compartment intensity
// statistics for paired cells.
package measurement

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"cellroi/internal/logger"
	"cellroi/internal/models"
	"cellroi/pkg/compartment"
	"cellroi/pkg/geometry"
	"cellroi/pkg/imagesource"
	"cellroi/pkg/parallel"
)

const component = "measurement"

// Engine measures channel intensities inside the compartments of a cell
type Engine struct {
	// Source provides the pixels; it is read concurrently by MeasureAll
	Source imagesource.Source

	// Downsample is the resolution pixels are read at, 1 being full resolution
	Downsample float64

	// Percentiles are the requested percentiles, each in [0, 100]
	Percentiles []float64

	// Compartments are measured in the given order
	Compartments []models.Compartment

	// ExtraStatistics adds mean, standard deviation, minimum and maximum
	ExtraStatistics bool

	// Logger receives per-cell failures; nil disables logging
	Logger logger.Logger
}

// Measure computes the statistics for one cell and returns them in a
// deterministic order: by channel, then compartment, then statistic.
// Failures are logged and never returned: a cell whose pixels cannot be
// read yields no measurements, and a failure part way through yields the
// measurements computed up to that point.
func (e *Engine) Measure(cell *models.PairedCell) (entries []models.Measurement) {
	if cell == nil || cell.Membrane == nil {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			e.logError(cell, fmt.Errorf("measurement panicked: %v", r))
		}
	}()

	downsample := e.Downsample
	if downsample <= 0 {
		downsample = 1
	}

	window := e.window(cell.Membrane.Bounds())
	block, err := e.Source.ReadRegion(downsample, window.X, window.Y, window.Width, window.Height)
	if err != nil {
		e.logError(cell, fmt.Errorf("failed to read pixels: %w", err))
		return nil
	}

	ctx := geometry.NewRasterContext(float64(window.X), float64(window.Y), downsample)
	masks := compartment.BuildMasks(cell.Membrane, cell.Nucleus, block.Width, block.Height, ctx, e.Compartments)
	if len(masks) == 0 {
		e.logDebug(cell, "no compartment masks")
		return nil
	}

	for ci, plane := range block.Channels {
		channel := e.Source.ChannelName(ci)
		for _, c := range e.Compartments {
			mask, ok := masks.Get(c)
			if !ok {
				continue
			}
			values := gather(plane, mask)
			if len(values) == 0 {
				continue
			}

			stats, err := e.statistics(channel, c, values)
			entries = append(entries, stats...)
			if err != nil {
				e.logError(cell, err)
				return entries
			}
		}
	}
	return entries
}

// MeasureAll measures every cell using at most workers goroutines and
// merges the results into each cell's own Measurements. It returns the
// number of cells that received at least one measurement.
func (e *Engine) MeasureAll(cells []*models.PairedCell, workers int) int {
	measured := parallel.Map(cells, workers, func(_ int, cell *models.PairedCell) bool {
		entries := e.Measure(cell)
		if len(entries) == 0 {
			return false
		}
		cell.Measurements.Merge(entries)
		return true
	})

	n := 0
	for _, ok := range measured {
		if ok {
			n++
		}
	}
	if e.Logger != nil {
		e.Logger.Info(component, "measured cells", map[string]interface{}{
			"cells":    len(cells),
			"measured": n,
		})
	}
	return n
}

// window returns the full-resolution pixel rectangle covering bounds,
// clipped to the image. Non-finite bounds select the whole image.
func (e *Engine) window(bounds geometry.Rect) imagesource.Window {
	w, h := e.Source.Width(), e.Source.Height()
	if !bounds.IsFinite() {
		return imagesource.Window{Width: w, Height: h}
	}

	x0 := clamp(int(math.Floor(bounds.X)), 0, w)
	y0 := clamp(int(math.Floor(bounds.Y)), 0, h)
	x1 := clamp(int(math.Ceil(bounds.MaxX())), 0, w)
	y1 := clamp(int(math.Ceil(bounds.MaxY())), 0, h)
	return imagesource.Window{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

func (e *Engine) statistics(channel string, c models.Compartment, values []float64) ([]models.Measurement, error) {
	sort.Float64s(values)

	out := make([]models.Measurement, 0, len(e.Percentiles)+4)
	for _, p := range e.Percentiles {
		v, err := percentileSorted(values, p)
		if err != nil {
			return out, fmt.Errorf("%s %s: %w", channel, c.DisplayName(), err)
		}
		out = append(out, models.Measurement{Name: PercentileName(channel, c, p), Value: v})
	}

	if e.ExtraStatistics {
		mean, std := stat.PopMeanStdDev(values, nil)
		out = append(out,
			models.Measurement{Name: MeasurementName(channel, c, "Mean"), Value: mean},
			models.Measurement{Name: MeasurementName(channel, c, "Std.Dev."), Value: std},
			models.Measurement{Name: MeasurementName(channel, c, "Min"), Value: floats.Min(values)},
			models.Measurement{Name: MeasurementName(channel, c, "Max"), Value: floats.Max(values)},
		)
	}
	return out, nil
}

// gather returns the plane values under the set pixels of mask
func gather(plane []float64, mask *compartment.Mask) []float64 {
	var out []float64
	for i, v := range mask.Pix {
		if v != geometry.Background && i < len(plane) {
			out = append(out, plane[i])
		}
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (e *Engine) logError(cell *models.PairedCell, err error) {
	if e.Logger == nil {
		return
	}
	fields := map[string]interface{}{"cell": cell.ID}
	if cell.Nucleus != nil {
		fields["label"] = cell.Nucleus.Label()
	}
	e.Logger.Error(component, err, fields)
}

func (e *Engine) logDebug(cell *models.PairedCell, message string) {
	if e.Logger == nil {
		return
	}
	e.Logger.Debug(component, message, map[string]interface{}{"cell": cell.ID})
}
