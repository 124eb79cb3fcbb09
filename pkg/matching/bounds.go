package matching

import (
	"cellroi/internal/models"
)

// FilterByBounds returns, in their original order, the cells whose membrane
// bounding box lies entirely within [0, imageWidth] x [0, imageHeight].
// Cells without a membrane are dropped. The input slice is not modified.
func FilterByBounds(cells []*models.PairedCell, imageWidth, imageHeight float64) []*models.PairedCell {
	kept := make([]*models.PairedCell, 0, len(cells))
	for _, c := range cells {
		if c == nil || c.Membrane == nil {
			continue
		}
		if c.Membrane.Bounds().ContainedIn(imageWidth, imageHeight) {
			kept = append(kept, c)
		}
	}
	return kept
}
