package compartment

import (
	"cellroi/internal/models"
	"cellroi/pkg/geometry"
)

// MaskSet holds the masks built for one cell, keyed by compartment. Only
// requested compartments that could be derived are present.
type MaskSet map[models.Compartment]*Mask

// Get returns the mask for c, if present
func (s MaskSet) Get(c models.Compartment) (*Mask, bool) {
	m, ok := s[c]
	return m, ok
}

// BuildMasks rasterizes a cell into width x height masks for the requested
// compartments. ctx aligns full-resolution geometry with the pixel window
// the masks will be applied to.
//
//   - Cell: the membrane outline filled
//   - Nucleus: the nucleus outline filled
//   - Cytoplasm: Cell minus Nucleus
//   - Membrane: the boundary pixels of Cell
//
// A mask is only rasterized if a requested compartment needs it. A missing
// nucleus silently omits Nucleus and Cytoplasm; a missing membrane yields an
// empty set.
func BuildMasks(membrane, nucleus *models.Region, width, height int, ctx geometry.RasterContext, requested []models.Compartment) MaskSet {
	masks := make(MaskSet)
	if membrane == nil {
		// every compartment is measured inside the cell
		return masks
	}

	want := make(map[models.Compartment]bool, len(requested))
	for _, c := range requested {
		want[c] = true
	}

	needCell := want[models.Cell] || want[models.Cytoplasm] || want[models.Membrane]
	needNucleus := want[models.Nucleus] || want[models.Cytoplasm]

	var cell, nuc *Mask
	if needCell {
		cell = &Mask{Width: width, Height: height, Pix: geometry.Fill(membrane.Shape(), ctx, width, height)}
	}
	if needNucleus && nucleus != nil {
		nuc = &Mask{Width: width, Height: height, Pix: geometry.Fill(nucleus.Shape(), ctx, width, height)}
	}

	if want[models.Cell] {
		masks[models.Cell] = cell
	}
	if want[models.Nucleus] && nuc != nil {
		masks[models.Nucleus] = nuc
	}
	if want[models.Cytoplasm] && nuc != nil {
		masks[models.Cytoplasm] = cell.Subtract(nuc)
	}
	if want[models.Membrane] {
		masks[models.Membrane] = cell.Outline()
	}
	return masks
}
