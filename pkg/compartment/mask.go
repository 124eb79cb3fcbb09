// Package compartment builds per-cell binary masks for the nucleus,
// cytoplasm, membrane and whole-cell compartments by raster set algebra.
package compartment

import (
	"cellroi/pkg/geometry"
)

// Mask is a binary raster: Foreground (255) inside, Background (0)
// outside. Pixel (x, y) lives at Pix[y*Width+x].
type Mask struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewMask returns an empty mask
func NewMask(width, height int) *Mask {
	return &Mask{Width: width, Height: height, Pix: make([]uint8, width*height)}
}

// At reports whether pixel (x, y) is set. Positions outside the mask are unset.
func (m *Mask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.Pix[y*m.Width+x] != geometry.Background
}

// Count returns the number of set pixels
func (m *Mask) Count() int {
	n := 0
	for _, v := range m.Pix {
		if v != geometry.Background {
			n++
		}
	}
	return n
}

// Subtract returns m with every pixel set in other cleared
func (m *Mask) Subtract(other *Mask) *Mask {
	out := NewMask(m.Width, m.Height)
	for i, v := range m.Pix {
		if v != geometry.Background && other.Pix[i] == geometry.Background {
			out.Pix[i] = geometry.Foreground
		}
	}
	return out
}

// Outline returns the set pixels of m that touch the background: pixels
// with at least one of their eight neighbours unset or outside the mask.
// This equals m minus its 3x3 erosion.
func (m *Mask) Outline() *Mask {
	out := NewMask(m.Width, m.Height)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if !m.At(x, y) {
				continue
			}
			if m.touchesBackground(x, y) {
				out.Pix[y*m.Width+x] = geometry.Foreground
			}
		}
	}
	return out
}

func (m *Mask) touchesBackground(x, y int) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if !m.At(x+dx, y+dy) {
				return true
			}
		}
	}
	return false
}
