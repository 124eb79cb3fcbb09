package matching

import (
	"math"
	"testing"

	"cellroi/internal/models"
	"cellroi/pkg/geometry"
)

func cellWithBounds(x, y, w, h float64) *models.PairedCell {
	membrane := models.NewRegion(1, geometry.RectPolygon(geometry.Rect{X: x, Y: y, Width: w, Height: h}))
	return models.NewPairedCell(membrane, membrane, false)
}

func TestFilterByBounds(t *testing.T) {
	tests := []struct {
		name string
		cell *models.PairedCell
		keep bool
	}{
		{"inside", cellWithBounds(10, 10, 20, 20), true},
		{"overhangs bottom right", cellWithBounds(95, 95, 20, 20), false},
		{"touches edges", cellWithBounds(0, 0, 100, 100), true},
		{"negative origin", cellWithBounds(-1, 10, 5, 5), false},
		{"overhangs right only", cellWithBounds(90, 10, 10.5, 5), false},
		{"no membrane", &models.PairedCell{}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := FilterByBounds([]*models.PairedCell{tc.cell}, 100, 100)
			if (len(got) == 1) != tc.keep {
				t.Errorf("Expected keep=%v, got %d cells", tc.keep, len(got))
			}
		})
	}
}

func TestFilterByBoundsPreservesOrder(t *testing.T) {
	cells := []*models.PairedCell{
		cellWithBounds(10, 10, 5, 5),
		cellWithBounds(95, 95, 20, 20),
		cellWithBounds(50, 50, 5, 5),
		cellWithBounds(0, 0, 1, 1),
	}

	got := FilterByBounds(cells, 100, 100)
	if len(got) != 3 {
		t.Fatalf("Expected 3 cells, got %d", len(got))
	}
	for i, want := range []*models.PairedCell{cells[0], cells[2], cells[3]} {
		if got[i] != want {
			t.Errorf("Position %d: expected cell %s, got %s", i, want.ID, got[i].ID)
		}
	}
	if len(cells) != 4 {
		t.Errorf("Input slice was modified")
	}
}

func TestFilterByBoundsRejectsNonFinite(t *testing.T) {
	membrane := models.NewRegion(1, geometry.Polygon{{X: math.NaN(), Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 1}})
	got := FilterByBounds([]*models.PairedCell{models.NewPairedCell(membrane, membrane, false)}, 100, 100)
	if len(got) != 0 {
		t.Errorf("Expected non-finite bounds to be rejected")
	}
}
