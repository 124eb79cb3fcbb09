// Package regionio reads pre-extracted region outlines from JSON.
//
// A file holds a list of objects, each with the label it carried in the
// source mask, its polygon outline as [x, y] pairs and, optionally, the
// centroid computed by the extraction step:
//
//	[{"label": 1, "polygon": [[10, 10], [20, 10], [20, 20]], "centroid": [15, 13]}]
package regionio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"cellroi/internal/models"
	"cellroi/pkg/geometry"
)

type regionJSON struct {
	Label    int          `json:"label"`
	Polygon  [][2]float64 `json:"polygon"`
	Centroid *[2]float64  `json:"centroid,omitempty"`
}

// LoadFile reads the regions stored at path
func LoadFile(path string) ([]*models.Region, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	regions, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read regions from %s: %w", path, err)
	}
	return regions, nil
}

// Read decodes regions in file order. Outlines with fewer than three
// vertices are rejected.
func Read(r io.Reader) ([]*models.Region, error) {
	var raw []regionJSON
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, err
	}

	regions := make([]*models.Region, 0, len(raw))
	for i, rj := range raw {
		if len(rj.Polygon) < 3 {
			return nil, fmt.Errorf("region %d (label %d) has %d vertices, need at least 3", i, rj.Label, len(rj.Polygon))
		}
		shape := make(geometry.Polygon, len(rj.Polygon))
		for j, v := range rj.Polygon {
			shape[j] = geometry.Point{X: v[0], Y: v[1]}
		}

		if rj.Centroid != nil {
			c := geometry.Point{X: rj.Centroid[0], Y: rj.Centroid[1]}
			regions = append(regions, models.NewRegionWithCentroid(rj.Label, shape, c))
		} else {
			regions = append(regions, models.NewRegion(rj.Label, shape))
		}
	}
	return regions, nil
}
