package regionio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cellroi/pkg/geometry"
)

func TestRead(t *testing.T) {
	input := `[
		{"label": 3, "polygon": [[10, 10], [20, 10], [20, 20], [10, 20]]},
		{"label": 7, "polygon": [[0, 0], [4, 0], [0, 4]], "centroid": [1.5, 1.25]}
	]`

	regions, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, regions, 2)

	assert.Equal(t, 3, regions[0].Label())
	assert.Equal(t, geometry.Point{X: 15, Y: 15}, regions[0].Centroid())
	assert.Equal(t, geometry.Rect{X: 10, Y: 10, Width: 10, Height: 10}, regions[0].Bounds())

	assert.Equal(t, 7, regions[1].Label())
	assert.Equal(t, geometry.Point{X: 1.5, Y: 1.25}, regions[1].Centroid())
}

func TestReadRejectsBadInput(t *testing.T) {
	for _, input := range []string{
		`{"label": 1}`,
		`[{"label": 1, "polygon": [[0, 0], [1, 1]]}]`,
		`not json`,
	} {
		_, err := Read(strings.NewReader(input))
		assert.Error(t, err, input)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nuclei.json")
	require.NoError(t, os.WriteFile(path, []byte(`[]`), 0644))

	regions, err := LoadFile(path)
	require.NoError(t, err)
	assert.Empty(t, regions)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
