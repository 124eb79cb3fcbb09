package geometry

import (
	"image"
	"image/draw"

	"golang.org/x/image/vector"
	"gonum.org/v1/gonum/mat"
)

// Mask pixel values
const (
	Background uint8 = 0
	Foreground uint8 = 255
)

// RasterContext maps full-resolution image coordinates onto the pixel grid
// of a local window read at some downsample factor. The mapping is kept as
// a homogeneous 3x3 affine matrix so that any window can be described the
// same way.
type RasterContext struct {
	transform *mat.Dense
}

// NewRasterContext returns the context for a window whose top-left corner
// is (originX, originY) in full-resolution coordinates and whose pixels
// each cover downsample x downsample full-resolution pixels.
func NewRasterContext(originX, originY, downsample float64) RasterContext {
	if downsample <= 0 {
		downsample = 1
	}
	s := 1 / downsample
	return RasterContext{
		transform: mat.NewDense(3, 3, []float64{
			s, 0, -originX * s,
			0, s, -originY * s,
			0, 0, 1,
		}),
	}
}

// ToPixel maps a full-resolution point into window pixel coordinates
func (c RasterContext) ToPixel(p Point) Point {
	if c.transform == nil {
		return p
	}
	var out mat.VecDense
	out.MulVec(c.transform, mat.NewVecDense(3, []float64{p.X, p.Y, 1}))
	return Point{X: out.AtVec(0), Y: out.AtVec(1)}
}

// Fill rasterizes the polygon into a width x height binary raster aligned
// by ctx. A pixel is set to Foreground when at least half of its area is
// covered by the polygon, and Background otherwise. The result is
// row-major with pixel (x, y) at index y*width+x.
func Fill(p Polygon, ctx RasterContext, width, height int) []uint8 {
	pix := make([]uint8, width*height)
	if width <= 0 || height <= 0 || len(p) < 3 {
		return pix
	}

	z := vector.NewRasterizer(width, height)
	z.DrawOp = draw.Src
	for i, v := range p {
		q := ctx.ToPixel(v)
		if i == 0 {
			z.MoveTo(float32(q.X), float32(q.Y))
			continue
		}
		z.LineTo(float32(q.X), float32(q.Y))
	}
	z.ClosePath()

	dst := image.NewAlpha(image.Rect(0, 0, width, height))
	z.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})

	for y := 0; y < height; y++ {
		row := dst.Pix[y*dst.Stride : y*dst.Stride+width]
		for x, a := range row {
			if a >= 128 {
				pix[y*width+x] = Foreground
			}
		}
	}
	return pix
}
