// Package imagesource provides read access to multi-channel pixel data for
// per-cell statistics.
package imagesource

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrOutOfBounds is returned when a requested region leaves the image
	ErrOutOfBounds = errors.New("region outside image")

	// ErrColorImage is returned when a single-channel intensity image was
	// expected but a colour image was supplied
	ErrColorImage = errors.New("colour image where a grayscale channel is required")
)

// Source gives concurrent read access to a multi-channel image
type Source interface {
	// Width and Height are the full-resolution image dimensions
	Width() int
	Height() int

	ChannelCount() int
	ChannelName(index int) string

	// ReadRegion returns the pixels of the full-resolution rectangle
	// (x, y, width, height) at the given downsample factor. The block is
	// ceil(width/downsample) x ceil(height/downsample) pixels.
	ReadRegion(downsample float64, x, y, width, height int) (*Block, error)
}

// Block is a local window of a multi-channel image: one row-major float
// plane per channel, pixel (x, y) at index y*Width+x
type Block struct {
	Width    int
	Height   int
	Channels [][]float64
}

// Window is a full-resolution pixel rectangle
type Window struct {
	X, Y, Width, Height int
}

// ScaledSize returns the block dimensions of the window read at downsample
func (w Window) ScaledSize(downsample float64) (int, int) {
	if downsample <= 0 {
		downsample = 1
	}
	return int(math.Ceil(float64(w.Width) / downsample)), int(math.Ceil(float64(w.Height) / downsample))
}

// MultiChannel is an immutable in-memory Source
type MultiChannel struct {
	width  int
	height int
	names  []string
	planes [][]float64
}

// NewMultiChannel creates a source from row-major channel planes. Every
// plane must hold width*height values; names must match planes one to one.
func NewMultiChannel(width, height int, names []string, planes [][]float64) (*MultiChannel, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", width, height)
	}
	if len(names) != len(planes) {
		return nil, fmt.Errorf("got %d channel names for %d channels", len(names), len(planes))
	}
	for i, p := range planes {
		if len(p) != width*height {
			return nil, fmt.Errorf("channel %q has %d values, expected %d", names[i], len(p), width*height)
		}
	}

	return &MultiChannel{
		width:  width,
		height: height,
		names:  append([]string(nil), names...),
		planes: planes,
	}, nil
}

func (m *MultiChannel) Width() int        { return m.width }
func (m *MultiChannel) Height() int       { return m.height }
func (m *MultiChannel) ChannelCount() int { return len(m.planes) }

// ChannelName returns the name of channel index, or "Channel <n>" (1-based)
// when the name is empty
func (m *MultiChannel) ChannelName(index int) string {
	if index < 0 || index >= len(m.names) {
		return ""
	}
	if m.names[index] == "" {
		return fmt.Sprintf("Channel %d", index+1)
	}
	return m.names[index]
}

// ReadRegion box-averages the requested rectangle down to the block size.
// Output pixel (i, j) averages the source pixels in
// [x+i*d, x+(i+1)*d) x [y+j*d, y+(j+1)*d) clipped to the rectangle.
func (m *MultiChannel) ReadRegion(downsample float64, x, y, width, height int) (*Block, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("empty region %dx%d: %w", width, height, ErrOutOfBounds)
	}
	if x < 0 || y < 0 || x+width > m.width || y+height > m.height {
		return nil, fmt.Errorf("region (%d,%d %dx%d) in %dx%d image: %w",
			x, y, width, height, m.width, m.height, ErrOutOfBounds)
	}
	if downsample <= 0 || math.IsNaN(downsample) || math.IsInf(downsample, 0) {
		return nil, fmt.Errorf("invalid downsample %v", downsample)
	}

	bw, bh := Window{X: x, Y: y, Width: width, Height: height}.ScaledSize(downsample)
	block := &Block{Width: bw, Height: bh, Channels: make([][]float64, len(m.planes))}

	for c, plane := range m.planes {
		out := make([]float64, bw*bh)
		for j := 0; j < bh; j++ {
			sy0, sy1 := span(j, downsample, height)
			for i := 0; i < bw; i++ {
				sx0, sx1 := span(i, downsample, width)
				sum, n := 0.0, 0
				for sy := sy0; sy < sy1; sy++ {
					row := (y + sy) * m.width
					for sx := sx0; sx < sx1; sx++ {
						sum += plane[row+x+sx]
						n++
					}
				}
				if n > 0 {
					out[j*bw+i] = sum / float64(n)
				}
			}
		}
		block.Channels[c] = out
	}
	return block, nil
}

// span returns the source offsets [lo, hi) covered by output index i
func span(i int, downsample float64, limit int) (int, int) {
	lo := int(math.Floor(float64(i) * downsample))
	hi := int(math.Floor(float64(i+1) * downsample))
	if hi <= lo {
		hi = lo + 1
	}
	if hi > limit {
		hi = limit
	}
	return lo, hi
}
