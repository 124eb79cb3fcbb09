package imagesource

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/tiff"
)

// LoadTIFF decodes one grayscale TIFF per channel and combines them into a
// MultiChannel source. Channel names default to the file base names.
// Colour images are rejected with ErrColorImage and every file must have
// the same dimensions.
func LoadTIFF(paths []string, names []string) (*MultiChannel, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no channel images given")
	}
	if len(names) != 0 && len(names) != len(paths) {
		return nil, fmt.Errorf("got %d channel names for %d images", len(names), len(paths))
	}

	var width, height int
	planes := make([][]float64, len(paths))
	channelNames := make([]string, len(paths))

	for i, path := range paths {
		img, err := decodeTIFF(path)
		if err != nil {
			return nil, err
		}

		plane, err := grayPlane(img)
		if err != nil {
			return nil, fmt.Errorf("channel image %s: %w", path, err)
		}

		b := img.Bounds()
		if i == 0 {
			width, height = b.Dx(), b.Dy()
		} else if b.Dx() != width || b.Dy() != height {
			return nil, fmt.Errorf("channel image %s is %dx%d, expected %dx%d", path, b.Dx(), b.Dy(), width, height)
		}

		planes[i] = plane
		if len(names) != 0 && names[i] != "" {
			channelNames[i] = names[i]
		} else {
			channelNames[i] = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
	}

	return NewMultiChannel(width, height, channelNames, planes)
}

func decodeTIFF(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, err := tiff.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return img, nil
}

// grayPlane converts a grayscale image into raw intensity values
// (0-255 for 8-bit, 0-65535 for 16-bit)
func grayPlane(img image.Image) ([]float64, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := make([]float64, w*h)

	switch g := img.(type) {
	case *image.Gray:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				out[y*w+x] = float64(g.GrayAt(b.Min.X+x, b.Min.Y+y).Y)
			}
		}
	case *image.Gray16:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				out[y*w+x] = float64(g.Gray16At(b.Min.X+x, b.Min.Y+y).Y)
			}
		}
	default:
		return nil, fmt.Errorf("%T: %w", img, ErrColorImage)
	}
	return out, nil
}
