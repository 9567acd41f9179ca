package filter

import (
	"slices"

	"github.com/ironsheep/gray-fusion-mcp/internal/raster"
)

// Median replaces every pixel with the middle order statistic of its
// size x size neighborhood. size must be odd.
func Median(src *raster.Buffer, size int) (*raster.Buffer, error) {
	if src.IsEmpty() {
		return raster.Empty(), raster.ErrEmptyBuffer
	}
	if size <= 0 || size%2 == 0 {
		return raster.Empty(), IncorrectFilterSize
	}

	h, w := src.Height(), src.Width()
	a := size / 2
	mid := size * size / 2
	window := make([]uint8, size*size)
	out := raster.New(h, w)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			n := 0
			for i := -a; i <= a; i++ {
				for j := -a; j <= a; j++ {
					window[n] = src.AtReflected(y+i, x+j)
					n++
				}
			}
			slices.Sort(window)
			out.Set(y, x, window[mid])
		}
	}
	return out, nil
}
