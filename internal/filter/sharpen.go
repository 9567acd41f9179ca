package filter

import (
	"github.com/ironsheep/gray-fusion-mcp/internal/convolution"
	"github.com/ironsheep/gray-fusion-mcp/internal/raster"
)

var sharpenKernel = convolution.MustKernel(3, []int{
	-1, -1, -1,
	-1, 9, -1,
	-1, -1, -1,
}, 1)

// Sharpen applies a fixed center-weighted Laplacian kernel.
func Sharpen(src *raster.Buffer) (*raster.Buffer, error) {
	if src.IsEmpty() {
		return raster.Empty(), raster.ErrEmptyBuffer
	}
	return convolution.ConvolveSliding(src, sharpenKernel)
}
