package filter

import (
	"github.com/ironsheep/gray-fusion-mcp/internal/raster"
)

// Params carries the arguments for Apply. Each filter reads only the fields
// it needs:
//   - Size: window size for median, gaussian, separable gaussian and adaptive threshold
//   - Sigma: recursive gaussian standard deviation
//   - Threshold, Policy: adaptive threshold
type Params struct {
	Size      int
	Sigma     float64
	Threshold int
	Policy    Policy
}

// Apply runs the filter selected by t. Unknown types fail with
// IncorrectFilterType.
func Apply(src *raster.Buffer, t Type, p Params) (*raster.Buffer, error) {
	switch t {
	case TypeMedian:
		return Median(src, p.Size)
	case TypeGaussian:
		return Gaussian(src, p.Size)
	case TypeSeparableGaussian:
		return SeparableGaussian(src, p.Size)
	case TypeRecursiveGaussian:
		return RecursiveGaussian(src, p.Sigma)
	case TypeSharpen:
		return Sharpen(src)
	case TypeAdaptiveThreshold:
		return AdaptiveThreshold(src, p.Size, p.Threshold, p.Policy)
	default:
		return raster.Empty(), IncorrectFilterType
	}
}
