package filter

import (
	"strings"

	"github.com/ironsheep/gray-fusion-mcp/internal/convolution"
	"github.com/ironsheep/gray-fusion-mcp/internal/raster"
)

// Policy decides which extreme a pixel that exceeds its local threshold takes.
type Policy int

const (
	// ThresholdBinary sets exceeding pixels to 255 and the rest to 0.
	ThresholdBinary Policy = iota
	// ThresholdBinaryInverted sets exceeding pixels to 0 and the rest to 255.
	ThresholdBinaryInverted
)

// ParsePolicy converts "binary" or "binary_inverted" into a Policy. The empty
// string selects ThresholdBinary.
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(name) {
	case "", "binary":
		return ThresholdBinary, nil
	case "binary_inverted":
		return ThresholdBinaryInverted, nil
	}
	return 0, IncorrectFilterType
}

// AdaptiveThreshold compares every pixel with the mean of its size x size
// neighborhood. A pixel exceeds when pixel > localMean - threshold.
func AdaptiveThreshold(src *raster.Buffer, size, threshold int, policy Policy) (*raster.Buffer, error) {
	if src.IsEmpty() {
		return raster.Empty(), raster.ErrEmptyBuffer
	}
	if size <= 0 || size%2 == 0 {
		return raster.Empty(), IncorrectFilterSize
	}

	var hi, lo uint8 = 255, 0
	switch policy {
	case ThresholdBinary:
	case ThresholdBinaryInverted:
		hi, lo = 0, 255
	default:
		return raster.Empty(), IncorrectFilterType
	}

	ones := make([]int, size*size)
	for i := range ones {
		ones[i] = 1
	}
	box, err := convolution.NewKernel(size, ones, size*size)
	if err != nil {
		return raster.Empty(), InternalError
	}
	mean, err := convolution.ConvolveSliding(src, box)
	if err != nil {
		return raster.Empty(), err
	}

	out := raster.New(src.Height(), src.Width())
	meanPix := mean.Pix()
	for i, v := range src.Pix() {
		if int(v) > int(meanPix[i])-threshold {
			out.Pix()[i] = hi
		} else {
			out.Pix()[i] = lo
		}
	}
	return out, nil
}
