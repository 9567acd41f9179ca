// Package edge provides gradient operators and Canny edge detection over
// grayscale raster buffers.
//
// # Operators
//
// Sobel and Scharr each expose a horizontal and a vertical 3x3 kernel.
// OperatorConvolution returns one directional gradient buffer (negative
// responses clamp to 0); Strength combines both directions into a
// round(hypot(h, v)) magnitude buffer.
//
// # Canny
//
// Canny runs a fixed pipeline:
//
//  1. Blur with a 5x5 kernel (divisor 159)
//  2. Horizontal and vertical gradient components (Sobel)
//  3. Magnitude and direction quantized to 0, 45, 90 or 135 degrees
//  4. Non-maximum suppression against two neighbors on each side along the
//     gradient
//  5. Double threshold
//  6. Ambiguity resolution: 8-connected groups of weak pixels are promoted
//     when they touch between 1 and 49 confirmed edge pixels
//
// The output contains only 0 and 255.
package edge

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/ironsheep/gray-fusion-mcp/internal/convolution"
	"github.com/ironsheep/gray-fusion-mcp/internal/raster"
)

// Operator identifies a 3x3 gradient operator.
type Operator int

const (
	Sobel Operator = iota
	Scharr
)

// Axis selects the horizontal or vertical kernel of an operator.
type Axis int

const (
	Horizontal Axis = iota
	Vertical
)

var (
	sobelH = convolution.MustKernel(3, []int{
		-1, 0, 1,
		-2, 0, 2,
		-1, 0, 1,
	}, 1)
	sobelV = convolution.MustKernel(3, []int{
		-1, -2, -1,
		0, 0, 0,
		1, 2, 1,
	}, 1)
	scharrH = convolution.MustKernel(3, []int{
		-3, 0, 3,
		-10, 0, 10,
		-3, 0, 3,
	}, 1)
	scharrV = convolution.MustKernel(3, []int{
		-3, -10, -3,
		0, 0, 0,
		3, 10, 3,
	}, 1)
)

// ParseOperator converts "sobel" or "scharr" into an Operator.
func ParseOperator(name string) (Operator, error) {
	switch strings.ToLower(name) {
	case "sobel":
		return Sobel, nil
	case "scharr":
		return Scharr, nil
	}
	return 0, fmt.Errorf("edge: unknown operator %q", name)
}

func (op Operator) String() string {
	if op == Scharr {
		return "scharr"
	}
	return "sobel"
}

// Horizontal returns the kernel responding to horizontal intensity change.
func (op Operator) Horizontal() *convolution.Kernel[int] {
	if op == Scharr {
		return scharrH
	}
	return sobelH
}

// Vertical returns the kernel responding to vertical intensity change.
func (op Operator) Vertical() *convolution.Kernel[int] {
	if op == Scharr {
		return scharrV
	}
	return sobelV
}

// Kernel returns the operator kernel for the given axis.
func (op Operator) Kernel(axis Axis) *convolution.Kernel[int] {
	if axis == Vertical {
		return op.Vertical()
	}
	return op.Horizontal()
}

// OperatorConvolution returns the directional gradient of src along axis.
func OperatorConvolution(src *raster.Buffer, op Operator, axis Axis) (*raster.Buffer, error) {
	return convolution.ConvolveSliding(src, op.Kernel(axis))
}

// hypotTable maps two byte-valued gradient components to round(hypot(h, v))
// clamped to a byte. Built on first use and never modified.
var hypotTable = sync.OnceValue(func() *[256][256]uint8 {
	var t [256][256]uint8
	for h := 0; h < 256; h++ {
		for v := 0; v < 256; v++ {
			t[h][v] = raster.Clamp(math.Round(math.Hypot(float64(h), float64(v))))
		}
	}
	return &t
})

// Magnitude combines two directional gradient buffers.
func Magnitude(h, v *raster.Buffer) (*raster.Buffer, error) {
	if h.IsEmpty() || v.IsEmpty() {
		return raster.Empty(), raster.ErrEmptyBuffer
	}
	if !raster.SameSize(h, v) {
		return raster.Empty(), raster.ErrSizeMismatch
	}
	t := hypotTable()
	out := raster.New(h.Height(), h.Width())
	hp, vp := h.Pix(), v.Pix()
	for i := range out.Pix() {
		out.Pix()[i] = t[hp[i]][vp[i]]
	}
	return out, nil
}

// Strength computes the edge strength of src with the given operator.
func Strength(src *raster.Buffer, op Operator) (*raster.Buffer, error) {
	h, err := OperatorConvolution(src, op, Horizontal)
	if err != nil {
		return raster.Empty(), err
	}
	v, err := OperatorConvolution(src, op, Vertical)
	if err != nil {
		return raster.Empty(), err
	}
	return Magnitude(h, v)
}
