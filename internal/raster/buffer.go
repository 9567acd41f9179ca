// Package raster provides the 8-bit grayscale pixel buffer shared by every
// analysis package in this module.
//
// A Buffer is a row-major grid of samples in [0,255]. Rows are addressed by
// row index (0 = top) and columns by column index (0 = leftmost). A Buffer
// created with non-positive dimensions is "empty": its Height and Width are
// both -1, which is distinct from a zero-sized grid.
//
// # Boundary Handling
//
// Neighborhood operations never pad the grid explicitly. Out-of-range
// coordinates are reflected about the nearest edge instead:
//
//	c < 0     -> -c
//	c >= dim  -> 2*dim - 2 - c
//
// so for a 10x20 buffer row -1 maps to 1, row 10 to 8, column -5 to 5 and
// column 20 to 18.
package raster

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyBuffer is returned when an operation receives an uninitialized buffer.
	ErrEmptyBuffer = errors.New("raster: empty buffer")

	// ErrSizeMismatch is returned when two buffers must share dimensions but don't.
	ErrSizeMismatch = errors.New("raster: buffer sizes differ")

	// ErrInvalidDimensions is returned for non-positive requested dimensions.
	ErrInvalidDimensions = errors.New("raster: dimensions must be positive")

	// ErrShortData is returned when an external buffer is smaller than its declared size.
	ErrShortData = errors.New("raster: source data too short")
)

// Number is the set of numeric types kernel weights and intermediate sums may use.
type Number interface {
	~int | ~int16 | ~int32 | ~int64 | ~float32 | ~float64
}

// Buffer is a height x width grid of 8-bit grayscale samples.
type Buffer struct {
	height int
	width  int
	pix    []uint8
}

// Empty returns an uninitialized buffer with both dimensions set to -1.
func Empty() *Buffer {
	return &Buffer{height: -1, width: -1}
}

// New creates a zero-filled buffer. Non-positive dimensions yield Empty().
func New(height, width int) *Buffer {
	if height <= 0 || width <= 0 {
		return Empty()
	}
	return &Buffer{
		height: height,
		width:  width,
		pix:    make([]uint8, height*width),
	}
}

// FromGray copies a row-major grayscale buffer.
func FromGray(data []uint8, height, width int) (*Buffer, error) {
	if height <= 0 || width <= 0 {
		return Empty(), ErrInvalidDimensions
	}
	if len(data) < height*width {
		return Empty(), fmt.Errorf("%w: have %d bytes, need %d", ErrShortData, len(data), height*width)
	}
	b := New(height, width)
	copy(b.pix, data[:height*width])
	return b, nil
}

// FromRGB ingests packed 3-channel data, averaging the channels of every sample.
func FromRGB(data []uint8, height, width int) (*Buffer, error) {
	if height <= 0 || width <= 0 {
		return Empty(), ErrInvalidDimensions
	}
	n := height * width
	if len(data) < 3*n {
		return Empty(), fmt.Errorf("%w: have %d bytes, need %d", ErrShortData, len(data), 3*n)
	}
	b := New(height, width)
	for i := 0; i < n; i++ {
		sum := int(data[3*i]) + int(data[3*i+1]) + int(data[3*i+2])
		b.pix[i] = uint8(sum / 3)
	}
	return b, nil
}

// Height returns the number of rows, or -1 for an empty buffer.
func (b *Buffer) Height() int { return b.height }

// Width returns the number of columns, or -1 for an empty buffer.
func (b *Buffer) Width() int { return b.width }

// Len returns the number of samples.
func (b *Buffer) Len() int { return len(b.pix) }

// IsEmpty reports whether the buffer is uninitialized.
func (b *Buffer) IsEmpty() bool {
	return b == nil || b.height <= 0 || b.width <= 0
}

// Pix exposes the raw row-major samples. Writes go straight into the buffer.
func (b *Buffer) Pix() []uint8 { return b.pix }

// Row returns the samples of row r.
func (b *Buffer) Row(r int) []uint8 {
	return b.pix[r*b.width : (r+1)*b.width]
}

// At returns the sample at (row, col). Coordinates must be in range.
func (b *Buffer) At(row, col int) uint8 {
	return b.pix[row*b.width+col]
}

// Set stores v at (row, col). Coordinates must be in range.
func (b *Buffer) Set(row, col int, v uint8) {
	b.pix[row*b.width+col] = v
}

// AtReflected returns the sample at (row, col) after boundary reflection.
func (b *Buffer) AtReflected(row, col int) uint8 {
	return b.pix[b.CorrectRow(row)*b.width+b.CorrectCol(col)]
}

// CorrectRow reflects a row index into [0, Height).
func (b *Buffer) CorrectRow(row int) int { return Reflect(row, b.height) }

// CorrectCol reflects a column index into [0, Width).
func (b *Buffer) CorrectCol(col int) int { return Reflect(col, b.width) }

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	if b.IsEmpty() {
		return Empty()
	}
	c := New(b.height, b.width)
	copy(c.pix, b.pix)
	return c
}

// Reflect maps c into [0, dim) by mirroring about the nearest edge. Offsets
// larger than the dimension are folded repeatedly.
func Reflect(c, dim int) int {
	if dim <= 1 {
		return 0
	}
	for c < 0 || c >= dim {
		if c < 0 {
			c = -c
		}
		if c >= dim {
			c = 2*dim - 2 - c
		}
	}
	return c
}

// Clamp converts an arithmetic result into a sample value.
func Clamp[T Number](v T) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// SameSize reports whether a and b share both dimensions.
func SameSize(a, b *Buffer) bool {
	return a.height == b.height && a.width == b.width
}

// Sub extracts a height x width rectangle whose top-left corner is (row, col).
// Parts of the rectangle outside the buffer are synthesized by reflection.
func (b *Buffer) Sub(row, col, height, width int) (*Buffer, error) {
	if b.IsEmpty() {
		return Empty(), ErrEmptyBuffer
	}
	if height <= 0 || width <= 0 {
		return Empty(), ErrInvalidDimensions
	}
	out := New(height, width)
	cols := make([]int, width)
	for x := range cols {
		cols[x] = b.CorrectCol(col + x)
	}
	for y := 0; y < height; y++ {
		src := b.Row(b.CorrectRow(row + y))
		dst := out.Row(y)
		for x, sc := range cols {
			dst[x] = src[sc]
		}
	}
	return out, nil
}

// Expand returns a copy grown by a reflected pixels on every side.
func (b *Buffer) Expand(a int) (*Buffer, error) {
	if a < 0 {
		return Empty(), ErrInvalidDimensions
	}
	return b.Sub(-a, -a, b.height+2*a, b.width+2*a)
}

// AbsDiff returns |a - b| per pixel.
func AbsDiff(a, b *Buffer) (*Buffer, error) {
	if a.IsEmpty() || b.IsEmpty() {
		return Empty(), ErrEmptyBuffer
	}
	if !SameSize(a, b) {
		return Empty(), fmt.Errorf("%w: %dx%d vs %dx%d", ErrSizeMismatch, a.height, a.width, b.height, b.width)
	}
	out := New(a.height, a.width)
	for i, av := range a.pix {
		bv := b.pix[i]
		if av > bv {
			out.pix[i] = av - bv
		} else {
			out.pix[i] = bv - av
		}
	}
	return out, nil
}
