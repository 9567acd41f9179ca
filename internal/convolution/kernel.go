// Package convolution implements square-kernel convolution over raster buffers.
//
// A Kernel has an odd size 2a+1 and a scalar divisor. Convolution computes,
// for every pixel, the weighted sum of its a-neighborhood divided by the
// divisor and clamped into [0,255]. Taps that fall outside the buffer use
// boundary reflection (see raster.Reflect).
//
// Two execution strategies are provided:
//   - Convolve: straightforward per-pixel formulation
//   - ConvolveSliding: pre-expands the buffer by a reflected pixels and walks
//     per-row slices
//
// Both accumulate in the kernel's element type in the same order, so they
// produce bit-identical output for the same input and kernel.
package convolution

import (
	"errors"
	"fmt"

	"github.com/ironsheep/gray-fusion-mcp/internal/raster"
)

var (
	// ErrEvenSize is returned for kernels whose size is not odd.
	ErrEvenSize = errors.New("convolution: kernel size must be odd")

	// ErrWeights is returned when the weight count does not match size*size.
	ErrWeights = errors.New("convolution: weight count does not match kernel size")

	// ErrZeroDivisor is returned for a kernel with a zero divisor.
	ErrZeroDivisor = errors.New("convolution: divisor must be non-zero")
)

// Kernel is a square convolution kernel with weights of type T.
type Kernel[T raster.Number] struct {
	size    int
	weights []T
	divisor T
}

// NewKernel builds a size x size kernel from row-major weights.
func NewKernel[T raster.Number](size int, weights []T, divisor T) (*Kernel[T], error) {
	if size <= 0 || size%2 == 0 {
		return nil, fmt.Errorf("%w: got %d", ErrEvenSize, size)
	}
	if len(weights) != size*size {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrWeights, len(weights), size*size)
	}
	if divisor == 0 {
		return nil, ErrZeroDivisor
	}
	w := make([]T, len(weights))
	copy(w, weights)
	return &Kernel[T]{size: size, weights: w, divisor: divisor}, nil
}

// MustKernel is like NewKernel but panics on invalid input. Intended for
// package-level fixed kernels.
func MustKernel[T raster.Number](size int, weights []T, divisor T) *Kernel[T] {
	k, err := NewKernel(size, weights, divisor)
	if err != nil {
		panic(err)
	}
	return k
}

// Size returns the kernel side length.
func (k *Kernel[T]) Size() int { return k.size }

// Half returns a, where Size() == 2a+1.
func (k *Kernel[T]) Half() int { return k.size / 2 }

// Divisor returns the scalar divisor.
func (k *Kernel[T]) Divisor() T { return k.divisor }

// At returns the weight at kernel row r, column c.
func (k *Kernel[T]) At(r, c int) T { return k.weights[r*k.size+c] }

// Sum returns the total of all weights.
func (k *Kernel[T]) Sum() T {
	var s T
	for _, w := range k.weights {
		s += w
	}
	return s
}
