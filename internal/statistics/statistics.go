// Package statistics computes global and local descriptors of grayscale
// buffers: brightness-weighted entropy, mean, standard deviation, extremes,
// histograms and a composite quality indicator.
//
// Entropy here weights every brightness level by its total brightness, not
// its plain frequency:
//
//	p(z) = z * count(z) / sum(pixel values)
//	E    = |sum_z p(z) * log2(p(z))|
//
// so black pixels never contribute and a constant buffer has entropy 0.
package statistics

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/gray-fusion-mcp/internal/raster"
)

// Quality indicator weights.
const (
	weightBrightness = 0.33
	weightDeviation  = 0.27
	weightRange      = 0.20
	weightLevels     = 0.13
	weightEntropy    = 0.07
)

// Histogram counts every brightness level.
func Histogram(b *raster.Buffer) [256]int {
	var h [256]int
	for _, v := range b.Pix() {
		h[v]++
	}
	return h
}

// entropyOf evaluates the brightness-weighted entropy of a histogram.
func entropyOf(h *[256]int) float64 {
	var total float64
	for z, n := range h {
		total += float64(z * n)
	}
	if total == 0 {
		return 0
	}
	p := make([]float64, 0, 256)
	for z, n := range h {
		if z > 0 && n > 0 {
			p = append(p, float64(z*n)/total)
		}
	}
	return math.Abs(stat.Entropy(p) / math.Ln2)
}

// Entropy returns the brightness-weighted entropy of the whole buffer.
func Entropy(b *raster.Buffer) (float64, error) {
	if b.IsEmpty() {
		return 0, raster.ErrEmptyBuffer
	}
	h := Histogram(b)
	return entropyOf(&h), nil
}

// LocalEntropy evaluates the same formula over the (2*half+1)-square window
// centered on (row, col), reflecting at the borders.
func LocalEntropy(b *raster.Buffer, row, col, half int) (float64, error) {
	if b.IsEmpty() {
		return 0, raster.ErrEmptyBuffer
	}
	var h [256]int
	for i := -half; i <= half; i++ {
		for j := -half; j <= half; j++ {
			h[b.AtReflected(row+i, col+j)]++
		}
	}
	return entropyOf(&h), nil
}

func samples(b *raster.Buffer) stats.Float64Data {
	data := make(stats.Float64Data, b.Len())
	for i, v := range b.Pix() {
		data[i] = float64(v)
	}
	return data
}

// Mean returns the average brightness.
func Mean(b *raster.Buffer) (float64, error) {
	if b.IsEmpty() {
		return 0, raster.ErrEmptyBuffer
	}
	return stats.Mean(samples(b))
}

// StdDev returns the standard deviation with divisor N-1. Buffers with a
// single pixel have deviation 0.
func StdDev(b *raster.Buffer) (float64, error) {
	if b.IsEmpty() {
		return 0, raster.ErrEmptyBuffer
	}
	if b.Len() < 2 {
		return 0, nil
	}
	return stats.StandardDeviationSample(samples(b))
}

// MinMax returns the darkest and brightest sample.
func MinMax(b *raster.Buffer) (lo, hi uint8, err error) {
	if b.IsEmpty() {
		return 0, 0, raster.ErrEmptyBuffer
	}
	data := samples(b)
	mn, err := stats.Min(data)
	if err != nil {
		return 0, 0, err
	}
	mx, err := stats.Max(data)
	if err != nil {
		return 0, 0, err
	}
	return uint8(mn), uint8(mx), nil
}

// Min returns the darkest sample.
func Min(b *raster.Buffer) (uint8, error) {
	lo, _, err := MinMax(b)
	return lo, err
}

// Max returns the brightest sample.
func Max(b *raster.Buffer) (uint8, error) {
	_, hi, err := MinMax(b)
	return hi, err
}

// DistinctLevels counts the brightness levels present in the buffer.
func DistinctLevels(b *raster.Buffer) int {
	h := Histogram(b)
	n := 0
	for _, c := range h {
		if c > 0 {
			n++
		}
	}
	return n
}

// Summary bundles every descriptor of a buffer.
type Summary struct {
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	Mean           float64 `json:"mean"`
	StdDev         float64 `json:"std_dev"`
	Min            uint8   `json:"min"`
	Max            uint8   `json:"max"`
	DistinctLevels int     `json:"distinct_levels"`
	Entropy        float64 `json:"entropy"`
	Quality        float64 `json:"quality"`
	Histogram      []int   `json:"histogram,omitempty"`
}

// Describe computes a Summary. The histogram is included only when
// withHistogram is set.
func Describe(b *raster.Buffer, withHistogram bool) (*Summary, error) {
	if b.IsEmpty() {
		return nil, raster.ErrEmptyBuffer
	}
	mean, err := Mean(b)
	if err != nil {
		return nil, err
	}
	sd, err := StdDev(b)
	if err != nil {
		return nil, err
	}
	lo, hi, err := MinMax(b)
	if err != nil {
		return nil, err
	}
	h := Histogram(b)
	levels := 0
	for _, c := range h {
		if c > 0 {
			levels++
		}
	}
	e := entropyOf(&h)

	s := &Summary{
		Width:          b.Width(),
		Height:         b.Height(),
		Mean:           mean,
		StdDev:         sd,
		Min:            lo,
		Max:            hi,
		DistinctLevels: levels,
		Entropy:        e,
		Quality:        quality(mean, sd, lo, hi, levels, e),
	}
	if withHistogram {
		s.Histogram = h[:]
	}
	return s, nil
}

// Quality returns the integral quality indicator: a weighted sum of
// normalized brightness, deviation, dynamic range, distinct level count and
// entropy, each scaled into [0,1].
func Quality(b *raster.Buffer) (float64, error) {
	s, err := Describe(b, false)
	if err != nil {
		return 0, err
	}
	return s.Quality, nil
}

func quality(mean, sd float64, lo, hi uint8, levels int, entropy float64) float64 {
	return weightBrightness*mean/255 +
		weightDeviation*sd/127.5 +
		weightRange*float64(hi-lo)/255 +
		weightLevels*float64(levels)/256 +
		weightEntropy*entropy/8
}
