// Package combine fuses several equally sized grayscale buffers into one.
//
// A Combiner holds non-owning references to its source buffers. The caller
// adds images, runs a strategy and clears the set before the next use:
//
//	c := combine.New()
//	c.Add(a, b)
//	out, err := c.Combine(combine.TypeLocalEntropy, combine.Options{})
//	c.Clear()
//
// # Strategies
//
//   - Informative priority: shifts the base image by every other image's
//     deviation from its own mean
//   - Morphological: segments the base into brightness bands, extracts
//     connected regions and fuses per-region projections of the other images
//   - Local entropy: takes each pixel from the image with the richest
//     neighborhood
//   - Differences adding: blends two images according to their difference
//   - Difference: per-pixel absolute difference of two images
//
// # Base Image
//
// The first image is the base unless Options.Rank is set, in which case the
// images are ordered by descending global entropy first.
package combine

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ironsheep/gray-fusion-mcp/internal/raster"
	"github.com/ironsheep/gray-fusion-mcp/internal/statistics"
)

// Result is the outcome of a combine operation.
type Result int

const (
	Success Result = iota
	IncorrectCombinerType
	FewImages
	NotSameImages
	ManyImages
)

var resultNames = map[Result]string{
	Success:               "success",
	IncorrectCombinerType: "incorrect combiner type",
	FewImages:             "too few images",
	NotSameImages:         "images differ in size",
	ManyImages:            "too many images",
}

func (r Result) String() string {
	if s, ok := resultNames[r]; ok {
		return s
	}
	return "unknown result"
}

// Error lets non-success results travel as errors.
func (r Result) Error() string {
	return "combine: " + r.String()
}

// ResultOf maps an error returned by this package onto the Result taxonomy.
// ok is false for errors outside the taxonomy, such as an empty source buffer.
func ResultOf(err error) (r Result, ok bool) {
	if err == nil {
		return Success, true
	}
	if errors.As(err, &r) {
		return r, true
	}
	return 0, false
}

// Type selects a fusion strategy.
type Type int

const (
	TypeInformativePriority Type = iota + 1
	TypeMorphological
	TypeLocalEntropy
	TypeDifferencesAdding
	TypeDifference
)

var typeNames = map[string]Type{
	"informative_priority": TypeInformativePriority,
	"morphological":        TypeMorphological,
	"local_entropy":        TypeLocalEntropy,
	"differences_adding":   TypeDifferencesAdding,
	"difference":           TypeDifference,
}

// ParseType converts a strategy name such as "local_entropy" into a Type.
func ParseType(name string) (Type, error) {
	if t, ok := typeNames[strings.ToLower(name)]; ok {
		return t, nil
	}
	return 0, IncorrectCombinerType
}

// DefaultModes is the number of brightness bands used by the morphological
// strategy when Options.Modes is not set.
const DefaultModes = 16

// Options tune a Combine call.
type Options struct {
	// Rank orders the images by descending global entropy before fusing.
	Rank bool
	// Modes is the number of brightness bands for morphological fusion.
	Modes int
}

// Combiner fuses a set of equally sized buffers.
type Combiner struct {
	images []*raster.Buffer
}

// New returns an empty Combiner.
func New() *Combiner {
	return &Combiner{}
}

// Add appends source images. The Combiner keeps the pointers, not copies.
func (c *Combiner) Add(images ...*raster.Buffer) {
	c.images = append(c.images, images...)
}

// Clear drops every reference.
func (c *Combiner) Clear() {
	c.images = nil
}

// Len returns the number of source images.
func (c *Combiner) Len() int { return len(c.images) }

// Images returns the source images in insertion order.
func (c *Combiner) Images() []*raster.Buffer {
	return append([]*raster.Buffer(nil), c.images...)
}

// CanCombine checks that at least two non-empty images of identical size
// are present.
func (c *Combiner) CanCombine() error {
	if len(c.images) < 2 {
		return FewImages
	}
	first := c.images[0]
	for i, img := range c.images {
		if img.IsEmpty() {
			return fmt.Errorf("image %d: %w", i, raster.ErrEmptyBuffer)
		}
		if !raster.SameSize(first, img) {
			return NotSameImages
		}
	}
	return nil
}

// FormSortedImagesArray returns the images in fusion order. With rank set,
// images are ordered by descending global entropy (stable for ties);
// otherwise insertion order is kept and the first image is the base.
func (c *Combiner) FormSortedImagesArray(rank bool) ([]*raster.Buffer, error) {
	images := c.Images()
	if !rank {
		return images, nil
	}

	entropies := make(map[*raster.Buffer]float64, len(images))
	for _, img := range images {
		e, err := statistics.Entropy(img)
		if err != nil {
			return nil, err
		}
		entropies[img] = e
	}
	sort.SliceStable(images, func(i, j int) bool {
		return entropies[images[i]] > entropies[images[j]]
	})
	return images, nil
}

// Combine runs the strategy selected by t.
func (c *Combiner) Combine(t Type, opts Options) (*raster.Buffer, error) {
	switch t {
	case TypeInformativePriority:
		return c.InformativePriority(opts)
	case TypeMorphological:
		return c.Morphological(opts)
	case TypeLocalEntropy:
		return c.LocalEntropy(opts)
	case TypeDifferencesAdding:
		return c.DifferencesAdding(opts)
	case TypeDifference:
		return c.Difference(opts)
	default:
		return raster.Empty(), IncorrectCombinerType
	}
}

// prepare validates the set and returns the images in fusion order.
func (c *Combiner) prepare(opts Options) ([]*raster.Buffer, error) {
	if err := c.CanCombine(); err != nil {
		return nil, err
	}
	return c.FormSortedImagesArray(opts.Rank)
}

// preparePair is prepare for strategies defined on exactly two images.
func (c *Combiner) preparePair(opts Options) ([]*raster.Buffer, error) {
	if err := c.CanCombine(); err != nil {
		return nil, err
	}
	if len(c.images) != 2 {
		return nil, ManyImages
	}
	return c.FormSortedImagesArray(opts.Rank)
}
