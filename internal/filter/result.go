// Package filter implements the grayscale filter bank: median, Gaussian
// (direct, separable and recursive), sharpening and adaptive thresholding.
//
// Every entry point returns a new buffer and an error. Failures are values of
// the closed Result enumeration, so callers that need the taxonomy can use
// ResultOf:
//
//	out, err := filter.Median(src, 4)
//	if filter.ResultOf(err) == filter.IncorrectFilterSize {
//	    // even window
//	}
package filter

import (
	"errors"
	"strings"
)

// Result is the outcome of a filter operation.
type Result int

const (
	Success Result = iota
	InternalError
	IncorrectFilterType
	IncorrectFilterSize
	FilterSizeTooSmall
)

var resultNames = map[Result]string{
	Success:             "success",
	InternalError:       "internal error",
	IncorrectFilterType: "incorrect filter type",
	IncorrectFilterSize: "incorrect filter size",
	FilterSizeTooSmall:  "filter size too small",
}

func (r Result) String() string {
	if s, ok := resultNames[r]; ok {
		return s
	}
	return "unknown result"
}

// Error lets non-success results travel as errors.
func (r Result) Error() string {
	return "filter: " + r.String()
}

// ResultOf maps an error returned by this package onto the Result taxonomy.
// Errors that are not Results (for example an empty input buffer) map to
// InternalError.
func ResultOf(err error) Result {
	if err == nil {
		return Success
	}
	var r Result
	if errors.As(err, &r) {
		return r
	}
	return InternalError
}

// Type selects a filter for Apply.
type Type int

const (
	TypeMedian Type = iota + 1
	TypeGaussian
	TypeSeparableGaussian
	TypeRecursiveGaussian
	TypeSharpen
	TypeAdaptiveThreshold
)

var typeNames = map[string]Type{
	"median":             TypeMedian,
	"gaussian":           TypeGaussian,
	"separable_gaussian": TypeSeparableGaussian,
	"recursive_gaussian": TypeRecursiveGaussian,
	"sharpen":            TypeSharpen,
	"adaptive_threshold": TypeAdaptiveThreshold,
}

// ParseType converts a filter name such as "median" into a Type.
func ParseType(name string) (Type, error) {
	if t, ok := typeNames[strings.ToLower(name)]; ok {
		return t, nil
	}
	return 0, IncorrectFilterType
}

func (t Type) String() string {
	for name, v := range typeNames {
		if v == t {
			return name
		}
	}
	return "unknown"
}
