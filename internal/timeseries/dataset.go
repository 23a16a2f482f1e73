package timeseries

import "errors"

var (
	// ErrUnknownVariable is returned for a variable the dataset does not define.
	ErrUnknownVariable = errors.New("unknown variable")
	// ErrUnknownDimension is returned for a dimension the dataset does not define.
	ErrUnknownDimension = errors.New("unknown dimension")
	// ErrOutOfBounds is returned when a write falls outside a fixed dimension.
	ErrOutOfBounds = errors.New("index out of bounds")
	// ErrShape is returned when supplied values do not match a variable's layout.
	ErrShape = errors.New("shape mismatch")
)

// Dataset is an open, writable time-indexed dataset.
type Dataset interface {
	// DimLen returns the current length of the named dimension.
	DimLen(name string) (int, error)
	// VarDims returns the dimension names of the named variable, in order.
	VarDims(name string) ([]string, error)
	// WriteAt writes values into the named variable, starting at index and
	// running along the last axis.
	WriteAt(name string, index []int, values []float64) error
	Close() error
}

// Opener opens the dataset at path for in-place modification.
type Opener func(path string) (Dataset, error)
