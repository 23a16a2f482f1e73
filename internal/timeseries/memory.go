package timeseries

import (
	"fmt"
	"math"
)

type memDim struct {
	length    int
	unlimited bool
}

type memVar struct {
	dims []string
	data []float64
}

// MemDataset is an in-memory Dataset. Like a classic netCDF file, only the
// first dimension of a variable may be unlimited; it grows on write and
// unwritten cells read back as NaN.
type MemDataset struct {
	dims   map[string]*memDim
	vars   map[string]*memVar
	closed bool
}

// NewMemDataset returns an empty in-memory dataset.
func NewMemDataset() *MemDataset {
	return &MemDataset{
		dims: make(map[string]*memDim),
		vars: make(map[string]*memVar),
	}
}

// AddDim defines a dimension. A length of 0 makes it unlimited.
func (m *MemDataset) AddDim(name string, length int) *MemDataset {
	m.dims[name] = &memDim{length: length, unlimited: length == 0}
	return m
}

// AddVar defines a variable over existing dimensions.
func (m *MemDataset) AddVar(name string, dims ...string) error {
	for i, d := range dims {
		dim, ok := m.dims[d]
		if !ok {
			return fmt.Errorf("%s: %w", d, ErrUnknownDimension)
		}
		if dim.unlimited && i != 0 {
			return fmt.Errorf("%s: unlimited dimension %s must come first: %w", name, d, ErrShape)
		}
	}
	m.vars[name] = &memVar{dims: append([]string(nil), dims...)}
	return nil
}

// DimLen implements Dataset.
func (m *MemDataset) DimLen(name string) (int, error) {
	if err := m.check(); err != nil {
		return 0, err
	}
	d, ok := m.dims[name]
	if !ok {
		return 0, fmt.Errorf("%s: %w", name, ErrUnknownDimension)
	}
	return d.length, nil
}

// VarDims implements Dataset.
func (m *MemDataset) VarDims(name string) ([]string, error) {
	if err := m.check(); err != nil {
		return nil, err
	}
	v, ok := m.vars[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrUnknownVariable)
	}
	return append([]string(nil), v.dims...), nil
}

// WriteAt implements Dataset.
func (m *MemDataset) WriteAt(name string, index []int, values []float64) error {
	if err := m.check(); err != nil {
		return err
	}
	v, ok := m.vars[name]
	if !ok {
		return fmt.Errorf("%s: %w", name, ErrUnknownVariable)
	}
	if len(index) != len(v.dims) {
		return fmt.Errorf("%s: %d indices for %d dimensions: %w", name, len(index), len(v.dims), ErrShape)
	}
	if len(v.dims) == 0 {
		if len(values) != 1 {
			return fmt.Errorf("%s: scalar takes one value: %w", name, ErrShape)
		}
		if len(v.data) == 0 {
			v.data = make([]float64, 1)
		}
		v.data[0] = values[0]
		return nil
	}

	last := len(index) - 1
	for i, idx := range index {
		n := len(values)
		if i != last {
			n = 1
		}
		d := m.dims[v.dims[i]]
		if idx < 0 || (!d.unlimited && idx+n > d.length) {
			return fmt.Errorf("%s: index %d (+%d) on %s of length %d: %w", name, idx, n, v.dims[i], d.length, ErrOutOfBounds)
		}
	}

	for k, val := range values {
		pos := append([]int(nil), index...)
		pos[last] += k
		m.grow(v, pos[0])
		v.data[m.offset(v, pos)] = val
	}
	return nil
}

// Value returns the element of name at index, NaN if never written.
func (m *MemDataset) Value(name string, index ...int) (float64, error) {
	v, ok := m.vars[name]
	if !ok {
		return 0, fmt.Errorf("%s: %w", name, ErrUnknownVariable)
	}
	if len(index) != len(v.dims) {
		return 0, fmt.Errorf("%s: %d indices for %d dimensions: %w", name, len(index), len(v.dims), ErrShape)
	}
	for i, idx := range index {
		if idx < 0 || idx >= m.dims[v.dims[i]].length {
			return 0, fmt.Errorf("%s: index %d on %s: %w", name, idx, v.dims[i], ErrOutOfBounds)
		}
	}
	off := 0
	if len(index) > 0 {
		off = m.offset(v, index)
	}
	if off >= len(v.data) {
		return math.NaN(), nil
	}
	return v.data[off], nil
}

// Close implements Dataset. Further access fails.
func (m *MemDataset) Close() error {
	if m.closed {
		return fmt.Errorf("dataset already closed")
	}
	m.closed = true
	return nil
}

func (m *MemDataset) check() error {
	if m.closed {
		return fmt.Errorf("dataset is closed")
	}
	return nil
}

// rowSize is the number of cells per step along the first dimension.
func (m *MemDataset) rowSize(v *memVar) int {
	n := 1
	for _, d := range v.dims[1:] {
		n *= m.dims[d].length
	}
	return n
}

func (m *MemDataset) offset(v *memVar, index []int) int {
	off := index[0]
	for i := 1; i < len(index); i++ {
		off = off*m.dims[v.dims[i]].length + index[i]
	}
	return off
}

// grow extends v and its unlimited first dimension to cover index first.
func (m *MemDataset) grow(v *memVar, first int) {
	d := m.dims[v.dims[0]]
	if d.unlimited && first >= d.length {
		d.length = first + 1
	}
	need := d.length * m.rowSize(v)
	for len(v.data) < need {
		v.data = append(v.data, math.NaN())
	}
}
