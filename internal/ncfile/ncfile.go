//go:build netcdf

package ncfile

import (
	"fmt"

	"github.com/conrad-labs/conrad/internal/timeseries"
	"github.com/fhs/go-netcdf/netcdf"
)

// Dataset is a netCDF file opened for writing.
type Dataset struct {
	path string
	ds   netcdf.Dataset
}

var _ timeseries.Dataset = (*Dataset)(nil)

// Open opens the netCDF file at path for in-place modification.
func Open(path string) (timeseries.Dataset, error) {
	ds, err := netcdf.OpenFile(path, netcdf.WRITE)
	if err != nil {
		return nil, err
	}
	return &Dataset{path: path, ds: ds}, nil
}

// DimLen implements timeseries.Dataset.
func (d *Dataset) DimLen(name string) (int, error) {
	dim, err := d.ds.Dim(name)
	if err != nil {
		return 0, fmt.Errorf("%s: %w: %v", name, timeseries.ErrUnknownDimension, err)
	}
	n, err := dim.Len()
	if err != nil {
		return 0, fmt.Errorf("%s: length: %w", name, err)
	}
	return int(n), nil
}

// VarDims implements timeseries.Dataset.
func (d *Dataset) VarDims(name string) ([]string, error) {
	v, err := d.ds.Var(name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", name, timeseries.ErrUnknownVariable, err)
	}
	dims, err := v.Dims()
	if err != nil {
		return nil, fmt.Errorf("%s: dimensions: %w", name, err)
	}
	names := make([]string, 0, len(dims))
	for _, dim := range dims {
		n, err := dim.Name()
		if err != nil {
			return nil, fmt.Errorf("%s: dimension name: %w", name, err)
		}
		names = append(names, n)
	}
	return names, nil
}

// WriteAt implements timeseries.Dataset. Values are written one element at a
// time so the unlimited dimension grows as needed.
func (d *Dataset) WriteAt(name string, index []int, values []float64) error {
	v, err := d.ds.Var(name)
	if err != nil {
		return fmt.Errorf("%s: %w: %v", name, timeseries.ErrUnknownVariable, err)
	}
	if len(index) == 0 {
		return fmt.Errorf("%s: empty index: %w", name, timeseries.ErrShape)
	}
	pos := make([]uint64, len(index))
	for i, idx := range index {
		if idx < 0 {
			return fmt.Errorf("%s: negative index %d: %w", name, idx, timeseries.ErrOutOfBounds)
		}
		pos[i] = uint64(idx)
	}
	last := len(pos) - 1
	start := pos[last]
	for k, val := range values {
		pos[last] = start + uint64(k)
		if err := v.WriteFloat64At(pos, val); err != nil {
			return fmt.Errorf("%s%v: %w", name, pos, err)
		}
	}
	return nil
}

// Close implements timeseries.Dataset.
func (d *Dataset) Close() error {
	return d.ds.Close()
}
