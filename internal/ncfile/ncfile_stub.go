//go:build !netcdf

package ncfile

import (
	"fmt"

	"github.com/conrad-labs/conrad/internal/timeseries"
)

// Open reports that this binary cannot read netCDF files.
func Open(path string) (timeseries.Dataset, error) {
	return nil, fmt.Errorf("%s: %w", path, ErrUnsupported)
}
