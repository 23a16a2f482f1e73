// Package ncfile opens existing netCDF files as timeseries.Dataset values.
//
// The implementation uses the netCDF C library through
// github.com/fhs/go-netcdf and is only compiled with the "netcdf" build tag:
//
//	go build -tags netcdf ./...
//
// Without the tag, Open returns ErrUnsupported.
package ncfile

import "errors"

// ErrUnsupported is returned by Open in builds without netCDF support.
var ErrUnsupported = errors.New("built without netCDF support (rebuild with -tags netcdf)")
