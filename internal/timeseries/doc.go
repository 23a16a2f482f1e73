// Package timeseries appends one simulation timestep to an existing
// time-indexed dataset.
//
// A dataset has a growable "time" dimension and profile variables laid out
// as (time, plev). Append writes the timestamp at the next free time index
// and the supplied profiles at that index; variables with any other layout
// are skipped. The schema is never created or changed here.
//
// The storage format sits behind the Dataset interface. MemDataset keeps
// everything in memory; package ncfile provides the netCDF implementation.
package timeseries
