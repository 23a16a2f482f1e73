package timeseries

import (
	"errors"
	"fmt"
	"slices"

	"github.com/charmbracelet/log"
)

const (
	DefaultTimeDim  = "time"
	DefaultLevelDim = "plev"
)

type appendConfig struct {
	timeDim  string
	levelDim string
	logger   *log.Logger
}

// AppendOption configures Append.
type AppendOption func(*appendConfig)

// WithTimeDim sets the name of the time dimension and its coordinate variable.
func WithTimeDim(name string) AppendOption {
	return func(c *appendConfig) { c.timeDim = name }
}

// WithLevelDim sets the name of the vertical level dimension.
func WithLevelDim(name string) AppendOption {
	return func(c *appendConfig) { c.levelDim = name }
}

// WithLogger sets the logger. Defaults to log.Default().
func WithLogger(l *log.Logger) AppendOption {
	return func(c *appendConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// Append writes timestamp at the next free index t of the time axis and, for
// every variable in data laid out as (time, plev), writes its values at
// [t, :]. Variables with another layout are skipped. The level axis is only
// looked up when some variable needs it. All variables are
// checked before anything is written, so an unknown name or a wrong number
// of levels leaves the dataset unchanged. It returns the index written.
func Append(ds Dataset, data map[string][]float64, timestamp float64, opts ...AppendOption) (int, error) {
	cfg := appendConfig{
		timeDim:  DefaultTimeDim,
		levelDim: DefaultLevelDim,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	t, err := ds.DimLen(cfg.timeDim)
	if err != nil {
		return 0, fmt.Errorf("time axis: %w", err)
	}

	profile := []string{cfg.timeDim, cfg.levelDim}
	names := make([]string, 0, len(data))
	for name := range data {
		names = append(names, name)
	}
	slices.Sort(names)

	levels := -1
	var write []string
	for _, name := range names {
		dims, err := ds.VarDims(name)
		if err != nil {
			return 0, fmt.Errorf("variable %q: %w", name, err)
		}
		if !slices.Equal(dims, profile) {
			cfg.logger.Debug("Skip variable", "var", name, "dims", dims)
			continue
		}
		if levels < 0 {
			levels, err = ds.DimLen(cfg.levelDim)
			if err != nil {
				return 0, fmt.Errorf("level axis: %w", err)
			}
		}
		if n := len(data[name]); n != levels {
			return 0, fmt.Errorf("variable %q: %d values for %d levels: %w", name, n, levels, ErrShape)
		}
		write = append(write, name)
	}

	cfg.logger.Debug("Append timestep", "index", t, "time", timestamp)
	if err := ds.WriteAt(cfg.timeDim, []int{t}, []float64{timestamp}); err != nil {
		return 0, fmt.Errorf("writing %s[%d]: %w", cfg.timeDim, t, err)
	}
	for _, name := range write {
		if err := ds.WriteAt(name, []int{t, 0}, data[name]); err != nil {
			return 0, fmt.Errorf("writing %s[%d, :]: %w", name, t, err)
		}
	}
	return t, nil
}

// AppendFile opens path with open, appends one timestep and closes the
// dataset. A close failure is reported alongside any append error.
func AppendFile(open Opener, path string, data map[string][]float64, timestamp float64, opts ...AppendOption) (index int, err error) {
	ds, err := open(path)
	if err != nil {
		return 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() {
		if cerr := ds.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("closing %s: %w", path, cerr))
		}
	}()
	return Append(ds, data, timestamp, opts...)
}
