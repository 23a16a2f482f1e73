package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/conrad-labs/conrad/internal/branding"
)

// DefaultLevel is used when no level is configured.
const DefaultLevel = "info"

// ParseLevel converts a level name (debug, info, warn, error) to a log.Level.
// An empty name yields DefaultLevel.
func ParseLevel(name string) (log.Level, error) {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		name = DefaultLevel
	}
	lvl, err := log.ParseLevel(name)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return lvl, nil
}

// New returns a text logger writing to w at the given level.
// A nil writer means os.Stderr.
func New(w io.Writer, level log.Level) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: branding.CLIName(),
		Level:  level,
	})
}

// Setup builds a logger from a level name and installs it as the package
// default so library code that falls back to log.Default() picks it up.
func Setup(w io.Writer, levelName string) (*log.Logger, error) {
	lvl, err := ParseLevel(levelName)
	if err != nil {
		return nil, err
	}
	logger := New(w, lvl)
	log.SetDefault(logger)
	return logger, nil
}
