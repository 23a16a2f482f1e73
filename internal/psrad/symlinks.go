package psrad

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/conrad-labs/conrad/internal/platform"
)

// requiredFiles lists, in link order, the files PSRAD loads from the
// working directory.
var requiredFiles = []string{
	"ECHAM6_CldOptProps.nc",
	"rrtmg_lw.nc",
	"rrtmg_sw.nc",
	"libpsrad.so.1",
}

// RequiredFiles returns the names PSRAD expects in its working directory.
func RequiredFiles() []string {
	out := make([]string, len(requiredFiles))
	copy(out, requiredFiles)
	return out
}

// State is the lifecycle position of a Symlinks value.
type State int

const (
	Unacquired State = iota
	Acquired
	Released
)

func (s State) String() string {
	switch s {
	case Unacquired:
		return "unacquired"
	case Acquired:
		return "acquired"
	case Released:
		return "released"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Symlinks links the PSRAD files into a working directory and removes the
// links it created when released. A value serves one scope and is then
// discarded.
type Symlinks struct {
	root    string
	dir     string
	logger  *log.Logger
	created []string
	state   State
}

// Option configures a Symlinks value.
type Option func(*Symlinks)

// WithDir sets the directory the links are created in. Defaults to ".".
func WithDir(dir string) Option {
	return func(s *Symlinks) { s.dir = dir }
}

// WithLogger sets the logger. Defaults to log.Default().
func WithLogger(l *log.Logger) Option {
	return func(s *Symlinks) {
		if l != nil {
			s.logger = l
		}
	}
}

// New reads the PSRAD directory from settings and returns an unacquired
// scope. A missing setting is logged and returned as a *ConfigurationError;
// the filesystem is not touched in that case.
func New(settings Settings, opts ...Option) (*Symlinks, error) {
	s := &Symlinks{
		dir:    ".",
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	root, ok := settings.Lookup(PathKey)
	if !ok || strings.TrimSpace(root) == "" {
		err := &ConfigurationError{Key: PathKey, Err: ErrMissingSetting}
		s.logger.Error("Path to PSRAD directory not set.", "key", PathKey, "err", err)
		return nil, err
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, &ConfigurationError{Key: PathKey, Err: err}
	}
	s.root = abs
	return s, nil
}

// Root returns the absolute PSRAD resource directory.
func (s *Symlinks) Root() string { return s.root }

// Dir returns the directory links are created in.
func (s *Symlinks) Dir() string { return s.dir }

// State returns the current lifecycle state.
func (s *Symlinks) State() State { return s.state }

// Created returns the names linked by Acquire that have not been released yet,
// in creation order.
func (s *Symlinks) Created() []string {
	out := make([]string, len(s.created))
	copy(out, s.created)
	return out
}

// Acquire links every required file that is missing from the working
// directory. Existing regular files, and links resolving to one, are kept
// and not recorded. If a link cannot be created, the error is returned and
// the links made so far stay recorded so Release can remove them.
func (s *Symlinks) Acquire() error {
	if s.state != Unacquired {
		return fmt.Errorf("acquire from %s: %w", s.state, ErrLifecycle)
	}
	s.state = Acquired

	for _, name := range requiredFiles {
		path := filepath.Join(s.dir, name)

		kind, err := platform.Classify(path)
		if err != nil {
			return fmt.Errorf("inspecting %s: %w", path, err)
		}
		switch kind {
		case platform.Absent:
		case platform.Regular, platform.Symlink:
			continue
		default:
			return fmt.Errorf("%s is a %s: %w", path, kind, ErrConflict)
		}

		target := filepath.Join(s.root, name)
		if err := platform.CreateSymlink(target, path); err != nil {
			return fmt.Errorf("linking %s: %w", name, err)
		}
		s.created = append(s.created, name)
		s.logger.Debug("Create symlink", "file", name, "target", target)
	}
	return nil
}

// Release removes the links recorded by Acquire, in the order they were
// created. Every link is attempted; failures are joined. A link that
// disappeared yields ErrAliasMissing and one replaced by another kind of
// entry yields ErrAliasReplaced without deleting that entry.
func (s *Symlinks) Release() error {
	if s.state != Acquired {
		return fmt.Errorf("release from %s: %w", s.state, ErrLifecycle)
	}
	s.state = Released

	var errs []error
	for _, name := range s.created {
		path := filepath.Join(s.dir, name)
		err := platform.RemoveSymlink(path)
		switch {
		case err == nil:
			s.logger.Debug("Remove symlink", "file", name)
		case errors.Is(err, fs.ErrNotExist):
			errs = append(errs, fmt.Errorf("removing %s: %w", path, ErrAliasMissing))
		case errors.Is(err, platform.ErrNotSymlink):
			errs = append(errs, fmt.Errorf("removing %s: %w", path, ErrAliasReplaced))
		default:
			errs = append(errs, fmt.Errorf("removing %s: %w", path, err))
		}
	}
	s.created = nil
	return errors.Join(errs...)
}
