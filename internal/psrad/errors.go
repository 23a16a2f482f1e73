package psrad

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingSetting is wrapped by ConfigurationError when a required
	// setting is absent or empty.
	ErrMissingSetting = errors.New("required setting not set")

	// ErrLifecycle is returned when Acquire or Release is called out of order.
	// A Symlinks value goes unacquired → acquired → released exactly once.
	ErrLifecycle = errors.New("invalid symlink scope transition")

	// ErrConflict is returned by Acquire when a required name is occupied by
	// something that cannot serve as the file (a directory, a dangling link).
	ErrConflict = errors.New("conflicting entry in working directory")

	// ErrAliasMissing is returned by Release when a link it created was
	// removed by someone else before the scope ended.
	ErrAliasMissing = errors.New("symlink removed before release")

	// ErrAliasReplaced is returned by Release when a link it created was
	// replaced by a non-link entry. The entry is left in place.
	ErrAliasReplaced = errors.New("symlink replaced before release")
)

// ConfigurationError reports a missing or unusable configuration setting.
type ConfigurationError struct {
	Key string
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration %s: %v", e.Key, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }
