package psrad

import (
	"errors"
	"fmt"
)

// Run acquires the links, calls fn and releases the links on every exit path,
// including a panic in fn. Errors from fn and from Release are joined. If
// Acquire fails, fn is not called and any links already made are removed.
func (s *Symlinks) Run(fn func() error) (err error) {
	if s.state != Unacquired {
		return fmt.Errorf("run from %s: %w", s.state, ErrLifecycle)
	}
	if err := s.Acquire(); err != nil {
		return errors.Join(err, s.Release())
	}
	defer func() {
		if relErr := s.Release(); relErr != nil {
			err = errors.Join(err, relErr)
		}
	}()
	return fn()
}

// Do builds a fresh scope from settings and runs fn inside it.
func Do(settings Settings, fn func() error, opts ...Option) error {
	s, err := New(settings, opts...)
	if err != nil {
		return err
	}
	return s.Run(fn)
}

// WrapFunc returns a function that runs fn inside a fresh scope on each call.
func WrapFunc(settings Settings, fn func() error, opts ...Option) func() error {
	return func() error {
		return Do(settings, fn, opts...)
	}
}

// WrapValue is WrapFunc for functions producing a value.
func WrapValue[R any](settings Settings, fn func() (R, error), opts ...Option) func() (R, error) {
	return func() (R, error) {
		var out R
		err := Do(settings, func() error {
			var err error
			out, err = fn()
			return err
		}, opts...)
		return out, err
	}
}

// Wrap returns a function with fn's signature that runs fn inside a fresh
// scope on each call. The argument and result pass through unchanged; a
// release failure is joined onto fn's error.
func Wrap[A, R any](settings Settings, fn func(A) (R, error), opts ...Option) func(A) (R, error) {
	return func(arg A) (R, error) {
		var out R
		err := Do(settings, func() error {
			var err error
			out, err = fn(arg)
			return err
		}, opts...)
		return out, err
	}
}
