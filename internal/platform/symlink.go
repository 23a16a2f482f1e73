package platform

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Kind classifies the directory entry found at a path.
type Kind int

const (
	// Absent means nothing exists at the path.
	Absent Kind = iota
	// Regular is a regular file.
	Regular
	// Symlink is a symbolic link resolving to a regular file.
	Symlink
	// Dangling is a symbolic link whose target cannot be resolved.
	Dangling
	// Directory is a directory or a link resolving to one.
	Directory
	// Other covers devices, sockets, pipes and similar entries.
	Other
)

func (k Kind) String() string {
	switch k {
	case Absent:
		return "absent"
	case Regular:
		return "file"
	case Symlink:
		return "symlink"
	case Dangling:
		return "dangling symlink"
	case Directory:
		return "directory"
	default:
		return "other"
	}
}

// Classify reports what occupies path without following a final symlink
// for the existence check. Errors other than "not exist" are returned as is.
func Classify(path string) (Kind, error) {
	info, err := os.Lstat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Absent, nil
	}
	if err != nil {
		return Absent, err
	}

	if info.Mode()&fs.ModeSymlink == 0 {
		return kindOf(info.Mode()), nil
	}

	resolved, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Dangling, nil
	}
	if err != nil {
		return Absent, err
	}
	if k := kindOf(resolved.Mode()); k != Regular {
		return k, nil
	}
	return Symlink, nil
}

func kindOf(mode fs.FileMode) Kind {
	switch {
	case mode.IsRegular():
		return Regular
	case mode.IsDir():
		return Directory
	default:
		return Other
	}
}

// CreateSymlink creates a symbolic link at link pointing to target.
func CreateSymlink(target, link string) error {
	return os.Symlink(target, link)
}

// ReadSymlinkTarget returns the target stored in the symlink at path.
func ReadSymlinkTarget(path string) (string, error) {
	return os.Readlink(path)
}

// ErrNotSymlink is returned by RemoveSymlink when path holds something other
// than a symbolic link.
var ErrNotSymlink = errors.New("not a symbolic link")

// RemoveSymlink removes the symbolic link at path. It refuses to delete any
// other kind of entry so a file swapped in under the same name survives.
func RemoveSymlink(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		return err
	}
	if info.Mode()&fs.ModeSymlink == 0 {
		return fmt.Errorf("%s: %w", path, ErrNotSymlink)
	}
	return os.Remove(path)
}
