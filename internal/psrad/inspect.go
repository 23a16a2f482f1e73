package psrad

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/conrad-labs/conrad/internal/platform"
)

// VersionFile is the optional file in the PSRAD directory holding the
// library version, e.g. "1.2.0".
const VersionFile = "VERSION"

// Entry describes what occupies one required name in a working directory.
type Entry struct {
	Name   string
	Kind   platform.Kind
	Target string // link target, set for Symlink and Dangling
	// Managed is true when the entry is a link into the given PSRAD root.
	Managed bool
}

// Inspect reports the state of every required name in dir. root may be
// empty, in which case Managed is always false.
func Inspect(dir, root string) ([]Entry, error) {
	var absRoot string
	if root != "" {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, err
		}
		absRoot = abs
	}

	entries := make([]Entry, 0, len(requiredFiles))
	for _, name := range requiredFiles {
		path := filepath.Join(dir, name)
		kind, err := platform.Classify(path)
		if err != nil {
			return nil, fmt.Errorf("inspecting %s: %w", path, err)
		}
		e := Entry{Name: name, Kind: kind}
		if kind == platform.Symlink || kind == platform.Dangling {
			target, err := platform.ReadSymlinkTarget(path)
			if err != nil {
				return nil, fmt.Errorf("reading link %s: %w", path, err)
			}
			e.Target = target
			e.Managed = absRoot != "" && filepath.Clean(target) == filepath.Join(absRoot, name)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// FileStatus is the state of one required file inside the PSRAD directory.
type FileStatus struct {
	Name string
	Path string
	Kind platform.Kind
}

// OK reports whether the file can serve as a link target.
func (f FileStatus) OK() bool {
	return f.Kind == platform.Regular || f.Kind == platform.Symlink
}

// RootReport is the result of CheckRoot.
type RootReport struct {
	Root  string
	Files []FileStatus

	// Version is the trimmed content of VERSION, empty when the file is absent.
	Version string
	// Constraint is the range the version must satisfy.
	Constraint string
	// VersionErr is set when VERSION exists but is unparsable or out of range.
	VersionErr error
}

// Healthy reports whether every required file is usable and the version,
// when present, satisfies the constraint.
func (r *RootReport) Healthy() bool {
	for _, f := range r.Files {
		if !f.OK() {
			return false
		}
	}
	return r.VersionErr == nil
}

// LibraryConstraint derives the accepted version range from the soname of
// the shared library, e.g. libpsrad.so.1 → "^1".
func LibraryConstraint() string {
	lib := requiredFiles[len(requiredFiles)-1]
	_, major, ok := strings.Cut(lib, ".so.")
	if !ok || major == "" {
		return "*"
	}
	return "^" + major
}

// CheckRoot verifies that root holds every required file and, if a VERSION
// file is present, that it matches the library soname. The error return is
// for a root that cannot be read at all.
func CheckRoot(root string) (*RootReport, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("PSRAD directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("PSRAD directory %s is not a directory", root)
	}

	report := &RootReport{Root: root, Constraint: LibraryConstraint()}
	for _, name := range requiredFiles {
		path := filepath.Join(root, name)
		kind, err := platform.Classify(path)
		if err != nil {
			return nil, fmt.Errorf("inspecting %s: %w", path, err)
		}
		report.Files = append(report.Files, FileStatus{Name: name, Path: path, Kind: kind})
	}

	data, err := os.ReadFile(filepath.Join(root, VersionFile))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return report, nil
	case err != nil:
		report.VersionErr = fmt.Errorf("reading %s: %w", VersionFile, err)
		return report, nil
	}
	report.Version = strings.TrimSpace(string(data))
	report.VersionErr = checkVersion(report.Version, report.Constraint)
	return report, nil
}

func checkVersion(version, constraint string) error {
	v, err := semver.NewVersion(strings.TrimPrefix(version, "v"))
	if err != nil {
		return fmt.Errorf("parsing version %q: %w", version, err)
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("parsing constraint %q: %w", constraint, err)
	}
	if !c.Check(v) {
		return fmt.Errorf("version %s does not satisfy %s", v, constraint)
	}
	return nil
}
