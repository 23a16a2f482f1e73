//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/conrad-labs/conrad/internal/psrad"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir  string // CONRAD_HOME, holds config.yaml
	PsradDir string // PSRAD_PATH, holds the PSRAD resource files
	RunDir   string // working directory of the simulated model run
}

// setupTestEnv creates isolated temp directories and sets environment variables
// so config and PSRAD lookups are sandboxed. The env vars are restored after the test.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		HomeDir:  t.TempDir(),
		PsradDir: t.TempDir(),
		RunDir:   t.TempDir(),
	}

	t.Setenv("CONRAD_HOME", env.HomeDir)
	t.Setenv("PSRAD_PATH", env.PsradDir)
	return env
}

// setupPsrad fills the PSRAD directory with every required file and a
// VERSION file. Each file holds its own name.
func setupPsrad(t *testing.T, dir, version string) {
	t.Helper()

	for _, name := range psrad.RequiredFiles() {
		writeFile(t, filepath.Join(dir, name), name)
	}
	if version != "" {
		writeFile(t, filepath.Join(dir, psrad.VersionFile), version+"\n")
	}
}

// writeFile writes content to path, creating parent directories.
func writeFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func assertFileExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s", path)
	}
}

func assertFileNotExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Lstat(path); err == nil {
		t.Errorf("expected file to not exist: %s", path)
	}
}

func assertSymlinkTo(t *testing.T, path, target string) {
	t.Helper()

	got, err := os.Readlink(path)
	if err != nil {
		t.Errorf("expected symlink at %s: %v", path, err)
		return
	}
	if got != target {
		t.Errorf("%s -> %s, want %s", path, got, target)
	}
}

func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("expected %s to contain %q, got:\n%s", path, substr, string(data))
	}
}

// assertRunDirEmpty fails if any of the required names is left in dir.
func assertRunDirEmpty(t *testing.T, dir string) {
	t.Helper()

	for _, name := range psrad.RequiredFiles() {
		assertFileNotExists(t, filepath.Join(dir, name))
	}
}
