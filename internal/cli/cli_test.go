package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/conrad-labs/conrad/internal/config"
	"github.com/conrad-labs/conrad/internal/psrad"
	"github.com/conrad-labs/conrad/internal/timeseries"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// resetFlags restores every flag in the tree to its default so runs do not
// leak state into each other.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// setupEnv isolates the config directory and points PSRAD_PATH at a fresh
// directory holding every required file. Returns that directory.
func setupEnv(t *testing.T) string {
	t.Helper()
	t.Setenv("CONRAD_HOME", t.TempDir())
	t.Setenv("CONRAD_LOG_LEVEL", "")

	root := t.TempDir()
	for _, name := range psrad.RequiredFiles() {
		if err := os.WriteFile(filepath.Join(root, name), []byte(name), 0644); err != nil {
			t.Fatal(err)
		}
	}
	t.Setenv("PSRAD_PATH", root)
	return root
}

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

func TestExecLinksDuringCommand(t *testing.T) {
	requireShell(t)
	setupEnv(t)
	work := t.TempDir()

	out, err := runCLI(t, "exec", "--dir", work, "--", "sh", "-c", "test -L rrtmg_lw.nc && cat libpsrad.so.1")
	if err != nil {
		t.Fatalf("exec failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "libpsrad.so.1") {
		t.Errorf("command did not read the linked library: %q", out)
	}

	entries, err := os.ReadDir(work)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("links left behind in %s: %d entries", work, len(entries))
	}
}

func TestExecPropagatesExitCode(t *testing.T) {
	requireShell(t)
	setupEnv(t)
	work := t.TempDir()

	_, err := runCLI(t, "exec", "-C", work, "--", "sh", "-c", "exit 3")
	if got := ExitCode(err); got != 3 {
		t.Errorf("ExitCode = %d, want 3 (err %v)", got, err)
	}
	entries, _ := os.ReadDir(work)
	if len(entries) != 0 {
		t.Errorf("links left behind after failing command")
	}
}

func TestExecSignaledChild(t *testing.T) {
	requireShell(t)
	setupEnv(t)
	work := t.TempDir()

	_, err := runCLI(t, "exec", "-C", work, "--", "sh", "-c", "kill -TERM $$")
	if got := ExitCode(err); got != 128+15 {
		t.Errorf("ExitCode = %d, want %d (err %v)", got, 128+15, err)
	}
	entries, _ := os.ReadDir(work)
	if len(entries) != 0 {
		t.Errorf("links left behind after signaled command")
	}
}

func TestExecMissingConfig(t *testing.T) {
	setupEnv(t)
	os.Unsetenv("PSRAD_PATH")
	work := t.TempDir()

	_, err := runCLI(t, "exec", "--dir", work, "--", "true")
	var cfgErr *psrad.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *psrad.ConfigurationError, got %v", err)
	}
	if got := ExitCode(err); got != 1 {
		t.Errorf("ExitCode = %d, want 1", got)
	}
}

func TestStatus(t *testing.T) {
	setupEnv(t)
	work := t.TempDir()
	if err := os.WriteFile(filepath.Join(work, "rrtmg_lw.nc"), nil, 0644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "status", "--dir", work)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"[FILE] rrtmg_lw.nc", "[MISS] libpsrad.so.1", "[MISS] ECHAM6_CldOptProps.nc"} {
		if !strings.Contains(out, want) {
			t.Errorf("status output missing %q:\n%s", want, out)
		}
	}
}

func TestDoctor(t *testing.T) {
	root := setupEnv(t)
	if err := os.WriteFile(filepath.Join(root, psrad.VersionFile), []byte("1.3.0\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "doctor")
	if err != nil {
		t.Fatalf("doctor failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "version 1.3.0 satisfies ^1") {
		t.Errorf("missing version line:\n%s", out)
	}

	if err := os.Remove(filepath.Join(root, "rrtmg_sw.nc")); err != nil {
		t.Fatal(err)
	}
	out, err = runCLI(t, "doctor")
	if err == nil {
		t.Error("doctor succeeded with a missing file")
	}
	if !strings.Contains(out, "[MISS] rrtmg_sw.nc") {
		t.Errorf("missing file not reported:\n%s", out)
	}
}

func TestDoctorUnset(t *testing.T) {
	setupEnv(t)
	os.Unsetenv("PSRAD_PATH")

	out, err := runCLI(t, "doctor")
	if !errors.Is(err, psrad.ErrMissingSetting) {
		t.Errorf("got %v, want ErrMissingSetting", err)
	}
	if !strings.Contains(out, "PSRAD_PATH is not set") {
		t.Errorf("output = %q", out)
	}
}

func TestAppendInvalidRecord(t *testing.T) {
	setupEnv(t)
	rec := filepath.Join(t.TempDir(), "step.yaml")
	if err := os.WriteFile(rec, []byte("time: soon\nvariables:\n  T: [1]\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := runCLI(t, "append", "atm.nc", "--record", rec)
	var ve *timeseries.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *timeseries.ValidationError, got %v", err)
	}
}

func TestAppendFlagErrors(t *testing.T) {
	setupEnv(t)

	tests := []struct {
		name string
		args []string
	}{
		{"no input", []string{"append", "atm.nc"}},
		{"bad assignment", []string{"append", "atm.nc", "--time", "1", "--set", "T=1,x"}},
		{"duplicate variable", []string{"append", "atm.nc", "--time", "1", "--set", "T=1", "--set", "T=2"}},
		{"record and time", []string{"append", "atm.nc", "--time", "1", "--record", "r.yaml"}},
		{"no file", []string{"append", "--time", "1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runCLI(t, tt.args...); err == nil {
				t.Errorf("%v: expected error", tt.args)
			}
		})
	}
}

func TestConfigSetGet(t *testing.T) {
	setupEnv(t)
	os.Unsetenv("PSRAD_PATH")

	if _, err := runCLI(t, "config", "set", "psrad_path", "/data/psrad"); err != nil {
		t.Fatalf("config set failed: %v", err)
	}
	out, err := runCLI(t, "config", "get", "psrad_path")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "/data/psrad" {
		t.Errorf("config get = %q, want /data/psrad", out)
	}
}

func TestConfigSetWarnsAboutOverride(t *testing.T) {
	root := setupEnv(t)

	out, err := runCLI(t, "config", "set", "psrad_path", root)
	if err != nil {
		t.Fatalf("config set failed: %v", err)
	}
	if !strings.Contains(out, "Note: PSRAD_PATH is set") {
		t.Errorf("override not reported:\n%s", out)
	}
	if strings.Contains(out, "Warning") {
		t.Errorf("complete directory reported as a problem:\n%s", out)
	}
}

func TestConfigSetIncompleteRoot(t *testing.T) {
	setupEnv(t)
	os.Unsetenv("PSRAD_PATH")
	empty := t.TempDir()

	out, err := runCLI(t, "config", "set", "psrad_path", empty)
	if err != nil {
		t.Fatalf("config set failed: %v", err)
	}
	if !strings.Contains(out, "Warning: "+empty+" is incomplete") {
		t.Errorf("incomplete directory not reported:\n%s", out)
	}
}

func TestConfigUnknownKey(t *testing.T) {
	setupEnv(t)
	for _, args := range [][]string{
		{"config", "set", "colour", "blue"},
		{"config", "get", "colour"},
	} {
		_, err := runCLI(t, args...)
		if !errors.Is(err, config.ErrUnknownKey) {
			t.Errorf("%v: got %v, want ErrUnknownKey", args, err)
		}
	}
}

func TestConfigList(t *testing.T) {
	root := setupEnv(t)

	out, err := runCLI(t, "--log-level", "debug", "config", "list")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{root, "(PSRAD_PATH)", "(--log-level)", "debug"} {
		if !strings.Contains(out, want) {
			t.Errorf("config list missing %q:\n%s", want, out)
		}
	}
}

func TestVersion(t *testing.T) {
	setupEnv(t)
	buildVersion, buildCommit, buildDate = "1.2.3", "abc123", "2026-10-19"

	out, err := runCLI(t, "version", "--short")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "1.2.3" {
		t.Errorf("version --short = %q", out)
	}

	out, err = runCLI(t, "version", "--json")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"commit": "abc123"`, `"psrad": "^1"`} {
		if !strings.Contains(out, want) {
			t.Errorf("version --json missing %s: %q", want, out)
		}
	}

	out, err = runCLI(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "version 1.2.3 (commit: abc123") || !strings.Contains(out, "PSRAD library: ^1") {
		t.Errorf("version = %q", out)
	}

	if _, err := runCLI(t, "version", "--short", "--json"); err == nil {
		t.Error("expected error for --short with --json")
	}
}

func TestInvalidLogLevel(t *testing.T) {
	setupEnv(t)
	if _, err := runCLI(t, "--log-level", "loud", "status"); err == nil {
		t.Error("expected error for invalid log level")
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{errors.New("boom"), 1},
		{&ExitError{Code: 4}, 4},
		{&ExitError{Code: 0, Err: errors.New("x")}, 1},
		{&ExitError{Code: -1}, 1},
	}
	for _, tt := range tests {
		if got := ExitCode(tt.err); got != tt.want {
			t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
