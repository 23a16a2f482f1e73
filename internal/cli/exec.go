package cli

import (
	"errors"
	"os/exec"
	"syscall"

	"github.com/conrad-labs/conrad/internal/psrad"
	"github.com/spf13/cobra"
)

var execDir string

func init() {
	execCmd.Flags().StringVarP(&execDir, "dir", "C", ".", "Run directory the files are linked into")
	execCmd.Flags().SetInterspersed(false)
	rootCmd.AddCommand(execCmd)
}

var execCmd = &cobra.Command{
	Use:   "exec [--dir DIR] -- <command> [args...]",
	Short: "Run a command with the PSRAD files linked into its run directory",
	Long: `Link ECHAM6_CldOptProps.nc, rrtmg_lw.nc, rrtmg_sw.nc and libpsrad.so.1 from the
PSRAD directory into the run directory, run the command there, and remove the
links again when it exits. Files already present in the run directory are used
as they are and left alone.

  conrad exec -- python run_rce.py
  conrad exec --dir runs/rce -- ./model --steps 100`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExec,
}

func runExec(cmd *cobra.Command, args []string) error {
	var code int
	err := psrad.Do(cfg, func() error {
		c := exec.CommandContext(cmd.Context(), args[0], args[1:]...)
		c.Dir = execDir
		c.Stdin = cmd.InOrStdin()
		c.Stdout = cmd.OutOrStdout()
		c.Stderr = cmd.ErrOrStderr()

		err := c.Run()
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = childExitCode(exitErr)
			return nil
		}
		return err
	}, psrad.WithDir(execDir), psrad.WithLogger(logger))
	if err != nil {
		return err
	}
	if code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}

// childExitCode is the status to exit with for a finished child. A child
// killed by a signal maps to 128+signal, as a shell reports it.
func childExitCode(err *exec.ExitError) int {
	if code := err.ExitCode(); code >= 0 {
		return code
	}
	if ws, ok := err.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return 1
}
