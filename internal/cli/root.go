package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/conrad-labs/conrad/internal/branding"
	"github.com/conrad-labs/conrad/internal/config"
	"github.com/conrad-labs/conrad/internal/logging"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	logLevel string

	// Set by the root PersistentPreRunE for every command.
	cfg    *config.Config
	logger *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` links the PSRAD radiative-transfer files into a run directory
for the duration of a command and appends model timesteps to netCDF output.

The PSRAD directory is read from PSRAD_PATH or the psrad_path config key.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		if err := loaded.Viper().BindPFlag(config.KeyLogLevel, cmd.Root().PersistentFlags().Lookup("log-level")); err != nil {
			return err
		}
		l, err := logging.Setup(cmd.ErrOrStderr(), loaded.Get(config.KeyLogLevel))
		if err != nil {
			return err
		}
		cfg, logger = loaded, l
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
}

// ExitError carries a non-zero exit code out of a command without calling
// os.Exit in RunE.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode maps an error returned by Execute to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Code > 0 {
		return exitErr.Code
	}
	return 1
}

// Execute runs the root command with build info injected via ldflags.
// Errors other than a propagated child exit status are logged.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	var exitErr *ExitError
	if err != nil && !(errors.As(err, &exitErr) && exitErr.Err == nil) {
		l := logger
		if l == nil {
			l = log.Default()
		}
		l.Error(err)
	}
	return err
}
