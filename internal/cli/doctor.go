package cli

import (
	"fmt"
	"io"

	"github.com/conrad-labs/conrad/internal/platform"
	"github.com/conrad-labs/conrad/internal/psrad"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the configured PSRAD directory",
	Long: `Verify that PSRAD_PATH is set, that it holds every file PSRAD needs, and that
the optional VERSION file matches the libpsrad.so soname.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "PSRAD check:")

		s, err := psrad.New(cfg, psrad.WithLogger(logger))
		if err != nil {
			fmt.Fprintf(out, "  [FAIL] %s is not set\n", psrad.PathKey)
			return err
		}

		report, err := psrad.CheckRoot(s.Root())
		if err != nil {
			fmt.Fprintf(out, "  [FAIL] %v\n", err)
			return err
		}
		printRootReport(out, report)

		if !report.Healthy() {
			return fmt.Errorf("PSRAD directory %s is incomplete", report.Root)
		}
		return nil
	},
}

func printRootReport(w io.Writer, r *psrad.RootReport) {
	fmt.Fprintf(w, "  [ OK ] %s = %s\n", psrad.PathKey, r.Root)
	for _, f := range r.Files {
		switch {
		case f.OK():
			fmt.Fprintf(w, "  [ OK ] %s\n", f.Name)
		case f.Kind == platform.Absent:
			fmt.Fprintf(w, "  [MISS] %s\n", f.Name)
		default:
			fmt.Fprintf(w, "  [FAIL] %s is a %s\n", f.Name, f.Kind)
		}
	}

	switch {
	case r.Version == "" && r.VersionErr == nil:
		fmt.Fprintf(w, "  [INFO] no %s file, skipping version check\n", psrad.VersionFile)
	case r.VersionErr != nil:
		fmt.Fprintf(w, "  [FAIL] %v\n", r.VersionErr)
	default:
		fmt.Fprintf(w, "  [ OK ] version %s satisfies %s\n", r.Version, r.Constraint)
	}
}
