package cli

import (
	"fmt"

	"github.com/conrad-labs/conrad/internal/platform"
	"github.com/conrad-labs/conrad/internal/psrad"
	"github.com/spf13/cobra"
)

var statusDir string

func init() {
	statusCmd.Flags().StringVarP(&statusDir, "dir", "C", ".", "Run directory to inspect")
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which PSRAD files are present in a run directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, _ := cfg.Lookup(psrad.PathKey)
		entries, err := psrad.Inspect(statusDir, root)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "PSRAD files in %s:\n", statusDir)
		for _, e := range entries {
			switch e.Kind {
			case platform.Absent:
				fmt.Fprintf(out, "  [MISS] %s\n", e.Name)
			case platform.Regular:
				fmt.Fprintf(out, "  [FILE] %s\n", e.Name)
			case platform.Symlink:
				tag := "LINK"
				if e.Managed {
					tag = " OK "
				}
				fmt.Fprintf(out, "  [%s] %s -> %s\n", tag, e.Name, e.Target)
			default:
				fmt.Fprintf(out, "  [FAIL] %s: %s", e.Name, e.Kind)
				if e.Target != "" {
					fmt.Fprintf(out, " -> %s", e.Target)
				}
				fmt.Fprintln(out)
			}
		}
		return nil
	},
}
