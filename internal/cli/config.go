package cli

import (
	"fmt"
	"io"

	"github.com/conrad-labs/conrad/internal/branding"
	"github.com/conrad-labs/conrad/internal/config"
	"github.com/conrad-labs/conrad/internal/psrad"
	"github.com/spf13/cobra"
)

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configListCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage user settings",
	Long: `Read and write settings stored at ~/.conrad/config.yaml.

Keys:
  psrad_path  PSRAD directory, stored as an absolute path.
              PSRAD_PATH or CONRAD_PSRAD_PATH override it.
  log_level   debug, info, warn or error. CONRAD_LOG_LEVEL and
              --log-level override it.`,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		if err := cfg.Set(key, args[1]); err != nil {
			return fmt.Errorf("setting config key %q: %w", key, err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Set %s = %s\n", key, cfg.Get(key))

		// An override still wins over the value just written.
		if src, _ := cfg.Source(key); src != "file" {
			fmt.Fprintf(out, "Note: %s is set and overrides the config file\n", src)
		}
		if key == config.KeyPsradPath {
			warnRoot(out, cfg.Get(key))
		}
		return nil
	},
}

// warnRoot reports problems with a PSRAD directory without failing, so the
// path can be saved before the files are installed.
func warnRoot(w io.Writer, root string) {
	report, err := psrad.CheckRoot(root)
	if err != nil {
		fmt.Fprintf(w, "Warning: %v\n", err)
		return
	}
	if !report.Healthy() {
		fmt.Fprintf(w, "Warning: %s is incomplete, run '%s doctor' for details\n", root, branding.CLIName())
	}
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := cfg.Source(args[0]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), cfg.Get(args[0]))
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every setting with its value and source",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for _, key := range config.Keys() {
			src, err := cfg.Source(key)
			if err != nil {
				return err
			}
			if key == config.KeyLogLevel && cmd.Flags().Changed("log-level") {
				src = "--log-level"
			}
			fmt.Fprintf(out, "%-10s = %-30s (%s)\n", key, cfg.Get(key), src)
		}
		return nil
	},
}
