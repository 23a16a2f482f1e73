package cli

import (
	"fmt"

	"github.com/conrad-labs/conrad/internal/ncfile"
	"github.com/conrad-labs/conrad/internal/timeseries"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	appendRecord   string
	appendTime     float64
	appendSet      []string
	appendTimeDim  string
	appendLevelDim string
)

func init() {
	appendCmd.Flags().StringVarP(&appendRecord, "record", "r", "", "YAML or JSON record holding time and variables")
	appendCmd.Flags().Float64VarP(&appendTime, "time", "t", 0, "Timestamp of the appended step")
	appendCmd.Flags().StringArrayVarP(&appendSet, "set", "s", nil, "Profile as NAME=v1,v2,... (can be specified multiple times)")
	appendCmd.Flags().StringVar(&appendTimeDim, "time-dim", timeseries.DefaultTimeDim, "Name of the time dimension")
	appendCmd.Flags().StringVar(&appendLevelDim, "level-dim", timeseries.DefaultLevelDim, "Name of the level dimension")
	appendCmd.MarkFlagsMutuallyExclusive("record", "time")
	appendCmd.MarkFlagsMutuallyExclusive("record", "set")
	appendCmd.MarkFlagsOneRequired("record", "time")
	rootCmd.AddCommand(appendCmd)
}

var appendCmd = &cobra.Command{
	Use:   "append <file.nc>",
	Short: "Append one timestep to an existing netCDF file",
	Long: `Write the timestamp at the next index of the time axis and each (time, plev)
profile at that index. The file and its dimensions must already exist;
variables with another layout are skipped.

  conrad append atm.nc --time 12 --set T=290,295,300
  conrad append atm.nc --record step.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runAppend,
}

func runAppend(cmd *cobra.Command, args []string) error {
	path := args[0]

	rec, err := appendInput()
	if err != nil {
		return err
	}

	idx, err := timeseries.AppendFile(ncfile.Open, path, rec.Variables, rec.Time,
		timeseries.WithTimeDim(appendTimeDim),
		timeseries.WithLevelDim(appendLevelDim),
		timeseries.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	p := message.NewPrinter(language.English)
	p.Fprintf(cmd.OutOrStdout(), "Appended time %v to %s at index %d (%d variables supplied)\n",
		rec.Time, path, idx, len(rec.Variables))
	return nil
}

// appendInput builds the record from --record or from --time and --set.
func appendInput() (*timeseries.Record, error) {
	if appendRecord != "" {
		return timeseries.ReadRecord(appendRecord)
	}

	rec := &timeseries.Record{
		Time:      appendTime,
		Variables: make(map[string][]float64, len(appendSet)),
	}
	for _, s := range appendSet {
		name, values, err := timeseries.ParseAssignment(s)
		if err != nil {
			return nil, err
		}
		if _, dup := rec.Variables[name]; dup {
			return nil, fmt.Errorf("variable %q given more than once", name)
		}
		rec.Variables[name] = values
	}
	return rec, nil
}
