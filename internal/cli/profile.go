package cli

import (
	"fmt"

	"github.com/paulmach/orb/geojson"
	"github.com/spf13/cobra"

	"github.com/matzehuels/thalweg/pkg/pipeline"
	"github.com/matzehuels/thalweg/pkg/profile"
)

// profileOpts holds the command-line flags for the profile command.
type profileOpts struct {
	despikeWindow int
	slopeWindow   int
	smoothWindow  int
	smooth        bool // add the rolling-mean column
	densify       float64
}

// newProfileCmd creates the profile command: the de-spiked, slope-annotated
// vertex table of the whole network, written as a GeoJSON point collection.
func newProfileCmd(a *app) *cobra.Command {
	var opts profileOpts

	cmd := &cobra.Command{
		Use:   "profile <lines.geojson> <out.geojson>",
		Short: "Compute the de-spiked elevation profile with slopes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.despikeWindow == 0 {
				opts.despikeWindow = a.cfg.DespikeWindow
			}
			if opts.slopeWindow == 0 {
				opts.slopeWindow = a.cfg.SlopeWindow
			}
			if opts.smoothWindow == 0 {
				opts.smoothWindow = a.cfg.SmoothWindow
			}
			return runProfile(cmd, a, args[0], args[1], opts)
		},
	}

	cmd.Flags().IntVar(&opts.despikeWindow, "despike-window", 0, fmt.Sprintf("cross-edge window for de-spiking, in vertices (default %d)", pipeline.DefaultDespikeWindow))
	cmd.Flags().IntVar(&opts.slopeWindow, "slope-window", 0, fmt.Sprintf("cross-edge window for slope, in vertices (default %d)", pipeline.DefaultSlopeWindow))
	cmd.Flags().IntVar(&opts.smoothWindow, "smooth-window", 0, fmt.Sprintf("rolling-mean width, in vertices (default %d)", pipeline.DefaultSmoothWindow))
	cmd.Flags().BoolVar(&opts.smooth, "smooth", false, "add a rolling-mean elevation column")
	cmd.Flags().Float64Var(&opts.densify, "densify", 0, "insert vertices at this spacing before building (0 disables)")

	return cmd
}

func runProfile(cmd *cobra.Command, a *app, linesPath, outPath string, opts profileOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	lines, err := readLines(linesPath)
	if err != nil {
		return err
	}

	popts := pipeline.Options{
		DespikeWindow: opts.despikeWindow,
		SlopeWindow:   opts.slopeWindow,
		SmoothWindow:  opts.smoothWindow,
		Densify:       opts.densify,
	}

	runner := pipeline.NewRunner(logger)
	net, _, err := runner.Build(lines, popts)
	if err != nil {
		return err
	}

	spin := newSpinner(ctx, "Computing profile...")
	result, err := runner.Profile(net, popts)
	if err == nil && opts.smooth {
		result.Vertices = profile.RollingMean(result.Vertices, opts.smoothWindow, profile.ColumnZMin)
	}
	spin.stop()
	if err != nil {
		return err
	}

	fc := geojson.NewFeatureCollection()
	for _, v := range result.Vertices {
		f := recordFeature(v.VertexRecord)
		f.Properties["z_min"] = v.ZMin
		f.Properties["rise"] = v.Rise
		f.Properties["slope"] = v.Slope
		if opts.smooth {
			f.Properties["z_mean"] = v.ZMean
		}
		fc.Append(f)
	}
	if err := writeFC(outPath, fc); err != nil {
		return err
	}

	printSuccess("Wrote %d profile vertices to %s", len(result.Vertices), outPath)
	prog.done(fmt.Sprintf("Profiled network with outlet %d", result.Outlet))
	return nil
}
