package cli

import (
	"fmt"

	"github.com/paulmach/orb/geojson"
	"github.com/spf13/cobra"

	"github.com/matzehuels/thalweg/pkg/pipeline"
)

// stationOpts holds the command-line flags for the station command.
type stationOpts struct {
	step     float64 // station spacing in map units
	vertices bool    // merge native vertices into the table
	densify  float64
}

// newStationCmd creates the station command: evenly spaced synthetic points
// along every edge, phase-aligned across junctions, written as a GeoJSON
// point collection.
func newStationCmd(a *app) *cobra.Command {
	var opts stationOpts

	cmd := &cobra.Command{
		Use:   "station <lines.geojson> <out.geojson>",
		Short: "Generate evenly spaced stations along the network",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.step == 0 {
				opts.step = a.cfg.Step
			}
			return runStation(cmd, a, args[0], args[1], opts)
		},
	}

	cmd.Flags().Float64Var(&opts.step, "step", 0, fmt.Sprintf("station spacing in map units (default %v)", pipeline.DefaultStep))
	cmd.Flags().BoolVar(&opts.vertices, "vertices", false, "merge native vertices into the output, sorted by outlet distance")
	cmd.Flags().Float64Var(&opts.densify, "densify", 0, "insert vertices at this spacing before building (0 disables)")

	return cmd
}

func runStation(cmd *cobra.Command, a *app, linesPath, outPath string, opts stationOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	lines, err := readLines(linesPath)
	if err != nil {
		return err
	}

	runner := pipeline.NewRunner(logger)
	net, _, err := runner.Build(lines, pipeline.Options{Densify: opts.densify})
	if err != nil {
		return err
	}

	outlet, err := net.Outlet()
	if err != nil {
		return err
	}
	records, err := net.Stations(outlet, opts.step, opts.vertices)
	if err != nil {
		return err
	}

	fc := geojson.NewFeatureCollection()
	for _, rec := range records {
		fc.Append(recordFeature(rec))
	}
	if err := writeFC(outPath, fc); err != nil {
		return err
	}

	printSuccess("Wrote %d stations to %s", len(records), outPath)
	prog.done(fmt.Sprintf("Stationed %d edges at step %v", net.EdgeCount(), opts.step))
	return nil
}
