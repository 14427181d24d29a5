package cli

import (
	"fmt"

	"github.com/paulmach/orb/geojson"
	"github.com/spf13/cobra"

	"github.com/matzehuels/thalweg/pkg/network"
	"github.com/matzehuels/thalweg/pkg/pipeline"
)

// projectOpts holds the command-line flags for the project command.
type projectOpts struct {
	radius  float64 // buffer prefilter search radius
	reverse bool    // measure from the downstream end of each edge
	rebase  bool    // add outlet-relative distances
	densify float64
}

// newProjectCmd creates the project command: observation points snapped onto
// the nearest channel edges within a search radius, with signed offsets and,
// optionally, outlet-relative distances.
func newProjectCmd(a *app) *cobra.Command {
	var opts projectOpts

	cmd := &cobra.Command{
		Use:   "project <lines.geojson> <points.geojson> <out.geojson>",
		Short: "Project observation points onto the nearest channel",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.radius == 0 {
				opts.radius = a.cfg.Radius
			}
			return runProject(cmd, a, args[0], args[1], args[2], opts)
		},
	}

	cmd.Flags().Float64Var(&opts.radius, "radius", 0, fmt.Sprintf("search radius in map units (default %v)", pipeline.DefaultRadius))
	cmd.Flags().BoolVar(&opts.reverse, "reverse", false, "measure edge-local distance from the downstream end")
	cmd.Flags().BoolVar(&opts.rebase, "rebase", true, "add outlet-relative distances to each projection")
	cmd.Flags().Float64Var(&opts.densify, "densify", 0, "insert vertices at this spacing before building (0 disables)")

	return cmd
}

func runProject(cmd *cobra.Command, a *app, linesPath, pointsPath, outPath string, opts projectOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	lines, err := readLines(linesPath)
	if err != nil {
		return err
	}
	points, err := readPoints(pointsPath)
	if err != nil {
		return err
	}

	runner := pipeline.NewRunner(logger)
	net, _, err := runner.Build(lines, pipeline.Options{Densify: opts.densify})
	if err != nil {
		return err
	}

	hits, err := net.ProjectPoints(points, network.ProjectOptions{
		Radius:  opts.radius,
		Reverse: opts.reverse,
	})
	if err != nil {
		return err
	}
	logger.Debugf("projected %d of %d points within radius %v", len(hits), len(points), opts.radius)

	fc := geojson.NewFeatureCollection()
	if opts.rebase && !opts.reverse {
		outlet, err := net.Outlet()
		if err != nil {
			return err
		}
		addresses, err := net.EdgeAddresses(outlet, nil)
		if err != nil {
			return err
		}
		for _, addr := range network.RebaseAddresses(hits, addresses) {
			f := pointAddressFeature(addr.PointAddress)
			f.Properties["path_m"] = addr.PathM
			fc.Append(f)
		}
	} else {
		for _, hit := range hits {
			fc.Append(pointAddressFeature(hit))
		}
	}
	if err := writeFC(outPath, fc); err != nil {
		return err
	}

	printSuccess("Wrote %d projections to %s", len(fc.Features), outPath)
	prog.done(fmt.Sprintf("Projected %d points", len(points)))
	return nil
}

func pointAddressFeature(p network.PointAddress) *geojson.Feature {
	f := geojson.NewFeature(p.P)
	f.Properties["id"] = p.FID
	f.Properties["edge_from"] = p.Edge.From
	f.Properties["edge_to"] = p.Edge.To
	f.Properties["m"] = p.M
	f.Properties["offset"] = p.Offset
	f.Properties["z"] = p.Z
	return f
}
