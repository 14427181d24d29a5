package cli

import (
	"fmt"
	"os"

	"github.com/paulmach/orb/geojson"
	"github.com/spf13/cobra"

	"github.com/matzehuels/thalweg/pkg/cache"
	"github.com/matzehuels/thalweg/pkg/pipeline"
)

// identifyOpts holds the command-line flags for the identify command.
type identifyOpts struct {
	minSlope      float64
	minDrop       float64
	toe           bool
	despikeWindow int
	slopeWindow   int
	densify       float64
	refresh       bool
}

// newIdentifyCmd creates the identify command: knickpoint detection over the
// de-spiked profile. Results are cached keyed by the input content and the
// detection parameters, since the full chain is the slow path on large
// networks.
func newIdentifyCmd(a *app) *cobra.Command {
	var opts identifyOpts

	cmd := &cobra.Command{
		Use:   "identify <lines.geojson> <out.geojson>",
		Short: "Flag knickpoints and candidate dam locations",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.minSlope == 0 {
				opts.minSlope = a.cfg.MinSlope
			}
			if opts.minDrop == 0 {
				opts.minDrop = a.cfg.MinDrop
			}
			if opts.despikeWindow == 0 {
				opts.despikeWindow = a.cfg.DespikeWindow
			}
			if opts.slopeWindow == 0 {
				opts.slopeWindow = a.cfg.SlopeWindow
			}
			return runIdentify(cmd, a, args[0], args[1], opts)
		},
	}

	cmd.Flags().Float64Var(&opts.minSlope, "min-slope", 0, fmt.Sprintf("grade threshold, rise over run (default %v)", pipeline.DefaultMinSlope))
	cmd.Flags().Float64Var(&opts.minDrop, "min-drop", 0, fmt.Sprintf("minimum crest-to-toe drop in map units (default %v)", pipeline.DefaultMinDrop))
	cmd.Flags().BoolVar(&opts.toe, "toe", false, "report the downstream toe of each run instead of the crest")
	cmd.Flags().IntVar(&opts.despikeWindow, "despike-window", 0, "cross-edge window for de-spiking, in vertices")
	cmd.Flags().IntVar(&opts.slopeWindow, "slope-window", 0, "cross-edge window for slope, in vertices")
	cmd.Flags().Float64Var(&opts.densify, "densify", 0, "insert vertices at this spacing before building (0 disables)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass the result cache")

	return cmd
}

func runIdentify(cmd *cobra.Command, a *app, linesPath, outPath string, opts identifyOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	raw, err := os.ReadFile(linesPath)
	if err != nil {
		return err
	}
	store, err := a.openCache()
	if err != nil {
		return err
	}
	defer store.Close()

	key := cache.Key("identify", cache.Hash(raw),
		fmt.Sprintf("slope=%v,drop=%v,toe=%v,despike=%d,slopewin=%d,densify=%v",
			opts.minSlope, opts.minDrop, opts.toe, opts.despikeWindow, opts.slopeWindow, opts.densify))

	if !opts.refresh {
		if data, ok, err := store.Get(ctx, key); err == nil && ok {
			logger.Debugf("cache hit for %s", linesPath)
			if err := writeOutput(outPath, data); err != nil {
				return err
			}
			printSuccess("Wrote cached results to %s", outPath)
			return nil
		}
	}

	lines, err := readLines(linesPath)
	if err != nil {
		return err
	}

	popts := pipeline.Options{
		MinSlope:      opts.minSlope,
		MinDrop:       opts.minDrop,
		Toe:           opts.toe,
		DespikeWindow: opts.despikeWindow,
		SlopeWindow:   opts.slopeWindow,
		Densify:       opts.densify,
	}

	runner := pipeline.NewRunner(logger)
	net, _, err := runner.Build(lines, popts)
	if err != nil {
		return err
	}

	spin := newSpinner(ctx, "Identifying knickpoints...")
	hits, _, err := runner.Identify(net, popts)
	spin.stop()
	if err != nil {
		return err
	}

	fc := geojson.NewFeatureCollection()
	for _, kp := range hits {
		f := recordFeature(kp.VertexRecord)
		f.Properties["z_min"] = kp.ZMin
		f.Properties["slope"] = kp.Slope
		f.Properties["drop"] = kp.Drop
		fc.Append(f)
	}
	data, err := marshalFC(fc)
	if err != nil {
		return err
	}
	if err := writeOutput(outPath, data); err != nil {
		return err
	}
	if err := store.Set(ctx, key, data, 0); err != nil {
		logger.Warnf("caching results: %v", err)
	}

	printSuccess("Found %d candidate features, wrote %s", len(hits), outPath)
	prog.done(fmt.Sprintf("Scanned %d edges", net.EdgeCount()))
	return nil
}
