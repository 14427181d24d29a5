package cli

import (
	"fmt"

	"github.com/paulmach/orb/geojson"
	"github.com/spf13/cobra"

	"github.com/matzehuels/thalweg/pkg/network"
	"github.com/matzehuels/thalweg/pkg/repair"
)

// repairOpts holds the command-line flags for the repair command.
type repairOpts struct {
	decimals int  // snap precision in decimal places
	dryRun   bool // report edits without writing
}

// newRepairCmd creates the repair command: near-miss endpoint gaps are closed
// by snapping endpoints that agree to a decimal precision onto their cluster's
// most frequent coordinate.
func newRepairCmd(a *app) *cobra.Command {
	var opts repairOpts

	cmd := &cobra.Command{
		Use:   "repair <lines.geojson> <out.geojson>",
		Short: "Snap near-miss line endpoints together",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.decimals == 0 {
				opts.decimals = a.cfg.Decimals
			}
			return runRepair(cmd, args[0], args[1], opts)
		},
	}

	cmd.Flags().IntVar(&opts.decimals, "decimals", 0, "snap precision in decimal places (default 6)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "list the edits without writing output")

	return cmd
}

func runRepair(cmd *cobra.Command, linesPath, outPath string, opts repairOpts) error {
	logger := loggerFromContext(cmd.Context())
	prog := newProgress(logger)

	lines, err := readLines(linesPath)
	if err != nil {
		return err
	}

	fixed, edits := repair.Snap(lines, opts.decimals)
	for _, edit := range edits {
		logger.Debugf("snap %s", edit)
	}
	if len(edits) == 0 {
		printInfo("No endpoint gaps at %d decimals", opts.decimals)
	}

	if opts.dryRun {
		for _, edit := range edits {
			printInfo("%s", edit)
		}
		return nil
	}

	fc := geojson.NewFeatureCollection()
	for _, l := range fixed {
		fc.Append(lineFeature(l))
	}
	if err := writeFC(outPath, fc); err != nil {
		return err
	}

	// confirm the repair actually reduced the issue count
	if _, issues, err := network.Build(fixed); err == nil {
		for _, issue := range issues {
			printWarning("remaining %s", issue)
		}
	}

	printSuccess("Applied %d edits, wrote %s", len(edits), outPath)
	prog.done(fmt.Sprintf("Repaired %d lines", len(lines)))
	return nil
}
