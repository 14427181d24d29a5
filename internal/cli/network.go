package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/thalweg/pkg/pipeline"
	"github.com/matzehuels/thalweg/pkg/render"
)

// networkOpts holds the command-line flags for the network command.
type networkOpts struct {
	detailed bool    // include degrees and edge lengths in diagram labels
	dot      string  // DOT output path ("" disables)
	svg      string  // SVG output path ("" disables)
	densify  float64 // vertex spacing for input densification
}

// newNetworkCmd creates the network command. It builds the graph, prints a
// topology summary, and optionally writes a DOT or SVG diagram.
func newNetworkCmd(a *app) *cobra.Command {
	var opts networkOpts

	cmd := &cobra.Command{
		Use:   "network <lines.geojson>",
		Short: "Build the channel network and report its topology",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNetwork(cmd, a, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include node degrees and edge lengths in diagrams")
	cmd.Flags().StringVar(&opts.dot, "dot", "", "write a Graphviz DOT diagram to this path")
	cmd.Flags().StringVar(&opts.svg, "svg", "", "write an SVG diagram to this path")
	cmd.Flags().Float64Var(&opts.densify, "densify", 0, "insert vertices at this spacing before building (0 disables)")

	return cmd
}

func runNetwork(cmd *cobra.Command, a *app, linesPath string, opts networkOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	lines, err := readLines(linesPath)
	if err != nil {
		return err
	}

	runner := pipeline.NewRunner(logger)
	net, issues, err := runner.Build(lines, pipeline.Options{Densify: opts.densify})
	if err != nil {
		return err
	}

	outlet := -1
	if id, err := net.Outlet(); err == nil {
		outlet = id
	} else {
		printWarning("%v", err)
	}

	fmt.Println(StyleTitle.Render("Network"))
	printKV("Nodes", net.NodeCount())
	printKV("Edges", net.EdgeCount())
	printKV("Junctions", len(net.IntermediateNodes()))
	if outlet >= 0 {
		printKV("Outlet", outlet)
	} else {
		printKV("Outlets", fmt.Sprint(net.Outlets()))
	}
	for _, issue := range issues {
		printWarning("%s", issue)
	}

	dot := ""
	if opts.dot != "" || opts.svg != "" {
		dot = render.ToDOT(net, render.Options{Detailed: opts.detailed, Outlet: outlet})
	}
	if opts.dot != "" {
		if err := writeOutput(opts.dot, []byte(dot)); err != nil {
			return err
		}
		printSuccess("Wrote %s", opts.dot)
	}
	if opts.svg != "" {
		svg, err := render.RenderSVG(dot)
		if err != nil {
			return err
		}
		if err := writeOutput(opts.svg, svg); err != nil {
			return err
		}
		printSuccess("Wrote %s", opts.svg)
	}

	prog.done(fmt.Sprintf("Built network from %d lines", len(lines)))
	return nil
}
