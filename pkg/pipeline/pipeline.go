// Package pipeline orchestrates the build → despike → slope → detect chain
// shared by every entry point. Centralizing the stages and their defaults
// keeps CLI commands consistent: each command composes the same stages
// instead of duplicating parameter plumbing.
package pipeline

import (
	"math"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/thalweg/pkg/detect"
	"github.com/matzehuels/thalweg/pkg/errors"
	"github.com/matzehuels/thalweg/pkg/geom"
	"github.com/matzehuels/thalweg/pkg/network"
	"github.com/matzehuels/thalweg/pkg/profile"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI commands
// =============================================================================

const (
	// DefaultRadius is the point-projection search radius in map units.
	DefaultRadius = 100.0

	// DefaultStep is the station spacing in map units.
	DefaultStep = 10.0

	// DefaultMinSlope is the knickpoint grade threshold (rise/run).
	DefaultMinSlope = 0.1

	// DefaultMinDrop is the knickpoint minimum elevation drop in map units.
	DefaultMinDrop = 5.0

	// DefaultDespikeWindow is the cross-edge extension window for de-spiking,
	// in vertices.
	DefaultDespikeWindow = profile.DefaultDespikeWindow

	// DefaultSlopeWindow is the cross-edge extension window for slope, in
	// vertices.
	DefaultSlopeWindow = profile.DefaultSlopeWindow

	// DefaultSmoothWindow is the rolling-mean width, in vertices.
	DefaultSmoothWindow = profile.DefaultSmoothWindow
)

// Options carries the tunable parameters of a profile analysis run.
// The zero value of any field falls back to the package default.
type Options struct {
	Radius        float64
	Step          float64
	MinSlope      float64
	MinDrop       float64
	DespikeWindow int
	SlopeWindow   int
	SmoothWindow  int
	Densify       float64 // station spacing for input densification; 0 disables
	Toe           bool    // report run toes instead of crests
}

// withDefaults returns a copy with zero fields replaced by defaults.
func (o Options) withDefaults() Options {
	if o.Radius <= 0 {
		o.Radius = DefaultRadius
	}
	if o.Step <= 0 {
		o.Step = DefaultStep
	}
	if o.MinSlope <= 0 {
		o.MinSlope = DefaultMinSlope
	}
	if o.MinDrop <= 0 {
		o.MinDrop = DefaultMinDrop
	}
	if o.DespikeWindow <= 0 {
		o.DespikeWindow = DefaultDespikeWindow
	}
	if o.SlopeWindow <= 0 {
		o.SlopeWindow = DefaultSlopeWindow
	}
	if o.SmoothWindow <= 0 {
		o.SmoothWindow = DefaultSmoothWindow
	}
	return o
}

// Runner executes analysis stages with a shared logger.
type Runner struct {
	logger *log.Logger
}

// NewRunner creates a runner. A nil logger falls back to log.Default().
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{logger: logger}
}

// Build constructs the network, optionally densifying input lines first, and
// logs topology issues at warning level. Issues are returned for the caller
// to act on; the graph stays usable either way.
func (r *Runner) Build(lines []geom.Line, opts Options) (*network.Network, []network.Issue, error) {
	if opts.Densify > 0 {
		dense := make([]geom.Line, len(lines))
		for i, l := range lines {
			dense[i] = geom.Densify(l, 0, opts.Densify)
		}
		lines = dense
	}

	net, issues, err := network.Build(lines)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidGeometry, err, "building network from %d lines", len(lines))
	}
	for _, issue := range issues {
		r.logger.Warnf("topology: %s; run the repair subcommand to close endpoint gaps", issue)
	}
	r.logger.Debugf("network built: %d nodes, %d edges", net.NodeCount(), net.EdgeCount())
	return net, issues, nil
}

// ProfileResult is the de-spiked, slope-annotated vertex table of a network.
type ProfileResult struct {
	Outlet   int
	Vertices []profile.Vertex // despiked (ZMin) with Rise/Slope over ZMin
}

// Profile computes the elevation profile table: vertex extraction, cross-edge
// de-spiking, and slope over the de-spiked column. It fails when the network
// has no unambiguous outlet or when elevation is missing entirely.
func (r *Runner) Profile(net *network.Network, opts Options) (*ProfileResult, error) {
	opts = opts.withDefaults()

	outlet, err := net.Outlet()
	if err != nil {
		return nil, wrapOutletErr(err)
	}

	records, err := net.Vertices(outlet)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNoPath, err, "extracting vertices")
	}
	if !hasElevation(records) {
		return nil, errors.New(errors.ErrCodeNoElevation, "no vertex carries elevation; drape geometries before profiling")
	}

	vertices := profile.FromRecords(records)
	vertices = profile.RemoveSpikes(net, vertices, nil, opts.DespikeWindow)
	vertices = profile.Slope(net, vertices, opts.SlopeWindow, profile.ColumnZMin)

	r.logger.Debugf("profile: %d vertices, outlet %d", len(vertices), outlet)
	return &ProfileResult{Outlet: outlet, Vertices: vertices}, nil
}

// Identify runs the full detection chain and returns the flagged knickpoints
// along with the profile table they were derived from.
func (r *Runner) Identify(net *network.Network, opts Options) ([]detect.Knickpoint, *ProfileResult, error) {
	opts = opts.withDefaults()
	if err := errors.ValidateThresholds(opts.MinSlope, opts.MinDrop); err != nil {
		return nil, nil, err
	}

	prof, err := r.Profile(net, opts)
	if err != nil {
		return nil, nil, err
	}

	hits := detect.Detect(prof.Vertices, detect.Options{
		MinSlope: opts.MinSlope,
		MinDrop:  opts.MinDrop,
		Toe:      opts.Toe,
	})
	r.logger.Debugf("identify: %d candidate features", len(hits))
	return hits, prof, nil
}

func wrapOutletErr(err error) error {
	code := errors.ErrCodeNoOutlet
	if network.IsMultipleOutlets(err) {
		code = errors.ErrCodeMultipleOutlets
	}
	return errors.Wrap(code, err, "locating outlet")
}

func hasElevation(records []network.VertexRecord) bool {
	for _, rec := range records {
		if !math.IsNaN(rec.V.Z) {
			return true
		}
	}
	return false
}
