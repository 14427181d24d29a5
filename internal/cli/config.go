package cli

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/thalweg/pkg/errors"
	"github.com/matzehuels/thalweg/pkg/pipeline"
)

// defaultConfigFile is looked up in the working directory when --config is
// not given.
const defaultConfigFile = "thalweg.toml"

// Config holds defaults loaded from a TOML file. Every field maps to a
// command flag; precedence is flag > file > built-in default.
type Config struct {
	Radius        float64 `toml:"radius"`
	Step          float64 `toml:"step"`
	MinSlope      float64 `toml:"min_slope"`
	MinDrop       float64 `toml:"min_drop"`
	DespikeWindow int     `toml:"despike_window"`
	SlopeWindow   int     `toml:"slope_window"`
	SmoothWindow  int     `toml:"smooth_window"`
	Decimals      int     `toml:"decimals"`
}

// defaultConfig returns the built-in defaults.
func defaultConfig() Config {
	return Config{
		Radius:        pipeline.DefaultRadius,
		Step:          pipeline.DefaultStep,
		MinSlope:      pipeline.DefaultMinSlope,
		MinDrop:       pipeline.DefaultMinDrop,
		DespikeWindow: pipeline.DefaultDespikeWindow,
		SlopeWindow:   pipeline.DefaultSlopeWindow,
		SmoothWindow:  pipeline.DefaultSmoothWindow,
		Decimals:      6,
	}
}

// loadConfig merges a TOML defaults file over the built-in defaults.
// An explicit path must exist; the implicit thalweg.toml may be absent.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}
	if _, err := os.Stat(path); err != nil {
		if explicit {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parsing %s", path)
	}
	return cfg, nil
}
