package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version.
// This is typically called by the main package during initialization with
// values injected via ldflags at build time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// app carries state shared by all commands: the merged configuration and the
// cache switch. Flags still override config file values per command.
type app struct {
	cfg     Config
	noCache bool
}

// Execute runs the thalweg CLI and returns an error if any command fails.
//
// The function sets up the root command with all subcommands (network,
// station, profile, identify, project, repair, cache), loads the optional
// TOML defaults file, and configures logging based on the --verbose flag.
// The logger is attached to the context and accessible to all commands via
// loggerFromContext.
func Execute(ctx context.Context) error {
	var (
		verbose    bool
		configPath string
	)
	a := &app{}

	root := &cobra.Command{
		Use:          "thalweg",
		Short:        "Thalweg analyzes stream channel networks and long profiles",
		Long: `Thalweg is a CLI tool for analyzing stream channel networks. It builds a
directed graph from channel centerlines, derives outlet-relative addresses and
elevation profiles, and flags knickpoints marking candidate dam locations.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("thalweg %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "TOML defaults file (default thalweg.toml if present)")
	root.PersistentFlags().BoolVar(&a.noCache, "no-cache", false, "disable the derived-result cache")

	root.AddCommand(newNetworkCmd(a))
	root.AddCommand(newStationCmd(a))
	root.AddCommand(newProfileCmd(a))
	root.AddCommand(newIdentifyCmd(a))
	root.AddCommand(newProjectCmd(a))
	root.AddCommand(newRepairCmd(a))
	root.AddCommand(newCacheCmd())

	return root.ExecuteContext(ctx)
}
