// Package cli implements the ldframe command-line interface.
//
// Commands read JSON-LD, YAML-LD, N-Quads, Turtle or RDF/XML files and write
// framed documents, reordered graphs or diagnostics about the reference graph.
// Settings come from an optional TOML file (ldframe.toml in the working
// directory, or --config) and flags override them.
//
// # Commands
//
//   - frame: nest each resource under the resources that reference it
//   - order: reorder the properties of a flat graph or nested tree with an order table
//   - types: list the type names used in a graph
//   - stats: count resources, roots and dangling references
//   - graph: export the reference graph as DOT or SVG
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// passed through context.Context.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/geoknoesis/ldframe/internal/config"
)

const (
	appName           = "ldframe"
	defaultConfigFile = "ldframe.toml"
)

// Build information, set through SetVersion.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersion sets the version information displayed by --version.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// CLI holds state shared by all commands.
type CLI struct {
	out    io.Writer
	errOut io.Writer
	cfg    config.Config
}

// New creates a CLI writing results to out and logs to errOut.
func New(out, errOut io.Writer) *CLI {
	return &CLI{out: out, errOut: errOut, cfg: config.Default()}
}

// RootCommand creates the root command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:           appName,
		Short:         "ldframe nests flat Linked Data graphs into readable documents",
		Long:          `ldframe reads a flattened JSON-LD graph, finds the resources nothing else points to and inlines every referenced resource beneath them, producing a tree that follows the links of the data.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			logger := newLogger(c.errOut, level)
			cmd.SetContext(withLogger(cmd.Context(), logger))

			path, required := configPath, true
			if path == "" {
				path, required = defaultConfigFile, false
			}
			cfg, err := config.LoadOrDefault(path, required)
			if err != nil {
				return err
			}
			c.cfg = cfg
			logger.Debug("configuration", "path", path, "output", cfg.Output, "max_depth", cfg.MaxDepth)
			return nil
		},
	}

	root.SetOut(c.out)
	root.SetErr(c.errOut)
	root.SetVersionTemplate(fmt.Sprintf("%s %s\ncommit: %s\nbuilt: %s\n", appName, version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "configuration file (default ./"+defaultConfigFile+" when present)")

	root.AddCommand(c.frameCommand())
	root.AddCommand(c.orderCommand())
	root.AddCommand(c.typesCommand())
	root.AddCommand(c.statsCommand())
	root.AddCommand(c.graphCommand())

	return root
}

// Execute runs the ldframe CLI with the process arguments.
func Execute(ctx context.Context) error {
	return New(os.Stdout, os.Stderr).RootCommand().ExecuteContext(ctx)
}
