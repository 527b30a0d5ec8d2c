package cli

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/geoknoesis/ldframe/frame"
	"github.com/geoknoesis/ldframe/internal/config"
)

// orderCommand creates the order command. It reorders properties without
// nesting, which is useful on graphs that are published flat. A document
// without @graph is reordered as the tree it already is.
func (c *CLI) orderCommand() *cobra.Command {
	var (
		input     inputOpts
		orderFile string
		output    string
	)

	cmd := &cobra.Command{
		Use:   "order FILE",
		Short: "Reorder the properties of every resource in a graph or tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.cfg
			input.apply(cmd, &cfg)
			if cmd.Flags().Changed("order") {
				cfg.OrderFile = orderFile
			}
			if cmd.Flags().Changed("output") {
				cfg.Output = output
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runOrder(cmd.Context(), cmd.OutOrStdout(), args[0], input, cfg)
		},
	}

	input.register(cmd)
	cmd.Flags().StringVar(&orderFile, "order", "", "YAML file listing property order per class")
	cmd.Flags().StringVarP(&output, "output", "o", config.OutputYAML, "output format: yaml, json")

	return cmd
}

func runOrder(ctx context.Context, w io.Writer, path string, in inputOpts, cfg config.Config) error {
	if cfg.OrderFile == "" {
		return errors.New("order: no order table (use --order or order_file)")
	}
	table, err := readOrderTable(cfg.OrderFile)
	if err != nil {
		return err
	}
	r, err := newReader(in, cfg)
	if err != nil {
		return err
	}
	doc, err := r.read(ctx, path)
	if err != nil {
		return err
	}
	sorted, err := frame.SortGraph(doc, table, r.frameOpts)
	if err != nil {
		return err
	}
	return newDocumentWriter(cfg).write(w, sorted)
}
