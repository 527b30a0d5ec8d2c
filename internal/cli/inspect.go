package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/spf13/cobra"

	"github.com/geoknoesis/ldframe/frame"
)

// typesCommand lists the type names used in a graph, one per line.
func (c *CLI) typesCommand() *cobra.Command {
	var input inputOpts

	cmd := &cobra.Command{
		Use:   "types FILE",
		Short: "List the type names used in a graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.cfg
			input.apply(cmd, &cfg)
			r, err := newReader(input, cfg)
			if err != nil {
				return err
			}
			reg, err := r.registry(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, name := range frame.Types(reg) {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
	input.register(cmd)
	return cmd
}

// statsCommand reports the size of the reference graph.
func (c *CLI) statsCommand() *cobra.Command {
	var input inputOpts

	cmd := &cobra.Command{
		Use:   "stats FILE",
		Short: "Count resources, roots and dangling references",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.cfg
			input.apply(cmd, &cfg)
			r, err := newReader(input, cfg)
			if err != nil {
				return err
			}
			reg, err := r.registry(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			writeStats(cmd.OutOrStdout(), reg)
			return nil
		},
	}
	input.register(cmd)
	return cmd
}

func writeStats(w io.Writer, reg *frame.Registry) {
	counts := frame.CountReferences(reg)
	roots := counts.Roots(reg)
	rootIDs := make([]string, len(roots))
	for i, res := range roots {
		rootIDs[i] = res.ID
	}
	dangling := reg.Dangling()

	fmt.Fprintf(w, "resources: %d\n", reg.Len())
	fmt.Fprintf(w, "roots:     %d%s\n", len(roots), idList(rootIDs))
	fmt.Fprintf(w, "dangling:  %d%s\n", len(dangling), idList(dangling))
	fmt.Fprintf(w, "types:     %d\n", len(frame.Types(reg)))
	if len(roots) == 0 && reg.Len() > 0 {
		fmt.Fprintln(w, "warning: every resource is referenced, framing yields an empty graph")
	}
}

func idList(ids []string) string {
	if len(ids) == 0 {
		return ""
	}
	return " (" + strings.Join(ids, ", ") + ")"
}

// graphCommand exports the reference graph.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		input  inputOpts
		svg    bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "graph FILE",
		Short: "Export the reference graph as DOT or SVG",
		Long: `graph writes the resources and references of a flat graph in Graphviz DOT.
Roots are filled and dangling references are dashed. With --svg the graph is
laid out and rendered with Graphviz.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.cfg
			input.apply(cmd, &cfg)
			r, err := newReader(input, cfg)
			if err != nil {
				return err
			}
			reg, err := r.registry(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			data := []byte(frame.ToDOT(reg, frame.CountReferences(reg)))
			if svg {
				if data, err = renderSVG(cmd.Context(), string(data)); err != nil {
					return err
				}
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Info("wrote", "path", output)
			return nil
		},
	}
	input.register(cmd)
	cmd.Flags().BoolVar(&svg, "svg", false, "render SVG instead of DOT")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

// renderSVG lays out a DOT graph and renders it to SVG.
func renderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
