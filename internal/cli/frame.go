package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/geoknoesis/ldframe/frame"
	"github.com/geoknoesis/ldframe/internal/config"
)

// frameOpts holds the command-line flags for the frame command.
type frameOpts struct {
	input        inputOpts
	orderFile    string // YAML order table
	maxDepth     int    // inlining ceiling, negative disables it
	detectCycles bool   // fail on cycles instead of expanding to the ceiling
	contextURI   string // replaces @context in the output
	output       string // yaml or json
	outDir       string // write one file per input instead of stdout
	workers      int    // documents framed concurrently
}

func (o *frameOpts) apply(cmd *cobra.Command, cfg *config.Config) {
	o.input.apply(cmd, cfg)
	flags := cmd.Flags()
	if flags.Changed("order") {
		cfg.OrderFile = o.orderFile
	}
	if flags.Changed("max-depth") {
		cfg.MaxDepth = o.maxDepth
	}
	if flags.Changed("detect-cycles") {
		cfg.DetectCycles = o.detectCycles
	}
	if flags.Changed("context-uri") {
		cfg.ContextURI = o.contextURI
	}
	if flags.Changed("output") {
		cfg.Output = o.output
	}
	if flags.Changed("workers") {
		cfg.Workers = o.workers
	}
}

// frameCommand creates the frame command.
func (c *CLI) frameCommand() *cobra.Command {
	var opts frameOpts

	cmd := &cobra.Command{
		Use:   "frame FILE...",
		Short: "Nest each resource under the resources that reference it",
		Long: `frame loads each flat graph, selects the resources that no other resource
references and inlines every reference beneath them. A single root replaces
the graph at the top level of the document; several roots stay under @graph.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.cfg
			opts.apply(cmd, &cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runFrame(cmd.Context(), cmd.OutOrStdout(), args, opts, cfg)
		},
	}

	opts.input.register(cmd)
	cmd.Flags().StringVar(&opts.orderFile, "order", "", "YAML file listing property order per class")
	cmd.Flags().IntVar(&opts.maxDepth, "max-depth", frame.DefaultMaxDepth, "inlining depth ceiling (negative disables it and enables cycle detection)")
	cmd.Flags().BoolVar(&opts.detectCycles, "detect-cycles", false, "report reference cycles instead of expanding them")
	cmd.Flags().StringVar(&opts.contextURI, "context-uri", "", "replace the inline @context with this URI")
	cmd.Flags().StringVarP(&opts.output, "output", "o", config.OutputYAML, "output format: yaml, json")
	cmd.Flags().StringVar(&opts.outDir, "out-dir", "", "write one file per input into this directory")
	cmd.Flags().IntVarP(&opts.workers, "workers", "j", 4, "documents framed concurrently")

	return cmd
}

func runFrame(ctx context.Context, w io.Writer, paths []string, opts frameOpts, cfg config.Config) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	r, err := newReader(opts.input, cfg)
	if err != nil {
		return err
	}
	if cfg.OrderFile != "" {
		table, err := readOrderTable(cfg.OrderFile)
		if err != nil {
			return err
		}
		r.frameOpts.Order = table
		logger.Debug("order table loaded", "path", cfg.OrderFile, "classes", len(table))
	}

	docs := make([]any, len(paths))
	for i, path := range paths {
		if docs[i], err = r.read(ctx, path); err != nil {
			return err
		}
		logGraph(logger, path, docs[i], r.frameOpts)
	}

	framed, err := frame.FrameAll(ctx, docs, r.frameOpts, cfg.Workers)
	if err != nil {
		var batchErr *frame.BatchError
		if errors.As(err, &batchErr) {
			return fmt.Errorf("%s: %w", paths[batchErr.Index], batchErr.Err)
		}
		return err
	}

	dw := newDocumentWriter(cfg)
	if opts.outDir == "" {
		if err := dw.write(w, framed...); err != nil {
			return err
		}
	} else {
		if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
			return err
		}
		for i, doc := range framed {
			path, err := dw.writeFile(opts.outDir, paths[i], doc)
			if err != nil {
				return err
			}
			logger.Info("wrote", "path", path)
		}
	}
	prog.done(fmt.Sprintf("Framed %d documents", len(paths)))
	return nil
}

// logGraph reports the roots and dangling references of doc at debug level.
// Load errors are left to FrameAll.
func logGraph(logger *log.Logger, path string, doc any, opts frame.Options) {
	if logger.GetLevel() > log.DebugLevel {
		return
	}
	reg, err := frame.Load(doc, opts)
	if err != nil {
		return
	}
	counts := frame.CountReferences(reg)
	logger.Debug("graph loaded", "path", path, "resources", reg.Len(),
		"roots", len(counts.Roots(reg)), "dangling", len(reg.Dangling()))
}

func readOrderTable(path string) (frame.OrderTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	table, err := frame.LoadOrderTable(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}
