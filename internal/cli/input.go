package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/geoknoesis/ldframe/frame"
	"github.com/geoknoesis/ldframe/internal/config"
	"github.com/geoknoesis/ldframe/rdf"
)

// inputOpts holds the flags shared by every command that reads a graph.
type inputOpts struct {
	format      string // input format, inferred from the extension when empty
	idField     string // identifier field, detected from @context when empty
	typeField   string // type field, detected from @context when empty
	flatten     bool   // run input through JSON-LD flattening first
	contextFile string // context used when flattening or converting RDF input
}

func (o *inputOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.format, "format", "f", "", "input format: jsonld, yamlld, nquads, turtle, rdfxml (default from extension)")
	cmd.Flags().StringVar(&o.idField, "id-field", "", "identifier field (default from @context, else @id)")
	cmd.Flags().StringVar(&o.typeField, "type-field", "", "type field (default from @context, else @type)")
	cmd.Flags().BoolVar(&o.flatten, "flatten", false, "flatten the input with the JSON-LD algorithm before framing")
	cmd.Flags().StringVar(&o.contextFile, "context", "", "JSON-LD or YAML-LD file holding the @context to compact with")
}

// apply copies the flags that were set on the command line into cfg.
func (o *inputOpts) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("id-field") {
		cfg.IDField = o.idField
	}
	if flags.Changed("type-field") {
		cfg.TypeField = o.typeField
	}
	if flags.Changed("flatten") {
		cfg.Flatten = o.flatten
	}
}

// reader loads input files into documents ready for framing.
type reader struct {
	format    rdf.Format
	loadOpts  rdf.LoadOptions
	frameOpts frame.Options
}

func newReader(in inputOpts, cfg config.Config) (*reader, error) {
	r := &reader{frameOpts: cfg.FrameOptions()}
	if in.format != "" {
		format, err := rdf.ResolveFormat(in.format)
		if err != nil {
			return nil, err
		}
		r.format = format
	}

	jsonld := rdf.DefaultOptions()
	if len(cfg.Contexts) > 0 {
		loader := make(rdf.StaticLoader, len(cfg.Contexts))
		for iri, path := range cfg.Contexts {
			doc, err := decodeFile(path)
			if err != nil {
				return nil, fmt.Errorf("context %s: %w", iri, err)
			}
			loader[iri] = doc
		}
		jsonld.DocumentLoader = loader
	}
	r.loadOpts = rdf.LoadOptions{Flatten: cfg.Flatten, JSONLD: &jsonld}

	if in.contextFile != "" {
		doc, err := decodeFile(in.contextFile)
		if err != nil {
			return nil, err
		}
		ldContext := doc
		if m, ok := doc.(*frame.Map); ok {
			if inner, ok := m.Get(frame.ContextField); ok {
				ldContext = inner
			}
		}
		r.loadOpts.Context = ldContext
	}
	return r, nil
}

// read loads the document stored at path.
func (r *reader) read(ctx context.Context, path string) (any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	br := bufio.NewReader(f)
	format := r.format
	if format == "" {
		format, err = rdf.FormatFromPath(path)
		if err != nil {
			sample, _ := br.Peek(512)
			detected, ok := rdf.DetectFormat(sample)
			if !ok {
				return nil, err
			}
			format = detected
		}
	}

	doc, err := rdf.LoadDocument(ctx, br, format, r.loadOpts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	loggerFromContext(ctx).Debug("loaded document", "path", path, "format", format)
	return doc, nil
}

// registry loads path and builds its resource registry.
func (r *reader) registry(ctx context.Context, path string) (*frame.Registry, error) {
	doc, err := r.read(ctx, path)
	if err != nil {
		return nil, err
	}
	reg, err := frame.Load(doc, r.frameOpts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	loggerFromContext(ctx).Debug("registry built", "path", path, "resources", reg.Len(),
		"id_field", reg.Fields().ID, "type_field", reg.Fields().Type)
	return reg, nil
}

// decodeFile reads a JSON or YAML file, choosing the decoder by extension.
func decodeFile(path string) (any, error) {
	format, err := rdf.FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	switch format {
	case rdf.FormatJSONLD:
		return frame.DecodeJSON(f)
	case rdf.FormatYAMLLD:
		return frame.DecodeYAML(f)
	default:
		return nil, fmt.Errorf("%s: expected a JSON or YAML file", path)
	}
}
