package rdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"

	"github.com/geoknoesis/ldframe/frame"
)

// LoadOptions configures LoadDocument.
type LoadOptions struct {
	// Flatten runs JSON and YAML input through the JSON-LD flattening
	// algorithm. N-Quads, Turtle and RDF/XML input is always converted.
	Flatten bool
	// Context compacts converted output. Nil falls back to the document's own
	// @context; RDF input without a context stays in expanded form.
	Context any
	// JSONLD overrides DefaultOptions.
	JSONLD *Options
	// Processor overrides NewProcessor.
	Processor Processor
}

// LoadDocument decodes r into a document ready for frame.Load.
func LoadDocument(ctx context.Context, r io.Reader, format Format, opts LoadOptions) (any, error) {
	proc := opts.Processor
	if proc == nil {
		proc = NewProcessor()
	}
	jsonld := DefaultOptions()
	if opts.JSONLD != nil {
		jsonld = *opts.JSONLD
	}

	var (
		doc any
		err error
	)
	switch format {
	case FormatJSONLD:
		doc, err = frame.DecodeJSON(r)
	case FormatYAMLLD:
		doc, err = frame.DecodeYAML(r)
	case FormatNQuads, FormatTurtle, FormatRDFXML:
		return loadRDF(ctx, r, format, proc, opts.Context, jsonld)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("rdf: decode %s: %w", format, err)
	}
	if !opts.Flatten {
		return doc, nil
	}

	ldContext := opts.Context
	if ldContext == nil {
		if m, ok := doc.(*frame.Map); ok {
			ldContext, _ = m.Get(frame.ContextField)
		}
	}
	flat, err := proc.Flatten(ctx, doc, ldContext, jsonld)
	if err != nil {
		return nil, err
	}
	return graphDocument(flat, ldContext), nil
}

// loadRDF converts statement-based input through N-Quads and json-gold's
// FromRDF, then compacts it when a context is known.
func loadRDF(ctx context.Context, r io.Reader, format Format, proc Processor, ldContext any, opts Options) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("rdf: decode %s: %w", format, err)
	}
	nquads := string(data)
	switch format {
	case FormatTurtle:
		triples, err := parseTurtle(nquads, opts.BaseIRI)
		if err != nil {
			return nil, fmt.Errorf("rdf: decode %s: %w", format, err)
		}
		nquads = writeNQuads(triples)
	case FormatRDFXML:
		triples, err := parseRDFXML(bytes.NewReader(data), opts.BaseIRI)
		if err != nil {
			return nil, fmt.Errorf("rdf: decode %s: %w", format, err)
		}
		nquads = writeNQuads(triples)
	}
	expanded, err := proc.FromNQuads(ctx, nquads, opts)
	if err != nil {
		return nil, err
	}
	if ldContext == nil {
		return graphDocument(expanded, nil), nil
	}
	compacted, err := proc.Compact(ctx, expanded, ldContext, opts)
	if err != nil {
		return nil, err
	}
	return graphDocument(compacted, ldContext), nil
}

// graphDocument shapes processor output as a document with @context first
// and every node under @graph. Compaction drops @graph when only one node
// remains, so a bare node object becomes a one-element graph.
func graphDocument(out any, ldContext any) *frame.Map {
	doc := frame.NewMap()
	switch value := out.(type) {
	case []any:
		if ldContext != nil {
			doc.Set(frame.ContextField, fromGold(ldContext))
		}
		doc.Set(frame.GraphField, fromGold(value))
	case map[string]any:
		if c, ok := value[frame.ContextField]; ok {
			doc.Set(frame.ContextField, fromGold(c))
		}
		if graph, ok := value[frame.GraphField]; ok {
			doc.Set(frame.GraphField, fromGold(graph))
			return doc
		}
		node := make(map[string]any, len(value))
		for k, v := range value {
			if k != frame.ContextField {
				node[k] = v
			}
		}
		graph := []any{}
		if len(node) > 0 {
			graph = append(graph, fromGold(node))
		}
		doc.Set(frame.GraphField, graph)
	default:
		doc.Set(frame.GraphField, []any{})
	}
	return doc
}

// fromGold converts json-gold output into ordered maps. Integral floats
// become int64 again.
func fromGold(v any) any {
	switch value := v.(type) {
	case *frame.Map:
		return value
	case map[string]any, []any:
		return integers(frame.FromPlain(value))
	case float64:
		return integer(value)
	default:
		return v
	}
}

func integers(v any) any {
	switch value := v.(type) {
	case *frame.Map:
		for _, k := range value.Keys() {
			item, _ := value.Get(k)
			value.Set(k, integers(item))
		}
		return value
	case []any:
		for i, item := range value {
			value[i] = integers(item)
		}
		return value
	case float64:
		return integer(value)
	default:
		return v
	}
}

func integer(f float64) any {
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return int64(f)
	}
	return f
}
