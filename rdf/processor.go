package rdf

import (
	"context"
	"fmt"

	"github.com/geoknoesis/ldframe/frame"
	ld "github.com/piprate/json-gold/ld"
)

// Options configures JSON-LD processing.
type Options struct {
	// BaseIRI resolves relative IRIs.
	BaseIRI string
	// ProcessingMode controls JSON-LD version semantics: "json-ld-1.0" or "json-ld-1.1".
	ProcessingMode string
	// CompactArrays collapses single-element arrays when compacting.
	CompactArrays bool
	// UseNativeTypes turns xsd:integer, xsd:double and xsd:boolean literals
	// into native values when converting from RDF.
	UseNativeTypes bool
	// UseRdfType keeps rdf:type as a property instead of @type.
	UseRdfType bool
	// SafeMode toggles strict JSON-LD error handling.
	SafeMode bool
	// DocumentLoader resolves remote contexts. Nil uses HTTP.
	DocumentLoader DocumentLoader
}

// DefaultOptions returns the options used by LoadDocument.
func DefaultOptions() Options {
	return Options{
		ProcessingMode: "json-ld-1.1",
		CompactArrays:  true,
		UseNativeTypes: true,
	}
}

// DocumentLoader resolves remote contexts and documents.
type DocumentLoader interface {
	LoadDocument(ctx context.Context, iri string) (RemoteDocument, error)
}

// RemoteDocument represents a fetched JSON-LD document.
type RemoteDocument struct {
	DocumentURL string
	Document    any
	ContextURL  string
}

// StaticLoader serves preloaded documents keyed by IRI.
type StaticLoader map[string]any

// LoadDocument implements DocumentLoader.
func (s StaticLoader) LoadDocument(ctx context.Context, iri string) (RemoteDocument, error) {
	if err := ctx.Err(); err != nil {
		return RemoteDocument{}, err
	}
	doc, ok := s[iri]
	if !ok {
		return RemoteDocument{}, fmt.Errorf("rdf: no document preloaded for %s", iri)
	}
	return RemoteDocument{DocumentURL: iri, Document: goldValue(doc)}, nil
}

// Processor exposes the JSON-LD algorithms used to prepare documents.
type Processor interface {
	Expand(ctx context.Context, input any, opts Options) (any, error)
	Compact(ctx context.Context, input any, context any, opts Options) (any, error)
	Flatten(ctx context.Context, input any, context any, opts Options) (any, error)
	FromNQuads(ctx context.Context, nquads string, opts Options) (any, error)
}

type goldProcessor struct{}

// NewProcessor returns a Processor backed by json-gold.
func NewProcessor() Processor {
	return goldProcessor{}
}

func (goldProcessor) Expand(ctx context.Context, input any, opts Options) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	proc := ld.NewJsonLdProcessor()
	out, err := proc.Expand(goldValue(input), newJSONGoldOptions(ctx, opts))
	if err != nil {
		return nil, wrapProcessing("expand", err)
	}
	return out, nil
}

func (goldProcessor) Compact(ctx context.Context, input any, context any, opts Options) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	proc := ld.NewJsonLdProcessor()
	out, err := proc.Compact(goldValue(input), goldValue(context), newJSONGoldOptions(ctx, opts))
	if err != nil {
		return nil, wrapProcessing("compact", err)
	}
	return out, nil
}

func (goldProcessor) Flatten(ctx context.Context, input any, context any, opts Options) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	proc := ld.NewJsonLdProcessor()
	out, err := proc.Flatten(goldValue(input), goldValue(context), newJSONGoldOptions(ctx, opts))
	if err != nil {
		return nil, wrapProcessing("flatten", err)
	}
	return out, nil
}

func (goldProcessor) FromNQuads(ctx context.Context, nquads string, opts Options) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	proc := ld.NewJsonLdProcessor()
	goldOpts := newJSONGoldOptions(ctx, opts)
	goldOpts.Format = "application/n-quads"
	out, err := proc.FromRDF(nquads, goldOpts)
	if err != nil {
		return nil, wrapProcessing("fromRDF", err)
	}
	return out, nil
}

type jsonGoldDocumentLoader struct {
	ctx   context.Context
	inner DocumentLoader
}

func (l jsonGoldDocumentLoader) LoadDocument(iri string) (*ld.RemoteDocument, error) {
	remote, err := l.inner.LoadDocument(l.ctx, iri)
	if err != nil {
		return nil, err
	}
	return &ld.RemoteDocument{
		DocumentURL: remote.DocumentURL,
		Document:    remote.Document,
		ContextURL:  remote.ContextURL,
	}, nil
}

func newJSONGoldOptions(ctx context.Context, opts Options) *ld.JsonLdOptions {
	goldOpts := ld.NewJsonLdOptions(opts.BaseIRI)
	if opts.ProcessingMode != "" {
		goldOpts.ProcessingMode = opts.ProcessingMode
	}
	goldOpts.CompactArrays = opts.CompactArrays
	goldOpts.UseNativeTypes = opts.UseNativeTypes
	goldOpts.UseRdfType = opts.UseRdfType
	goldOpts.SafeMode = opts.SafeMode
	if opts.DocumentLoader != nil {
		goldOpts.DocumentLoader = jsonGoldDocumentLoader{ctx: ctx, inner: opts.DocumentLoader}
	}
	return goldOpts
}

// goldValue converts ordered maps and integer values into the shapes
// json-gold expects from encoding/json.
func goldValue(v any) any {
	switch value := v.(type) {
	case *frame.Map:
		out := make(map[string]any, value.Len())
		value.Range(func(key string, item any) bool {
			out[key] = goldValue(item)
			return true
		})
		return out
	case map[string]any:
		out := make(map[string]any, len(value))
		for k, item := range value {
			out[k] = goldValue(item)
		}
		return out
	case []any:
		out := make([]any, len(value))
		for i, item := range value {
			out[i] = goldValue(item)
		}
		return out
	case int:
		return float64(value)
	case int64:
		return float64(value)
	default:
		return v
	}
}
