package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/geoknoesis/ldframe/frame"
	"github.com/geoknoesis/ldframe/internal/config"
)

// documentWriter writes framed documents in the configured format.
type documentWriter struct {
	format     string
	contextURI string
}

func newDocumentWriter(cfg config.Config) documentWriter {
	return documentWriter{format: cfg.Output, contextURI: cfg.ContextURI}
}

// ext returns the file extension for written documents.
func (dw documentWriter) ext() string {
	if dw.format == config.OutputJSON {
		return ".jsonld"
	}
	return ".yamlld"
}

// write encodes docs to w. Several YAML documents are separated by "---".
func (dw documentWriter) write(w io.Writer, docs ...*frame.Map) error {
	switch dw.format {
	case config.OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		for _, doc := range docs {
			if err := enc.Encode(dw.prepare(doc)); err != nil {
				return fmt.Errorf("encode JSON: %w", err)
			}
		}
		return nil
	default:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		for _, doc := range docs {
			if err := enc.Encode(dw.prepare(doc)); err != nil {
				return fmt.Errorf("encode YAML: %w", err)
			}
		}
		return enc.Close()
	}
}

// writeFile writes doc next to the other outputs in dir, named after the
// input file.
func (dw documentWriter) writeFile(dir, input string, doc *frame.Map) (string, error) {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	path := filepath.Join(dir, base+dw.ext())
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := dw.write(f, doc); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}

// prepare replaces the inline @context with the configured URI. A document
// that kept its @graph only gets the URI when it already had a context.
func (dw documentWriter) prepare(doc *frame.Map) *frame.Map {
	if dw.contextURI == "" {
		return doc
	}
	_, hasGraph := doc.Get(frame.GraphField)
	_, hasContext := doc.Get(frame.ContextField)
	if hasGraph && !hasContext {
		return doc
	}
	out := frame.NewMap()
	out.Set(frame.ContextField, dw.contextURI)
	doc.Range(func(key string, value any) bool {
		if key != frame.ContextField {
			out.Set(key, value)
		}
		return true
	})
	return out
}
