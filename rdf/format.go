package rdf

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies the input serializations accepted by LoadDocument.
type Format string

const (
	FormatJSONLD Format = "jsonld"
	FormatYAMLLD Format = "yamlld"
	FormatNQuads Format = "nquads"
	FormatTurtle Format = "turtle"
	FormatRDFXML Format = "rdfxml"
)

// ParseFormat normalizes a format string.
func ParseFormat(value string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "jsonld", "json-ld", "json":
		return FormatJSONLD, true
	case "yamlld", "yaml-ld", "yaml", "yml":
		return FormatYAMLLD, true
	case "nquads", "nq", "ntriples", "nt":
		return FormatNQuads, true
	case "turtle", "ttl":
		return FormatTurtle, true
	case "rdfxml", "rdf/xml", "rdf", "xml", "owl":
		return FormatRDFXML, true
	default:
		return "", false
	}
}

// ResolveFormat resolves a format name or returns ErrUnsupportedFormat.
func ResolveFormat(name string) (Format, error) {
	format, ok := ParseFormat(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
	return format, nil
}

// FormatFromPath infers the format from a filename extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonld", ".json":
		return FormatJSONLD, nil
	case ".yamlld", ".yaml", ".yml":
		return FormatYAMLLD, nil
	case ".nq", ".nt":
		return FormatNQuads, nil
	case ".ttl":
		return FormatTurtle, nil
	case ".rdf", ".xml", ".owl":
		return FormatRDFXML, nil
	default:
		return "", fmt.Errorf("%w: no format for path %s", ErrUnsupportedFormat, path)
	}
}

// FormatFromContentType infers the format from a media type.
func FormatFromContentType(contentType string) (Format, error) {
	mediaType := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	switch mediaType {
	case "application/ld+json", "application/json":
		return FormatJSONLD, nil
	case "application/ld+yaml", "application/yaml", "application/x-yaml", "text/yaml":
		return FormatYAMLLD, nil
	case "application/n-quads", "application/n-triples":
		return FormatNQuads, nil
	case "text/turtle", "application/x-turtle":
		return FormatTurtle, nil
	case "application/rdf+xml", "application/xml", "text/xml":
		return FormatRDFXML, nil
	default:
		return "", fmt.Errorf("%w: unknown content type %s", ErrUnsupportedFormat, contentType)
	}
}

// DetectFormat guesses the format from the start of the input.
// Leading comment lines are skipped. N-Quads and Turtle both allow a
// statement to open with an IRI; such input is taken as N-Quads.
// Anything that matches no RDF syntax is treated as YAML.
func DetectFormat(sample []byte) (Format, bool) {
	trimmed := strings.TrimSpace(string(sample))
	for strings.HasPrefix(trimmed, "#") {
		_, rest, _ := strings.Cut(trimmed, "\n")
		trimmed = strings.TrimSpace(rest)
	}
	if trimmed == "" {
		return "", false
	}
	lower := strings.ToLower(trimmed)
	switch {
	case trimmed[0] == '{' || trimmed[0] == '[':
		return FormatJSONLD, true
	case strings.HasPrefix(trimmed, "<?xml") || strings.HasPrefix(trimmed, "<rdf:") || strings.HasPrefix(trimmed, "<!--"):
		return FormatRDFXML, true
	case strings.HasPrefix(trimmed, "@prefix") || strings.HasPrefix(trimmed, "@base") ||
		strings.HasPrefix(lower, "prefix ") || strings.HasPrefix(lower, "base "):
		return FormatTurtle, true
	case trimmed[0] == '<' || strings.HasPrefix(trimmed, "_:"):
		return FormatNQuads, true
	default:
		return FormatYAMLLD, true
	}
}
