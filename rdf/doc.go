// Package rdf adapts serialized Linked Data into documents the frame package
// can load.
//
// Copyright 2026 Geoknoesis LLC (www.geoknoesis.com)
//
// Inputs are JSON-LD, YAML-LD, N-Quads, Turtle or RDF/XML. JSON and YAML are
// decoded into insertion-ordered *frame.Map trees so that property order
// survives. Turtle and RDF/XML are parsed into triples and written as
// N-Quads. RDF input, and JSON/YAML documents that are not already flat, go
// through the json-gold JSON-LD processor:
//   - FromNQuads converts an RDF dataset into expanded JSON-LD.
//   - Flatten produces a node map with one record per subject under @graph.
//   - Compact applies a context so that keys use the author's terms.
//
// Example:
//
//	doc, err := rdf.LoadDocument(ctx, f, rdf.FormatNQuads, rdf.LoadOptions{
//	    Context: map[string]any{"$id": "@id", "isA": "@type"},
//	})
//	if err != nil {
//	    // handle error
//	}
//	out, err := frame.Frame(doc, frame.DefaultOptions())
//
// The processor reaches the network only to resolve remote contexts. Supply a
// DocumentLoader, such as a StaticLoader, to keep processing offline.
package rdf
