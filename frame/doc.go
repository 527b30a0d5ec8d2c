// Package frame nests flattened linked-data graphs into display trees.
//
// Copyright 2026 Geoknoesis LLC (www.geoknoesis.com)
//
// A flattened JSON-LD document lists every resource as a standalone record
// under @graph; records point at each other only through {"@id": ...}
// references. Framing turns that list back into a tree:
//   - Load builds a Registry from the document.
//   - CountReferences counts, for every id, the references targeting it.
//   - Resources nothing references become roots; a Framer inlines every
//     reference to a known resource with an independent copy of its target.
//   - OrderTable.Apply optionally reorders properties per resource type.
//   - Assemble serializes the roots into an ordered Map ready for JSON or YAML.
//
// Frame runs the whole pipeline:
//
//	doc, err := frame.DecodeJSON(r)
//	if err != nil {
//	    // handle error
//	}
//	nested, err := frame.Frame(doc, frame.NewOptions(frame.OptOrder(table)))
//	if err != nil {
//	    // handle error
//	}
//	out, _ := json.Marshal(nested)
//
// When exactly one root exists, it is merged with the top-level fields of the
// input (usually @context) and @graph disappears. Otherwise @graph holds the
// list of roots. Blank node identifiers ("_:b0") are dropped from nested
// positions; named resources and roots keep theirs.
//
// Inlining fails with ErrDepthExceeded once the nesting depth reaches
// Options.MaxDepth (DefaultMaxDepth). This also catches reference cycles
// between non-root resources. With Options.DetectCycles the framer instead
// reports ErrCycleDetected as soon as a reference leads back to a resource on
// the current path. Dangling references are kept as references.
//
// A Registry belongs to a single call; FrameAll frames several documents
// concurrently, each with its own registry.
package frame
