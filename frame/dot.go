package frame

import (
	"bytes"
	"fmt"
)

// ToDOT renders the reference graph of reg in Graphviz DOT format. Roots are
// filled, dangling targets are dashed, and edges carry the property name.
func ToDOT(reg *Registry, counts Counts) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, style=rounded, fontsize=12];\n")
	buf.WriteString("\n")

	for _, res := range reg.Resources() {
		attrs := fmt.Sprintf("label=%q", fmt.Sprintf("%s\nrefs: %d", res.ID, counts[res.ID]))
		if counts[res.ID] == 0 {
			attrs += ", style=\"rounded,filled\", fillcolor=lightblue"
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", res.ID, attrs)
	}
	for _, id := range reg.Dangling() {
		fmt.Fprintf(&buf, "  %q [style=\"rounded,dashed\", fontcolor=grey];\n", id)
	}

	buf.WriteString("\n")
	for _, res := range reg.Resources() {
		writeEdges(&buf, res.ID, res)
	}
	buf.WriteString("}\n")
	return buf.String()
}

// writeEdges emits the references of res, including those held by embedded
// resources, as edges leaving from.
func writeEdges(buf *bytes.Buffer, from string, res *Resource) {
	for _, p := range res.Properties {
		for _, obj := range p.Objects {
			switch o := obj.(type) {
			case Reference:
				fmt.Fprintf(buf, "  %q -> %q [label=%q];\n", from, o.Target, p.Name)
			case *Resource:
				writeEdges(buf, from, o)
			}
		}
	}
}
