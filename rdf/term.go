package rdf

import "strings"

const (
	rdfNS      = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	rdfTypeIRI = rdfNS + "type"
	xsdNS      = "http://www.w3.org/2001/XMLSchema#"
)

// TermKind identifies RDF term types.
type TermKind uint8

const (
	TermIRI TermKind = iota
	TermBlankNode
	TermLiteral
)

// Term is a value that can appear in a triple.
type Term interface {
	Kind() TermKind
	String() string
}

// IRI is an RDF IRI.
type IRI struct {
	Value string
}

// Kind returns TermIRI.
func (i IRI) Kind() TermKind { return TermIRI }

// String returns the IRI in N-Quads form.
func (i IRI) String() string { return "<" + i.Value + ">" }

// BlankNode is an RDF blank node.
type BlankNode struct {
	ID string
}

// Kind returns TermBlankNode.
func (b BlankNode) Kind() TermKind { return TermBlankNode }

// String returns the label prefixed with "_:".
func (b BlankNode) String() string { return "_:" + b.ID }

// Literal is an RDF literal.
type Literal struct {
	Lexical  string
	Datatype IRI
	Lang     string
}

// Kind returns TermLiteral.
func (l Literal) Kind() TermKind { return TermLiteral }

// String returns the literal in N-Quads form.
func (l Literal) String() string {
	quoted := `"` + escapeLiteral(l.Lexical) + `"`
	switch {
	case l.Lang != "":
		return quoted + "@" + strings.ToLower(l.Lang)
	case l.Datatype.Value != "" && l.Datatype.Value != xsdNS+"string":
		return quoted + "^^" + l.Datatype.String()
	default:
		return quoted
	}
}

// Triple is an RDF statement in the default graph.
type Triple struct {
	S Term
	P IRI
	O Term
}

// String returns the statement as one N-Quads line without the newline.
func (t Triple) String() string {
	return t.S.String() + " " + t.P.String() + " " + t.O.String() + " ."
}

// writeNQuads renders triples as an N-Quads document.
func writeNQuads(triples []Triple) string {
	var b strings.Builder
	for _, t := range triples {
		b.WriteString(t.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// escapeLiteral escapes the characters json-gold's N-Quads reader unescapes.
func escapeLiteral(value string) string {
	var b strings.Builder
	for _, r := range value {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
