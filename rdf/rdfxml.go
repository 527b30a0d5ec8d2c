package rdf

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

const xmlNS = "http://www.w3.org/XML/1998/namespace"

// parseRDFXML reads an RDF/XML document into triples.
func parseRDFXML(r io.Reader, base string) ([]Triple, error) {
	d := &rdfxmlDecoder{dec: xml.NewDecoder(r)}
	scope := xmlScope{base: base}
	for {
		tok, err := d.dec.Token()
		if err == io.EOF {
			return d.triples, nil
		}
		if err != nil {
			return nil, d.wrap(err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if isRDF(start.Name, "RDF") {
			scope = scope.enter(start)
			continue
		}
		if _, err := d.parseNode(start, scope); err != nil {
			return nil, err
		}
	}
}

type rdfxmlDecoder struct {
	dec              *xml.Decoder
	triples          []Triple
	blankNodeCounter int
}

// xmlScope carries the inherited xml:base and xml:lang.
type xmlScope struct {
	base string
	lang string
}

func (s xmlScope) enter(el xml.StartElement) xmlScope {
	if base, ok := attr(el.Attr, xmlNS, "base"); ok {
		s.base = s.resolve(base)
	}
	if lang, ok := attr(el.Attr, xmlNS, "lang"); ok {
		s.lang = lang
	}
	return s
}

func (s xmlScope) resolve(value string) string {
	if s.base == "" {
		return value
	}
	return resolveIRI(s.base, value)
}

func (d *rdfxmlDecoder) add(s Term, p string, o Term) {
	d.triples = append(d.triples, Triple{S: s, P: IRI{Value: p}, O: o})
}

func (d *rdfxmlDecoder) newBlankNode() BlankNode {
	d.blankNodeCounter++
	return BlankNode{ID: fmt.Sprintf("genid%d", d.blankNodeCounter)}
}

// parseNode reads a node element up to its end tag and returns its subject.
func (d *rdfxmlDecoder) parseNode(el xml.StartElement, scope xmlScope) (Term, error) {
	scope = scope.enter(el)
	subject := d.subject(el, scope)
	if !isRDF(el.Name, "Description") {
		d.add(subject, rdfTypeIRI, IRI{Value: el.Name.Space + el.Name.Local})
	}
	d.propertyAttrs(subject, el.Attr, scope)

	li := 0
	for {
		tok, err := d.dec.Token()
		if err != nil {
			return nil, d.wrap(err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if err := d.parseProperty(subject, t, scope, &li); err != nil {
				return nil, err
			}
		case xml.EndElement:
			return subject, nil
		}
	}
}

func (d *rdfxmlDecoder) subject(el xml.StartElement, scope xmlScope) Term {
	if about, ok := attr(el.Attr, rdfNS, "about"); ok {
		return IRI{Value: scope.resolve(about)}
	}
	if id, ok := attr(el.Attr, rdfNS, "ID"); ok {
		return IRI{Value: scope.resolve("#" + id)}
	}
	if nodeID, ok := attr(el.Attr, rdfNS, "nodeID"); ok {
		return BlankNode{ID: nodeID}
	}
	return d.newBlankNode()
}

// propertyAttrs emits one literal per property attribute; rdf:type
// attributes become IRIs.
func (d *rdfxmlDecoder) propertyAttrs(subject Term, attrs []xml.Attr, scope xmlScope) {
	for _, a := range attrs {
		if !isPropertyAttr(a.Name) {
			continue
		}
		if isRDF(a.Name, "type") {
			d.add(subject, rdfTypeIRI, IRI{Value: scope.resolve(a.Value)})
			continue
		}
		d.add(subject, a.Name.Space+a.Name.Local, Literal{Lexical: a.Value, Lang: scope.lang})
	}
}

// parseProperty reads a property element up to its end tag.
func (d *rdfxmlDecoder) parseProperty(subject Term, el xml.StartElement, scope xmlScope, li *int) error {
	scope = scope.enter(el)
	predicate := el.Name.Space + el.Name.Local
	if isRDF(el.Name, "li") {
		*li++
		predicate = fmt.Sprintf("%s_%d", rdfNS, *li)
	}

	if resource, ok := attr(el.Attr, rdfNS, "resource"); ok {
		obj := IRI{Value: scope.resolve(resource)}
		d.add(subject, predicate, obj)
		d.propertyAttrs(obj, el.Attr, scope)
		return d.skip()
	}
	if nodeID, ok := attr(el.Attr, rdfNS, "nodeID"); ok {
		obj := BlankNode{ID: nodeID}
		d.add(subject, predicate, obj)
		d.propertyAttrs(obj, el.Attr, scope)
		return d.skip()
	}

	parseType, _ := attr(el.Attr, rdfNS, "parseType")
	switch parseType {
	case "Resource":
		obj := d.newBlankNode()
		d.add(subject, predicate, obj)
		return d.parseResourceBody(obj, scope)
	case "Collection":
		head, err := d.parseCollection(scope)
		if err != nil {
			return err
		}
		d.add(subject, predicate, head)
		return nil
	}

	datatype, _ := attr(el.Attr, rdfNS, "datatype")
	if parseType == "Literal" {
		datatype = rdfNS + "XMLLiteral"
	}
	var (
		text   strings.Builder
		object Term
	)
	for {
		tok, err := d.dec.Token()
		if err != nil {
			return d.wrap(err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			text.Write(t)
		case xml.StartElement:
			if object != nil || parseType == "Literal" {
				if parseType == "Literal" {
					if err := d.skip(); err != nil {
						return err
					}
					continue
				}
				return d.errorf("property %s has more than one node element", predicate)
			}
			if object, err = d.parseNode(t, scope); err != nil {
				return err
			}
		case xml.EndElement:
			switch {
			case object != nil:
				d.add(subject, predicate, object)
			case strings.TrimSpace(text.String()) == "" && hasPropertyAttrs(el.Attr):
				obj := d.newBlankNode()
				d.add(subject, predicate, obj)
				d.propertyAttrs(obj, el.Attr, scope)
			default:
				lit := Literal{Lexical: text.String()}
				if datatype != "" {
					lit.Datatype = IRI{Value: scope.resolve(datatype)}
				} else {
					lit.Lang = scope.lang
				}
				d.add(subject, predicate, lit)
			}
			return nil
		}
	}
}

// parseResourceBody reads property elements of obj until the enclosing end tag.
func (d *rdfxmlDecoder) parseResourceBody(obj Term, scope xmlScope) error {
	li := 0
	for {
		tok, err := d.dec.Token()
		if err != nil {
			return d.wrap(err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if err := d.parseProperty(obj, t, scope, &li); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

// parseCollection reads node elements into an rdf:first/rdf:rest list.
func (d *rdfxmlDecoder) parseCollection(scope xmlScope) (Term, error) {
	var items []Term
	for {
		tok, err := d.dec.Token()
		if err != nil {
			return nil, d.wrap(err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			item, err := d.parseNode(t, scope)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		case xml.EndElement:
			var list Term = IRI{Value: rdfNS + "nil"}
			for i := len(items) - 1; i >= 0; i-- {
				cell := d.newBlankNode()
				d.add(cell, rdfNS+"first", items[i])
				d.add(cell, rdfNS+"rest", list)
				list = cell
			}
			return list, nil
		}
	}
}

// skip consumes the rest of the current element.
func (d *rdfxmlDecoder) skip() error {
	if err := d.dec.Skip(); err != nil {
		return d.wrap(err)
	}
	return nil
}

func (d *rdfxmlDecoder) wrap(err error) error {
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	line, column := d.dec.InputPos()
	return &ParseError{Format: FormatRDFXML, Line: line, Column: column, Err: err}
}

func (d *rdfxmlDecoder) errorf(format string, args ...any) error {
	return d.wrap(fmt.Errorf(format, args...))
}

func isRDF(name xml.Name, local string) bool {
	return name.Space == rdfNS && name.Local == local
}

// isPropertyAttr reports whether an attribute states a property rather than
// syntax (namespaces, xml:*, rdf:about and friends).
func isPropertyAttr(name xml.Name) bool {
	switch {
	case name.Space == "", name.Space == "xmlns", name.Space == xmlNS:
		return false
	case name.Space == rdfNS:
		switch name.Local {
		case "about", "ID", "nodeID", "resource", "parseType", "datatype", "bagID", "aboutEach", "aboutEachPrefix":
			return false
		}
	}
	return true
}

func hasPropertyAttrs(attrs []xml.Attr) bool {
	for _, a := range attrs {
		if isPropertyAttr(a.Name) {
			return true
		}
	}
	return false
}

func attr(attrs []xml.Attr, space, local string) (string, bool) {
	for _, a := range attrs {
		if a.Name.Space == space && a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}
