package rdf

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"
)

// parseTurtle reads a Turtle document into triples. Relative IRIs are
// resolved against base and then against @base/BASE directives.
func parseTurtle(input, base string) ([]Triple, error) {
	c := &turtleCursor{input: input, base: base, prefixes: map[string]string{}}
	for {
		c.skipWS()
		if c.pos >= len(c.input) {
			return c.triples, nil
		}
		handled, err := c.parseDirective()
		if err != nil {
			return nil, err
		}
		if handled {
			continue
		}
		if err := c.parseStatement(); err != nil {
			return nil, err
		}
	}
}

type turtleCursor struct {
	input            string
	pos              int
	base             string
	prefixes         map[string]string
	triples          []Triple
	blankNodeCounter int
}

// skipWS skips whitespace and comments.
func (c *turtleCursor) skipWS() {
	for c.pos < len(c.input) {
		switch c.input[c.pos] {
		case ' ', '\t', '\r', '\n':
			c.pos++
		case '#':
			for c.pos < len(c.input) && c.input[c.pos] != '\n' {
				c.pos++
			}
		default:
			return
		}
	}
}

func (c *turtleCursor) consume(ch byte) bool {
	c.skipWS()
	if c.pos < len(c.input) && c.input[c.pos] == ch {
		c.pos++
		return true
	}
	return false
}

func (c *turtleCursor) peek() byte {
	if c.pos >= len(c.input) {
		return 0
	}
	return c.input[c.pos]
}

func (c *turtleCursor) peekNext() byte {
	if c.pos+1 >= len(c.input) {
		return 0
	}
	return c.input[c.pos+1]
}

// keyword matches a case-insensitive SPARQL-style keyword followed by whitespace.
func (c *turtleCursor) keyword(word string) bool {
	end := c.pos + len(word)
	if end >= len(c.input) || !strings.EqualFold(c.input[c.pos:end], word) {
		return false
	}
	switch c.input[end] {
	case ' ', '\t', '\r', '\n':
		c.pos = end
		return true
	}
	return false
}

func (c *turtleCursor) parseDirective() (bool, error) {
	switch {
	case strings.HasPrefix(c.input[c.pos:], "@prefix"):
		c.pos += len("@prefix")
		if err := c.parsePrefixBody(); err != nil {
			return true, err
		}
		return true, c.expectDot()
	case strings.HasPrefix(c.input[c.pos:], "@base"):
		c.pos += len("@base")
		if err := c.parseBaseBody(); err != nil {
			return true, err
		}
		return true, c.expectDot()
	case c.keyword("PREFIX"):
		return true, c.parsePrefixBody()
	case c.keyword("BASE"):
		return true, c.parseBaseBody()
	}
	return false, nil
}

func (c *turtleCursor) parsePrefixBody() error {
	c.skipWS()
	start := c.pos
	for c.pos < len(c.input) && c.input[c.pos] != ':' {
		switch c.input[c.pos] {
		case ' ', '\t', '\r', '\n':
			return c.errorf("invalid prefix name %q", c.input[start:c.pos])
		}
		c.pos++
	}
	if !c.consume(':') {
		return c.errorf("expected ':' after prefix name")
	}
	name := c.input[start : c.pos-1]
	iri, err := c.parseIRI()
	if err != nil {
		return err
	}
	c.prefixes[name] = iri.Value
	return nil
}

func (c *turtleCursor) parseBaseBody() error {
	iri, err := c.parseIRI()
	if err != nil {
		return err
	}
	c.base = iri.Value
	return nil
}

func (c *turtleCursor) expectDot() error {
	if !c.consume('.') {
		return c.errorf("expected '.'")
	}
	return nil
}

func (c *turtleCursor) parseStatement() error {
	c.skipWS()
	bracketed := c.peek() == '['
	subject, err := c.parseTerm(false)
	if err != nil {
		return err
	}
	c.skipWS()
	if bracketed && c.peek() == '.' {
		c.pos++
		return nil
	}
	if err := c.parsePredicateObjectList(subject); err != nil {
		return err
	}
	return c.expectDot()
}

func (c *turtleCursor) parsePredicateObjectList(subject Term) error {
	for {
		predicate, err := c.parsePredicate()
		if err != nil {
			return err
		}
		if err := c.parseObjectList(subject, predicate); err != nil {
			return err
		}
		if !c.consume(';') {
			return nil
		}
		for c.consume(';') {
		}
		c.skipWS()
		switch c.peek() {
		case '.', ']', 0:
			return nil
		}
	}
}

func (c *turtleCursor) parseObjectList(subject Term, predicate IRI) error {
	for {
		object, err := c.parseTerm(true)
		if err != nil {
			return err
		}
		c.triples = append(c.triples, Triple{S: subject, P: predicate, O: object})
		if !c.consume(',') {
			return nil
		}
	}
}

func (c *turtleCursor) parsePredicate() (IRI, error) {
	c.skipWS()
	if c.peek() == 'a' && isTurtleTerminator(c.peekNext(), 0) {
		c.pos++
		return IRI{Value: rdfTypeIRI}, nil
	}
	term, err := c.parseTerm(false)
	if err != nil {
		return IRI{}, err
	}
	iri, ok := term.(IRI)
	if !ok {
		return IRI{}, c.errorf("predicate must be an IRI")
	}
	return iri, nil
}

func (c *turtleCursor) parseTerm(allowLiteral bool) (Term, error) {
	c.skipWS()
	if c.pos >= len(c.input) {
		return nil, c.errorf("unexpected end of input")
	}
	switch ch := c.input[c.pos]; {
	case ch == '<':
		return c.parseIRI()
	case strings.HasPrefix(c.input[c.pos:], "_:"):
		return c.parseBlankNode()
	case ch == '[':
		return c.parseBlankNodePropertyList()
	case ch == '(':
		return c.parseCollection()
	case ch == '"' || ch == '\'':
		if !allowLiteral {
			return nil, c.errorf("literal not allowed here")
		}
		return c.parseLiteral(ch)
	}
	if allowLiteral {
		if lit, ok := c.tryParseNumericLiteral(); ok {
			return lit, nil
		}
		if lit, ok := c.tryParseBooleanLiteral(); ok {
			return lit, nil
		}
	}
	return c.parsePrefixedName()
}

func (c *turtleCursor) parseIRI() (IRI, error) {
	if !c.consume('<') {
		return IRI{}, c.errorf("expected IRI")
	}
	var b strings.Builder
	for {
		if c.pos >= len(c.input) {
			return IRI{}, c.errorf("unterminated IRI")
		}
		ch := c.input[c.pos]
		switch {
		case ch == '>':
			c.pos++
			return IRI{Value: c.resolve(b.String())}, nil
		case ch == '\\':
			r, err := c.parseUChar()
			if err != nil {
				return IRI{}, err
			}
			b.WriteRune(r)
		case ch <= 0x20 || strings.IndexByte("<\"{}|^`", ch) >= 0:
			return IRI{}, c.errorf("invalid character %q in IRI", ch)
		default:
			b.WriteByte(ch)
			c.pos++
		}
	}
}

func (c *turtleCursor) resolve(value string) string {
	if c.base == "" {
		return value
	}
	return resolveIRI(c.base, value)
}

// parseUChar decodes \uXXXX or \UXXXXXXXX at the cursor.
func (c *turtleCursor) parseUChar() (rune, error) {
	if c.pos+1 >= len(c.input) {
		return 0, c.errorf("unterminated escape")
	}
	size := 0
	switch c.input[c.pos+1] {
	case 'u':
		size = 4
	case 'U':
		size = 8
	default:
		return 0, c.errorf("invalid escape sequence")
	}
	start := c.pos + 2
	if start+size > len(c.input) {
		return 0, c.errorf("invalid escape sequence")
	}
	code, err := strconv.ParseUint(c.input[start:start+size], 16, 32)
	if err != nil || !utf8.ValidRune(rune(code)) {
		return 0, c.errorf("invalid escape sequence")
	}
	c.pos = start + size
	return rune(code), nil
}

func (c *turtleCursor) parseBlankNode() (Term, error) {
	c.pos += 2
	start := c.pos
	for c.pos < len(c.input) && !isTurtleTerminator(c.input[c.pos], c.peekNext()) {
		c.pos++
	}
	if start == c.pos {
		return nil, c.errorf("blank node label missing")
	}
	return BlankNode{ID: c.input[start:c.pos]}, nil
}

func (c *turtleCursor) newBlankNode() BlankNode {
	c.blankNodeCounter++
	return BlankNode{ID: fmt.Sprintf("genid%d", c.blankNodeCounter)}
}

// parseBlankNodePropertyList parses [ predicateObjectList ] into a fresh
// blank node and records its triples.
func (c *turtleCursor) parseBlankNodePropertyList() (Term, error) {
	c.pos++
	bn := c.newBlankNode()
	if c.consume(']') {
		return bn, nil
	}
	if err := c.parsePredicateObjectList(bn); err != nil {
		return nil, err
	}
	if !c.consume(']') {
		return nil, c.errorf("expected ']'")
	}
	return bn, nil
}

// parseCollection parses ( object* ) into an rdf:first/rdf:rest list.
func (c *turtleCursor) parseCollection() (Term, error) {
	c.pos++
	var items []Term
	for !c.consume(')') {
		if c.pos >= len(c.input) {
			return nil, c.errorf("unterminated collection")
		}
		item, err := c.parseTerm(true)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return IRI{Value: rdfNS + "nil"}, nil
	}
	head := c.newBlankNode()
	current := head
	for i, item := range items {
		c.triples = append(c.triples, Triple{S: current, P: IRI{Value: rdfNS + "first"}, O: item})
		var rest Term = IRI{Value: rdfNS + "nil"}
		if i < len(items)-1 {
			next := c.newBlankNode()
			rest = next
			c.triples = append(c.triples, Triple{S: current, P: IRI{Value: rdfNS + "rest"}, O: rest})
			current = next
			continue
		}
		c.triples = append(c.triples, Triple{S: current, P: IRI{Value: rdfNS + "rest"}, O: rest})
	}
	return head, nil
}

func (c *turtleCursor) parseLiteral(quote byte) (Term, error) {
	long := strings.HasPrefix(c.input[c.pos:], strings.Repeat(string(quote), 3))
	if long {
		c.pos += 3
	} else {
		c.pos++
	}
	var b strings.Builder
	for {
		if c.pos >= len(c.input) {
			return nil, c.errorf("unterminated string")
		}
		ch := c.input[c.pos]
		if ch == quote {
			if !long {
				c.pos++
				break
			}
			if strings.HasPrefix(c.input[c.pos:], strings.Repeat(string(quote), 3)) {
				c.pos += 3
				for c.peek() == quote {
					b.WriteByte(quote)
					c.pos++
				}
				break
			}
		}
		if !long && (ch == '\n' || ch == '\r') {
			return nil, c.errorf("newline in string")
		}
		if ch != '\\' {
			b.WriteByte(ch)
			c.pos++
			continue
		}
		if c.pos+1 >= len(c.input) {
			return nil, c.errorf("unterminated escape")
		}
		if esc, ok := stringEscapes[c.input[c.pos+1]]; ok {
			b.WriteByte(esc)
			c.pos += 2
			continue
		}
		r, err := c.parseUChar()
		if err != nil {
			return nil, err
		}
		b.WriteRune(r)
	}
	lit := Literal{Lexical: b.String()}
	switch {
	case c.peek() == '@':
		c.pos++
		start := c.pos
		for c.pos < len(c.input) && isLangChar(c.input[c.pos]) {
			c.pos++
		}
		if start == c.pos {
			return nil, c.errorf("invalid language tag")
		}
		lit.Lang = c.input[start:c.pos]
	case strings.HasPrefix(c.input[c.pos:], "^^"):
		c.pos += 2
		dt, err := c.parseTerm(false)
		if err != nil {
			return nil, err
		}
		iri, ok := dt.(IRI)
		if !ok {
			return nil, c.errorf("datatype must be an IRI")
		}
		lit.Datatype = iri
	}
	return lit, nil
}

var stringEscapes = map[byte]byte{
	't': '\t', 'b': '\b', 'n': '\n', 'r': '\r', 'f': '\f',
	'"': '"', '\'': '\'', '\\': '\\',
}

func isLangChar(ch byte) bool {
	return ch == '-' || ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch >= '0' && ch <= '9'
}

func (c *turtleCursor) tryParseNumericLiteral() (Literal, bool) {
	start := c.pos
	if ch := c.peek(); ch == '+' || ch == '-' {
		c.pos++
	}
	hasDigits, hasDot, hasExponent := false, false, false
	for c.pos < len(c.input) {
		ch := c.input[c.pos]
		switch {
		case ch >= '0' && ch <= '9':
			hasDigits = true
			c.pos++
			continue
		case ch == '.' && !hasDot && !hasExponent:
			if next := c.peekNext(); next >= '0' && next <= '9' {
				hasDot = true
				c.pos++
				continue
			}
		case (ch == 'e' || ch == 'E') && hasDigits && !hasExponent:
			hasExponent = true
			c.pos++
			if sign := c.peek(); sign == '+' || sign == '-' {
				c.pos++
			}
			if next := c.peek(); next < '0' || next > '9' {
				c.pos = start
				return Literal{}, false
			}
			continue
		}
		break
	}
	if !hasDigits || !isTurtleTerminator(c.peek(), c.peekNext()) {
		c.pos = start
		return Literal{}, false
	}
	datatype := xsdNS + "integer"
	switch {
	case hasExponent:
		datatype = xsdNS + "double"
	case hasDot:
		datatype = xsdNS + "decimal"
	}
	return Literal{Lexical: c.input[start:c.pos], Datatype: IRI{Value: datatype}}, true
}

func (c *turtleCursor) tryParseBooleanLiteral() (Literal, bool) {
	for _, word := range []string{"true", "false"} {
		end := c.pos + len(word)
		if strings.HasPrefix(c.input[c.pos:], word) && (end >= len(c.input) || isTurtleTerminator(c.input[end], 0)) {
			c.pos = end
			return Literal{Lexical: word, Datatype: IRI{Value: xsdNS + "boolean"}}, true
		}
	}
	return Literal{}, false
}

func (c *turtleCursor) parsePrefixedName() (Term, error) {
	start := c.pos
	for c.pos < len(c.input) {
		if c.input[c.pos] == '\\' {
			c.pos += 2
			continue
		}
		if isTurtleTerminator(c.input[c.pos], c.peekNext()) {
			break
		}
		c.pos++
	}
	if c.pos > len(c.input) {
		c.pos = len(c.input)
	}
	token := c.input[start:c.pos]
	prefix, local, ok := strings.Cut(token, ":")
	if !ok {
		if token == "" {
			return nil, c.errorf("expected term")
		}
		return nil, c.errorf("invalid token %q", token)
	}
	ns, ok := c.prefixes[prefix]
	if !ok {
		return nil, c.errorf("unknown prefix %q", prefix)
	}
	return IRI{Value: ns + unescapeLocal(local)}, nil
}

// unescapeLocal removes the backslashes of reserved-character escapes.
func unescapeLocal(local string) string {
	if !strings.Contains(local, `\`) {
		return local
	}
	var b strings.Builder
	for i := 0; i < len(local); i++ {
		if local[i] == '\\' && i+1 < len(local) {
			i++
		}
		b.WriteByte(local[i])
	}
	return b.String()
}

// isTurtleTerminator reports whether ch ends a name. A dot ends a name only
// when it is not followed by another name character.
func isTurtleTerminator(ch, next byte) bool {
	switch ch {
	case 0, ' ', '\t', '\r', '\n', ';', ',', '(', ')', '[', ']', '<', '>', '"', '\'', '#':
		return true
	case '.':
		switch next {
		case 0, ' ', '\t', '\r', '\n', ';', ',', ')', ']', '#':
			return true
		}
	}
	return false
}

func (c *turtleCursor) errorf(format string, args ...any) error {
	consumed := c.input[:min(c.pos, len(c.input))]
	line := strings.Count(consumed, "\n") + 1
	column := c.pos - strings.LastIndexByte(consumed, '\n')
	return &ParseError{Format: FormatTurtle, Line: line, Column: column, Err: fmt.Errorf(format, args...)}
}

// resolveIRI resolves a relative reference against base.
func resolveIRI(base, relative string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return relative
	}
	relURL, err := url.Parse(relative)
	if err != nil {
		return relative
	}
	if relURL.Scheme != "" {
		return relative
	}
	return baseURL.ResolveReference(relURL).String()
}
