package rdf

import (
	"context"
	"errors"
	"fmt"
)

// ErrorCode represents a programmatic error code for error handling.
type ErrorCode string

const (
	// ErrCodeUnsupportedFormat indicates an unsupported input format.
	ErrCodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	// ErrCodeDecode indicates the input could not be decoded.
	ErrCodeDecode ErrorCode = "DECODE_ERROR"
	// ErrCodeProcessing indicates a JSON-LD algorithm failed.
	ErrCodeProcessing ErrorCode = "JSONLD_ERROR"
	// ErrCodeContextCanceled indicates the context was canceled.
	ErrCodeContextCanceled ErrorCode = "CONTEXT_CANCELED"
)

var (
	// ErrUnsupportedFormat indicates an unsupported input format.
	ErrUnsupportedFormat = errors.New("rdf: unsupported format")
	// ErrProcessing indicates a JSON-LD algorithm failed.
	ErrProcessing = errors.New("rdf: json-ld processing failed")
)

// Code returns the error code for an error, or ErrCodeDecode if unknown.
func Code(err error) ErrorCode {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnsupportedFormat):
		return ErrCodeUnsupportedFormat
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrCodeContextCanceled
	case errors.Is(err, ErrProcessing):
		return ErrCodeProcessing
	default:
		return ErrCodeDecode
	}
}

// ProcessingError records which JSON-LD algorithm failed.
type ProcessingError struct {
	Op  string // "flatten", "compact", "expand", "fromRDF"
	Err error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("jsonld %s: %v", e.Op, e.Err)
}

func (e *ProcessingError) Unwrap() []error { return []error{ErrProcessing, e.Err} }

func wrapProcessing(op string, err error) error {
	if err == nil {
		return nil
	}
	return &ProcessingError{Op: op, Err: err}
}

// ParseError reports a syntax error in Turtle or RDF/XML input.
type ParseError struct {
	Format Format
	Line   int // 1-based, 0 if unknown
	Column int // 1-based, 0 if unknown
	Err    error
}

func (e *ParseError) Error() string {
	switch {
	case e.Line > 0 && e.Column > 0:
		return fmt.Sprintf("%s:%d:%d: %v", e.Format, e.Line, e.Column, e.Err)
	case e.Line > 0:
		return fmt.Sprintf("%s:%d: %v", e.Format, e.Line, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Format, e.Err)
	}
}

func (e *ParseError) Unwrap() error { return e.Err }
