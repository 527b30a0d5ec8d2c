package frame

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a programmatic error code for error handling.
type ErrorCode string

const (
	// ErrCodeMalformedGraph indicates a required structural field is missing from the input.
	ErrCodeMalformedGraph ErrorCode = "MALFORMED_GRAPH"
	// ErrCodeDepthExceeded indicates inlining passed the depth ceiling.
	ErrCodeDepthExceeded ErrorCode = "DEPTH_EXCEEDED"
	// ErrCodeCycleDetected indicates a reference cycle on the active inlining path.
	ErrCodeCycleDetected ErrorCode = "CYCLE_DETECTED"
	// ErrCodeInvalidOrderTable indicates an unreadable property order table.
	ErrCodeInvalidOrderTable ErrorCode = "INVALID_ORDER_TABLE"
	// ErrCodeInternal is returned for errors not produced by this package.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

var (
	// ErrMalformedGraph indicates the input lacks a required structural field.
	ErrMalformedGraph = errors.New("frame: malformed graph")
	// ErrDepthExceeded indicates inlining recursion reached the configured ceiling.
	ErrDepthExceeded = errors.New("frame: nesting depth exceeded configured limit")
	// ErrCycleDetected indicates a resource references itself through the current path.
	ErrCycleDetected = errors.New("frame: reference cycle detected")
	// ErrInvalidOrderTable indicates a property order table could not be read.
	ErrInvalidOrderTable = errors.New("frame: invalid property order table")
)

// Code returns the error code for an error.
// Returns empty string for nil errors.
func Code(err error) ErrorCode {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrMalformedGraph):
		return ErrCodeMalformedGraph
	case errors.Is(err, ErrCycleDetected):
		return ErrCodeCycleDetected
	case errors.Is(err, ErrDepthExceeded):
		return ErrCodeDepthExceeded
	case errors.Is(err, ErrInvalidOrderTable):
		return ErrCodeInvalidOrderTable
	}
	return ErrCodeInternal
}

// GraphError locates a structural problem in the flattened input.
type GraphError struct {
	Index int    // Position of the record in @graph, -1 for document level
	Field string // Offending field name, if any
	Msg   string
	Err   error
}

func (e *GraphError) Error() string {
	var msg strings.Builder
	msg.WriteString("graph")
	if e.Index >= 0 {
		fmt.Fprintf(&msg, "[%d]", e.Index)
	}
	if e.Field != "" {
		fmt.Fprintf(&msg, " field %q", e.Field)
	}
	msg.WriteString(": ")
	if e.Msg != "" {
		msg.WriteString(e.Msg)
		msg.WriteString(": ")
	}
	msg.WriteString(e.Err.Error())
	return msg.String()
}

func (e *GraphError) Unwrap() error { return e.Err }

func malformed(index int, field, format string, args ...any) error {
	return &GraphError{Index: index, Field: field, Msg: fmt.Sprintf(format, args...), Err: ErrMalformedGraph}
}

// FrameError reports where inlining stopped.
type FrameError struct {
	ID    string   // Resource being inlined when the error occurred
	Depth int      // Depth of that resource
	Path  []string // Ids from the root down to ID
	Err   error
}

func (e *FrameError) Error() string {
	var msg strings.Builder
	fmt.Fprintf(&msg, "frame: resource %q at depth %d", e.ID, e.Depth)
	if excerpt := e.pathExcerpt(); excerpt != "" {
		msg.WriteString(" (path ")
		msg.WriteString(excerpt)
		msg.WriteString(")")
	}
	msg.WriteString(": ")
	msg.WriteString(e.Err.Error())
	return msg.String()
}

// pathExcerpt shows the head and tail of long paths.
func (e *FrameError) pathExcerpt() string {
	const keep = 3
	if len(e.Path) == 0 {
		return ""
	}
	if len(e.Path) <= 2*keep {
		return strings.Join(e.Path, " -> ")
	}
	head := strings.Join(e.Path[:keep], " -> ")
	tail := strings.Join(e.Path[len(e.Path)-keep:], " -> ")
	return fmt.Sprintf("%s -> ... (%d more) -> %s", head, len(e.Path)-2*keep, tail)
}

func (e *FrameError) Unwrap() error { return e.Err }

// BatchError identifies the document that failed in FrameAll.
type BatchError struct {
	Index int
	Err   error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("document %d: %v", e.Index, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }
