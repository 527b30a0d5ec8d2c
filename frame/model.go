package frame

import (
	"fmt"
	"strings"
)

// BlankNodePrefix marks anonymous resource identifiers.
const BlankNodePrefix = "_:"

// ObjectKind identifies property object variants.
type ObjectKind uint8

const (
	// ObjectLiteral represents a scalar value.
	ObjectLiteral ObjectKind = iota
	// ObjectReference represents a pointer to another resource by id.
	ObjectReference
	// ObjectResource represents an inlined resource.
	ObjectResource
)

func (k ObjectKind) String() string {
	switch k {
	case ObjectLiteral:
		return "literal"
	case ObjectReference:
		return "reference"
	case ObjectResource:
		return "resource"
	default:
		return fmt.Sprintf("ObjectKind(%d)", uint8(k))
	}
}

// Object is a value that can appear under a resource property.
// Implementations are Literal, Reference and *Resource.
type Object interface {
	Kind() ObjectKind
	String() string
}

// Literal is an immutable scalar value.
type Literal struct {
	// Value is a string, integer, float64, bool or nil.
	Value any
	// Datatype is the datatype tag, if any.
	Datatype string
	// Language is the language tag, if any.
	Language string
}

// Kind returns ObjectLiteral.
func (l Literal) Kind() ObjectKind { return ObjectLiteral }

// String returns a string representation of the literal.
func (l Literal) String() string {
	if l.Language != "" {
		return fmt.Sprintf("%q@%s", fmt.Sprint(l.Value), l.Language)
	}
	if l.Datatype != "" {
		return fmt.Sprintf("%q^^%s", fmt.Sprint(l.Value), l.Datatype)
	}
	return fmt.Sprintf("%q", fmt.Sprint(l.Value))
}

// Reference points to another resource by identifier.
// The target may be absent from the registry.
type Reference struct {
	Target string
}

// Kind returns ObjectReference.
func (r Reference) Kind() ObjectKind { return ObjectReference }

// String returns the target wrapped in angle brackets.
func (r Reference) String() string { return "<" + r.Target + ">" }

// Property is a named, ordered list of objects.
type Property struct {
	Name    string
	Objects []Object
}

// Resource is a named or blank node with ordered properties.
type Resource struct {
	// ID is the resource identifier. Blank nodes start with BlankNodePrefix;
	// an empty ID is treated as anonymous.
	ID         string
	Properties []Property
}

// Kind returns ObjectResource.
func (r *Resource) Kind() ObjectKind { return ObjectResource }

// String returns the resource identifier.
func (r *Resource) String() string {
	if r.ID == "" {
		return "[]"
	}
	return r.ID
}

// IsBlank reports whether the resource has no identifier meaningful outside the document.
func (r *Resource) IsBlank() bool {
	return IsBlankID(r.ID)
}

// IsBlankID reports whether id is empty or carries the blank node prefix.
func IsBlankID(id string) bool {
	return id == "" || strings.HasPrefix(id, BlankNodePrefix)
}

// Get returns the objects of the named property, or nil.
func (r *Resource) Get(name string) []Object {
	for _, p := range r.Properties {
		if p.Name == name {
			return p.Objects
		}
	}
	return nil
}

// Has reports whether the named property is present.
func (r *Resource) Has(name string) bool {
	for _, p := range r.Properties {
		if p.Name == name {
			return true
		}
	}
	return false
}

// Names returns property names in order.
func (r *Resource) Names() []string {
	names := make([]string, len(r.Properties))
	for i, p := range r.Properties {
		names[i] = p.Name
	}
	return names
}
