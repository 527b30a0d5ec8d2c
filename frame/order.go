package frame

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// OrderTable lists, per type name, the properties to emit first.
type OrderTable map[string][]string

// orderFile is the on-disk layout of an order table.
type orderFile struct {
	Classes map[string][]string `yaml:"classes"`
}

// LoadOrderTable reads a YAML order table of the form
//
//	classes:
//	  Dataset: [title, abstract]
func LoadOrderTable(r io.Reader) (OrderTable, error) {
	var file orderFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidOrderTable)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidOrderTable, err)
	}
	if file.Classes == nil {
		return nil, fmt.Errorf("%w: missing 'classes' mapping", ErrInvalidOrderTable)
	}
	return OrderTable(file.Classes), nil
}

// lookup returns the list of the first type with a non-empty entry.
func (t OrderTable) lookup(types []string) []string {
	for _, typ := range types {
		if list := t[typ]; len(list) > 0 {
			return list
		}
	}
	return nil
}

// Apply returns a copy of res whose properties follow the table entry of
// its type: listed properties first, in table order, then the others in
// their original order. Nested resources are reordered the same way.
// Resources without a matching type keep their order.
func (t OrderTable) Apply(res *Resource, fields Fields) *Resource {
	order := t.lookup(resourceTypes(res, fields.Type))
	out := &Resource{
		ID:         res.ID,
		Properties: reorder(res.Properties, order, func(p Property) string { return p.Name }),
	}
	for i, p := range out.Properties {
		objs := make([]Object, len(p.Objects))
		for j, obj := range p.Objects {
			if nested, ok := obj.(*Resource); ok {
				objs[j] = t.Apply(nested, fields)
			} else {
				objs[j] = obj
			}
		}
		out.Properties[i].Objects = objs
	}
	return out
}

// ApplyMap reorders an already serialized document tree in the same way.
// @context and the id field stay in front, as Encode writes them.
func (t OrderTable) ApplyMap(m *Map, fields Fields) *Map {
	order := t.lookup(mapTypes(m, fields.Type))
	out := NewMap()
	if context, ok := m.Get(ContextField); ok {
		out.Set(ContextField, context)
	}
	if id, ok := m.Get(fields.ID); ok {
		out.Set(fields.ID, id)
	}
	for _, key := range reorder(m.Keys(), order, func(k string) string { return k }) {
		if key == ContextField || key == fields.ID {
			continue
		}
		value, _ := m.Get(key)
		out.Set(key, t.applyValue(value, fields))
	}
	return out
}

func (t OrderTable) applyValue(v any, fields Fields) any {
	switch value := v.(type) {
	case *Map:
		return t.ApplyMap(value, fields)
	case []any:
		out := make([]any, len(value))
		for i, item := range value {
			out[i] = t.applyValue(item, fields)
		}
		return out
	default:
		return v
	}
}

// reorder moves the items named in order to the front.
func reorder[T any](items []T, order []string, name func(T) string) []T {
	out := make([]T, 0, len(items))
	if len(order) == 0 {
		return append(out, items...)
	}
	placed := make(map[string]bool, len(order))
	for _, want := range order {
		if placed[want] {
			continue
		}
		for _, item := range items {
			if name(item) == want {
				out = append(out, item)
				placed[want] = true
				break
			}
		}
	}
	for _, item := range items {
		if !placed[name(item)] {
			out = append(out, item)
		}
	}
	return out
}

func resourceTypes(res *Resource, typeField string) []string {
	var types []string
	for _, obj := range res.Get(typeField) {
		switch o := obj.(type) {
		case Literal:
			if s, ok := o.Value.(string); ok {
				types = append(types, s)
			}
		case Reference:
			types = append(types, o.Target)
		}
	}
	return types
}

func mapTypes(m *Map, typeField string) []string {
	raw, ok := m.Get(typeField)
	if !ok {
		return nil
	}
	switch value := raw.(type) {
	case string:
		return []string{value}
	case []any:
		var types []string
		for _, item := range value {
			if s, ok := item.(string); ok {
				types = append(types, s)
			}
		}
		return types
	}
	return nil
}

// SortGraph orders the properties of every resource of a flattened document
// without framing it. The @graph wrapper is kept. A document without @graph
// is taken as an already nested tree and reordered in place.
func SortGraph(doc any, table OrderTable, opts Options) (*Map, error) {
	if root, ok := FromPlain(doc).(*Map); ok {
		if _, flat := root.Get(GraphField); !flat {
			context, _ := root.Get(ContextField)
			fields := opts.Fields.withDefaults(DetectFields(context, DefaultFields()))
			return table.ApplyMap(root, fields), nil
		}
	}
	reg, err := Load(doc, normalizeOptions(opts))
	if err != nil {
		return nil, err
	}
	fields := reg.Fields()
	graph := make([]any, 0, reg.Len())
	for _, res := range reg.Resources() {
		graph = append(graph, table.Apply(res, fields).Encode(fields, 0))
	}
	out := reg.Header()
	out.Set(GraphField, graph)
	return out, nil
}
