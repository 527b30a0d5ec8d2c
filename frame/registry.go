package frame

import "fmt"

// Registry holds every resource of one flattened document.
// It is built by Load and is read-only afterwards.
type Registry struct {
	fields Fields
	header *Map
	order  []string
	byID   map[string]*Resource
}

// Fields returns the id/type field names in effect.
func (r *Registry) Fields() Fields { return r.fields }

// Len returns the number of distinct resources.
func (r *Registry) Len() int { return len(r.order) }

// Lookup returns the resource with the given id.
func (r *Registry) Lookup(id string) (*Resource, bool) {
	res, ok := r.byID[id]
	return res, ok
}

// Resources returns resources in source order.
func (r *Registry) Resources() []*Resource {
	out := make([]*Resource, len(r.order))
	for i, id := range r.order {
		out[i] = r.byID[id]
	}
	return out
}

// Header returns a copy of the document's top-level fields, @graph included.
func (r *Registry) Header() *Map {
	return r.header.Clone()
}

// DetectFields reads id/type aliases from a JSON-LD context. Keys mapped to
// "@id" or "@type" become the id or type field. Arrays of contexts are
// scanned in order; string contexts carry no aliases.
func DetectFields(context any, defaults Fields) Fields {
	var found Fields
	var scan func(v any)
	scan = func(v any) {
		switch ctx := v.(type) {
		case *Map:
			ctx.Range(func(key string, value any) bool {
				switch value {
				case DefaultIDField:
					found.ID = key
				case DefaultTypeField:
					found.Type = key
				}
				return true
			})
		case map[string]any:
			scan(FromPlain(ctx))
		case []any:
			for _, item := range ctx {
				scan(item)
			}
		}
	}
	scan(context)
	return found.withDefaults(defaults)
}

// Load builds a registry from a flattened document. doc is a *Map or a
// map[string]any holding a @graph list of flat resource records.
func Load(doc any, opts Options) (*Registry, error) {
	root, ok := FromPlain(doc).(*Map)
	if !ok {
		return nil, malformed(-1, "", "document is %T, not an object", doc)
	}
	raw, ok := root.Get(GraphField)
	if !ok {
		return nil, malformed(-1, GraphField, "field absent")
	}
	context, _ := root.Get(ContextField)
	fields := opts.Fields.withDefaults(DetectFields(context, DefaultFields()))

	var records []any
	switch value := raw.(type) {
	case []any:
		records = value
	case *Map:
		records = []any{value}
	default:
		return nil, malformed(-1, GraphField, "expected a list, got %T", raw)
	}

	reg := &Registry{
		fields: fields,
		header: root,
		byID:   make(map[string]*Resource, len(records)),
	}
	l := loader{fields: fields}
	for i, item := range records {
		record, ok := item.(*Map)
		if !ok {
			return nil, malformed(i, "", "record is %T, not an object", item)
		}
		idValue, ok := record.Get(fields.ID)
		if !ok {
			return nil, malformed(i, fields.ID, "record has no identifier")
		}
		id, ok := idValue.(string)
		if !ok {
			return nil, malformed(i, fields.ID, "identifier is %T, not a string", idValue)
		}
		res, err := l.resource(id, record)
		if err != nil {
			return nil, &GraphError{Index: i, Msg: "record " + id, Err: err}
		}
		if _, seen := reg.byID[id]; !seen {
			reg.order = append(reg.order, id)
		}
		reg.byID[id] = res
	}
	return reg, nil
}

type loader struct {
	fields Fields
}

func (l loader) resource(id string, record *Map) (*Resource, error) {
	res := &Resource{ID: id}
	var err error
	record.Range(func(key string, value any) bool {
		if key == l.fields.ID {
			return true
		}
		var objs []Object
		if objs, err = l.objects(value); err != nil {
			err = fmt.Errorf("property %q: %w", key, err)
			return false
		}
		res.Properties = append(res.Properties, Property{Name: key, Objects: objs})
		return true
	})
	return res, err
}

func (l loader) objects(value any) ([]Object, error) {
	list, ok := value.([]any)
	if !ok {
		obj, err := l.object(value)
		if err != nil {
			return nil, err
		}
		return []Object{obj}, nil
	}
	objs := make([]Object, 0, len(list))
	for _, item := range list {
		obj, err := l.object(item)
		if err != nil {
			return nil, err
		}
		objs = append(objs, obj)
	}
	return objs, nil
}

func (l loader) object(value any) (Object, error) {
	switch v := value.(type) {
	case *Map:
		return l.objectFromMap(v)
	case map[string]any:
		return l.objectFromMap(FromPlain(v).(*Map))
	case []any:
		return nil, fmt.Errorf("%w: nested list", ErrMalformedGraph)
	default:
		return Literal{Value: v}, nil
	}
}

func (l loader) objectFromMap(m *Map) (Object, error) {
	if lit, ok := literalFromMap(m, l.fields); ok {
		return lit, nil
	}
	if m.Len() == 1 {
		if target, ok := m.Get(l.fields.ID); ok {
			if s, ok := target.(string); ok {
				return Reference{Target: s}, nil
			}
		}
	}
	id := ""
	if idValue, ok := m.Get(l.fields.ID); ok {
		id, _ = idValue.(string)
	}
	return l.resource(id, m)
}

// literalFromMap recognizes {@value}, {type, @value} and {@language, @value}.
func literalFromMap(m *Map, fields Fields) (Literal, bool) {
	value, ok := m.Get(valueField)
	if !ok {
		return Literal{}, false
	}
	switch m.Len() {
	case 1:
		return Literal{Value: value}, true
	case 2:
		if dt, ok := m.Get(fields.Type); ok {
			if s, ok := dt.(string); ok {
				return Literal{Value: value, Datatype: s}, true
			}
		}
		if lang, ok := m.Get(languageField); ok {
			if s, ok := lang.(string); ok {
				return Literal{Value: value, Language: s}, true
			}
		}
	}
	return Literal{}, false
}
