package frame

import "fmt"

// Framer turns the roots of a registry into nested resource trees.
type Framer struct {
	reg    *Registry
	counts Counts
	opts   Options
}

// NewFramer returns a framer over reg using precomputed reference counts.
func NewFramer(reg *Registry, counts Counts, opts Options) *Framer {
	return &Framer{reg: reg, counts: counts, opts: normalizeOptions(opts)}
}

// Frame frames every zero-count resource in registry order. Each reference
// to a registry resource is replaced by an independent framed copy of its
// target; dangling references are kept as they are.
func (f *Framer) Frame() ([]*Resource, error) {
	roots := f.counts.Roots(f.reg)
	out := make([]*Resource, 0, len(roots))
	for _, root := range roots {
		framed, err := f.frame(root, 0, nil)
		if err != nil {
			return nil, err
		}
		out = append(out, framed)
	}
	return out, nil
}

func (f *Framer) frame(res *Resource, depth int, path []string) (*Resource, error) {
	path = append(path[:len(path):len(path)], res.ID)
	if f.opts.MaxDepth > 0 && depth >= f.opts.MaxDepth {
		return nil, &FrameError{ID: res.ID, Depth: depth, Path: path, Err: ErrDepthExceeded}
	}
	out := &Resource{ID: res.ID, Properties: make([]Property, len(res.Properties))}
	for i, p := range res.Properties {
		objs := make([]Object, len(p.Objects))
		for j, obj := range p.Objects {
			framed, err := f.object(obj, depth, path)
			if err != nil {
				return nil, err
			}
			objs[j] = framed
		}
		out.Properties[i] = Property{Name: p.Name, Objects: objs}
	}
	return out, nil
}

func (f *Framer) object(obj Object, depth int, path []string) (Object, error) {
	switch o := obj.(type) {
	case Literal:
		return o, nil
	case Reference:
		target, ok := f.reg.Lookup(o.Target)
		if !ok {
			return o, nil
		}
		if f.opts.DetectCycles && onPath(path, o.Target) {
			cycle := append(path[:len(path):len(path)], o.Target)
			return nil, &FrameError{ID: o.Target, Depth: depth + 1, Path: cycle, Err: ErrCycleDetected}
		}
		return f.frame(target, depth+1, path)
	case *Resource:
		return f.frame(o, depth+1, path)
	default:
		return nil, fmt.Errorf("frame: unknown object kind %v", obj.Kind())
	}
}

// onPath reports whether id is being inlined above the current node.
// Anonymous embedded resources never match.
func onPath(path []string, id string) bool {
	if id == "" {
		return false
	}
	for _, p := range path {
		if p == id {
			return true
		}
	}
	return false
}

// Encode serializes a resource. Properties with one object become a single
// value, others a list. Blank identifiers are dropped below depth 0.
func (r *Resource) Encode(fields Fields, depth int) *Map {
	m := NewMap()
	if r.ID != "" && (depth == 0 || !r.IsBlank()) {
		m.Set(fields.ID, r.ID)
	}
	for _, p := range r.Properties {
		if len(p.Objects) == 1 {
			m.Set(p.Name, encodeObject(p.Objects[0], fields, depth+1))
			continue
		}
		values := make([]any, len(p.Objects))
		for i, obj := range p.Objects {
			values[i] = encodeObject(obj, fields, depth+1)
		}
		m.Set(p.Name, values)
	}
	return m
}

func encodeObject(obj Object, fields Fields, depth int) any {
	switch o := obj.(type) {
	case Literal:
		return o.encode(fields)
	case Reference:
		m := NewMap()
		m.Set(fields.ID, o.Target)
		return m
	case *Resource:
		return o.Encode(fields, depth)
	default:
		panic(fmt.Sprintf("frame: unknown object kind %v", obj.Kind()))
	}
}

func (l Literal) encode(fields Fields) any {
	switch {
	case l.Language != "":
		m := NewMap()
		m.Set(languageField, l.Language)
		m.Set(valueField, l.Value)
		return m
	case l.Datatype != "":
		m := NewMap()
		m.Set(fields.Type, l.Datatype)
		m.Set(valueField, l.Value)
		return m
	default:
		return l.Value
	}
}

// Assemble builds the output document. A single root is merged into the
// top-level fields of the input and @graph is dropped; otherwise @graph is
// replaced in place by the list of roots.
func Assemble(reg *Registry, roots []*Resource) *Map {
	fields := reg.Fields()
	out := NewMap()
	if len(roots) == 1 {
		reg.header.Range(func(key string, value any) bool {
			if key != GraphField {
				out.Set(key, cloneValue(value))
			}
			return true
		})
		root := roots[0].Encode(fields, 0)
		root.Range(func(key string, value any) bool {
			out.Set(key, value)
			return true
		})
		return out
	}
	graph := make([]any, len(roots))
	for i, root := range roots {
		graph[i] = root.Encode(fields, 0)
	}
	reg.header.Range(func(key string, value any) bool {
		if key == GraphField {
			out.Set(key, graph)
		} else {
			out.Set(key, cloneValue(value))
		}
		return true
	})
	return out
}

// Frame loads a flattened document and returns its nested form.
func Frame(doc any, opts Options) (*Map, error) {
	opts = normalizeOptions(opts)
	reg, err := Load(doc, opts)
	if err != nil {
		return nil, err
	}
	roots, err := NewFramer(reg, CountReferences(reg), opts).Frame()
	if err != nil {
		return nil, err
	}
	if opts.Order != nil {
		for i, root := range roots {
			roots[i] = opts.Order.Apply(root, reg.Fields())
		}
	}
	return Assemble(reg, roots), nil
}
