package frame

const (
	// DefaultMaxDepth is the inlining depth at which framing fails.
	DefaultMaxDepth = 100
	// DefaultIDField is the JSON-LD keyword for resource identity.
	DefaultIDField = "@id"
	// DefaultTypeField is the JSON-LD keyword for resource types.
	DefaultTypeField = "@type"
	// GraphField holds the resource list of a flattened document.
	GraphField = "@graph"
	// ContextField holds the JSON-LD context.
	ContextField = "@context"

	valueField    = "@value"
	languageField = "@language"
)

// Fields names the document fields carrying identity and type.
type Fields struct {
	ID   string
	Type string
}

// DefaultFields returns the JSON-LD keywords.
func DefaultFields() Fields {
	return Fields{ID: DefaultIDField, Type: DefaultTypeField}
}

func (f Fields) withDefaults(d Fields) Fields {
	if f.ID == "" {
		f.ID = d.ID
	}
	if f.Type == "" {
		f.Type = d.Type
	}
	return f
}

// Options configures loading, framing and ordering.
// Zero values use defaults.
type Options struct {
	// Fields overrides the id/type field names. Empty names are detected
	// from the document context, then fall back to DefaultFields.
	Fields Fields
	// MaxDepth is the depth ceiling. Zero means DefaultMaxDepth; negative
	// disables the ceiling and implies DetectCycles.
	MaxDepth int
	// DetectCycles fails with ErrCycleDetected when a reference leads back
	// to a resource already on the current inlining path.
	DetectCycles bool
	// Order reorders framed resources when non-nil.
	Order OrderTable
}

// Option configures Options.
type Option func(*Options)

// DefaultOptions returns the default framing behavior.
func DefaultOptions() Options {
	return Options{MaxDepth: DefaultMaxDepth}
}

// NewOptions applies opts on top of DefaultOptions.
func NewOptions(opts ...Option) Options {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

func normalizeOptions(opts Options) Options {
	if opts.MaxDepth == 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.MaxDepth < 0 {
		opts.DetectCycles = true
	}
	return opts
}

// OptFields sets the id and type field names.
func OptFields(id, typ string) Option {
	return func(opts *Options) {
		opts.Fields = Fields{ID: id, Type: typ}
	}
}

// OptMaxDepth sets the inlining depth ceiling.
func OptMaxDepth(maxDepth int) Option {
	return func(opts *Options) {
		opts.MaxDepth = maxDepth
	}
}

// OptDetectCycles enables path-based cycle detection.
func OptDetectCycles() Option {
	return func(opts *Options) {
		opts.DetectCycles = true
	}
}

// OptOrder sets the property order table.
func OptOrder(table OrderTable) Option {
	return func(opts *Options) {
		opts.Order = table
	}
}
