package wrapper

import "github.com/Aleph-Alpha/vexpr/v1/schema"

// Option configures a new builder.
type Option func(*options)

type options struct {
	registry   *schema.Registry
	template   bool
	collection string
}

func newOptions(opts []Option) options {
	o := options{registry: schema.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.registry == nil {
		o.registry = schema.Default()
	}
	return o
}

// WithRegistry sets the registry used to resolve column tokens and
// collection names. The default is schema.Default().
func WithRegistry(r *schema.Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithTemplate switches literal rendering to named placeholders. Values are
// rendered as {p1}, {p2}, ... and collected in Params instead of being
// inlined in the expression.
func WithTemplate(enabled bool) Option {
	return func(o *options) {
		o.template = enabled
	}
}

// WithCollection sets the target collection up front.
func WithCollection(name string) Option {
	return func(o *options) {
		o.collection = name
	}
}
