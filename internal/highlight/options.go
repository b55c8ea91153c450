package highlight

// DefaultOffset maps record index 0 to sheet row 2: one header row plus
// 1-based row numbering.
const DefaultOffset = 2

type options struct {
	offset      int
	source      Source
	palette     Palette
	maxAttempts int
}

// Option configures AssignGroupColors and Highlight.
type Option func(*options)

// WithOffset sets the number added to a record index to get its sheet row.
func WithOffset(offset int) Option {
	return func(o *options) {
		o.offset = offset
	}
}

// WithSource sets the random source used for color sampling.
func WithSource(src Source) Option {
	return func(o *options) {
		if src != nil {
			o.source = src
		}
	}
}

// WithPalette restricts colors to the given palette.
func WithPalette(p Palette) Option {
	return func(o *options) {
		o.palette = p
	}
}

// WithMaxAttempts caps random draws per color. Values below 1 keep the default.
func WithMaxAttempts(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxAttempts = n
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		offset:      DefaultOffset,
		source:      globalSource{},
		palette:     DefaultPalette(),
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
