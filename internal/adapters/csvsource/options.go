package csvsource

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithComma sets the field delimiter.
func WithComma(r rune) Option {
	return func(l *Loader) {
		if r != 0 {
			l.comma = r
		}
	}
}

// WithName sets the dataset name stamped on loaded data.
func WithName(name string) Option {
	return func(l *Loader) {
		if name != "" {
			l.name = name
		}
	}
}
