// Package dedupe collapses repeated app entries down to one record per key.
package dedupe

// Option applies a configuration option to the Deduper.
type Option func(*Deduper)

// WithKeyColumn sets the column that identifies an app.
func WithKeyColumn(col int) Option {
	return func(d *Deduper) {
		if col >= 0 {
			d.key = col
		}
	}
}

// WithTieBreakColumn sets the numeric column whose maximum wins.
func WithTieBreakColumn(col int) Option {
	return func(d *Deduper) {
		if col >= 0 {
			d.tieBreak = col
		}
	}
}

// WithParser replaces the tie-break parser.
func WithParser(parse func(string) (float64, bool)) Option {
	return func(d *Deduper) {
		if parse != nil {
			d.parse = parse
		}
	}
}
