package dedupe

import (
	"math"

	"github.com/okian/appprofiles/internal/domain/model"
	"github.com/okian/appprofiles/internal/domain/normalize"
)

// Result summarises a deduplication pass.
type Result struct {
	// Groups is the number of distinct keys.
	Groups int
	// Duplicates is the number of records dropped.
	Duplicates int
	// DuplicateKeys lists keys seen more than once, in first-seen order.
	DuplicateKeys []string
}

// Deduper keeps, for each key, the record with the greatest tie-break value.
type Deduper struct {
	key      int
	tieBreak int
	parse    func(string) (float64, bool)
}

// slot is the current winner for one key.
type slot struct {
	rec   model.Record
	value float64
	seen  int
}

// NewDeduper creates a Deduper keyed on the Google Play app name and review count.
func NewDeduper(opts ...Option) *Deduper {
	d := &Deduper{
		key:      model.GooglePlaySchema.Name,
		tieBreak: model.GooglePlaySchema.Reviews,
		parse:    normalize.Count,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Apply returns ds reduced to one record per key.
// A later record replaces the stored one only when its tie-break value is
// strictly greater, so equal maxima keep the first seen. Unparseable values
// rank below every parseable one. Output follows first appearance of each key.
func (d *Deduper) Apply(ds model.Dataset) (model.Dataset, Result) {
	winners := make(map[string]*slot, len(ds.Records))
	order := make([]string, 0, len(ds.Records))

	for _, r := range ds.Records {
		k := r.Field(d.key)
		v, ok := d.parse(r.Field(d.tieBreak))
		if !ok {
			v = math.Inf(-1)
		}

		cur, exists := winners[k]
		if !exists {
			winners[k] = &slot{rec: r, value: v, seen: 1}
			order = append(order, k)
			continue
		}
		cur.seen++
		if v > cur.value {
			cur.rec = r
			cur.value = v
		}
	}

	res := Result{Groups: len(order)}
	out := make([]model.Record, 0, len(order))
	for _, k := range order {
		s := winners[k]
		out = append(out, s.rec)
		if s.seen > 1 {
			res.DuplicateKeys = append(res.DuplicateKeys, k)
			res.Duplicates += s.seen - 1
		}
	}
	return ds.WithRecords(out), res
}

// Inspect returns every record of ds whose key column equals key, in order.
func (d *Deduper) Inspect(ds model.Dataset, key string) []model.Record {
	var out []model.Record
	for _, r := range ds.Records {
		if r.Field(d.key) == key {
			out = append(out, r)
		}
	}
	return out
}
