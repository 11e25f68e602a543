// Package validate drops structurally corrupt rows before analysis.
package validate

import "github.com/okian/appprofiles/internal/domain/model"

// Result reports what ByArity removed.
type Result struct {
	Dropped int
	// Indices are 0-based positions of dropped rows in the input dataset.
	Indices []int
}

// ByArity keeps only records with exactly n fields.
// A non-positive n falls back to the header width.
func ByArity(ds model.Dataset, n int) (model.Dataset, Result) {
	if n <= 0 {
		n = len(ds.Header)
	}
	var res Result
	out := make([]model.Record, 0, len(ds.Records))
	for i, r := range ds.Records {
		if len(r) != n {
			res.Dropped++
			res.Indices = append(res.Indices, i)
			continue
		}
		out = append(out, r)
	}
	return ds.WithRecords(out), res
}
