// Package model contains domain models passed between pipeline stages.
package model

// Record is one data row, addressed positionally by a Schema.
type Record []string

// Field returns the value at column i, or "" when the record is too short.
func (r Record) Field(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return r[i]
}

// Dataset is an ordered set of records sharing one schema.
// Stages treat a Dataset as read-only and return a new one.
type Dataset struct {
	Name    string
	Header  []string
	Records []Record
}

// Len returns the number of data records (header excluded).
func (d Dataset) Len() int { return len(d.Records) }

// Filter returns a new Dataset holding the records for which keep returns true.
// The header is shared; record order is preserved.
func (d Dataset) Filter(keep func(Record) bool) Dataset {
	out := make([]Record, 0, len(d.Records))
	for _, r := range d.Records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return d.WithRecords(out)
}

// WithRecords returns a copy of d carrying recs instead of its own records.
func (d Dataset) WithRecords(recs []Record) Dataset {
	return Dataset{Name: d.Name, Header: d.Header, Records: recs}
}
