// Package aggregate computes grouped descriptive statistics over a Dataset.
package aggregate

import (
	"sort"

	"github.com/okian/appprofiles/internal/domain/model"
)

// Table maps a group value to a statistic.
type Table map[string]float64

// Row is one entry of a sorted Table.
type Row struct {
	Key   string
	Value float64
}

// Parser converts a field to a number; false excludes the record.
type Parser func(string) (float64, bool)

// FrequencyTable returns each distinct value of column col with its share of
// the records. Shares sum to 1; an empty dataset yields an empty table.
func FrequencyTable(ds model.Dataset, col int) Table {
	counts := make(map[string]int)
	for _, r := range ds.Records {
		counts[r.Field(col)]++
	}

	total := float64(ds.Len())
	out := make(Table, len(counts))
	for k, n := range counts {
		out[k] = float64(n) / total
	}
	return out
}

// AverageByGroup returns the mean of valueCol per distinct groupCol value.
// Records whose value does not parse are skipped and counted; groups left
// without any parsed value are omitted.
func AverageByGroup(ds model.Dataset, groupCol, valueCol int, parse Parser) (Table, int) {
	type acc struct {
		sum float64
		n   int
	}
	groups := make(map[string]*acc)
	skipped := 0

	for _, r := range ds.Records {
		v, ok := parse(r.Field(valueCol))
		if !ok {
			skipped++
			continue
		}
		k := r.Field(groupCol)
		a, exists := groups[k]
		if !exists {
			a = &acc{}
			groups[k] = a
		}
		a.sum += v
		a.n++
	}

	out := make(Table, len(groups))
	for k, a := range groups {
		out[k] = a.sum / float64(a.n)
	}
	return out, skipped
}

// Sorted returns the table ordered by value descending, then key ascending.
func (t Table) Sorted() []Row {
	rows := make([]Row, 0, len(t))
	for k, v := range t {
		rows = append(rows, Row{Key: k, Value: v})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Value != rows[j].Value {
			return rows[i].Value > rows[j].Value
		}
		return rows[i].Key < rows[j].Key
	})
	return rows
}

// Top returns the first n rows of Sorted; n <= 0 returns all of them.
func (t Table) Top(n int) []Row {
	rows := t.Sorted()
	if n > 0 && n < len(rows) {
		rows = rows[:n]
	}
	return rows
}
