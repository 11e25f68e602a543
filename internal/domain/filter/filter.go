// Package filter keeps the records the analysis targets: apps with an
// English-looking name and apps that are free.
package filter

import (
	"strconv"
	"strings"

	"github.com/okian/appprofiles/internal/domain/model"
)

// DefaultMaxNonASCII tolerates a few emoji or trademark signs in English names.
const DefaultMaxNonASCII = 3

// IsEnglish reports whether name has at most maxNonASCII runes above 127.
// It is a script heuristic, not language detection.
func IsEnglish(name string, maxNonASCII int) bool {
	n := 0
	for _, r := range name {
		if r > 127 {
			n++
			if n > maxNonASCII {
				return false
			}
		}
	}
	return true
}

// IsFree reports whether price parses to exactly zero.
// Unparseable prices ("free", "$4.99") count as paid.
func IsFree(price string) bool {
	v, err := strconv.ParseFloat(strings.TrimSpace(price), 64)
	if err != nil {
		return false
	}
	return v == 0
}

// English returns the records of ds whose name column passes IsEnglish.
func English(ds model.Dataset, s model.Schema, maxNonASCII int) model.Dataset {
	return ds.Filter(func(r model.Record) bool {
		return IsEnglish(r.Field(s.Name), maxNonASCII)
	})
}

// Free returns the records of ds whose price column passes IsFree.
func Free(ds model.Dataset, s model.Schema) model.Dataset {
	return ds.Filter(func(r model.Record) bool {
		return IsFree(r.Field(s.Price))
	})
}
