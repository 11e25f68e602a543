// Package csvsource reads a delimited file into a model.Dataset.
//
// Rows are read in lenient-width mode: a row with the wrong number of fields
// is kept as-is so the validator can count and drop it.
package csvsource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/okian/appprofiles/internal/domain/model"
)

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

// Stats describes one load.
type Stats struct {
	Path string
	Rows int
	// Fingerprint is the xxh3-64 hash of the bytes read.
	Fingerprint uint64
}

// Loader reads CSV sources. It is not safe for concurrent use.
type Loader struct {
	comma rune
	name  string
}

// NewLoader creates a Loader with comma delimiting.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{comma: ','}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load opens path and reads it fully.
func (l *Loader) Load(ctx context.Context, path string) (model.Dataset, Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Dataset{}, Stats{}, fmt.Errorf("%w: %s: %w", ErrOpenSource, path, err)
	}
	defer f.Close()

	name := l.name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	ds, st, err := l.Read(ctx, name, f)
	st.Path = path
	if err != nil {
		return model.Dataset{}, st, fmt.Errorf("%s: %w", path, err)
	}
	return ds, st, nil
}

// Read parses r into a Dataset named name. The first row is the header.
func (l *Loader) Read(ctx context.Context, name string, r io.Reader) (model.Dataset, Stats, error) {
	h := xxh3.New()
	cr := csv.NewReader(io.TeeReader(r, h))
	cr.Comma = l.comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	ds := model.Dataset{Name: name}
	var st Stats

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return model.Dataset{}, st, ErrEmpty
	}
	if err != nil {
		return model.Dataset{}, st, fmt.Errorf("%w: %w", ErrReadSource, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}
	ds.Header = header

	for {
		if err := ctx.Err(); err != nil {
			return model.Dataset{}, st, err
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return model.Dataset{}, st, fmt.Errorf("%w: %w", ErrReadSource, err)
		}
		ds.Records = append(ds.Records, model.Record(rec))
	}

	st.Rows = len(ds.Records)
	st.Fingerprint = h.Sum64()
	return ds, st, nil
}
