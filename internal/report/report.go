// Package report renders a pipeline Report as human-readable text.
package report

import (
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	service "github.com/okian/appprofiles/internal/app"
	"github.com/okian/appprofiles/internal/domain/aggregate"
)

// Option applies a configuration option to the Printer.
type Option func(*Printer)

// WithTopN limits every table to its n largest rows; 0 prints all.
func WithTopN(n int) Option {
	return func(p *Printer) {
		if n >= 0 {
			p.topN = n
		}
	}
}

// WithLanguage sets the locale used for number formatting.
func WithLanguage(tag language.Tag) Option {
	return func(p *Printer) {
		p.lang = tag
	}
}

// Printer writes reports. Number formatting follows its locale.
type Printer struct {
	topN int
	lang language.Tag
}

// NewPrinter creates a Printer using English number formatting.
func NewPrinter(opts ...Option) *Printer {
	p := &Printer{lang: language.English}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// writer keeps the first write error so callers check once at the end.
type writer struct {
	p   *message.Printer
	w   io.Writer
	err error
}

func (w *writer) printf(format string, args ...any) {
	if w.err != nil {
		return
	}
	_, w.err = w.p.Fprintf(w.w, format, args...)
}

// Write renders rep to out.
func (p *Printer) Write(out io.Writer, rep service.Report) error {
	w := &writer{p: message.NewPrinter(p.lang), w: out}

	p.source(w, "Google Play", rep.GooglePlay)
	p.source(w, "App Store", rep.AppStore)

	w.printf("\n== Cleaning ==\n")
	p.cleaning(w, rep.GooglePlay, true)
	p.cleaning(w, rep.AppStore, false)

	if rep.InspectKey != "" && len(rep.InspectRows) > 0 {
		w.printf("\nExample duplicate rows for %q:\n", rep.InspectKey)
		for _, r := range rep.InspectRows {
			w.printf("  %s\n", strings.Join(r, " | "))
		}
	}

	p.share(w, "App Store: prime_genre share of free English apps", rep.AppStoreGenres)
	p.average(w, "App Store: average rating_count_tot by prime_genre", rep.AppStoreRatings)
	p.share(w, "Google Play: Category share of free English apps", rep.GooglePlayCategories)
	p.share(w, "Google Play: Genres share of free English apps", rep.GooglePlayGenres)
	p.average(w, "Google Play: average installs by Category", rep.GooglePlayInstalls)

	if rep.SkippedRatings > 0 || rep.SkippedInstalls > 0 {
		w.printf("\nExcluded from averages: %d rating counts, %d install counts\n", rep.SkippedRatings, rep.SkippedInstalls)
	}
	return w.err
}

func (p *Printer) source(w *writer, title string, s service.Summary) {
	w.printf("== %s header ==\n%s\n", title, strings.Join(s.Header, " | "))
	if len(s.Sample) > 0 {
		w.printf("sample: %s\n", strings.Join(s.Sample, " | "))
	}
	w.printf("rows: %d, columns: %d\n\n", s.Loaded, len(s.Header))
}

func (p *Printer) cleaning(w *writer, s service.Summary, deduped bool) {
	w.printf("%s: loaded %d, wrong field count %d", s.Dataset, s.Loaded, s.Corrupt.Dropped)
	if len(s.Corrupt.Indices) > 0 {
		w.printf(" (rows %v)", s.Corrupt.Indices)
	}
	if deduped {
		w.printf(", duplicates %d across %d names, unique %d",
			s.Dedupe.Duplicates, len(s.Dedupe.DuplicateKeys), s.AfterDedupe)
	}
	w.printf(", English %d, free %d\n", s.AfterEnglish, s.AfterFree)
}

func (p *Printer) share(w *writer, title string, t aggregate.Table) {
	w.printf("\n== %s ==\n", title)
	for _, r := range t.Top(p.topN) {
		w.printf("%s : %.2f%%\n", r.Key, r.Value*100)
	}
}

func (p *Printer) average(w *writer, title string, t aggregate.Table) {
	w.printf("\n== %s ==\n", title)
	for _, r := range t.Top(p.topN) {
		w.printf("%s : %.2f\n", r.Key, r.Value)
	}
}
