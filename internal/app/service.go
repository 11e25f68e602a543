// Package service runs the cleaning and aggregation pipeline over the App
// Store and Google Play datasets.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/okian/appprofiles/internal/adapters/csvsource"
	"github.com/okian/appprofiles/internal/domain/aggregate"
	"github.com/okian/appprofiles/internal/domain/dedupe"
	"github.com/okian/appprofiles/internal/domain/filter"
	"github.com/okian/appprofiles/internal/domain/model"
	"github.com/okian/appprofiles/internal/domain/normalize"
	"github.com/okian/appprofiles/internal/domain/validate"
	"github.com/okian/appprofiles/pkg/logger"
	"github.com/okian/appprofiles/pkg/metrics"
)

// Stage names used in logs and metrics.
const (
	stageLoad      = "load"
	stageValidate  = "validate"
	stageDedupe    = "dedupe"
	stageEnglish   = "english"
	stageFree      = "free"
	stageFilter    = "filter"
	stageAggregate = "aggregate"
)

// Summary tracks one dataset through the pipeline.
type Summary struct {
	Dataset     string
	Path        string
	Header      []string
	Sample      model.Record
	Fingerprint uint64

	Loaded  int
	Corrupt validate.Result
	// Dedupe is zero for datasets that are not deduplicated.
	Dedupe       dedupe.Result
	AfterDedupe  int
	AfterEnglish int
	AfterFree    int
}

// Report is everything a run produces for printing.
type Report struct {
	RunID string

	AppStore   Summary
	GooglePlay Summary

	// InspectKey rows as they were before deduplication.
	InspectKey  string
	InspectRows []model.Record

	AppStoreGenres       aggregate.Table
	AppStoreRatings      aggregate.Table
	GooglePlayCategories aggregate.Table
	GooglePlayGenres     aggregate.Table
	GooglePlayInstalls   aggregate.Table

	// SkippedRatings and SkippedInstalls count values left out of averages.
	SkippedRatings  int
	SkippedInstalls int
}

// Service wires the pipeline stages together.
type Service struct {
	applePath   string
	googlePath  string
	maxNonASCII int
	inspectKey  string
	comma       rune

	appleSchema  model.Schema
	googleSchema model.Schema

	deduper *dedupe.Deduper
	metrics *metrics.Manager
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithApplePath sets the App Store CSV path.
func WithApplePath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.applePath = path
		}
	}
}

// WithGooglePath sets the Google Play CSV path.
func WithGooglePath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.googlePath = path
		}
	}
}

// WithMaxNonASCII sets the English-name tolerance.
func WithMaxNonASCII(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.maxNonASCII = n
		}
	}
}

// WithInspectKey names the app whose raw duplicate rows are reported.
func WithInspectKey(key string) Option {
	return func(s *Service) {
		s.inspectKey = key
	}
}

// WithComma sets the field delimiter of both sources.
func WithComma(r rune) Option {
	return func(s *Service) {
		if r != 0 {
			s.comma = r
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics sets the metrics manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		applePath:    "data/AppleStore.csv",
		googlePath:   "data/googleplaystore.csv",
		maxNonASCII:  filter.DefaultMaxNonASCII,
		inspectKey:   "Instagram",
		comma:        ',',
		appleSchema:  model.AppStoreSchema,
		googleSchema: model.GooglePlaySchema,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.metrics == nil {
		s.metrics = metrics.Default()
	}
	s.deduper = dedupe.NewDeduper(
		dedupe.WithKeyColumn(s.googleSchema.Name),
		dedupe.WithTieBreakColumn(s.googleSchema.Reviews),
	)

	return s
}

// Run executes one full pass. It fails only when a source cannot be read.
func (s *Service) Run(ctx context.Context) (Report, error) {
	rep := Report{RunID: uuid.NewString(), InspectKey: s.inspectKey}
	log := s.logger.Named("pipeline").With(logger.String("run_id", rep.RunID))

	log.Info(ctx, "starting run",
		logger.String("apple", s.applePath),
		logger.String("google", s.googlePath),
		logger.Int("max_non_ascii", s.maxNonASCII),
	)

	start := time.Now()
	apple, err := s.load(ctx, log, s.applePath, s.appleSchema, &rep.AppStore)
	if err != nil {
		s.metrics.RecordRun("failure")
		return Report{}, err
	}
	google, err := s.load(ctx, log, s.googlePath, s.googleSchema, &rep.GooglePlay)
	if err != nil {
		s.metrics.RecordRun("failure")
		return Report{}, err
	}
	s.observe(stageLoad, start)

	start = time.Now()
	apple = s.validate(ctx, log, apple, s.appleSchema, &rep.AppStore)
	google = s.validate(ctx, log, google, s.googleSchema, &rep.GooglePlay)
	s.observe(stageValidate, start)

	start = time.Now()
	if s.inspectKey != "" {
		rep.InspectRows = s.deduper.Inspect(google, s.inspectKey)
	}
	apple = s.skipDedupe(apple, &rep.AppStore)
	google = s.dedupe(ctx, log, google, &rep.GooglePlay)
	s.observe(stageDedupe, start)

	start = time.Now()
	apple = s.filter(ctx, log, apple, s.appleSchema, &rep.AppStore)
	google = s.filter(ctx, log, google, s.googleSchema, &rep.GooglePlay)
	s.observe(stageFilter, start)

	start = time.Now()
	rep.AppStoreGenres = aggregate.FrequencyTable(apple, s.appleSchema.Genre)
	rep.AppStoreRatings, rep.SkippedRatings = aggregate.AverageByGroup(apple, s.appleSchema.Genre, s.appleSchema.Popularity, normalize.Count)
	rep.GooglePlayCategories = aggregate.FrequencyTable(google, s.googleSchema.Category)
	rep.GooglePlayGenres = aggregate.FrequencyTable(google, s.googleSchema.Genre)
	rep.GooglePlayInstalls, rep.SkippedInstalls = aggregate.AverageByGroup(google, s.googleSchema.Category, s.googleSchema.Popularity, normalize.InstallsFloat)
	s.observe(stageAggregate, start)

	s.metrics.RecordParseFailures(model.AppStore, "rating_count_tot", rep.SkippedRatings)
	s.metrics.RecordParseFailures(model.GooglePlay, "installs", rep.SkippedInstalls)
	if rep.SkippedRatings > 0 || rep.SkippedInstalls > 0 {
		log.Warn(ctx, "values excluded from averages",
			logger.Int("rating_count_tot", rep.SkippedRatings),
			logger.Int("installs", rep.SkippedInstalls),
		)
	}

	s.metrics.RecordRun("success")
	log.Info(ctx, "run finished",
		logger.Int("app_store_genres", len(rep.AppStoreGenres)),
		logger.Int("google_play_categories", len(rep.GooglePlayCategories)),
	)
	return rep, nil
}

func (s *Service) load(ctx context.Context, log logger.Logger, path string, schema model.Schema, sum *Summary) (model.Dataset, error) {
	ds, st, err := s.loader(schema.Dataset).Load(ctx, path)
	if err != nil {
		log.Error(ctx, "load failed", logger.String("dataset", schema.Dataset), logger.Error(err))
		return model.Dataset{}, err
	}

	sum.Dataset = schema.Dataset
	sum.Path = st.Path
	sum.Header = ds.Header
	sum.Fingerprint = st.Fingerprint
	sum.Loaded = ds.Len()
	if ds.Len() > 0 {
		sum.Sample = ds.Records[0]
	}

	s.metrics.RecordRowsLoaded(schema.Dataset, ds.Len())
	s.metrics.UpdateDatasetRows(schema.Dataset, stageLoad, ds.Len())
	log.Info(ctx, "dataset loaded",
		logger.String("dataset", schema.Dataset),
		logger.Int("rows", ds.Len()),
		logger.Int("columns", len(ds.Header)),
		logger.String("xxh3", formatFingerprint(st.Fingerprint)),
	)
	return ds, nil
}

func (s *Service) loader(name string) *csvsource.Loader {
	return csvsource.NewLoader(csvsource.WithName(name), csvsource.WithComma(s.comma))
}

func formatFingerprint(v uint64) string {
	return fmt.Sprintf("%016x", v)
}

func (s *Service) validate(ctx context.Context, log logger.Logger, ds model.Dataset, schema model.Schema, sum *Summary) model.Dataset {
	out, res := validate.ByArity(ds, schema.Arity)
	sum.Corrupt = res

	s.record(schema.Dataset, stageValidate, res.Dropped, out.Len())
	if res.Dropped > 0 {
		log.Warn(ctx, "dropped rows with wrong field count",
			logger.String("dataset", schema.Dataset),
			logger.Int("expected", schema.Arity),
			logger.Int("dropped", res.Dropped),
			logger.Any("indices", res.Indices),
		)
	}
	return out
}

func (s *Service) dedupe(ctx context.Context, log logger.Logger, ds model.Dataset, sum *Summary) model.Dataset {
	out, res := s.deduper.Apply(ds)
	sum.Dedupe = res
	sum.AfterDedupe = out.Len()

	s.record(ds.Name, stageDedupe, res.Duplicates, out.Len())
	log.Info(ctx, "deduplicated by name",
		logger.String("dataset", ds.Name),
		logger.Int("unique", res.Groups),
		logger.Int("duplicates", res.Duplicates),
		logger.Int("duplicate_names", len(res.DuplicateKeys)),
	)
	return out
}

func (s *Service) skipDedupe(ds model.Dataset, sum *Summary) model.Dataset {
	sum.AfterDedupe = ds.Len()
	return ds
}

func (s *Service) filter(ctx context.Context, log logger.Logger, ds model.Dataset, schema model.Schema, sum *Summary) model.Dataset {
	english := filter.English(ds, schema, s.maxNonASCII)
	sum.AfterEnglish = english.Len()
	s.record(schema.Dataset, stageEnglish, ds.Len()-english.Len(), english.Len())

	free := filter.Free(english, schema)
	sum.AfterFree = free.Len()
	s.record(schema.Dataset, stageFree, english.Len()-free.Len(), free.Len())

	log.Info(ctx, "filtered to free English apps",
		logger.String("dataset", schema.Dataset),
		logger.Int("english", english.Len()),
		logger.Int("free", free.Len()),
	)
	return free
}

func (s *Service) record(dataset, stage string, dropped, remaining int) {
	s.metrics.RecordRowsDropped(dataset, stage, dropped)
	s.metrics.UpdateDatasetRows(dataset, stage, remaining)
}

func (s *Service) observe(stage string, start time.Time) {
	s.metrics.RecordStageDuration(stage, float64(time.Since(start).Microseconds())/1000)
}
