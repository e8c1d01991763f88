package directory

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"persondir/pkg/source"
)

const (
	opBuildIndex  = "build_index"
	opFind        = "find"
	opListPersons = "list_persons"
)

const (
	defaultAccountsSource = "accounts.json"
	defaultProfilesSource = "profiles.json"
)

// Config names the two dataset objects the service joins. Zero values fall
// back to accounts.json and profiles.json.
type Config struct {
	AccountsSource string
	ProfilesSource string
}

func (c Config) withDefaults() Config {
	if c.AccountsSource == "" {
		c.AccountsSource = defaultAccountsSource
	}
	if c.ProfilesSource == "" {
		c.ProfilesSource = defaultProfilesSource
	}
	return c
}

// Mapper turns a matched profile/account pair into a Person. The supplied
// PersonData carries the identity parsed from the account side; the mapper
// decides how the profile's fields populate the rest.
type Mapper func(profile Profile, data PersonData) (Person, error)

// DefaultMapper projects the profile's name, email address and remaining
// attributes onto the person verbatim.
func DefaultMapper(profile Profile, data PersonData) (Person, error) {
	data.Name = profile.PersonName
	data.Email = profile.EmailAddress
	data.Attributes = profile.Attributes
	return NewPerson(data), nil
}

type serviceOptions struct {
	logger  Logger
	metrics MetricsRecorder
	tracer  Tracer
	mapper  Mapper
	now     func() time.Time
}

func defaultServiceOptions() serviceOptions {
	return serviceOptions{
		logger:  noopLogger{},
		metrics: noopMetricsRecorder{},
		tracer:  noopTracer{},
		mapper:  DefaultMapper,
		now:     time.Now,
	}
}

// Option customizes service construction.
type Option func(*serviceOptions)

// WithLogger wires a logger implementation. Nil values are ignored.
func WithLogger(logger Logger) Option {
	return func(o *serviceOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetricsRecorder wires a metrics recorder implementation. Nil values are
// ignored.
func WithMetricsRecorder(recorder MetricsRecorder) Option {
	return func(o *serviceOptions) {
		if recorder != nil {
			o.metrics = recorder
		}
	}
}

// WithTracer wires a tracer implementation. Nil values are ignored.
func WithTracer(tracer Tracer) Option {
	return func(o *serviceOptions) {
		if tracer != nil {
			o.tracer = tracer
		}
	}
}

// WithMapper replaces the mapping collaborator applied to every matched pair.
// Nil values are ignored.
func WithMapper(mapper Mapper) Option {
	return func(o *serviceOptions) {
		if mapper != nil {
			o.mapper = mapper
		}
	}
}

// Service resolves person identities against a lazily built, memoized join of
// the accounts and profiles datasets. A Service is safe for concurrent use;
// each instance reads its sources at most once per successful build.
type Service struct {
	store   source.Store
	cfg     Config
	logger  Logger
	metrics MetricsRecorder
	tracer  Tracer
	mapper  Mapper
	now     func() time.Time

	buildMu sync.Mutex
	index   atomic.Pointer[personIndex]
}

// NewService constructs a directory service over the supplied source store.
// No data is read until the first lookup.
func NewService(store source.Store, cfg Config, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("directory: source store is required")
	}
	options := defaultServiceOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}
	return &Service{
		store:   store,
		cfg:     cfg.withDefaults(),
		logger:  options.logger,
		metrics: options.metrics,
		tracer:  options.tracer,
		mapper:  options.mapper,
		now:     options.now,
	}, nil
}

// Find returns the persons grouped under each requested identity,
// concatenated in request order with insertion order preserved inside each
// group. Identities absent from the index contribute nothing; a nil identity
// slice or a zero identity entry is rejected with ErrInvalidArgument before
// any data is read.
func (s *Service) Find(ctx context.Context, identities []uuid.UUID) ([]Person, error) {
	start := s.now()
	ctx, span := s.tracer.Start(ctx, opFind)
	out, err := s.find(ctx, identities)
	span.End(err)
	s.metrics.Observe(ctx, opFind, err == nil, s.now().Sub(start))
	return out, err
}

func (s *Service) find(ctx context.Context, identities []uuid.UUID) ([]Person, error) {
	if identities == nil {
		return nil, fmt.Errorf("identities must not be nil: %w", ErrInvalidArgument)
	}
	for i, id := range identities {
		if id == uuid.Nil {
			return nil, fmt.Errorf("identity at position %d is zero: %w", i, ErrInvalidArgument)
		}
	}

	idx, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Person, 0)
	for _, id := range identities {
		out = append(out, idx.find(id)...)
	}
	return out, nil
}

// List returns every person in the index, flattened group by group in the
// index's group order with insertion order preserved inside each group.
func (s *Service) List(ctx context.Context) ([]Person, error) {
	start := s.now()
	ctx, span := s.tracer.Start(ctx, opListPersons)
	idx, err := s.snapshot(ctx)
	span.End(err)
	s.metrics.Observe(ctx, opListPersons, err == nil, s.now().Sub(start))
	if err != nil {
		return nil, err
	}
	return idx.all(), nil
}
