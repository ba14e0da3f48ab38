// internal/circulation/implementation.go
package circulation

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"libinventory/internal/catalog"
	"libinventory/internal/logger"
)

const meterName = "libinventory/circulation"

// service implements the Service interface.
type service struct {
	catalog Catalog
	log     *slog.Logger
	issues  metric.Int64Counter
	returns metric.Int64Counter
}

// Option configures the circulation service.
type Option func(*options)

type options struct {
	log           *slog.Logger
	meterProvider metric.MeterProvider
}

// WithLogger sets the logger for lending events.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithMeterProvider sets where the issue and return counters are recorded.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) { o.meterProvider = mp }
}

// NewService creates a circulation desk working against cat.
func NewService(cat Catalog, opts ...Option) (Service, error) {
	o := options{meterProvider: otel.GetMeterProvider()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.ForComponent("circulation")
	}

	meter := o.meterProvider.Meter(meterName)
	issues, err := meter.Int64Counter("circulation.issues",
		metric.WithDescription("Issue requests by result"),
	)
	if err != nil {
		return nil, fmt.Errorf("create issues counter: %w", err)
	}
	returns, err := meter.Int64Counter("circulation.returns",
		metric.WithDescription("Return requests by result"),
	)
	if err != nil {
		return nil, fmt.Errorf("create returns counter: %w", err)
	}

	return &service{
		catalog: cat,
		log:     o.log,
		issues:  issues,
		returns: returns,
	}, nil
}

// Issue lends out the first book with this ISBN. Nothing is saved unless the
// status changed.
func (s *service) Issue(ctx context.Context, isbn string) (Result, *catalog.Book, error) {
	book, ok := s.catalog.SearchByISBN(isbn)
	if !ok {
		s.record(ctx, s.issues, ResultNotFound)
		s.log.InfoContext(ctx, "issue requested for unknown isbn", "isbn", isbn)
		return ResultNotFound, nil, nil
	}

	if !book.Issue() {
		s.record(ctx, s.issues, ResultAlreadyIssued)
		s.log.WarnContext(ctx, "attempted to issue unavailable book", "title", book.Title, "isbn", isbn)
		return ResultAlreadyIssued, book, nil
	}

	s.record(ctx, s.issues, ResultIssued)
	s.log.InfoContext(ctx, "book issued", "title", book.Title, "isbn", isbn)
	return ResultIssued, book, s.catalog.Save(ctx)
}

// Return takes back the first book with this ISBN. Returning a book that is
// already available succeeds.
func (s *service) Return(ctx context.Context, isbn string) (Result, *catalog.Book, error) {
	book, ok := s.catalog.SearchByISBN(isbn)
	if !ok {
		s.record(ctx, s.returns, ResultNotFound)
		s.log.InfoContext(ctx, "return requested for unknown isbn", "isbn", isbn)
		return ResultNotFound, nil, nil
	}

	wasIssued := !book.IsAvailable()
	book.Return()

	s.record(ctx, s.returns, ResultReturned)
	s.log.InfoContext(ctx, "book returned", "title", book.Title, "isbn", isbn, "was_issued", wasIssued)
	return ResultReturned, book, s.catalog.Save(ctx)
}

func (s *service) record(ctx context.Context, counter metric.Int64Counter, r Result) {
	counter.Add(ctx, 1, metric.WithAttributes(attribute.String("result", r.String())))
}
