// internal/catalog/implementation.go
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/cases"

	"libinventory/internal/logger"
)

const tracerName = "libinventory/catalog"

// Inventory is the in-memory catalog mirrored to a Store. Insertion order is
// display order. An Inventory is not safe for concurrent use.
type Inventory struct {
	store  Store
	books  []*Book
	tracer trace.Tracer
	log    *slog.Logger
	fold   cases.Caser
}

// Option configures an Inventory.
type Option func(*Inventory)

// WithLogger sets the logger used for lifecycle and persistence messages.
func WithLogger(l *slog.Logger) Option {
	return func(inv *Inventory) {
		inv.log = l
	}
}

// WithTracerProvider sets where catalog spans are recorded.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(inv *Inventory) {
		inv.tracer = tp.Tracer(tracerName)
	}
}

// Open loads the catalog from store.
//
// The returned Inventory is always usable. A non-nil error is a warning:
// a missing catalog is created empty (error only if that save fails), a
// corrupt catalog is replaced with an empty one (ErrCatalogReset), and any
// other read failure leaves the catalog empty for the life of the process
// (ErrLoadFailed).
func Open(ctx context.Context, store Store, opts ...Option) (*Inventory, error) {
	inv := &Inventory{
		store:  store,
		books:  make([]*Book, 0),
		tracer: otel.Tracer(tracerName),
		fold:   cases.Fold(),
	}
	for _, opt := range opts {
		opt(inv)
	}
	if inv.log == nil {
		inv.log = logger.ForComponent("catalog")
	}

	return inv, inv.load(ctx)
}

func (inv *Inventory) load(ctx context.Context) error {
	ctx, span := inv.tracer.Start(ctx, "catalog.load")
	defer span.End()

	records, err := inv.store.Load(ctx)
	switch {
	case errors.Is(err, ErrNoCatalog):
		inv.log.WarnContext(ctx, "catalog file missing, creating a new one")
		span.SetAttributes(attribute.Bool("catalog.created", true))
		return inv.persist(ctx, "create")
	case errors.Is(err, ErrCorruptCatalog):
		return inv.reset(ctx, span, err)
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, "load failed")
		inv.log.ErrorContext(ctx, "reading catalog failed, starting empty", "operation", "load", "error", err)
		return fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	books := make([]*Book, 0, len(records))
	for i, r := range records {
		book, err := FromRecord(r)
		if err != nil {
			return inv.reset(ctx, span, fmt.Errorf("%w: record %d: %w", ErrCorruptCatalog, i, err))
		}
		books = append(books, book)
	}
	inv.books = books

	span.SetAttributes(attribute.Int("catalog.books", len(books)))
	inv.log.InfoContext(ctx, "catalog loaded", "books", len(books))
	return nil
}

// reset discards corrupt data and overwrites the backing file with an empty
// catalog.
func (inv *Inventory) reset(ctx context.Context, span trace.Span, cause error) error {
	span.RecordError(cause)
	span.SetAttributes(attribute.Bool("catalog.reset", true))
	inv.log.ErrorContext(ctx, "corrupt catalog, resetting to empty", "operation", "load", "error", cause)

	inv.books = make([]*Book, 0)
	resetErr := fmt.Errorf("%w: %w", ErrCatalogReset, cause)
	if err := inv.persist(ctx, "reset"); err != nil {
		return errors.Join(resetErr, err)
	}
	return resetErr
}

// Add appends book and saves the catalog. Duplicate ISBNs are accepted; the
// returned error only reports a failed save.
func (inv *Inventory) Add(ctx context.Context, book *Book) error {
	ctx, span := inv.tracer.Start(ctx, "catalog.add",
		trace.WithAttributes(attribute.String("book.isbn", book.ISBN)),
	)
	defer span.End()

	if _, exists := inv.SearchByISBN(book.ISBN); exists {
		span.SetAttributes(attribute.Bool("book.duplicate_isbn", true))
		inv.log.WarnContext(ctx, "adding book with duplicate isbn", "isbn", book.ISBN, "title", book.Title)
	}

	inv.books = append(inv.books, book)
	inv.log.InfoContext(ctx, "book added", "title", book.Title, "isbn", book.ISBN)

	return inv.persist(ctx, "add")
}

// SearchByTitle returns every book whose title contains query, ignoring
// case, in insertion order. An empty query matches nothing.
func (inv *Inventory) SearchByTitle(query string) []*Book {
	matches := make([]*Book, 0)
	if query == "" {
		return matches
	}

	needle := inv.fold.String(query)
	for _, b := range inv.books {
		if strings.Contains(inv.fold.String(b.Title), needle) {
			matches = append(matches, b)
		}
	}
	return matches
}

// SearchByISBN returns the first book inserted with exactly this ISBN.
func (inv *Inventory) SearchByISBN(isbn string) (*Book, bool) {
	for _, b := range inv.books {
		if b.ISBN == isbn {
			return b, true
		}
	}
	return nil, false
}

// ListAll returns one summary line per book.
func (inv *Inventory) ListAll() []string {
	lines := make([]string, 0, len(inv.books))
	for _, b := range inv.books {
		lines = append(lines, b.String())
	}
	return lines
}

// Books returns the catalog in insertion order. The slice is a copy; the
// books are shared.
func (inv *Inventory) Books() []*Book {
	books := make([]*Book, len(inv.books))
	copy(books, inv.books)
	return books
}

// Save writes the whole catalog to the store. A failure is logged and
// returned wrapped in ErrSaveFailed; the in-memory catalog is unchanged.
func (inv *Inventory) Save(ctx context.Context) error {
	return inv.persist(ctx, "save")
}

func (inv *Inventory) persist(ctx context.Context, operation string) error {
	ctx, span := inv.tracer.Start(ctx, "catalog.save",
		trace.WithAttributes(
			attribute.String("catalog.operation", operation),
			attribute.Int("catalog.books", len(inv.books)),
		),
	)
	defer span.End()

	records := make([]Record, 0, len(inv.books))
	for _, b := range inv.books {
		records = append(records, b.ToRecord())
	}

	if err := inv.store.Save(ctx, records); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "save failed")
		inv.log.ErrorContext(ctx, "saving catalog failed", "operation", operation, "books", len(records), "error", err)
		return fmt.Errorf("%w: %s: %w", ErrSaveFailed, operation, err)
	}

	inv.log.DebugContext(ctx, "catalog saved", "operation", operation, "books", len(records))
	return nil
}
