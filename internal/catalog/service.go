// internal/catalog/service.go
package catalog

import (
	"context"
)

// Service defines the operations the catalog offers to its callers.
type Service interface {
	Add(ctx context.Context, book *Book) error
	SearchByTitle(query string) []*Book
	SearchByISBN(isbn string) (*Book, bool)
	ListAll() []string
	Books() []*Book
	Save(ctx context.Context) error
}

// Store persists the full catalog as an ordered list of records.
//
// Load returns ErrNoCatalog when nothing has been saved yet and
// ErrCorruptCatalog when the stored data cannot be decoded. Save overwrites
// whatever was stored before.
type Store interface {
	Load(ctx context.Context) ([]Record, error)
	Save(ctx context.Context, records []Record) error
}
