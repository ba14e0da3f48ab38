// internal/circulation/service.go
package circulation

import (
	"context"

	"libinventory/internal/catalog"
)

// Service defines the lending operations of the circulation desk.
//
// The returned error never means the operation was refused; it only reports
// that the catalog could not be saved afterwards.
type Service interface {
	Issue(ctx context.Context, isbn string) (Result, *catalog.Book, error)
	Return(ctx context.Context, isbn string) (Result, *catalog.Book, error)
}

// Catalog is the part of the catalog the desk works against.
type Catalog interface {
	SearchByISBN(isbn string) (*catalog.Book, bool)
	Save(ctx context.Context) error
}
