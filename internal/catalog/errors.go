// internal/catalog/errors.go
package catalog

import "errors"

var (
	// ErrUnknownStatus is returned when a status is neither available nor issued.
	ErrUnknownStatus = errors.New("unknown book status")

	// ErrInvalidRecord is returned when a persisted record cannot become a Book.
	ErrInvalidRecord = errors.New("invalid book record")

	// ErrNoCatalog is returned by a Store when the backing file does not exist.
	ErrNoCatalog = errors.New("catalog does not exist")

	// ErrCorruptCatalog is returned by a Store when the backing file cannot be
	// decoded into records.
	ErrCorruptCatalog = errors.New("catalog is corrupt")

	// ErrSaveFailed wraps every failed write of the catalog. The in-memory
	// catalog keeps the change.
	ErrSaveFailed = errors.New("saving catalog failed")

	// ErrLoadFailed wraps a read failure that left the catalog empty.
	ErrLoadFailed = errors.New("loading catalog failed")

	// ErrCatalogReset is returned by Open when corrupt data was discarded.
	ErrCatalogReset = errors.New("corrupt catalog discarded")
)
