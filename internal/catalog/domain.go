// internal/catalog/domain.go
package catalog

import (
	"fmt"
)

// Status is the lending state of a book.
type Status string

// Persisted status values.
const (
	StatusAvailable Status = "available"
	StatusIssued    Status = "issued"
)

// ParseStatus converts persisted text into a Status.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusAvailable, StatusIssued:
		return Status(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
}

// Book represents one catalog entry and its lending state.
type Book struct {
	Title  string
	Author string
	ISBN   string
	status Status
}

// NewBook creates a book that is available for lending.
func NewBook(title, author, isbn string) *Book {
	return &Book{
		Title:  title,
		Author: author,
		ISBN:   isbn,
		status: StatusAvailable,
	}
}

// Status returns the current lending state.
func (b *Book) Status() Status {
	return b.status
}

// IsAvailable reports whether the book can be issued.
func (b *Book) IsAvailable() bool {
	return b.status == StatusAvailable
}

// Issue lends the book out. It reports false and leaves the book untouched
// when the book is already issued.
func (b *Book) Issue() bool {
	if !b.IsAvailable() {
		return false
	}
	b.status = StatusIssued
	return true
}

// Return puts the book back on the shelf. Returning an available book is a
// no-op that still succeeds.
func (b *Book) Return() bool {
	b.status = StatusAvailable
	return true
}

// String renders the one-line summary used in listings and search results.
func (b *Book) String() string {
	return fmt.Sprintf("Title: %s, Author: %s, ISBN: %s, Status: %s", b.Title, b.Author, b.ISBN, b.status)
}

// Record is the flat persisted form of a Book. Field order is the key order
// of the backing file.
type Record struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	ISBN   string `json:"isbn"`
	Status string `json:"status"`
}

// ToRecord converts the book into its persisted form.
func (b *Book) ToRecord() Record {
	return Record{
		Title:  b.Title,
		Author: b.Author,
		ISBN:   b.ISBN,
		Status: string(b.status),
	}
}

// FromRecord rebuilds a Book from its persisted form.
func FromRecord(r Record) (*Book, error) {
	status, err := ParseStatus(r.Status)
	if err != nil {
		return nil, fmt.Errorf("%w: isbn %q: %w", ErrInvalidRecord, r.ISBN, err)
	}

	return &Book{
		Title:  r.Title,
		Author: r.Author,
		ISBN:   r.ISBN,
		status: status,
	}, nil
}
