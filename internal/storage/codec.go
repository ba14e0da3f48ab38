// internal/storage/codec.go
package storage

import (
	"bytes"
	"errors"
	"fmt"

	"libinventory/internal/catalog"
)

var (
	// ErrMalformedJSON is returned when the file is not valid JSON.
	ErrMalformedJSON = errors.New("malformed json")

	// ErrNotAnArray is returned when the top-level JSON value is not an array.
	ErrNotAnArray = errors.New("catalog must be a json array")

	// ErrMissingField is returned when a record lacks one of its keys.
	ErrMissingField = errors.New("record is missing a field")
)

// rawRecord tells an absent key apart from an empty string.
type rawRecord struct {
	Title  *string `json:"title"`
	Author *string `json:"author"`
	ISBN   *string `json:"isbn"`
	Status *string `json:"status"`
}

func encodeRecords(records []catalog.Record) ([]byte, error) {
	if records == nil {
		records = []catalog.Record{}
	}
	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func decodeRecords(data []byte) ([]catalog.Record, error) {
	if !json.Valid(data) {
		return nil, ErrMalformedJSON
	}
	if trimmed := bytes.TrimSpace(data); len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrNotAnArray
	}

	var raw []*rawRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", catalog.ErrInvalidRecord, err)
	}

	records := make([]catalog.Record, 0, len(raw))
	for i, r := range raw {
		rec, err := r.toRecord()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (r *rawRecord) toRecord() (catalog.Record, error) {
	if r == nil {
		return catalog.Record{}, fmt.Errorf("%w: record is null", catalog.ErrInvalidRecord)
	}

	fields := []struct {
		name  string
		value *string
	}{
		{"title", r.Title},
		{"author", r.Author},
		{"isbn", r.ISBN},
		{"status", r.Status},
	}
	for _, f := range fields {
		if f.value == nil {
			return catalog.Record{}, fmt.Errorf("%w: %w: %s", catalog.ErrInvalidRecord, ErrMissingField, f.name)
		}
	}

	return catalog.Record{
		Title:  *r.Title,
		Author: *r.Author,
		ISBN:   *r.ISBN,
		Status: *r.Status,
	}, nil
}
