// internal/storage/filestore.go
package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"libinventory/internal/catalog"
)

const tracerName = "libinventory/storage"

// defaultFileMode applies when the backing file does not exist yet.
const defaultFileMode fs.FileMode = 0o644

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// FileStore keeps the catalog as a pretty-printed JSON array in one file.
type FileStore struct {
	path   string
	tracer trace.Tracer
}

// Option configures a FileStore.
type Option func(*FileStore)

// WithTracerProvider sets where storage spans are recorded.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *FileStore) {
		s.tracer = tp.Tracer(tracerName)
	}
}

// NewFileStore creates a store backed by the file at path. Nothing is read
// or written until Load or Save is called.
func NewFileStore(path string, opts ...Option) *FileStore {
	s := &FileStore{
		path:   path,
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads and decodes the backing file.
func (s *FileStore) Load(ctx context.Context) ([]catalog.Record, error) {
	_, span := s.tracer.Start(ctx, "storage.load",
		trace.WithAttributes(attribute.String("file.path", s.path)),
	)
	defer span.End()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			span.SetAttributes(attribute.Bool("file.exists", false))
			return nil, fmt.Errorf("%w: %s", catalog.ErrNoCatalog, s.path)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "read failed")
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	records, err := decodeRecords(data)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "decode failed")
		return nil, fmt.Errorf("%w: %s: %w", catalog.ErrCorruptCatalog, s.path, err)
	}

	span.SetAttributes(attribute.Int("records.loaded", len(records)))
	return records, nil
}

// Save replaces the backing file with records. The data goes to a temporary
// file in the same directory first, so a failed save leaves the previous
// file in place. An existing file keeps its permission bits.
func (s *FileStore) Save(ctx context.Context, records []catalog.Record) error {
	_, span := s.tracer.Start(ctx, "storage.save",
		trace.WithAttributes(
			attribute.String("file.path", s.path),
			attribute.Int("records.count", len(records)),
		),
	)
	defer span.End()

	data, err := encodeRecords(records)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "encode failed")
		return fmt.Errorf("encode catalog: %w", err)
	}

	if err := writeFile(s.path, data); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "write failed")
		return err
	}

	span.SetAttributes(attribute.Int("file.bytes", len(data)))
	return nil
}

func writeFile(path string, data []byte) error {
	mode := defaultFileMode
	if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
