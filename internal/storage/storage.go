package storage

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/IshaanNene/shopstalk/internal/types"
)

// Sink persists the records of one category under a destination name.
// Destination names carry no file extension; each backend applies its own.
type Sink interface {
	// Write persists records in the given order. Writing the same
	// destination again replaces its previous content.
	Write(records []types.Product, destination string) error

	// Close flushes pending writes and releases resources.
	Close() error

	// Name returns the storage backend identifier.
	Name() string
}

// Options selects and parameterizes the backend. Type accepts a single
// backend or a comma-separated list ("csv,mongo") that fans out.
type Options struct {
	Type          string
	OutputDir     string
	MongoURI      string
	MongoDatabase string
}

// NewSink creates the storage backend(s) named by the options.
func NewSink(opts Options, logger *slog.Logger) (Sink, error) {
	kinds := strings.Split(opts.Type, ",")
	sinks := make([]Sink, 0, len(kinds))
	for _, kind := range kinds {
		sink, err := newBackend(strings.TrimSpace(kind), opts, logger)
		if err != nil {
			closeAll(sinks)
			return nil, err
		}
		sinks = append(sinks, sink)
	}
	if len(sinks) == 1 {
		return sinks[0], nil
	}
	return NewMultiSink(sinks, logger), nil
}

func newBackend(kind string, opts Options, logger *slog.Logger) (Sink, error) {
	switch kind {
	case "csv":
		return NewCSVSink(opts.OutputDir, logger)
	case "json":
		return NewJSONSink(opts.OutputDir, logger)
	case "mongo":
		return NewMongoSink(opts.MongoURI, opts.MongoDatabase, logger)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", kind)
	}
}

func closeAll(sinks []Sink) {
	for _, s := range sinks {
		s.Close()
	}
}

// MultiSink writes records to multiple backends simultaneously.
type MultiSink struct {
	backends []Sink
	logger   *slog.Logger
}

// NewMultiSink creates a sink that fans out to multiple backends.
func NewMultiSink(backends []Sink, logger *slog.Logger) *MultiSink {
	return &MultiSink{
		backends: backends,
		logger:   logger.With("component", "multi_sink"),
	}
}

func (s *MultiSink) Name() string { return "multi" }

// Write attempts every backend even after a failure, then reports the
// first error so the caller still sees the category as failed.
func (s *MultiSink) Write(records []types.Product, destination string) error {
	var firstErr error
	for _, backend := range s.backends {
		if err := backend.Write(records, destination); err != nil {
			s.logger.Error("backend write failed", "backend", backend.Name(), "destination", destination, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (s *MultiSink) Close() error {
	var firstErr error
	for _, backend := range s.backends {
		if err := backend.Close(); err != nil {
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
