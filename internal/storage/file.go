package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/IshaanNene/shopstalk/internal/types"
)

// --- CSV Storage ---

// CSVSink writes each destination as <dir>/<destination>.csv. Every file
// starts with the fixed product header, even when a category yields no
// records.
type CSVSink struct {
	dir    string
	mu     sync.Mutex
	files  int
	rows   int
	logger *slog.Logger
}

// NewCSVSink creates a CSV sink rooted at the output directory.
func NewCSVSink(dir string, logger *slog.Logger) (*CSVSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &types.StorageError{Backend: "csv", Err: fmt.Errorf("create output dir: %w", err)}
	}
	return &CSVSink{
		dir:    dir,
		logger: logger.With("component", "csv_sink"),
	}, nil
}

func (s *CSVSink) Name() string { return "csv" }

func (s *CSVSink) Write(records []types.Product, destination string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, destination+".csv")
	f, err := os.Create(path)
	if err != nil {
		return &types.StorageError{Backend: "csv", Err: fmt.Errorf("create %s: %w", path, err)}
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(types.ProductFields); err != nil {
		return &types.StorageError{Backend: "csv", Err: fmt.Errorf("write header: %w", err)}
	}
	for _, record := range records {
		if err := w.Write(record.Row()); err != nil {
			return &types.StorageError{Backend: "csv", Err: fmt.Errorf("write row: %w", err)}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return &types.StorageError{Backend: "csv", Err: err}
	}
	if err := f.Close(); err != nil {
		return &types.StorageError{Backend: "csv", Err: err}
	}

	s.files++
	s.rows += len(records)
	s.logger.Info("CSV written", "path", path, "rows", len(records))
	return nil
}

func (s *CSVSink) Close() error {
	s.logger.Info("csv sink closed", "files", s.files, "rows", s.rows)
	return nil
}

// --- JSON Storage ---

// JSONSink writes each destination as <dir>/<destination>.json holding a
// JSON array of records.
type JSONSink struct {
	dir    string
	mu     sync.Mutex
	files  int
	rows   int
	logger *slog.Logger
}

// NewJSONSink creates a JSON sink rooted at the output directory.
func NewJSONSink(dir string, logger *slog.Logger) (*JSONSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &types.StorageError{Backend: "json", Err: fmt.Errorf("create output dir: %w", err)}
	}
	return &JSONSink{
		dir:    dir,
		logger: logger.With("component", "json_sink"),
	}, nil
}

func (s *JSONSink) Name() string { return "json" }

func (s *JSONSink) Write(records []types.Product, destination string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if records == nil {
		records = []types.Product{}
	}

	path := filepath.Join(s.dir, destination+".json")
	f, err := os.Create(path)
	if err != nil {
		return &types.StorageError{Backend: "json", Err: fmt.Errorf("create %s: %w", path, err)}
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return &types.StorageError{Backend: "json", Err: fmt.Errorf("encode JSON: %w", err)}
	}
	if err := f.Close(); err != nil {
		return &types.StorageError{Backend: "json", Err: err}
	}

	s.files++
	s.rows += len(records)
	s.logger.Info("JSON written", "path", path, "rows", len(records))
	return nil
}

func (s *JSONSink) Close() error {
	s.logger.Info("json sink closed", "files", s.files, "rows", s.rows)
	return nil
}
