// Package output serializes aggregated crawl records.
package output

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/minkyu-dev/blogcrawl/internal/domain"
	"github.com/minkyu-dev/blogcrawl/internal/logger"
)

// Sink persists a run's aggregated records.
type Sink interface {
	Write(records []domain.ArticleRecord) error
}

// JSONFileSink writes records as a pretty-printed JSON array. Korean text
// and URLs are written as-is rather than escaped.
type JSONFileSink struct {
	path string
	log  logger.Interface
}

// NewJSONFileSink creates a sink writing to the given path.
func NewJSONFileSink(path string, log logger.Interface) *JSONFileSink {
	return &JSONFileSink{path: path, log: log.WithComponent("output")}
}

// CheckWritable verifies the output path can be opened for writing without
// truncating an existing file. An unwritable path is a configuration error
// and aborts the run before any crawling begins.
func (s *JSONFileSink) CheckWritable() error {
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("output path not writable: %w", err)
	}
	return f.Close()
}

// Write serializes the records to the output path, replacing any previous
// contents. A nil slice is written as an empty array.
func (s *JSONFileSink) Write(records []domain.ArticleRecord) error {
	if records == nil {
		records = []domain.ArticleRecord{}
	}

	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	if encErr := enc.Encode(records); encErr != nil {
		_ = f.Close()
		return fmt.Errorf("encode records: %w", encErr)
	}
	if closeErr := f.Close(); closeErr != nil {
		return fmt.Errorf("close output file: %w", closeErr)
	}

	s.log.Info("results written", "path", s.path, "records", len(records))
	return nil
}
