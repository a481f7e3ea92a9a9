// Package store keeps a history of analysis results
package store

import (
	"context"
	"errors"
	"time"

	"github.com/mediakit/ffcheck/pkg/schemas"
)

var (
	// ErrAnalysisNotFound is returned when an analysis record does not exist
	ErrAnalysisNotFound = errors.New("analysis not found")

	// ErrAnalysisExists is returned when creating an analysis whose ID is taken
	ErrAnalysisExists = errors.New("analysis already exists")

	// ErrInvalidAnalysisID is returned for empty or malformed analysis IDs
	ErrInvalidAnalysisID = errors.New("invalid analysis ID")
)

// Store is the interface for analysis history persistence
type Store interface {
	// Create stores a new analysis record
	Create(ctx context.Context, analysis *Analysis) error

	// Get retrieves an analysis record by ID
	Get(ctx context.Context, id string) (*Analysis, error)

	// Delete removes an analysis record by ID
	Delete(ctx context.Context, id string) error

	// List returns analysis records matching the filter
	List(ctx context.Context, filter *ListFilter) ([]*Analysis, error)

	// Close closes the store and releases resources
	Close() error
}

// Analysis is one stored analysis run: the analyzed text, where it came
// from, and everything the analyzer reported
type Analysis struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	// Request
	FilePath     string `json:"file_path,omitempty"`
	Content      string `json:"content"`
	LineOffset   int    `json:"line_offset"`
	ColumnOffset int    `json:"column_offset"`

	// Result
	Diagnostics  schemas.AnalyzerDiagnostics `json:"diagnostics"`
	ErrorCount   int                         `json:"error_count"`
	WarningCount int                         `json:"warning_count"`
}

// ListFilter defines filtering criteria for listing analyses
type ListFilter struct {
	// FilePath restricts results to analyses of one file
	FilePath string `json:"file_path,omitempty"`

	// WithErrors keeps only analyses that produced at least one error
	WithErrors bool `json:"with_errors,omitempty"`

	// Time range filters
	CreatedAfter  *time.Time `json:"created_after,omitempty"`
	CreatedBefore *time.Time `json:"created_before,omitempty"`

	// Pagination
	Limit  int `json:"limit,omitempty"`  // Max results (0 = no limit)
	Offset int `json:"offset,omitempty"` // Skip N results
}
