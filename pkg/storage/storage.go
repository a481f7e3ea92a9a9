// Package storage fetches script documents for analysis from local files,
// HTTP endpoints and S3 objects behind one read-only interface.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
)

// AllowedSchemes is the whitelist of URI schemes documents may be fetched
// from
var AllowedSchemes = []string{"https", "http", "s3", "file"}

// MaxDocumentSize caps how many bytes ReadDocument will accept from any
// backend. Scripts are text; anything larger is a mistake or an attack.
const MaxDocumentSize = 1 << 20

// Storage is a read-only document source
type Storage interface {
	// Get opens the document at the given URI for reading
	Get(ctx context.Context, uri string) (io.ReadCloser, error)

	// Exists checks whether a document exists at the given URI
	Exists(ctx context.Context, uri string) (bool, error)
}

// ParseURI parses a URI and returns scheme and path
func ParseURI(uri string) (scheme string, path string, err error) {
	if uri == "" {
		return "", "", fmt.Errorf("URI cannot be empty")
	}

	parsed, err := url.Parse(uri)
	if err != nil {
		return "", "", fmt.Errorf("invalid URI: %w", err)
	}

	if parsed.Scheme == "" {
		return "", "", fmt.Errorf("URI must have a scheme (e.g., https://, s3://)")
	}

	// For file:// URIs, use the full path
	if parsed.Scheme == "file" {
		return parsed.Scheme, parsed.Path, nil
	}

	// For other URIs (s3://, https://, etc.), combine host and path
	path = parsed.Host
	if parsed.Path != "" {
		path = path + parsed.Path
	}

	return parsed.Scheme, path, nil
}

// IsAllowedScheme checks if a URI scheme is in the whitelist
func IsAllowedScheme(scheme string) bool {
	for _, allowed := range AllowedSchemes {
		if scheme == allowed {
			return true
		}
	}
	return false
}

// ForURI picks the backend matching the URI's scheme. The S3 backend is
// constructed lazily since it needs AWS configuration.
func ForURI(ctx context.Context, uri string) (Storage, error) {
	scheme, _, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}
	if !IsAllowedScheme(scheme) {
		return nil, fmt.Errorf("scheme %s:// is not allowed", scheme)
	}

	switch scheme {
	case "file":
		return NewLocalStorage(), nil
	case "http", "https":
		return NewHTTPStorage(), nil
	case "s3":
		return NewS3Storage(ctx)
	}
	return nil, fmt.Errorf("no storage backend for scheme %s://", scheme)
}

// ReadDocument fetches the document at uri through the matching backend and
// returns its content, rejecting documents over MaxDocumentSize
func ReadDocument(ctx context.Context, uri string) (string, error) {
	backend, err := ForURI(ctx, uri)
	if err != nil {
		return "", err
	}

	rc, err := backend.Get(ctx, uri)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, MaxDocumentSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read document: %w", err)
	}
	if len(data) > MaxDocumentSize {
		return "", fmt.Errorf("document exceeds %d byte limit", MaxDocumentSize)
	}

	return string(data), nil
}
