// Package docstore is a small document database abstraction: JSON documents
// addressed by slash-separated paths ("collection/doc/collection/doc"),
// listable per collection.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotFound    = errors.New("document not found")
	ErrInvalidPath = errors.New("invalid document path")
)

type Store interface {
	// Get returns the raw JSON of the document at path or ErrNotFound.
	Get(ctx context.Context, path string) ([]byte, error)
	// Set creates or replaces the document at path.
	Set(ctx context.Context, path string, data []byte) error
	// Delete removes the document. Deleting a missing document is not an error.
	Delete(ctx context.Context, path string) error
	// List returns the paths of the documents directly inside collection,
	// sorted lexically.
	List(ctx context.Context, collection string) ([]string, error)
	// ServerTime is the store's clock, used for update markers.
	ServerTime(ctx context.Context) (time.Time, error)
	Close() error
}

// Join builds a path from segments.
func Join(segments ...string) string {
	return strings.Join(segments, "/")
}

// Split validates a document path and returns its collection and id.
func Split(path string) (collection, id string, err error) {
	parts := strings.Split(path, "/")
	if len(parts) < 2 || len(parts)%2 != 0 {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	for _, p := range parts {
		if p == "" {
			return "", "", fmt.Errorf("%w: %q", ErrInvalidPath, path)
		}
	}
	i := strings.LastIndex(path, "/")
	return path[:i], path[i+1:], nil
}

func GetJSON(ctx context.Context, s Store, path string, v any) error {
	data, err := s.Get(ctx, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func SetJSON(ctx context.Context, s Store, path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return s.Set(ctx, path, data)
}

// DeleteCollection deletes every document directly inside collection and
// returns how many were removed.
func DeleteCollection(ctx context.Context, s Store, collection string) (int, error) {
	paths, err := s.List(ctx, collection)
	if err != nil {
		return 0, err
	}
	for i, p := range paths {
		if err := s.Delete(ctx, p); err != nil {
			return i, err
		}
	}
	return len(paths), nil
}
