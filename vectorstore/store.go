// Package vectorstore abstracts the vector database behind a small interface
// so the engines never import a database client directly and tests can swap in
// the in-memory implementation.
package vectorstore

import (
	"context"
	"errors"
)

var (
	// ErrInvalidDimension is returned when a vector's length does not match
	// the configured collection dimension.
	ErrInvalidDimension = errors.New("vector dimension mismatch")
	// ErrUnavailable marks transient backend failures. Callers degrade to
	// empty results instead of propagating it to users.
	ErrUnavailable = errors.New("vector index unavailable")
)

// Collections names the four collections the platform uses.
type Collections struct {
	Reports    string
	Volunteers string
	Users      string
	Campaigns  string
}

func (c Collections) All() []string {
	return []string{c.Reports, c.Volunteers, c.Users, c.Campaigns}
}

// Point is a stored vector with its payload. Score is set on search results.
type Point struct {
	ID      string
	Score   float64
	Vector  []float32
	Payload map[string]any
}

// SearchRequest is a ranked nearest-neighbor query against one collection.
type SearchRequest struct {
	Collection     string
	Vector         []float32
	Limit          int
	ScoreThreshold float64
	Filter         *Filter
}

// CollectionStats reports per-collection totals.
type CollectionStats struct {
	Count      uint64 `json:"count"`
	VectorSize int    `json:"vector_size"`
}

// Store is the vector index contract. All calls are context-bound; adapters
// apply their own timeouts on top.
type Store interface {
	// EnsureCollections creates missing collections idempotently.
	EnsureCollections(ctx context.Context) error
	// Upsert inserts or replaces a point. An empty id gets a generated one.
	// Returns the point id actually stored.
	Upsert(ctx context.Context, collection, id string, vector []float32, payload map[string]any) (string, error)
	// Search returns results ranked by descending similarity, at most Limit,
	// all scoring at or above ScoreThreshold. Empty is not an error.
	Search(ctx context.Context, req SearchRequest) ([]Point, error)
	// Scroll is an unranked paginated read returning payloads and vectors.
	// Pass the returned offset to get the next page; an empty offset means
	// exhaustion.
	Scroll(ctx context.Context, collection string, limit int, offset string, filter *Filter) ([]Point, string, error)
	// Retrieve fetches points by id with vectors. Missing ids are simply
	// absent from the result.
	Retrieve(ctx context.Context, collection string, ids []string) ([]Point, error)
	// Stats returns point counts per collection.
	Stats(ctx context.Context) (map[string]CollectionStats, error)
}
