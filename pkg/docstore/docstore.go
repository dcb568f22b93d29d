// Package docstore provides a small document database contract: named
// collections of schemaless JSON documents addressed by id, with equality
// queries, merge updates and per-document versions for optimistic concurrency.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"
)

var (
	// ErrNotFound is returned when no document matches the collection and id.
	ErrNotFound = errors.New("docstore: document not found")
	// ErrAlreadyExists is returned by Create when the id is taken.
	ErrAlreadyExists = errors.New("docstore: document already exists")
	// ErrVersionConflict is returned when a precondition version does not match.
	ErrVersionConflict = errors.New("docstore: version conflict")
	// ErrInvalidField is returned for field names that cannot be queried.
	ErrInvalidField = errors.New("docstore: invalid field name")
)

// Document is a stored document snapshot.
type Document struct {
	ID         string
	Collection string
	Data       map[string]any
	Version    int64
	CreateTime time.Time
	UpdateTime time.Time
}

// Direction orders query results.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection maps user input onto a Direction, defaulting to Desc.
func ParseDirection(raw string) Direction {
	if raw == string(Asc) {
		return Asc
	}
	return Desc
}

// Where is an equality predicate on a top-level field. Values are compared in
// their string form.
type Where struct {
	Field string
	Value string
}

// OrderBy sorts results by a top-level field.
type OrderBy struct {
	Field     string
	Direction Direction
}

// Query selects documents from one collection.
type Query struct {
	Collection string
	Where      []Where
	OrderBy    *OrderBy
	Limit      int
}

// Precondition guards a write. A zero Version disables the check.
type Precondition struct {
	Version int64
}

// Store is implemented by every document store backend.
type Store interface {
	Get(ctx context.Context, collection, id string) (*Document, error)
	Query(ctx context.Context, q Query) ([]Document, error)
	// Add inserts data under a generated id.
	Add(ctx context.Context, collection string, data map[string]any) (string, error)
	// Create inserts data under id and fails with ErrAlreadyExists if taken.
	Create(ctx context.Context, collection, id string, data map[string]any) error
	// Set overwrites the document, creating it when missing.
	Set(ctx context.Context, collection, id string, data map[string]any) error
	// Update merges the given top-level fields into an existing document.
	Update(ctx context.Context, collection, id string, data map[string]any, pre Precondition) error
	Delete(ctx context.Context, collection, id string, pre Precondition) error
	Close() error
}

var fieldPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,63}$`)

// ValidateField rejects field names that are not plain identifiers.
func ValidateField(field string) error {
	if !fieldPattern.MatchString(field) {
		return fmt.Errorf("%w: %q", ErrInvalidField, field)
	}
	return nil
}

func validateQuery(q Query) error {
	if q.Collection == "" {
		return fmt.Errorf("docstore: collection required")
	}
	for _, w := range q.Where {
		if err := ValidateField(w.Field); err != nil {
			return err
		}
	}
	if q.OrderBy != nil {
		if err := ValidateField(q.OrderBy.Field); err != nil {
			return err
		}
	}
	return nil
}

func validateKey(collection, id string) error {
	if collection == "" || id == "" {
		return fmt.Errorf("docstore: collection and id required")
	}
	return nil
}
