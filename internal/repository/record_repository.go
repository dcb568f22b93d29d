package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/wanderpets/admin-api/internal/models"
	"github.com/wanderpets/admin-api/pkg/docstore"
)

type queryObserver interface {
	ObserveDBQuery(label string, duration time.Duration)
}

// RecordRepository is the typed facade over document collections. Every call
// goes to the store; nothing is cached.
type RecordRepository struct {
	store   docstore.Store
	metrics queryObserver
}

// NewRecordRepository constructs the repository. metrics may be nil.
func NewRecordRepository(store docstore.Store, metrics queryObserver) *RecordRepository {
	return &RecordRepository{store: store, metrics: metrics}
}

func (r *RecordRepository) observe(label string, start time.Time) {
	if r.metrics != nil {
		r.metrics.ObserveDBQuery(label, time.Since(start))
	}
}

// GetByID loads one document. Missing documents return docstore.ErrNotFound.
func (r *RecordRepository) GetByID(ctx context.Context, collection models.Collection, id string) (*docstore.Document, error) {
	defer r.observe("get", time.Now())
	doc, err := r.store.Get(ctx, string(collection), id)
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return doc, nil
}

// List returns a snapshot of the collection ordered by field. An empty field
// orders by id.
func (r *RecordRepository) List(ctx context.Context, collection models.Collection, orderBy string, direction docstore.Direction) ([]docstore.Document, error) {
	defer r.observe("list", time.Now())
	q := docstore.Query{Collection: string(collection)}
	if orderBy != "" {
		q.OrderBy = &docstore.OrderBy{Field: orderBy, Direction: direction}
	}
	docs, err := r.store.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	return docs, nil
}

// Find returns documents matching every equality predicate.
func (r *RecordRepository) Find(ctx context.Context, collection models.Collection, where ...docstore.Where) ([]docstore.Document, error) {
	defer r.observe("find", time.Now())
	docs, err := r.store.Query(ctx, docstore.Query{Collection: string(collection), Where: where})
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", collection, err)
	}
	return docs, nil
}

// Count returns how many documents match the predicates.
func (r *RecordRepository) Count(ctx context.Context, collection models.Collection, where ...docstore.Where) (int, error) {
	docs, err := r.Find(ctx, collection, where...)
	if err != nil {
		return 0, err
	}
	return len(docs), nil
}

// Exists reports whether a document matches both field/value pairs.
func (r *RecordRepository) Exists(ctx context.Context, collection models.Collection, field1, value1, field2, value2 string) (bool, error) {
	defer r.observe("exists", time.Now())
	docs, err := r.store.Query(ctx, docstore.Query{
		Collection: string(collection),
		Where: []docstore.Where{
			{Field: field1, Value: value1},
			{Field: field2, Value: value2},
		},
		Limit: 1,
	})
	if err != nil {
		return false, fmt.Errorf("exists %s: %w", collection, err)
	}
	return len(docs) > 0, nil
}

// Insert stores fields under a generated id.
func (r *RecordRepository) Insert(ctx context.Context, collection models.Collection, fields map[string]any) (string, error) {
	defer r.observe("insert", time.Now())
	id, err := r.store.Add(ctx, string(collection), fields)
	if err != nil {
		return "", fmt.Errorf("insert %s: %w", collection, err)
	}
	return id, nil
}

// Create stores fields under id and fails with docstore.ErrAlreadyExists
// when the id is taken.
func (r *RecordRepository) Create(ctx context.Context, collection models.Collection, id string, fields map[string]any) error {
	defer r.observe("create", time.Now())
	if err := r.store.Create(ctx, string(collection), id, fields); err != nil {
		return fmt.Errorf("create %s/%s: %w", collection, id, err)
	}
	return nil
}

// Set overwrites the document under id.
func (r *RecordRepository) Set(ctx context.Context, collection models.Collection, id string, fields map[string]any) error {
	defer r.observe("set", time.Now())
	if err := r.store.Set(ctx, string(collection), id, fields); err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, id, err)
	}
	return nil
}

// Update merges fields into the document. A non-zero version must match the
// stored one.
func (r *RecordRepository) Update(ctx context.Context, collection models.Collection, id string, fields map[string]any, version int64) error {
	defer r.observe("update", time.Now())
	if err := r.store.Update(ctx, string(collection), id, fields, docstore.Precondition{Version: version}); err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	return nil
}

// Delete removes the document. A non-zero version must match the stored one.
func (r *RecordRepository) Delete(ctx context.Context, collection models.Collection, id string, version int64) error {
	defer r.observe("delete", time.Now())
	if err := r.store.Delete(ctx, string(collection), id, docstore.Precondition{Version: version}); err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}
