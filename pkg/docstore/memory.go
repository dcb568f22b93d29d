package docstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps documents in process memory. It backs local development
// and tests.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]*Document
	now         func() time.Time
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: map[string]map[string]*Document{},
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the clock used for server timestamps and metadata.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

func (s *MemoryStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	if err := validateKey(collection, id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.collections[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	out := copyDocument(doc)
	return &out, nil
}

func (s *MemoryStore) Query(ctx context.Context, q Query) ([]Document, error) {
	if err := validateQuery(q); err != nil {
		return nil, err
	}
	s.mu.RLock()
	docs := make([]Document, 0, len(s.collections[q.Collection]))
	for _, doc := range s.collections[q.Collection] {
		if matches(doc.Data, q.Where) {
			docs = append(docs, copyDocument(doc))
		}
	}
	s.mu.RUnlock()
	return applyOrder(docs, q), nil
}

func (s *MemoryStore) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	id := uuid.NewString()
	if err := s.Create(ctx, collection, id, data); err != nil {
		return "", err
	}
	return id, nil
}

func (s *MemoryStore) Create(ctx context.Context, collection, id string, data map[string]any) error {
	if err := validateKey(collection, id); err != nil {
		return err
	}
	now := s.now()
	prepared, err := prepare(data, now)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	docs := s.collection(collection)
	if _, exists := docs[id]; exists {
		return ErrAlreadyExists
	}
	docs[id] = &Document{ID: id, Collection: collection, Data: prepared, Version: 1, CreateTime: now, UpdateTime: now}
	return nil
}

func (s *MemoryStore) Set(ctx context.Context, collection, id string, data map[string]any) error {
	if err := validateKey(collection, id); err != nil {
		return err
	}
	now := s.now()
	prepared, err := prepare(data, now)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	docs := s.collection(collection)
	if existing, ok := docs[id]; ok {
		existing.Data = prepared
		existing.Version++
		existing.UpdateTime = now
		return nil
	}
	docs[id] = &Document{ID: id, Collection: collection, Data: prepared, Version: 1, CreateTime: now, UpdateTime: now}
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, collection, id string, data map[string]any, pre Precondition) error {
	if err := validateKey(collection, id); err != nil {
		return err
	}
	now := s.now()
	prepared, err := prepare(data, now)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.collections[collection][id]
	if !ok {
		return ErrNotFound
	}
	if pre.Version != 0 && existing.Version != pre.Version {
		return ErrVersionConflict
	}
	for k, v := range prepared {
		existing.Data[k] = v
	}
	existing.Version++
	existing.UpdateTime = now
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, collection, id string, pre Precondition) error {
	if err := validateKey(collection, id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.collections[collection][id]
	if !ok {
		return ErrNotFound
	}
	if pre.Version != 0 && existing.Version != pre.Version {
		return ErrVersionConflict
	}
	delete(s.collections[collection], id)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) collection(name string) map[string]*Document {
	docs, ok := s.collections[name]
	if !ok {
		docs = map[string]*Document{}
		s.collections[name] = docs
	}
	return docs
}

func copyDocument(doc *Document) Document {
	out := *doc
	out.Data = cloneData(doc.Data)
	return out
}
