package docstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestMemoryStoreCreateIsCreateOnly(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Create(ctx, "rescueHistory", "r1", map[string]any{"firstName": "Ana"}))
	err := store.Create(ctx, "rescueHistory", "r1", map[string]any{"firstName": "Ben"})
	require.ErrorIs(t, err, ErrAlreadyExists)

	doc, err := store.Get(ctx, "rescueHistory", "r1")
	require.NoError(t, err)
	require.Equal(t, "Ana", doc.Data["firstName"])
	require.EqualValues(t, 1, doc.Version)
}

func TestMemoryStoreConcurrentCreateSingleWinner(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var wg sync.WaitGroup
	results := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- store.Create(ctx, "missingHistory", "m1", map[string]any{"name": "Bantay"})
		}()
	}
	wg.Wait()
	close(results)

	wins := 0
	for err := range results {
		if err == nil {
			wins++
			continue
		}
		require.ErrorIs(t, err, ErrAlreadyExists)
	}
	require.Equal(t, 1, wins)
}

func TestMemoryStoreUpdateMergesAndChecksVersion(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 30, 9, 3, 43, 0, time.UTC)
	store := NewMemoryStore().WithClock(fixedClock(now))

	require.NoError(t, store.Set(ctx, "rescue", "r1", map[string]any{"reportStatus": "PENDING", "firstName": "Ana"}))

	err := store.Update(ctx, "rescue", "r1", map[string]any{"reportStatus": "REVIEWING"}, Precondition{Version: 7})
	require.ErrorIs(t, err, ErrVersionConflict)

	require.NoError(t, store.Update(ctx, "rescue", "r1", map[string]any{
		"reportStatus": "REVIEWING",
		"statusChange": ServerTimestamp,
	}, Precondition{Version: 1}))

	doc, err := store.Get(ctx, "rescue", "r1")
	require.NoError(t, err)
	require.Equal(t, "REVIEWING", doc.Data["reportStatus"])
	require.Equal(t, "Ana", doc.Data["firstName"])
	require.EqualValues(t, 2, doc.Version)

	ts, ok := TimestampValue(doc.Data["statusChange"])
	require.True(t, ok)
	require.Equal(t, now.Unix(), ts.Seconds)

	require.ErrorIs(t, store.Update(ctx, "rescue", "missing", map[string]any{"a": 1}, Precondition{}), ErrNotFound)
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, "found", "f1", map[string]any{"name": "Mingming"}))

	require.ErrorIs(t, store.Delete(ctx, "found", "f1", Precondition{Version: 3}), ErrVersionConflict)
	require.NoError(t, store.Delete(ctx, "found", "f1", Precondition{Version: 1}))
	require.ErrorIs(t, store.Delete(ctx, "found", "f1", Precondition{}), ErrNotFound)

	_, err := store.Get(ctx, "found", "f1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreQueryFiltersOrdersAndLimits(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, "missingHistory", "a", map[string]any{"originalId": "1", "originalCollection": "missing", "timestamp": 300}))
	require.NoError(t, store.Set(ctx, "missingHistory", "b", map[string]any{"originalId": "2", "originalCollection": "missing", "timestamp": 100}))
	require.NoError(t, store.Set(ctx, "missingHistory", "c", map[string]any{"originalId": "1", "originalCollection": "found", "timestamp": 200}))

	docs, err := store.Query(ctx, Query{
		Collection: "missingHistory",
		Where:      []Where{{Field: "originalId", Value: "1"}, {Field: "originalCollection", Value: "missing"}},
	})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, "a", docs[0].ID)

	docs, err = store.Query(ctx, Query{Collection: "missingHistory", OrderBy: &OrderBy{Field: "timestamp", Direction: Desc}, Limit: 2})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	require.Equal(t, "a", docs[0].ID)
	require.Equal(t, "c", docs[1].ID)

	docs, err = store.Query(ctx, Query{Collection: "missingHistory", Where: []Where{{Field: "timestamp", Value: "100"}}})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, "b", docs[0].ID)

	_, err = store.Query(ctx, Query{Collection: "missingHistory", Where: []Where{{Field: "bad'field", Value: "x"}}})
	require.ErrorIs(t, err, ErrInvalidField)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, "adoption", "p1", map[string]any{"media": []any{map[string]any{"type": "image", "uri": "a.jpg"}}}))

	doc, err := store.Get(ctx, "adoption", "p1")
	require.NoError(t, err)
	doc.Data["name"] = "mutated"

	again, err := store.Get(ctx, "adoption", "p1")
	require.NoError(t, err)
	require.NotContains(t, again.Data, "name")
}

func TestDecodeExposesID(t *testing.T) {
	var out struct {
		ID        string    `json:"id"`
		Name      string    `json:"name"`
		Timestamp Timestamp `json:"timestamp"`
	}
	doc := &Document{ID: "x1", Collection: "found", Data: map[string]any{
		"name":      "Mingming",
		"timestamp": map[string]any{"seconds": float64(1743325423), "nanoseconds": float64(0)},
	}}
	require.NoError(t, Decode(doc, &out))
	require.Equal(t, "x1", out.ID)
	require.Equal(t, "Mingming", out.Name)
	require.Equal(t, int64(1743325423), out.Timestamp.Seconds)
}
