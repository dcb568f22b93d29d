package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wanderpets/admin-api/internal/models"
	"github.com/wanderpets/admin-api/internal/repository"
	"github.com/wanderpets/admin-api/pkg/docstore"
	appErrors "github.com/wanderpets/admin-api/pkg/errors"
)

var errInjected = errors.New("injected store failure")

type recordingAudit struct {
	mu   sync.Mutex
	logs []*models.AuditLog
}

func (r *recordingAudit) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, log)
	return nil
}

func (r *recordingAudit) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.logs))
	for _, l := range r.logs {
		out = append(out, l.Action)
	}
	return out
}

type recordingMetrics struct {
	transitions []string
	archives    []string
	replays     []string
	pending     int
}

func (m *recordingMetrics) RecordTransition(machine, to, result string) {
	m.transitions = append(m.transitions, machine+":"+to+":"+result)
}

func (m *recordingMetrics) RecordArchive(collection, result string) {
	m.archives = append(m.archives, collection+":"+result)
}

func (m *recordingMetrics) RecordOutboxReplay(result string) {
	m.replays = append(m.replays, result)
}

func (m *recordingMetrics) SetOutboxPending(n int) { m.pending = n }

// faultyRepo fails selected operations on selected collections.
type faultyRepo struct {
	documentRepository
	failures map[string]error
}

func newFaultyRepo(inner documentRepository) *faultyRepo {
	return &faultyRepo{documentRepository: inner, failures: map[string]error{}}
}

func (f *faultyRepo) failOn(op string, collection models.Collection, err error) {
	f.failures[op+":"+string(collection)] = err
}

func (f *faultyRepo) heal(op string, collection models.Collection) {
	delete(f.failures, op+":"+string(collection))
}

func (f *faultyRepo) fault(op string, collection models.Collection) error {
	return f.failures[op+":"+string(collection)]
}

func (f *faultyRepo) GetByID(ctx context.Context, collection models.Collection, id string) (*docstore.Document, error) {
	if err := f.fault("get", collection); err != nil {
		return nil, err
	}
	return f.documentRepository.GetByID(ctx, collection, id)
}

func (f *faultyRepo) Exists(ctx context.Context, collection models.Collection, field1, value1, field2, value2 string) (bool, error) {
	if err := f.fault("exists", collection); err != nil {
		return false, err
	}
	return f.documentRepository.Exists(ctx, collection, field1, value1, field2, value2)
}

func (f *faultyRepo) Create(ctx context.Context, collection models.Collection, id string, fields map[string]any) error {
	if err := f.fault("create", collection); err != nil {
		return err
	}
	return f.documentRepository.Create(ctx, collection, id, fields)
}

func (f *faultyRepo) Set(ctx context.Context, collection models.Collection, id string, fields map[string]any) error {
	if err := f.fault("set", collection); err != nil {
		return err
	}
	return f.documentRepository.Set(ctx, collection, id, fields)
}

func (f *faultyRepo) Update(ctx context.Context, collection models.Collection, id string, fields map[string]any, version int64) error {
	if err := f.fault("update", collection); err != nil {
		return err
	}
	return f.documentRepository.Update(ctx, collection, id, fields, version)
}

func (f *faultyRepo) Delete(ctx context.Context, collection models.Collection, id string, version int64) error {
	if err := f.fault("delete", collection); err != nil {
		return err
	}
	return f.documentRepository.Delete(ctx, collection, id, version)
}

var fixedNow = time.Date(2024, time.March, 9, 6, 30, 0, 0, time.UTC)

func newMemoryRepo(t *testing.T) *repository.RecordRepository {
	t.Helper()
	store := docstore.NewMemoryStore().WithClock(func() time.Time { return fixedNow })
	return repository.NewRecordRepository(store, nil)
}

func seed(t *testing.T, repo documentRepository, collection models.Collection, id string, fields map[string]any) {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), collection, id, fields))
}

func mustGet(t *testing.T, repo documentRepository, collection models.Collection, id string) map[string]any {
	t.Helper()
	doc, err := repo.GetByID(context.Background(), collection, id)
	require.NoError(t, err)
	return doc.Data
}

func exists(t *testing.T, repo documentRepository, collection models.Collection, id string) bool {
	t.Helper()
	_, err := repo.GetByID(context.Background(), collection, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return false
	}
	require.NoError(t, err)
	return true
}

func errCode(err error) string {
	if err == nil {
		return ""
	}
	return appErrors.FromError(err).Code
}
