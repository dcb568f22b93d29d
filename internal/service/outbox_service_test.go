package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wanderpets/admin-api/internal/models"
	"github.com/wanderpets/admin-api/pkg/docstore"
	"github.com/wanderpets/admin-api/pkg/jobs"
)

type recordingQueue struct {
	jobs []jobs.Job
	err  error
}

func (q *recordingQueue) Enqueue(job jobs.Job) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

func seedOutboxEntry(t *testing.T, repo documentRepository, targetID string, updatedAt time.Time) string {
	t.Helper()
	entry := models.OutboxEntry{
		ID:         models.AdoptedOutboxID(targetID),
		Kind:       models.SideEffectAdoptedSnapshot,
		Collection: models.CollectionAdopted,
		TargetID:   targetID,
		Status:     models.OutboxPending,
		CreatedAt:  updatedAt,
		UpdatedAt:  updatedAt,
	}
	fields, err := docstore.Encode(entry)
	require.NoError(t, err)
	delete(fields, "id")
	seed(t, repo, models.CollectionOutbox, entry.ID, fields)
	return entry.ID
}

func TestOutboxServiceReplayWritesSnapshotOnce(t *testing.T) {
	repo := newMemoryRepo(t)
	audit := &recordingAudit{}
	metrics := &recordingMetrics{}
	svc := NewOutboxService(repo, audit, metrics, zap.NewNop())
	seedApplication(t, repo, "a1", "COMPLETED")
	entryID := seedOutboxEntry(t, repo, "a1", fixedNow)

	require.NoError(t, svc.Replay(context.Background(), entryID))
	require.NoError(t, svc.Replay(context.Background(), entryID))

	assert.Equal(t, "Bantay", mustGet(t, repo, models.CollectionAdopted, "a1")["name"])
	assert.Equal(t, string(models.OutboxDone), mustGet(t, repo, models.CollectionOutbox, entryID)["status"])
	assert.Equal(t, []string{models.AuditActionAdoptedReplay}, audit.actions())
	assert.Equal(t, []string{string(models.OutboxDone)}, metrics.replays)
}

func TestOutboxServiceReplayKeepsSingleURLDocuments(t *testing.T) {
	repo := newMemoryRepo(t)
	svc := NewOutboxService(repo, nil, nil, nil)
	seed(t, repo, models.CollectionAdoptionApplication, "a2", map[string]any{
		"name":                        "Whitey",
		"homePhotos":                  "https://cdn.example.com/home.png",
		"validID":                     []any{"https://cdn.example.com/id.png"},
		models.FieldApplicationStatus: "COMPLETED",
	})
	entryID := seedOutboxEntry(t, repo, "a2", fixedNow)

	require.NoError(t, svc.Replay(context.Background(), entryID))

	adopted := mustGet(t, repo, models.CollectionAdopted, "a2")
	assert.Equal(t, "https://cdn.example.com/home.png", adopted["homePhotos"])
	assert.Equal(t, string(models.OutboxDone), mustGet(t, repo, models.CollectionOutbox, entryID)["status"])
}

func TestOutboxServiceDiscardsWhenApplicationNotCompleted(t *testing.T) {
	repo := newMemoryRepo(t)
	svc := NewOutboxService(repo, nil, nil, nil)
	seedApplication(t, repo, "a1", "APPROVED")
	entryID := seedOutboxEntry(t, repo, "a1", fixedNow)

	require.NoError(t, svc.Replay(context.Background(), entryID))

	entry := mustGet(t, repo, models.CollectionOutbox, entryID)
	assert.Equal(t, string(models.OutboxDiscarded), entry["status"])
	assert.Equal(t, "application is APPROVED", entry["lastError"])
	assert.False(t, exists(t, repo, models.CollectionAdopted, "a1"))
}

func TestOutboxServiceDiscardsWhenApplicationDeleted(t *testing.T) {
	repo := newMemoryRepo(t)
	svc := NewOutboxService(repo, nil, nil, nil)
	entryID := seedOutboxEntry(t, repo, "gone", fixedNow)

	require.NoError(t, svc.Replay(context.Background(), entryID))
	assert.Equal(t, string(models.OutboxDiscarded), mustGet(t, repo, models.CollectionOutbox, entryID)["status"])
}

func TestOutboxServiceReplayFailureCountsAttempt(t *testing.T) {
	inner := newMemoryRepo(t)
	repo := newFaultyRepo(inner)
	metrics := &recordingMetrics{}
	svc := NewOutboxService(repo, nil, metrics, nil)
	seedApplication(t, inner, "a1", "COMPLETED")
	entryID := seedOutboxEntry(t, inner, "a1", fixedNow)
	repo.failOn("set", models.CollectionAdopted, errInjected)

	err := svc.Replay(context.Background(), entryID)
	require.ErrorIs(t, err, errInjected)

	entry := mustGet(t, inner, models.CollectionOutbox, entryID)
	assert.Equal(t, string(models.OutboxPending), entry["status"])
	assert.Equal(t, float64(1), entry["attempts"])
	assert.Equal(t, []string{"retry"}, metrics.replays)
}

func TestOutboxServiceReplayUnknownEntryIsNoop(t *testing.T) {
	svc := NewOutboxService(newMemoryRepo(t), nil, nil, nil)
	assert.NoError(t, svc.Replay(context.Background(), "adopted_nobody"))
}

func TestOutboxServiceResumePendingSkipsFreshEntries(t *testing.T) {
	repo := newMemoryRepo(t)
	queue := &recordingQueue{}
	metrics := &recordingMetrics{}
	svc := NewOutboxService(repo, nil, metrics, nil).WithQueue(queue)
	svc.now = func() time.Time { return fixedNow }

	stale := seedOutboxEntry(t, repo, "old", fixedNow.Add(-10*time.Minute))
	seedOutboxEntry(t, repo, "new", fixedNow.Add(-5*time.Second))

	n, err := svc.ResumePending(context.Background(), time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 2, metrics.pending)
	require.Len(t, queue.jobs, 1)
	assert.Equal(t, stale, queue.jobs[0].ID)
}

func TestOutboxServiceScheduleIgnoresDuplicates(t *testing.T) {
	queue := &recordingQueue{err: jobs.ErrDuplicate}
	svc := NewOutboxService(newMemoryRepo(t), nil, nil, nil).WithQueue(queue)

	svc.Schedule("adopted_a1")
	assert.Empty(t, queue.jobs)
}

func TestOutboxServiceRunsThroughQueue(t *testing.T) {
	repo := newMemoryRepo(t)
	svc := NewOutboxService(repo, nil, nil, nil)
	queue := jobs.NewQueue("outbox-test", svc.HandleJob, jobs.QueueConfig{Workers: 1, RetryDelay: 10 * time.Millisecond})
	svc.WithQueue(queue)
	queue.Start(context.Background())
	defer queue.Stop()

	seedApplication(t, repo, "a1", "COMPLETED")
	entryID := seedOutboxEntry(t, repo, "a1", fixedNow)
	svc.Schedule(entryID)

	require.Eventually(t, func() bool {
		doc, err := repo.GetByID(context.Background(), models.CollectionOutbox, entryID)
		return err == nil && doc.Data["status"] == string(models.OutboxDone)
	}, time.Second, 10*time.Millisecond)
	assert.True(t, exists(t, repo, models.CollectionAdopted, "a1"))
}
