package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/wanderpets/admin-api/internal/models"
	"github.com/wanderpets/admin-api/pkg/docstore"
	"github.com/wanderpets/admin-api/pkg/jobs"
)

const outboxJobType = "adopted_snapshot"

type outboxMetrics interface {
	RecordOutboxReplay(result string)
	SetOutboxPending(n int)
}

type jobQueue interface {
	Enqueue(job jobs.Job) error
}

// OutboxService replays recorded lifecycle side effects until they are applied.
type OutboxService struct {
	repo    documentRepository
	audit   auditWriter
	metrics outboxMetrics
	queue   jobQueue
	logger  *zap.Logger
	now     Clock
}

// NewOutboxService constructs the dispatcher. Attach a queue with WithQueue
// before scheduling.
func NewOutboxService(repo documentRepository, audit auditWriter, metrics outboxMetrics, logger *zap.Logger) *OutboxService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OutboxService{repo: repo, audit: audit, metrics: metrics, logger: logger, now: utcNow}
}

// WithQueue attaches the job queue used by Schedule.
func (s *OutboxService) WithQueue(q jobQueue) *OutboxService {
	s.queue = q
	return s
}

// Schedule enqueues an outbox entry for replay. Entries already in flight are skipped.
func (s *OutboxService) Schedule(entryID string) {
	if s.queue == nil {
		s.logger.Warn("outbox queue not configured", zap.String("entry", entryID))
		return
	}
	err := s.queue.Enqueue(jobs.Job{ID: entryID, Type: outboxJobType, Payload: entryID})
	if err != nil && !errors.Is(err, jobs.ErrDuplicate) {
		s.logger.Warn("failed to schedule outbox replay", zap.String("entry", entryID), zap.Error(err))
	}
}

// HandleJob is the jobs.Handler for outbox replays.
func (s *OutboxService) HandleJob(ctx context.Context, job jobs.Job) error {
	return s.Replay(ctx, job.ID)
}

// Replay applies one outbox entry. Applying an entry twice has the same
// effect as applying it once.
func (s *OutboxService) Replay(ctx context.Context, entryID string) error {
	entryDoc, err := s.repo.GetByID(ctx, models.CollectionOutbox, entryID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil
		}
		return err
	}
	var entry models.OutboxEntry
	if err := docstore.Decode(entryDoc, &entry); err != nil {
		return s.finish(ctx, entryID, models.OutboxDiscarded, err.Error())
	}
	if entry.Status != models.OutboxPending {
		return nil
	}
	if entry.Kind != models.SideEffectAdoptedSnapshot {
		return s.finish(ctx, entryID, models.OutboxDiscarded, fmt.Sprintf("unsupported side effect %q", entry.Kind))
	}

	app, err := s.repo.GetByID(ctx, models.CollectionAdoptionApplication, entry.TargetID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return s.finish(ctx, entryID, models.OutboxDiscarded, "application no longer exists")
		}
		return s.retry(ctx, entryID, entry.Attempts, err)
	}
	status, _ := models.ParseApplicationStatus(docstore.StringValue(app.Data[models.FieldApplicationStatus]))
	if status != models.ApplicationCompleted {
		return s.finish(ctx, entryID, models.OutboxDiscarded, fmt.Sprintf("application is %s", status))
	}

	if err := s.repo.Set(ctx, models.CollectionAdopted, entry.TargetID, adoptedSnapshotFields(app)); err != nil {
		return s.retry(ctx, entryID, entry.Attempts, err)
	}
	emitAudit(ctx, s.audit, s.logger, models.Actor{}, models.AuditActionAdoptedReplay, string(models.CollectionAdopted), entry.TargetID, nil, nil)
	return s.finish(ctx, entryID, models.OutboxDone, "")
}

func (s *OutboxService) retry(ctx context.Context, entryID string, attempts int, cause error) error {
	if s.metrics != nil {
		s.metrics.RecordOutboxReplay("retry")
	}
	if err := s.repo.Update(ctx, models.CollectionOutbox, entryID, map[string]any{
		"attempts":  attempts + 1,
		"lastError": cause.Error(),
		"updatedAt": s.now(),
	}, 0); err != nil {
		s.logger.Warn("failed to annotate outbox entry", zap.String("entry", entryID), zap.Error(err))
	}
	return cause
}

func (s *OutboxService) finish(ctx context.Context, entryID string, status models.OutboxStatus, reason string) error {
	if s.metrics != nil {
		s.metrics.RecordOutboxReplay(string(status))
	}
	fields := map[string]any{"status": string(status), "updatedAt": s.now()}
	if reason != "" {
		fields["lastError"] = reason
	}
	if status == models.OutboxDiscarded {
		s.logger.Info("outbox entry discarded", zap.String("entry", entryID), zap.String("reason", reason))
	}
	return s.repo.Update(ctx, models.CollectionOutbox, entryID, fields, 0)
}

// Pending lists outbox entries that still need replay.
func (s *OutboxService) Pending(ctx context.Context) ([]models.OutboxEntry, error) {
	docs, err := s.repo.Find(ctx, models.CollectionOutbox, docstore.Where{Field: "status", Value: string(models.OutboxPending)})
	if err != nil {
		return nil, err
	}
	entries := make([]models.OutboxEntry, 0, len(docs))
	for i := range docs {
		var entry models.OutboxEntry
		if err := docstore.Decode(&docs[i], &entry); err != nil {
			s.logger.Warn("skipping malformed outbox entry", zap.String("entry", docs[i].ID), zap.Error(err))
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// ResumePending schedules every pending entry older than minAge. Fresh
// entries belong to in-progress transitions.
func (s *OutboxService) ResumePending(ctx context.Context, minAge time.Duration) (int, error) {
	entries, err := s.Pending(ctx)
	if err != nil {
		return 0, err
	}
	if s.metrics != nil {
		s.metrics.SetOutboxPending(len(entries))
	}
	cutoff := s.now().Add(-minAge)
	scheduled := 0
	for _, entry := range entries {
		if entry.UpdatedAt.After(cutoff) {
			continue
		}
		s.Schedule(entry.ID)
		scheduled++
	}
	return scheduled, nil
}

// Run sweeps pending entries on an interval until ctx is cancelled.
func (s *OutboxService) Run(ctx context.Context, interval, minAge time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if n, err := s.ResumePending(ctx, minAge); err != nil {
			s.logger.Warn("outbox sweep failed", zap.Error(err))
		} else if n > 0 {
			s.logger.Info("outbox entries scheduled", zap.Int("count", n))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
