package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/wanderpets/admin-api/internal/models"
	"github.com/wanderpets/admin-api/pkg/docstore"
	appErrors "github.com/wanderpets/admin-api/pkg/errors"
)

type replayScheduler interface {
	Schedule(entryID string)
}

// AdoptionService drives the adoption application status machine.
type AdoptionService struct {
	repo     documentRepository
	audit    auditWriter
	metrics  lifecycleMetrics
	replayer replayScheduler
	logger   *zap.Logger
	now      Clock
}

// NewAdoptionService constructs the service. audit and metrics may be nil.
func NewAdoptionService(repo documentRepository, audit auditWriter, metrics lifecycleMetrics, logger *zap.Logger) *AdoptionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdoptionService{repo: repo, audit: audit, metrics: metrics, logger: logger, now: utcNow}
}

// WithReplayer attaches the dispatcher that finishes interrupted snapshots.
func (s *AdoptionService) WithReplayer(r replayScheduler) *AdoptionService {
	s.replayer = r
	return s
}

// SetApplicationStatus moves an application to target after operator
// confirmation. The transition is checked against the stored status.
func (s *AdoptionService) SetApplicationStatus(ctx context.Context, id string, req models.StatusChangeRequest, actor models.Actor) (*models.StatusChangeResult, error) {
	result, err := s.setApplicationStatus(ctx, id, req, actor)
	if s.metrics != nil {
		s.metrics.RecordTransition("application", strings.ToUpper(req.Status), metricResult(err))
	}
	return result, err
}

func (s *AdoptionService) setApplicationStatus(ctx context.Context, id string, req models.StatusChangeRequest, actor models.Actor) (*models.StatusChangeResult, error) {
	if !req.Confirm {
		return nil, appErrors.Clone(appErrors.ErrConfirmationRequired, "confirm the status change to continue")
	}
	target, ok := models.ParseApplicationStatus(req.Status)
	if !ok || strings.TrimSpace(req.Status) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown application status %q", req.Status))
	}

	doc, err := s.repo.GetByID(ctx, models.CollectionAdoptionApplication, id)
	if err != nil {
		return nil, readError(err, "Application not found")
	}

	stored := docstore.StringValue(doc.Data[models.FieldApplicationStatus])
	current, ok := models.ParseApplicationStatus(stored)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, fmt.Sprintf("application has unrecognised status %q", stored))
	}
	edge := models.LookupApplicationTransition(current, target)
	if !edge.Allowed {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, fmt.Sprintf("cannot move application from %s to %s", current, target))
	}

	fields := map[string]any{
		models.FieldApplicationStatus: string(target),
		models.FieldStatusChange:      docstore.ServerTimestamp,
		models.FieldViewed:            models.ViewedNo,
	}
	if personnel := strings.TrimSpace(req.Personnel); personnel != "" {
		fields[models.FieldPersonnel] = personnel
	}

	result := &models.StatusChangeResult{ID: id, From: string(current), To: string(target)}

	if edge.SideEffect == models.SideEffectAdoptedSnapshot {
		if err := s.completeWithSnapshot(ctx, doc, fields, result); err != nil {
			return nil, err
		}
	} else if err := s.repo.Update(ctx, models.CollectionAdoptionApplication, id, fields, doc.Version); err != nil {
		s.logger.Error("failed to update application status", zap.String("id", id), zap.String("to", string(target)), zap.Error(err))
		return nil, writeError(err, "failed to update application status")
	}

	emitAudit(ctx, s.audit, s.logger, actor, models.AuditActionStatusChange, string(models.CollectionAdoptionApplication), id,
		map[string]any{models.FieldApplicationStatus: string(current)},
		map[string]any{models.FieldApplicationStatus: string(target), models.FieldPersonnel: fields[models.FieldPersonnel]})
	return result, nil
}

// completeWithSnapshot records the adopted snapshot in the outbox, commits
// the status write and then applies the snapshot.
func (s *AdoptionService) completeWithSnapshot(ctx context.Context, doc *docstore.Document, fields map[string]any, result *models.StatusChangeResult) error {
	snapshot := adoptedSnapshotFields(doc)

	entryID := models.AdoptedOutboxID(doc.ID)
	now := s.now()
	entry := models.OutboxEntry{
		ID:         entryID,
		Kind:       models.SideEffectAdoptedSnapshot,
		Collection: models.CollectionAdopted,
		TargetID:   doc.ID,
		Status:     models.OutboxPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	entryFields, err := docstore.Encode(entry)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode outbox entry")
	}
	delete(entryFields, "id")
	if err := s.repo.Set(ctx, models.CollectionOutbox, entryID, entryFields); err != nil {
		s.logger.Error("failed to record adopted outbox entry", zap.String("id", doc.ID), zap.Error(err))
		return writeError(err, "failed to record adoption side effect")
	}

	if err := s.repo.Update(ctx, models.CollectionAdoptionApplication, doc.ID, fields, doc.Version); err != nil {
		s.logger.Error("failed to complete application", zap.String("id", doc.ID), zap.Error(err))
		if delErr := s.repo.Delete(ctx, models.CollectionOutbox, entryID, 0); delErr != nil {
			s.logger.Warn("failed to drop unused outbox entry", zap.String("entry", entryID), zap.Error(delErr))
		}
		return writeError(err, "failed to update application status")
	}

	if err := s.repo.Set(ctx, models.CollectionAdopted, doc.ID, snapshot); err != nil {
		s.logger.Error("adopted snapshot write failed after status commit", zap.String("id", doc.ID), zap.Error(err))
		if markErr := s.repo.Update(ctx, models.CollectionOutbox, entryID, map[string]any{
			"lastError": err.Error(),
			"updatedAt": s.now(),
		}, 0); markErr != nil {
			s.logger.Warn("failed to annotate outbox entry", zap.String("entry", entryID), zap.Error(markErr))
		}
		if s.replayer != nil {
			s.replayer.Schedule(entryID)
		}
		return appErrors.As(appErrors.ErrPartialFailure, err, "application marked COMPLETED but the adopted record is still pending; it will be retried")
	}
	result.Adopted = true

	if err := s.repo.Update(ctx, models.CollectionOutbox, entryID, map[string]any{
		"status":    string(models.OutboxDone),
		"updatedAt": s.now(),
	}, 0); err != nil {
		s.logger.Warn("failed to close outbox entry", zap.String("entry", entryID), zap.Error(err))
	}
	return nil
}

// adoptedSnapshotFields builds the adopted record from an application document.
func adoptedSnapshotFields(doc *docstore.Document) map[string]any {
	fields := models.AdoptedSnapshot(doc.Data)
	fields[models.FieldTimestamp] = docstore.ServerTimestamp
	return fields
}
