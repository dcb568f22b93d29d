package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/wanderpets/admin-api/internal/models"
	"github.com/wanderpets/admin-api/pkg/docstore"
	appErrors "github.com/wanderpets/admin-api/pkg/errors"
)

// ArchiveService moves records into their history collection on delete and
// purges pet history entries.
type ArchiveService struct {
	repo    documentRepository
	audit   auditWriter
	metrics lifecycleMetrics
	logger  *zap.Logger
	now     Clock
}

// NewArchiveService constructs the service. audit and metrics may be nil.
func NewArchiveService(repo documentRepository, audit auditWriter, metrics lifecycleMetrics, logger *zap.Logger) *ArchiveService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ArchiveService{repo: repo, audit: audit, metrics: metrics, logger: logger, now: utcNow}
}

// WithClock overrides the archival clock.
func (s *ArchiveService) WithClock(now Clock) *ArchiveService {
	s.now = now
	return s
}

func subjectLabel(collection models.Collection) string {
	switch collection {
	case models.CollectionAdoptionApplication:
		return "application"
	case models.CollectionRescue:
		return "rescue request"
	default:
		return "record"
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

// ArchiveAndDelete copies the record into <collection>History and deletes
// the source. A (collection, id) pair is archived at most once.
func (s *ArchiveService) ArchiveAndDelete(ctx context.Context, collection models.Collection, id string, actor models.Actor) (*models.ArchiveResult, error) {
	result, err := s.archiveAndDelete(ctx, collection, id, actor)
	if s.metrics != nil {
		s.metrics.RecordArchive(string(collection), metricResult(err))
	}
	return result, err
}

func (s *ArchiveService) archiveAndDelete(ctx context.Context, collection models.Collection, id string, actor models.Actor) (*models.ArchiveResult, error) {
	if !collection.Archivable() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("collection %q cannot be archived", collection))
	}
	label := subjectLabel(collection)
	history := collection.History()

	source, err := s.repo.GetByID(ctx, collection, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			// A repeated delete of an archived record reports the duplicate.
			if archived, exErr := s.archived(ctx, history, collection, id); exErr == nil && archived {
				return nil, appErrors.Clone(appErrors.ErrAlreadyArchived, fmt.Sprintf("This %s already exists in history", label))
			}
		}
		return nil, readError(err, capitalize(label)+" not found")
	}

	archived, err := s.archived(ctx, history, collection, id)
	if err != nil {
		s.logger.Error("history lookup failed", zap.String("collection", string(collection)), zap.String("id", id), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check history")
	}
	if archived {
		return nil, appErrors.Clone(appErrors.ErrAlreadyArchived, fmt.Sprintf("This %s already exists in history", label))
	}

	now := s.now()
	entry := models.NewHistoryFields(source.Data, collection, id, now)
	if err := s.repo.Create(ctx, history, id, entry); err != nil {
		if errors.Is(err, docstore.ErrAlreadyExists) {
			return nil, appErrors.As(appErrors.ErrAlreadyArchived, err, fmt.Sprintf("This %s already exists in history", label))
		}
		s.logger.Error("history insert failed", zap.String("collection", string(history)), zap.String("id", id), zap.Error(err))
		return nil, appErrors.As(appErrors.ErrWriteFailed, err, "failed to write history entry")
	}

	if err := s.repo.Delete(ctx, collection, id, source.Version); err != nil {
		s.logger.Error("source delete failed after archival", zap.String("collection", string(collection)), zap.String("id", id), zap.Error(err))
		return nil, appErrors.As(appErrors.ErrPartialFailure, err, fmt.Sprintf("%s archived but the original could not be deleted", capitalize(label)))
	}

	emitAudit(ctx, s.audit, s.logger, actor, models.AuditActionArchive, string(collection), id, nil,
		map[string]any{"history": string(history), models.FieldDeletedAt: entry[models.FieldDeletedAt]})

	return &models.ArchiveResult{
		Collection: collection,
		ID:         id,
		HistoryID:  id,
		DeletedAt:  entry[models.FieldDeletedAt].(string),
	}, nil
}

func (s *ArchiveService) archived(ctx context.Context, history, collection models.Collection, id string) (bool, error) {
	return s.repo.Exists(ctx, history, models.FieldOriginalID, id, models.FieldOriginalCollection, string(collection))
}

// SuccessMessage is the operator notification for a completed archive.
func SuccessMessage(collection models.Collection) string {
	switch collection {
	case models.CollectionAdoptionApplication:
		return "Application archived and deleted successfully!"
	case models.CollectionRescue:
		return "Rescue request archived and deleted successfully!"
	default:
		return "Record archived and deleted successfully!"
	}
}

// PurgeHistory hard deletes an entry of a pet history collection.
func (s *ArchiveService) PurgeHistory(ctx context.Context, history models.Collection, id string, actor models.Actor) error {
	if !history.Purgeable() {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("entries of %q cannot be purged", history))
	}
	if err := s.repo.Delete(ctx, history, id, 0); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return appErrors.As(appErrors.ErrNotFound, err, "History entry not found")
		}
		s.logger.Error("history purge failed", zap.String("collection", string(history)), zap.String("id", id), zap.Error(err))
		return appErrors.As(appErrors.ErrWriteFailed, err, "failed to delete history entry")
	}
	emitAudit(ctx, s.audit, s.logger, actor, models.AuditActionPurge, string(history), id, nil, nil)
	return nil
}
