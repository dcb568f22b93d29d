package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/wanderpets/admin-api/internal/models"
	"github.com/wanderpets/admin-api/pkg/docstore"
	appErrors "github.com/wanderpets/admin-api/pkg/errors"
)

// documentRepository is the record repository surface used by the lifecycle engine.
type documentRepository interface {
	GetByID(ctx context.Context, collection models.Collection, id string) (*docstore.Document, error)
	List(ctx context.Context, collection models.Collection, orderBy string, direction docstore.Direction) ([]docstore.Document, error)
	Find(ctx context.Context, collection models.Collection, where ...docstore.Where) ([]docstore.Document, error)
	Exists(ctx context.Context, collection models.Collection, field1, value1, field2, value2 string) (bool, error)
	Create(ctx context.Context, collection models.Collection, id string, fields map[string]any) error
	Set(ctx context.Context, collection models.Collection, id string, fields map[string]any) error
	Update(ctx context.Context, collection models.Collection, id string, fields map[string]any, version int64) error
	Delete(ctx context.Context, collection models.Collection, id string, version int64) error
}

type auditWriter interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

type lifecycleMetrics interface {
	RecordTransition(machine, to, result string)
	RecordArchive(collection, result string)
}

// Clock returns the current time.
type Clock func() time.Time

func utcNow() time.Time { return time.Now().UTC() }

func emitAudit(ctx context.Context, repo auditWriter, logger *zap.Logger, actor models.Actor, action, resource, resourceID string, oldValues, newValues map[string]any) {
	if repo == nil {
		return
	}
	entry := &models.AuditLog{
		Action:    action,
		Resource:  resource,
		OldValues: oldValues,
		NewValues: newValues,
		IPAddress: actor.IP,
		UserAgent: actor.UserAgent,
	}
	if actor.UserID != "" {
		uid := actor.UserID
		entry.UserID = &uid
	}
	if resourceID != "" {
		rid := resourceID
		entry.ResourceID = &rid
	}
	if err := repo.CreateAuditLog(ctx, entry); err != nil {
		logger.Warn("failed to record audit log", zap.String("action", action), zap.Error(err))
	}
}

// readError maps a failed read onto the operation error kinds.
func readError(err error, notFoundMessage string) error {
	if errors.Is(err, docstore.ErrNotFound) {
		return appErrors.As(appErrors.ErrNotFound, err, notFoundMessage)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read document store")
}

// writeError maps a failed write onto the operation error kinds.
func writeError(err error, message string) error {
	switch {
	case errors.Is(err, docstore.ErrVersionConflict):
		return appErrors.As(appErrors.ErrVersionConflict, err, "record was changed by someone else, reload and try again")
	case errors.Is(err, docstore.ErrNotFound):
		return appErrors.As(appErrors.ErrNotFound, err, "record no longer exists")
	}
	return appErrors.As(appErrors.ErrWriteFailed, err, message)
}

func metricResult(err error) string {
	if err == nil {
		return "ok"
	}
	if e := appErrors.FromError(err); e != nil {
		return e.Code
	}
	return "error"
}
