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

// RescueService drives the rescue report status machine.
type RescueService struct {
	repo    documentRepository
	audit   auditWriter
	metrics lifecycleMetrics
	logger  *zap.Logger
}

// NewRescueService constructs the service. audit and metrics may be nil.
func NewRescueService(repo documentRepository, audit auditWriter, metrics lifecycleMetrics, logger *zap.Logger) *RescueService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RescueService{repo: repo, audit: audit, metrics: metrics, logger: logger}
}

// SetReportStatus moves a rescue report to target after operator confirmation.
// Reaching RESCUED also stamps rescuer and rescueDate.
func (s *RescueService) SetReportStatus(ctx context.Context, id string, req models.StatusChangeRequest, actor models.Actor) (*models.StatusChangeResult, error) {
	result, err := s.setReportStatus(ctx, id, req, actor)
	if s.metrics != nil {
		s.metrics.RecordTransition("rescue", strings.ToUpper(req.Status), metricResult(err))
	}
	return result, err
}

func (s *RescueService) setReportStatus(ctx context.Context, id string, req models.StatusChangeRequest, actor models.Actor) (*models.StatusChangeResult, error) {
	if !req.Confirm {
		return nil, appErrors.Clone(appErrors.ErrConfirmationRequired, "confirm the status change to continue")
	}
	target, ok := models.ParseReportStatus(req.Status)
	if !ok || strings.TrimSpace(req.Status) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown report status %q", req.Status))
	}

	doc, err := s.repo.GetByID(ctx, models.CollectionRescue, id)
	if err != nil {
		return nil, readError(err, "Rescue request not found")
	}

	stored := docstore.StringValue(doc.Data[models.FieldReportStatus])
	current, ok := models.ParseReportStatus(stored)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, fmt.Sprintf("rescue request has unrecognised status %q", stored))
	}
	edge := models.LookupReportTransition(current, target)
	if !edge.Allowed {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, fmt.Sprintf("cannot move rescue request from %s to %s", current, target))
	}

	fields := map[string]any{
		models.FieldReportStatus: string(target),
		models.FieldStatusChange: docstore.ServerTimestamp,
		models.FieldViewed:       models.ViewedNo,
	}
	if edge.SideEffect == models.SideEffectRescueDetails {
		fields[models.FieldRescuer] = strings.TrimSpace(req.Rescuer)
		fields[models.FieldRescueDate] = docstore.ServerTimestamp
	}

	if err := s.repo.Update(ctx, models.CollectionRescue, id, fields, doc.Version); err != nil {
		s.logger.Error("failed to update report status", zap.String("id", id), zap.String("to", string(target)), zap.Error(err))
		return nil, writeError(err, "failed to update rescue request status")
	}

	newValues := map[string]any{models.FieldReportStatus: string(target)}
	if rescuer, ok := fields[models.FieldRescuer]; ok {
		newValues[models.FieldRescuer] = rescuer
	}
	emitAudit(ctx, s.audit, s.logger, actor, models.AuditActionStatusChange, string(models.CollectionRescue), id,
		map[string]any{models.FieldReportStatus: string(current)}, newValues)
	return &models.StatusChangeResult{ID: id, From: string(current), To: string(target)}, nil
}
