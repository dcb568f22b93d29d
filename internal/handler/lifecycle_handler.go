package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wanderpets/admin-api/internal/dto"
	"github.com/wanderpets/admin-api/internal/models"
	appErrors "github.com/wanderpets/admin-api/pkg/errors"
	"github.com/wanderpets/admin-api/pkg/response"
)

type applicationStatusService interface {
	SetApplicationStatus(ctx context.Context, id string, req models.StatusChangeRequest, actor models.Actor) (*models.StatusChangeResult, error)
}

type reportStatusService interface {
	SetReportStatus(ctx context.Context, id string, req models.StatusChangeRequest, actor models.Actor) (*models.StatusChangeResult, error)
}

type archiveService interface {
	ArchiveAndDelete(ctx context.Context, collection models.Collection, id string, actor models.Actor) (*models.ArchiveResult, error)
	PurgeHistory(ctx context.Context, history models.Collection, id string, actor models.Actor) error
}

// LifecycleHandler exposes status transitions, archive-on-delete and purge.
type LifecycleHandler struct {
	adoption applicationStatusService
	rescue   reportStatusService
	archive  archiveService
	messages func(models.Collection) string
}

// NewLifecycleHandler constructs the handler. messages yields the success
// notification of an archive-and-delete per collection.
func NewLifecycleHandler(adoption applicationStatusService, rescue reportStatusService, archive archiveService, messages func(models.Collection) string) *LifecycleHandler {
	return &LifecycleHandler{adoption: adoption, rescue: rescue, archive: archive, messages: messages}
}

// SetApplicationStatus godoc
// @Summary Change adoption application status
// @Tags Applications
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param payload body models.StatusChangeRequest true "Requested status"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 428 {object} response.Envelope
// @Router /adoption-applications/{id}/status [patch]
func (h *LifecycleHandler) SetApplicationStatus(c *gin.Context) {
	var req models.StatusChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}
	result, err := h.adoption.SetApplicationStatus(c.Request.Context(), c.Param("id"), req, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, fmt.Sprintf("Status updated to %s", result.To), result)
}

// SetReportStatus godoc
// @Summary Change rescue report status
// @Tags Rescue
// @Accept json
// @Produce json
// @Param id path string true "Report ID"
// @Param payload body models.StatusChangeRequest true "Requested status"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /rescue-reports/{id}/status [patch]
func (h *LifecycleHandler) SetReportStatus(c *gin.Context) {
	var req models.StatusChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}
	result, err := h.rescue.SetReportStatus(c.Request.Context(), c.Param("id"), req, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, fmt.Sprintf("Status updated to %s", result.To), result)
}

// DeleteRecord godoc
// @Summary Archive and delete a record
// @Tags Records
// @Produce json
// @Param collection path string true "missing, wandering, found, adoption"
// @Param id path string true "Record ID"
// @Param confirm query bool true "Must be true"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /records/{collection}/{id} [delete]
func (h *LifecycleHandler) DeleteRecord(c *gin.Context) {
	collection, ok := collectionParam(c)
	if !ok {
		return
	}
	h.archiveAndDelete(c, collection)
}

// DeleteApplication godoc
// @Summary Archive and delete an adoption application
// @Tags Applications
// @Produce json
// @Param id path string true "Application ID"
// @Param confirm query bool true "Must be true"
// @Success 200 {object} response.Envelope
// @Router /adoption-applications/{id} [delete]
func (h *LifecycleHandler) DeleteApplication(c *gin.Context) {
	h.archiveAndDelete(c, models.CollectionAdoptionApplication)
}

// DeleteRescueReport godoc
// @Summary Archive and delete a rescue report
// @Tags Rescue
// @Produce json
// @Param id path string true "Report ID"
// @Param confirm query bool true "Must be true"
// @Success 200 {object} response.Envelope
// @Router /rescue-reports/{id} [delete]
func (h *LifecycleHandler) DeleteRescueReport(c *gin.Context) {
	h.archiveAndDelete(c, models.CollectionRescue)
}

// PurgeHistory godoc
// @Summary Permanently delete a history entry
// @Tags History
// @Produce json
// @Param collection path string true "missingHistory, wanderingHistory or foundHistory"
// @Param id path string true "Entry ID"
// @Param confirm query bool true "Must be true"
// @Success 200 {object} response.Envelope
// @Router /history/{collection}/{id} [delete]
func (h *LifecycleHandler) PurgeHistory(c *gin.Context) {
	collection, ok := collectionParam(c)
	if !ok {
		return
	}
	if !confirmed(c) {
		return
	}
	if err := h.archive.PurgeHistory(c.Request.Context(), collection, c.Param("id"), actorFromContext(c)); err != nil {
		response.Error(c, deletionFailed(err))
		return
	}
	response.Message(c, http.StatusOK, "Record permanently deleted!", nil)
}

func (h *LifecycleHandler) archiveAndDelete(c *gin.Context, collection models.Collection) {
	if !confirmed(c) {
		return
	}
	result, err := h.archive.ArchiveAndDelete(c.Request.Context(), collection, c.Param("id"), actorFromContext(c))
	if err != nil {
		response.Error(c, deletionFailed(err))
		return
	}
	message := "Record archived and deleted successfully!"
	if h.messages != nil {
		message = h.messages(collection)
	}
	response.Message(c, http.StatusOK, message, result)
}

func confirmed(c *gin.Context) bool {
	var q dto.DeleteRecordQuery
	if !bindQuery(c, &q) {
		return false
	}
	if !q.Confirm {
		response.Error(c, appErrors.Clone(appErrors.ErrConfirmationRequired, "confirm the deletion to continue"))
		return false
	}
	return true
}

func deletionFailed(err error) error {
	appErr := appErrors.FromError(err)
	return appErrors.Wrap(err, appErr.Code, appErr.Status, "Deletion failed: "+appErr.Message)
}
