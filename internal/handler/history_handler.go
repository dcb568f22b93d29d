package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/wanderpets/admin-api/internal/dto"
	"github.com/wanderpets/admin-api/internal/models"
	"github.com/wanderpets/admin-api/internal/service"
	appErrors "github.com/wanderpets/admin-api/pkg/errors"
	"github.com/wanderpets/admin-api/pkg/export"
	"github.com/wanderpets/admin-api/pkg/response"
)

type historyService interface {
	ListHistory(ctx context.Context, q service.ListQuery) (*service.ListResult, error)
	ListHistoryCollection(ctx context.Context, history models.Collection, q service.ListQuery) (*service.ListResult, error)
}

type exportService interface {
	ExportHistory(ctx context.Context, history models.Collection, format export.Format, q service.ListQuery, actor models.Actor) (*service.ExportResult, error)
	Open(token string) (*service.ExportDownload, error)
}

// HistoryHandler serves archived records and their exports.
type HistoryHandler struct {
	records historyService
	exports exportService
}

// NewHistoryHandler constructs the handler.
func NewHistoryHandler(records historyService, exports exportService) *HistoryHandler {
	return &HistoryHandler{records: records, exports: exports}
}

// List godoc
// @Summary List archived pet records
// @Description Merges missingHistory, wanderingHistory and foundHistory newest first
// @Tags History
// @Produce json
// @Param search query string false "Free text search"
// @Param page query int false "Page"
// @Success 200 {object} response.Envelope
// @Router /history [get]
func (h *HistoryHandler) List(c *gin.Context) {
	var q dto.PetListQuery
	if !bindQuery(c, &q) {
		return
	}
	result, err := h.records.ListHistory(c.Request.Context(), listQuery(q.ListParams, q.PetFilters.Filters()))
	if err != nil {
		response.Error(c, err)
		return
	}
	respondRows(c, result)
}

// ListCollection godoc
// @Summary List one history collection
// @Tags History
// @Produce json
// @Param collection path string true "History collection"
// @Success 200 {object} response.Envelope
// @Router /history/{collection} [get]
func (h *HistoryHandler) ListCollection(c *gin.Context) {
	collection, ok := collectionParam(c)
	if !ok {
		return
	}
	var q dto.PetListQuery
	if !bindQuery(c, &q) {
		return
	}
	result, err := h.records.ListHistoryCollection(c.Request.Context(), collection, listQuery(q.ListParams, q.PetFilters.Filters()))
	if err != nil {
		response.Error(c, err)
		return
	}
	respondRows(c, result)
}

// Export godoc
// @Summary Export a history collection
// @Tags History
// @Accept json
// @Produce json
// @Param collection path string true "History collection"
// @Param payload body dto.ExportHistoryRequest false "Format (csv or pdf)"
// @Success 201 {object} response.Envelope
// @Router /history/{collection}/exports [post]
func (h *HistoryHandler) Export(c *gin.Context) {
	if h.exports == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "export service not configured"))
		return
	}
	collection, ok := collectionParam(c)
	if !ok {
		return
	}
	var req dto.ExportHistoryRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export payload"))
			return
		}
	}
	if req.Format == "" {
		req.Format = c.Query("format")
	}
	format, err := export.ParseFormat(req.Format)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, err.Error()))
		return
	}
	result, err := h.exports.ExportHistory(c.Request.Context(), collection, format, service.ListQuery{Search: req.Search}, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, result, nil)
}

// Download godoc
// @Summary Download an export through its signed link
// @Tags History
// @Produce octet-stream
// @Param token path string true "Signed token"
// @Success 200 {file} binary
// @Router /history/exports/{token} [get]
func (h *HistoryHandler) Download(c *gin.Context) {
	if h.exports == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "export service not configured"))
		return
	}
	token := strings.TrimSpace(c.Param("token"))
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}
	result, err := h.exports.Open(token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer result.File.Close() //nolint:errcheck
	info, err := result.File.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read export"))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", result.Filename))
	c.Header("Cache-Control", "no-store")
	c.DataFromReader(http.StatusOK, info.Size(), result.ContentType, result.File, nil)
}
