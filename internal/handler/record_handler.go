package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wanderpets/admin-api/internal/dto"
	"github.com/wanderpets/admin-api/internal/models"
	"github.com/wanderpets/admin-api/internal/service"
	appErrors "github.com/wanderpets/admin-api/pkg/errors"
	"github.com/wanderpets/admin-api/pkg/response"
)

type recordService interface {
	ListApplications(ctx context.Context, q service.ListQuery) (*service.ListResult, error)
	ListRescueReports(ctx context.Context, q service.ListQuery) (*service.ListResult, error)
	ListPetRecords(ctx context.Context, collection models.Collection, q service.ListQuery) (*service.ListResult, error)
	Get(ctx context.Context, collection models.Collection, id string) (map[string]any, error)
	MarkViewed(ctx context.Context, collection models.Collection, id string) error
}

// RecordHandler serves the console list views and record reads.
type RecordHandler struct {
	service recordService
}

// NewRecordHandler constructs the handler.
func NewRecordHandler(service recordService) *RecordHandler {
	return &RecordHandler{service: service}
}

// ListApplications godoc
// @Summary List adoption applications
// @Tags Applications
// @Produce json
// @Param search query string false "Free text search"
// @Param applicationStatus query string false "Exact status filter"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size (5 or 8)"
// @Success 200 {object} response.Envelope
// @Router /adoption-applications [get]
func (h *RecordHandler) ListApplications(c *gin.Context) {
	var q dto.ApplicationListQuery
	if !bindQuery(c, &q) {
		return
	}
	result, err := h.service.ListApplications(c.Request.Context(), listQuery(q.ListParams, q.ApplicationFilters.Filters()))
	if err != nil {
		response.Error(c, err)
		return
	}
	respondRows(c, result)
}

// ListRescueReports godoc
// @Summary List rescue reports
// @Tags Rescue
// @Produce json
// @Param search query string false "Free text search"
// @Param reportStatus query string false "Exact status filter"
// @Param page query int false "Page"
// @Success 200 {object} response.Envelope
// @Router /rescue-reports [get]
func (h *RecordHandler) ListRescueReports(c *gin.Context) {
	var q dto.RescueListQuery
	if !bindQuery(c, &q) {
		return
	}
	result, err := h.service.ListRescueReports(c.Request.Context(), listQuery(q.ListParams, q.RescueFilters.Filters()))
	if err != nil {
		response.Error(c, err)
		return
	}
	respondRows(c, result)
}

// ListPetRecords godoc
// @Summary List pet records of a collection
// @Tags Records
// @Produce json
// @Param collection path string true "missing, wandering, found, adoption or adopted"
// @Param search query string false "Free text search"
// @Param breed query string false "Exact breed filter"
// @Param petType query string false "Exact pet type filter"
// @Param page query int false "Page"
// @Success 200 {object} response.Envelope
// @Router /records/{collection} [get]
func (h *RecordHandler) ListPetRecords(c *gin.Context) {
	collection, ok := collectionParam(c)
	if !ok {
		return
	}
	var q dto.PetListQuery
	if !bindQuery(c, &q) {
		return
	}
	result, err := h.service.ListPetRecords(c.Request.Context(), collection, listQuery(q.ListParams, q.PetFilters.Filters()))
	if err != nil {
		response.Error(c, err)
		return
	}
	respondRows(c, result)
}

// GetRecord godoc
// @Summary Get a record
// @Tags Records
// @Produce json
// @Param collection path string true "Collection"
// @Param id path string true "Record ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /records/{collection}/{id} [get]
func (h *RecordHandler) GetRecord(c *gin.Context) {
	collection, ok := collectionParam(c)
	if !ok {
		return
	}
	h.get(c, collection)
}

// MarkRecordViewed godoc
// @Summary Mark a record as viewed
// @Tags Records
// @Param collection path string true "Collection"
// @Param id path string true "Record ID"
// @Success 204
// @Router /records/{collection}/{id}/viewed [post]
func (h *RecordHandler) MarkRecordViewed(c *gin.Context) {
	collection, ok := collectionParam(c)
	if !ok {
		return
	}
	h.markViewed(c, collection)
}

// GetApplication godoc
// @Summary Get an adoption application
// @Tags Applications
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} response.Envelope
// @Router /adoption-applications/{id} [get]
func (h *RecordHandler) GetApplication(c *gin.Context) {
	h.get(c, models.CollectionAdoptionApplication)
}

// MarkApplicationViewed godoc
// @Summary Mark an adoption application as viewed
// @Tags Applications
// @Param id path string true "Application ID"
// @Success 204
// @Router /adoption-applications/{id}/viewed [post]
func (h *RecordHandler) MarkApplicationViewed(c *gin.Context) {
	h.markViewed(c, models.CollectionAdoptionApplication)
}

// GetRescueReport godoc
// @Summary Get a rescue report
// @Tags Rescue
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {object} response.Envelope
// @Router /rescue-reports/{id} [get]
func (h *RecordHandler) GetRescueReport(c *gin.Context) {
	h.get(c, models.CollectionRescue)
}

// MarkRescueReportViewed godoc
// @Summary Mark a rescue report as viewed
// @Tags Rescue
// @Param id path string true "Report ID"
// @Success 204
// @Router /rescue-reports/{id}/viewed [post]
func (h *RecordHandler) MarkRescueReportViewed(c *gin.Context) {
	h.markViewed(c, models.CollectionRescue)
}

func (h *RecordHandler) get(c *gin.Context, collection models.Collection) {
	doc, err := h.service.Get(c.Request.Context(), collection, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, doc, nil)
}

func (h *RecordHandler) markViewed(c *gin.Context, collection models.Collection) {
	if c.Param("id") == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "id is required"))
		return
	}
	if err := h.service.MarkViewed(c.Request.Context(), collection, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
