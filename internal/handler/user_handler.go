package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wanderpets/admin-api/internal/dto"
	"github.com/wanderpets/admin-api/internal/models"
	"github.com/wanderpets/admin-api/internal/service"
	appErrors "github.com/wanderpets/admin-api/pkg/errors"
	"github.com/wanderpets/admin-api/pkg/response"
)

type userService interface {
	ListUsers(ctx context.Context, q service.ListQuery) (*service.ListResult, error)
	Profile(ctx context.Context, email string) (*models.UserProfile, error)
	CreateAdmin(ctx context.Context, req service.CreateAdminRequest, actor models.Actor) (*models.UserInfo, error)
	AuditTrail(ctx context.Context, limit int) ([]models.AuditLog, error)
}

// UserHandler serves app users, console operators and the audit trail.
type UserHandler struct {
	service userService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(svc userService) *UserHandler {
	return &UserHandler{service: svc}
}

// List godoc
// @Summary List app users
// @Tags Users
// @Produce json
// @Param search query string false "Search term"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	var q dto.ListParams
	if !bindQuery(c, &q) {
		return
	}
	result, err := h.service.ListUsers(c.Request.Context(), listQuery(q, nil))
	if err != nil {
		response.Error(c, err)
		return
	}
	respondRows(c, result)
}

// Profile godoc
// @Summary Get an app user profile with registered pets
// @Tags Users
// @Produce json
// @Param email path string true "User email"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /users/{email} [get]
func (h *UserHandler) Profile(c *gin.Context) {
	profile, err := h.service.Profile(c.Request.Context(), c.Param("email"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}

// CreateAdmin godoc
// @Summary Create a console operator
// @Tags Admins
// @Accept json
// @Produce json
// @Param payload body service.CreateAdminRequest true "Admin payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admins [post]
func (h *UserHandler) CreateAdmin(c *gin.Context) {
	var req service.CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid admin payload"))
		return
	}
	info, err := h.service.CreateAdmin(c.Request.Context(), req, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, info)
}

// AuditLogs godoc
// @Summary List recent audit log entries
// @Tags Admins
// @Produce json
// @Param limit query int false "Maximum entries (default 100, max 500)"
// @Success 200 {object} response.Envelope
// @Router /audit-logs [get]
func (h *UserHandler) AuditLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	logs, err := h.service.AuditTrail(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, logs, nil)
}
