package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wanderpets/admin-api/internal/models"
	"github.com/wanderpets/admin-api/pkg/response"
)

type outboxService interface {
	Pending(ctx context.Context) ([]models.OutboxEntry, error)
	Schedule(entryID string)
}

// OutboxHandler exposes pending lifecycle side effects to operators.
type OutboxHandler struct {
	service outboxService
}

// NewOutboxHandler constructs the handler.
func NewOutboxHandler(service outboxService) *OutboxHandler {
	return &OutboxHandler{service: service}
}

// Pending godoc
// @Summary List pending side effects
// @Tags Outbox
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /outbox [get]
func (h *OutboxHandler) Pending(c *gin.Context) {
	entries, err := h.service.Pending(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// Replay godoc
// @Summary Schedule replay of a pending side effect
// @Tags Outbox
// @Param id path string true "Outbox entry ID"
// @Success 202 {object} response.Envelope
// @Router /outbox/{id}/replay [post]
func (h *OutboxHandler) Replay(c *gin.Context) {
	h.service.Schedule(c.Param("id"))
	response.Message(c, http.StatusAccepted, "Replay scheduled", gin.H{"id": c.Param("id")})
}
