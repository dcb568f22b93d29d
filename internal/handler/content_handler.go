package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wanderpets/admin-api/internal/models"
	appErrors "github.com/wanderpets/admin-api/pkg/errors"
	"github.com/wanderpets/admin-api/pkg/response"
)

type contentService interface {
	PublishArticle(ctx context.Context, req models.CreateArticleRequest, actor models.Actor) (*models.Article, error)
	ListArticles(ctx context.Context) ([]models.Article, error)
	AddVetClinic(ctx context.Context, req models.CreateVetClinicRequest, actor models.Actor) (*models.VetClinic, error)
	ListVetClinics(ctx context.Context) ([]models.VetClinic, error)
}

// ContentHandler publishes articles and vet clinic listings.
type ContentHandler struct {
	service contentService
}

// NewContentHandler constructs the handler.
func NewContentHandler(service contentService) *ContentHandler {
	return &ContentHandler{service: service}
}

// ListArticles godoc
// @Summary List articles
// @Tags Content
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /content/articles [get]
func (h *ContentHandler) ListArticles(c *gin.Context) {
	articles, err := h.service.ListArticles(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, articles, nil)
}

// PublishArticle godoc
// @Summary Publish an article
// @Tags Content
// @Accept json
// @Produce json
// @Param payload body models.CreateArticleRequest true "Article"
// @Success 201 {object} response.Envelope
// @Router /content/articles [post]
func (h *ContentHandler) PublishArticle(c *gin.Context) {
	var req models.CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid article payload"))
		return
	}
	article, err := h.service.PublishArticle(c.Request.Context(), req, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusCreated, "Article published successfully!", article)
}

// ListClinics godoc
// @Summary List vet clinics
// @Tags Content
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /content/clinics [get]
func (h *ContentHandler) ListClinics(c *gin.Context) {
	clinics, err := h.service.ListVetClinics(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, clinics, nil)
}

// AddClinic godoc
// @Summary List a vet clinic
// @Tags Content
// @Accept json
// @Produce json
// @Param payload body models.CreateVetClinicRequest true "Clinic"
// @Success 201 {object} response.Envelope
// @Router /content/clinics [post]
func (h *ContentHandler) AddClinic(c *gin.Context) {
	var req models.CreateVetClinicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid clinic payload"))
		return
	}
	clinic, err := h.service.AddVetClinic(c.Request.Context(), req, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusCreated, "Clinic added successfully!", clinic)
}
