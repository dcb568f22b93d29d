package handler

import (
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/wanderpets/admin-api/internal/dto"
	"github.com/wanderpets/admin-api/internal/models"
	appErrors "github.com/wanderpets/admin-api/pkg/errors"
	"github.com/wanderpets/admin-api/pkg/response"
)

// CatalogHandler serves the static selection lists of the console.
type CatalogHandler struct {
	breeds map[string][]string
}

// NewCatalogHandler constructs the handler over the breed catalog.
func NewCatalogHandler(breeds map[string][]string) *CatalogHandler {
	if breeds == nil {
		breeds = models.BreedsByType
	}
	return &CatalogHandler{breeds: breeds}
}

// Breeds godoc
// @Summary Breeds per pet type
// @Tags Catalog
// @Produce json
// @Param petType query string false "Restrict to one pet type"
// @Success 200 {object} response.Envelope
// @Router /catalog/breeds [get]
func (h *CatalogHandler) Breeds(c *gin.Context) {
	petType := strings.TrimSpace(c.Query("petType"))
	if petType != "" {
		for name, breeds := range h.breeds {
			if strings.EqualFold(name, petType) {
				response.JSON(c, http.StatusOK, dto.BreedCatalogResponse{
					PetTypes: []string{name},
					Breeds:   map[string][]string{name: breeds},
				}, nil)
				return
			}
		}
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "unknown pet type"))
		return
	}
	types := make([]string, 0, len(h.breeds))
	for name := range h.breeds {
		types = append(types, name)
	}
	sort.Strings(types)
	response.JSON(c, http.StatusOK, dto.BreedCatalogResponse{PetTypes: types, Breeds: h.breeds}, nil)
}

// Statuses godoc
// @Summary Selectable statuses of a workflow
// @Tags Catalog
// @Produce json
// @Param workflow path string true "applications or rescue"
// @Success 200 {object} response.Envelope
// @Router /catalog/statuses/{workflow} [get]
func (h *CatalogHandler) Statuses(c *gin.Context) {
	var statuses []string
	switch c.Param("workflow") {
	case "applications":
		for _, s := range models.ApplicationStatuses() {
			statuses = append(statuses, string(s))
		}
	case "rescue":
		for _, s := range models.ReportStatuses() {
			statuses = append(statuses, string(s))
		}
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "unknown workflow"))
		return
	}
	response.JSON(c, http.StatusOK, dto.StatusOptionsResponse{Statuses: statuses}, nil)
}
