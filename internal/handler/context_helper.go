package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wanderpets/admin-api/internal/dto"
	"github.com/wanderpets/admin-api/internal/listview"
	"github.com/wanderpets/admin-api/internal/middleware"
	"github.com/wanderpets/admin-api/internal/models"
	"github.com/wanderpets/admin-api/internal/service"
	appErrors "github.com/wanderpets/admin-api/pkg/errors"
	"github.com/wanderpets/admin-api/pkg/response"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		return nil
	}
	return claims
}

func actorFromContext(c *gin.Context) models.Actor {
	actor := models.Actor{IP: c.ClientIP(), UserAgent: c.GetHeader("User-Agent")}
	if claims := claimsFromContext(c); claims != nil {
		actor.UserID = claims.UserID
		actor.Email = claims.Email
	}
	return actor
}

func listQuery(p dto.ListParams, filters []listview.FieldFilter) service.ListQuery {
	return service.ListQuery{Search: p.Search, Filters: filters, Page: p.Page, PageSize: p.PageSize}
}

func bindQuery(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindQuery(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query parameters"))
		return false
	}
	return true
}

func collectionParam(c *gin.Context) (models.Collection, bool) {
	collection, ok := models.ParseCollection(c.Param("collection"))
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown collection"))
		return "", false
	}
	return collection, true
}

func respondRows(c *gin.Context, result *service.ListResult) {
	pagination := result.Pagination
	response.JSON(c, http.StatusOK, dto.RowsResponse{Rows: result.Rows}, &pagination)
}
