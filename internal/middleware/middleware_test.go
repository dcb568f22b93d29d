package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderpets/admin-api/internal/models"
	appErrors "github.com/wanderpets/admin-api/pkg/errors"
	reqidmiddleware "github.com/wanderpets/admin-api/pkg/middleware/requestid"
)

type stubValidator struct {
	claims *models.JWTClaims
	err    error
	token  string
}

func (s *stubValidator) ValidateToken(ctx context.Context, token string) (*models.JWTClaims, error) {
	s.token = token
	return s.claims, s.err
}

type stubAudit struct {
	logs []*models.AuditLog
}

func (s *stubAudit) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	s.logs = append(s.logs, log)
	return nil
}

type stubInvalidator struct {
	patterns []string
}

func (s *stubInvalidator) Invalidate(ctx context.Context, pattern string) {
	s.patterns = append(s.patterns, pattern)
}

type stubObserver struct {
	paths []string
}

func (s *stubObserver) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	s.paths = append(s.paths, method+" "+path)
}

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, method, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTRejectsMissingAndMalformedHeaders(t *testing.T) {
	validator := &stubValidator{claims: &models.JWTClaims{UserID: "a1"}}
	r := gin.New()
	r.GET("/me", JWT(validator), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/me", "Token abc").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/me", "Bearer ").Code)
	assert.Empty(t, validator.token)
}

func TestJWTStoresClaims(t *testing.T) {
	validator := &stubValidator{claims: &models.JWTClaims{UserID: "a1", Role: models.RoleAdmin}}
	r := gin.New()
	r.GET("/me", JWT(validator), func(c *gin.Context) {
		claims, ok := CurrentClaims(c)
		require.True(t, ok)
		c.String(http.StatusOK, claims.UserID)
	})

	w := serve(r, http.MethodGet, "/me", "bearer tok-1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "a1", w.Body.String())
	assert.Equal(t, "tok-1", validator.token)
}

func TestJWTPropagatesValidatorError(t *testing.T) {
	validator := &stubValidator{err: appErrors.Clone(appErrors.ErrUnauthorized, "session expired")}
	r := gin.New()
	r.GET("/me", JWT(validator), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodGet, "/me", "Bearer tok")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "session expired")
}

func TestRBAC(t *testing.T) {
	withRole := func(role models.UserRole) gin.HandlerFunc {
		return func(c *gin.Context) {
			if role != "" {
				c.Set(ContextUserKey, &models.JWTClaims{UserID: "u", Role: role})
			}
		}
	}
	cases := []struct {
		role models.UserRole
		want int
	}{
		{models.RoleSuperAdmin, http.StatusOK},
		{models.RoleAdmin, http.StatusOK},
		{models.RoleStaff, http.StatusForbidden},
		{"", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		r := gin.New()
		r.DELETE("/records", withRole(tc.role), Managers(), func(c *gin.Context) { c.Status(http.StatusOK) })
		assert.Equal(t, tc.want, serve(r, http.MethodDelete, "/records", "").Code, string(tc.role))
	}
}

func TestAuditRecordsSuccessfulRequests(t *testing.T) {
	audit := &stubAudit{}
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set(ContextUserKey, &models.JWTClaims{UserID: "admin-1"}) })
	r.POST("/ok/:id", Audit(audit, models.AuditActionPublish, "article"), func(c *gin.Context) { c.Status(http.StatusCreated) })
	r.POST("/fail/:id", Audit(audit, models.AuditActionPublish, "article"), func(c *gin.Context) { c.Status(http.StatusBadRequest) })

	serve(r, http.MethodPost, "/ok/x1", "")
	serve(r, http.MethodPost, "/fail/x2", "")

	require.Len(t, audit.logs, 1)
	log := audit.logs[0]
	assert.Equal(t, "admin-1", *log.UserID)
	assert.Equal(t, "x1", *log.ResourceID)
	assert.Equal(t, "/ok/:id", log.NewValues["path"])
}

func TestInvalidateCacheOnlyAfterSuccessfulWrites(t *testing.T) {
	inv := &stubInvalidator{}
	r := gin.New()
	r.Use(InvalidateCache(inv, "dashboard:*"))
	r.GET("/read", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.PATCH("/write", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.PATCH("/broken", func(c *gin.Context) { c.Status(http.StatusConflict) })

	serve(r, http.MethodGet, "/read", "")
	serve(r, http.MethodPatch, "/broken", "")
	assert.Empty(t, inv.patterns)

	serve(r, http.MethodPatch, "/write", "")
	assert.Equal(t, []string{"dashboard:*"}, inv.patterns)
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	observer := &stubObserver{}
	r := gin.New()
	r.Use(Metrics(observer))
	r.GET("/records/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(r, http.MethodGet, "/records/abc", "")
	serve(r, http.MethodGet, "/nowhere", "")
	assert.Equal(t, []string{"GET /records/:id", "GET unmatched"}, observer.paths)
}

func TestResponseMetaRecordsCacheHit(t *testing.T) {
	var meta map[string]interface{}
	r := gin.New()
	r.Use(WithResponseMeta())
	r.GET("/", func(c *gin.Context) {
		SetCacheHit(c, true)
		meta = ExtractMeta(c)
		c.Status(http.StatusOK)
	})

	serve(r, http.MethodGet, "/", "")
	assert.Equal(t, true, meta[cacheHitKey])
	_, timed := meta[processingKey]
	assert.True(t, timed)
}

func TestResponseMetaCarriesRequestID(t *testing.T) {
	var meta map[string]interface{}
	r := gin.New()
	r.Use(reqidmiddleware.Middleware(), WithResponseMeta())
	r.GET("/", func(c *gin.Context) {
		meta = ExtractMeta(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-42")
	r.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "req-42", meta[requestIDKey])
}
