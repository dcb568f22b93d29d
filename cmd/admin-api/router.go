package main

import (
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/wanderpets/admin-api/internal/handler"
	internalmiddleware "github.com/wanderpets/admin-api/internal/middleware"
	"github.com/wanderpets/admin-api/internal/models"
	"github.com/wanderpets/admin-api/internal/service"
	"github.com/wanderpets/admin-api/pkg/config"
	"github.com/wanderpets/admin-api/pkg/logger"
	corsmiddleware "github.com/wanderpets/admin-api/pkg/middleware/cors"
	reqidmiddleware "github.com/wanderpets/admin-api/pkg/middleware/requestid"
)

type routerDeps struct {
	auth    internalmiddleware.TokenValidator
	admins  internalmiddleware.AuditWriter
	cache   *service.CacheService
	metrics *service.MetricsService
	checks  map[string]handler.ReadinessCheck

	Auth      *handler.AuthHandler
	Dashboard *handler.DashboardHandler
	Records   *handler.RecordHandler
	Lifecycle *handler.LifecycleHandler
	History   *handler.HistoryHandler
	Users     *handler.UserHandler
	Content   *handler.ContentHandler
	Catalog   *handler.CatalogHandler
	Media     *handler.MediaHandler
	Outbox    *handler.OutboxHandler
}

func newRouter(cfg *config.Config, logr *zap.Logger, d routerDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(d.metrics))
	r.Use(internalmiddleware.WithResponseMeta())

	probes := handler.NewMetricsHandler(d.metrics, d.checks)
	r.GET("/health", probes.Health)
	r.GET("/ready", probes.Ready)
	r.GET("/metrics", probes.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	if cfg.Blob.Driver == config.BlobDriverFS || cfg.Blob.Driver == "" {
		r.Static("/uploads", cfg.Blob.FSRoot)
	}

	api := r.Group("/" + strings.Trim(cfg.APIPrefix, "/"))

	auth := api.Group("/auth")
	auth.POST("/login", d.Auth.Login)

	secured := api.Group("")
	secured.Use(internalmiddleware.JWT(d.auth), internalmiddleware.Operators())
	secured.Use(internalmiddleware.InvalidateCache(d.cache, service.DashboardCachePattern))
	managers := internalmiddleware.Managers()

	secured.POST("/auth/logout", d.Auth.Logout)
	secured.GET("/auth/me", d.Auth.Me)

	secured.GET("/dashboard", d.Dashboard.Summary)

	records := secured.Group("/records/:collection")
	records.GET("", d.Records.ListPetRecords)
	records.GET("/:id", d.Records.GetRecord)
	records.POST("/:id/viewed", d.Records.MarkRecordViewed)
	records.DELETE("/:id", managers, d.Lifecycle.DeleteRecord)

	applications := secured.Group("/adoption-applications")
	applications.GET("", d.Records.ListApplications)
	applications.GET("/:id", d.Records.GetApplication)
	applications.POST("/:id/viewed", d.Records.MarkApplicationViewed)
	applications.PATCH("/:id/status", d.Lifecycle.SetApplicationStatus)
	applications.DELETE("/:id", managers, d.Lifecycle.DeleteApplication)

	reports := secured.Group("/rescue-reports")
	reports.GET("", d.Records.ListRescueReports)
	reports.GET("/:id", d.Records.GetRescueReport)
	reports.POST("/:id/viewed", d.Records.MarkRescueReportViewed)
	reports.PATCH("/:id/status", d.Lifecycle.SetReportStatus)
	reports.DELETE("/:id", managers, d.Lifecycle.DeleteRescueReport)

	history := secured.Group("/history")
	history.GET("", d.History.List)
	history.GET("/exports/:token", d.History.Download)
	history.GET("/:collection", d.History.ListCollection)
	history.POST("/:collection/exports", d.History.Export)
	history.DELETE("/:collection/:id", managers, d.Lifecycle.PurgeHistory)

	secured.GET("/users", d.Users.List)
	secured.GET("/users/:email", d.Users.Profile)
	secured.POST("/admins", internalmiddleware.RequireRoles(models.RoleSuperAdmin), d.Users.CreateAdmin)
	secured.GET("/audit-logs", managers, d.Users.AuditLogs)

	content := secured.Group("/content")
	content.GET("/articles", d.Content.ListArticles)
	content.POST("/articles", d.Content.PublishArticle)
	content.GET("/clinics", d.Content.ListClinics)
	content.POST("/clinics", d.Content.AddClinic)

	catalog := secured.Group("/catalog")
	catalog.GET("/breeds", d.Catalog.Breeds)
	catalog.GET("/statuses/:workflow", d.Catalog.Statuses)

	secured.POST("/media", internalmiddleware.Audit(d.admins, models.AuditActionCreate, "media"), d.Media.Upload)

	outbox := secured.Group("/outbox", managers)
	outbox.GET("", d.Outbox.Pending)
	outbox.POST("/:id/replay", d.Outbox.Replay)

	return r
}
