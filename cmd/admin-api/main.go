package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/wanderpets/admin-api/api/swagger"
	"github.com/wanderpets/admin-api/internal/handler"
	"github.com/wanderpets/admin-api/internal/repository"
	"github.com/wanderpets/admin-api/internal/service"
	"github.com/wanderpets/admin-api/pkg/cache"
	"github.com/wanderpets/admin-api/pkg/config"
	"github.com/wanderpets/admin-api/pkg/database"
	"github.com/wanderpets/admin-api/pkg/docstore"
	"github.com/wanderpets/admin-api/pkg/jobs"
	"github.com/wanderpets/admin-api/pkg/logger"
	"github.com/wanderpets/admin-api/pkg/storage"
)

// @title WanderPets Admin API
// @version 1.0.0
// @description Record lifecycle and archival workflow of the WanderPets admin console
// @BasePath /api/v1
// @schemes http https

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, db, err := openStore(ctx, cfg)
	if err != nil {
		logr.Fatal("failed to open document store", zap.String("driver", cfg.DocStore.Driver), zap.Error(err))
	}
	defer store.Close() //nolint:errcheck

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Fatal("failed to connect redis", zap.Error(err))
		}
		defer redisClient.Close() //nolint:errcheck
	}

	blobs, err := openBlobStore(ctx, cfg)
	if err != nil {
		logr.Fatal("failed to init blob store", zap.String("driver", cfg.Blob.Driver), zap.Error(err))
	}
	exportFiles, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Fatal("failed to init export storage", zap.Error(err))
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	records := repository.NewRecordRepository(store, metricsSvc)
	admins := repository.NewAdminRepository(store)
	sessions := repository.NewSessionRepository(redisClient, logger.Named(logr, "sessions"))

	var cacheRepo service.CacheRepository
	if redisClient != nil {
		cacheRepo = repository.NewCacheRepository(redisClient)
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, 30*time.Second, logger.Named(logr, "cache"))

	authSvc := service.NewAuthService(admins, sessions, validate, logger.Named(logr, "auth"), service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	if created, err := authSvc.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.Name); err != nil {
		logr.Fatal("failed to bootstrap admin", zap.Error(err))
	} else if created {
		logr.Info("bootstrap admin created", zap.String("email", cfg.Admin.Email))
	}

	outboxSvc := service.NewOutboxService(records, admins, metricsSvc, logger.Named(logr, "outbox"))
	outboxQueue := jobs.NewQueue("lifecycle-outbox", outboxSvc.HandleJob, jobs.QueueConfig{
		Workers:    cfg.Outbox.Workers,
		MaxRetries: cfg.Outbox.MaxRetries,
		RetryDelay: cfg.Outbox.RetryDelay,
		Logger:     logger.Named(logr, "jobs"),
	})
	outboxSvc.WithQueue(outboxQueue)
	outboxQueue.Start(ctx)
	defer outboxQueue.Stop()

	adoptionSvc := service.NewAdoptionService(records, admins, metricsSvc, logger.Named(logr, "adoption")).WithReplayer(outboxSvc)
	rescueSvc := service.NewRescueService(records, admins, metricsSvc, logger.Named(logr, "rescue"))
	archiveSvc := service.NewArchiveService(records, admins, metricsSvc, logger.Named(logr, "archive"))
	recordSvc := service.NewRecordService(records, cfg.Lists.PageSize, logger.Named(logr, "records"))
	dashboardSvc := service.NewDashboardService(records, cacheSvc, logger.Named(logr, "dashboard"))
	userSvc := service.NewUserService(records, admins, validate, cfg.Lists.PageSize, logger.Named(logr, "users"))
	contentSvc := service.NewContentService(records, admins, validate, logger.Named(logr, "content"))
	mediaSvc := service.NewMediaService(blobs, service.MediaConfig{
		MaxFileSizeBytes: cfg.Media.MaxFileSizeBytes,
		AllowedMIMEs:     cfg.Media.AllowedMIMEs,
	}, logger.Named(logr, "media"))
	exportSvc := service.NewExportService(records, exportFiles,
		storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL), admins,
		service.ExportConfig{APIPrefix: cfg.APIPrefix, ResultTTL: cfg.Exports.SignedURLTTL}, logger.Named(logr, "exports"))

	go outboxSvc.Run(ctx, cfg.Outbox.SweepInterval, 30*time.Second)
	go exportSvc.RunCleanup(ctx, cfg.Exports.CleanupInterval)

	checks := map[string]handler.ReadinessCheck{}
	if db != nil {
		checks["docstore"] = db.PingContext
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	r := newRouter(cfg, logr, routerDeps{
		auth:      authSvc,
		admins:    admins,
		cache:     cacheSvc,
		metrics:   metricsSvc,
		checks:    checks,
		Auth:      handler.NewAuthHandler(authSvc),
		Dashboard: handler.NewDashboardHandler(dashboardSvc),
		Records:   handler.NewRecordHandler(recordSvc),
		Lifecycle: handler.NewLifecycleHandler(adoptionSvc, rescueSvc, archiveSvc, service.SuccessMessage),
		History:   handler.NewHistoryHandler(recordSvc, exportSvc),
		Users:     handler.NewUserHandler(userSvc),
		Content:   handler.NewContentHandler(contentSvc),
		Catalog:   handler.NewCatalogHandler(nil),
		Media:     handler.NewMediaHandler(mediaSvc, cfg.Media.MaxFileSizeBytes),
		Outbox:    handler.NewOutboxHandler(outboxSvc),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "docstore", cfg.DocStore.Driver)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func openStore(ctx context.Context, cfg *config.Config) (docstore.Store, *sqlx.DB, error) {
	if cfg.DocStore.Driver == config.DriverMemory {
		return docstore.NewMemoryStore(), nil, nil
	}
	db, err := database.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	dialect := docstore.Postgres
	if cfg.DocStore.Driver == config.DriverSQLite {
		dialect = docstore.SQLite
	}
	store := docstore.NewSQLStore(db, dialect)
	if err := store.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return store, db, nil
}

func openBlobStore(ctx context.Context, cfg *config.Config) (storage.BlobStore, error) {
	switch cfg.Blob.Driver {
	case config.BlobDriverS3:
		return storage.NewS3Store(ctx, storage.S3Options{
			Bucket:          cfg.Blob.S3.Bucket,
			Region:          cfg.Blob.S3.Region,
			Endpoint:        cfg.Blob.S3.Endpoint,
			AccessKeyID:     cfg.Blob.S3.AccessKeyID,
			SecretAccessKey: cfg.Blob.S3.SecretAccessKey,
			PathStyle:       cfg.Blob.S3.PathStyle,
			PublicBaseURL:   cfg.Blob.PublicBaseURL,
		})
	case config.BlobDriverFS, "":
		local, err := storage.NewLocalStorage(cfg.Blob.FSRoot)
		if err != nil {
			return nil, err
		}
		return local.WithPublicURL(cfg.Blob.PublicBaseURL), nil
	default:
		return nil, fmt.Errorf("unsupported blob driver %q", cfg.Blob.Driver)
	}
}
