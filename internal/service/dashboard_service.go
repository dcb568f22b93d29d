package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/wanderpets/admin-api/internal/models"
	"github.com/wanderpets/admin-api/pkg/docstore"
	appErrors "github.com/wanderpets/admin-api/pkg/errors"
)

// DashboardCachePattern matches every cached dashboard payload.
const DashboardCachePattern = "dashboard:*"

const dashboardSummaryKey = "dashboard:summary"

// CollectionSummary counts documents of one collection.
type CollectionSummary struct {
	Collection models.Collection `json:"collection"`
	Total      int               `json:"total"`
	Unread     int               `json:"unread"`
}

// DashboardSummary is the console landing page payload.
type DashboardSummary struct {
	Records      []CollectionSummary `json:"records"`
	History      []CollectionSummary `json:"history"`
	Applications map[string]int      `json:"applications"`
	Rescues      map[string]int      `json:"rescues"`
	GeneratedAt  time.Time           `json:"generatedAt"`
}

// DashboardService composes unread counts and status breakdowns.
type DashboardService struct {
	repo   documentRepository
	cache  *CacheService
	logger *zap.Logger
	now    Clock
}

// NewDashboardService constructs a DashboardService. cache may be nil.
func NewDashboardService(repo documentRepository, cache *CacheService, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{repo: repo, cache: cache, logger: logger, now: utcNow}
}

// Summary returns the dashboard and whether it was served from cache.
func (s *DashboardService) Summary(ctx context.Context) (*DashboardSummary, bool, error) {
	var summary DashboardSummary
	hit, err := s.cache.Remember(ctx, dashboardSummaryKey, &summary, func(ctx context.Context) error {
		built, err := s.build(ctx)
		if err != nil {
			return err
		}
		summary = *built
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &summary, hit, nil
}

func (s *DashboardService) build(ctx context.Context) (*DashboardSummary, error) {
	summary := &DashboardSummary{
		Applications: map[string]int{},
		Rescues:      map[string]int{},
		GeneratedAt:  s.now(),
	}

	active := append(models.PetRecordCollections(), models.CollectionAdoptionApplication, models.CollectionRescue)
	for _, collection := range active {
		docs, err := s.load(ctx, collection)
		if err != nil {
			return nil, err
		}
		summary.Records = append(summary.Records, countUnread(collection, docs))

		switch collection {
		case models.CollectionAdoptionApplication:
			for _, doc := range docs {
				status, ok := models.ParseApplicationStatus(docstore.StringValue(doc.Data[models.FieldApplicationStatus]))
				if ok {
					summary.Applications[string(status)]++
				}
			}
		case models.CollectionRescue:
			for _, doc := range docs {
				status, ok := models.ParseReportStatus(docstore.StringValue(doc.Data[models.FieldReportStatus]))
				if ok {
					summary.Rescues[string(status)]++
				}
			}
		}
	}

	for _, collection := range models.HistoryCollections() {
		docs, err := s.load(ctx, collection)
		if err != nil {
			return nil, err
		}
		summary.History = append(summary.History, countUnread(collection, docs))
	}
	return summary, nil
}

func (s *DashboardService) load(ctx context.Context, collection models.Collection) ([]docstore.Document, error) {
	docs, err := s.repo.List(ctx, collection, "", docstore.Asc)
	if err != nil {
		s.logger.Error("dashboard load failed", zap.String("collection", string(collection)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load dashboard")
	}
	return docs, nil
}

func countUnread(collection models.Collection, docs []docstore.Document) CollectionSummary {
	out := CollectionSummary{Collection: collection, Total: len(docs)}
	for _, doc := range docs {
		if docstore.StringValue(doc.Data[models.FieldViewed]) == models.ViewedNo {
			out.Unread++
		}
	}
	return out
}
