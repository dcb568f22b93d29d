package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/wanderpets/admin-api/internal/listview"
	"github.com/wanderpets/admin-api/internal/models"
	"github.com/wanderpets/admin-api/pkg/docstore"
	appErrors "github.com/wanderpets/admin-api/pkg/errors"
)

// ListQuery carries search, column filters and paging for a list view.
type ListQuery struct {
	Search   string
	Filters  []listview.FieldFilter
	Page     int
	PageSize int
}

// ListResult is one page of projected rows.
type ListResult struct {
	Rows       []listview.Row
	Pagination models.Pagination
}

// RecordService serves the console list views and single-record reads.
type RecordService struct {
	repo     documentRepository
	logger   *zap.Logger
	zone     *time.Location
	pageSize int
}

// NewRecordService constructs the service. pageSize falls back to the console default.
func NewRecordService(repo documentRepository, pageSize int, logger *zap.Logger) *RecordService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordService{repo: repo, logger: logger, zone: models.ConsoleZone, pageSize: listview.NormalizePageSize(pageSize)}
}

func (s *RecordService) pageOf(rows []listview.Row, q ListQuery) ListResult {
	return pageRows(rows, q, s.pageSize)
}

// pageRows searches, filters and paginates projected rows.
func pageRows(rows []listview.Row, q ListQuery, defaultSize int) ListResult {
	rows = listview.Search(rows, q.Search)
	rows = listview.Filter(rows, q.Filters...)
	size := q.PageSize
	if size == 0 {
		size = defaultSize
	}
	page := listview.Paginate(rows, q.Page, size)
	return ListResult{
		Rows: page.Rows,
		Pagination: models.Pagination{
			Page:       page.Page,
			PageSize:   page.PageSize,
			TotalCount: page.TotalCount,
			TotalPages: page.TotalPages,
			Window:     page.Window,
		},
	}
}

func (s *RecordService) project(ctx context.Context, collection models.Collection, projection listview.Projection) ([]listview.Row, error) {
	docs, err := s.repo.List(ctx, collection, models.FieldTimestamp, docstore.Desc)
	if err != nil {
		s.logger.Error("failed to list collection", zap.String("collection", string(collection)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to load %s", collection))
	}
	rows := make([]listview.Row, 0, len(docs))
	for _, doc := range docs {
		rows = append(rows, projection.Project(string(collection), doc.ID, doc.Data))
	}
	return rows, nil
}

// ListApplications returns the adoption application list view.
func (s *RecordService) ListApplications(ctx context.Context, q ListQuery) (*ListResult, error) {
	rows, err := s.project(ctx, models.CollectionAdoptionApplication, listview.ApplicationProjection(s.zone))
	if err != nil {
		return nil, err
	}
	res := s.pageOf(rows, q)
	return &res, nil
}

// ListRescueReports returns the rescue report list view.
func (s *RecordService) ListRescueReports(ctx context.Context, q ListQuery) (*ListResult, error) {
	rows, err := s.project(ctx, models.CollectionRescue, listview.RescueProjection(s.zone))
	if err != nil {
		return nil, err
	}
	res := s.pageOf(rows, q)
	return &res, nil
}

// ListPetRecords returns one pet record collection.
func (s *RecordService) ListPetRecords(ctx context.Context, collection models.Collection, q ListQuery) (*ListResult, error) {
	if !collection.IsPetRecord() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown record collection %q", collection))
	}
	rows, err := s.project(ctx, collection, listview.PetProjection(s.zone))
	if err != nil {
		return nil, err
	}
	res := s.pageOf(rows, q)
	return &res, nil
}

// ListHistory merges the pet history collections, newest first.
func (s *RecordService) ListHistory(ctx context.Context, q ListQuery) (*ListResult, error) {
	projection := listview.HistoryProjection(s.zone)
	var rows []listview.Row
	var keys []int64
	for _, collection := range models.PetHistoryCollections() {
		docs, err := s.repo.List(ctx, collection, "", docstore.Desc)
		if err != nil {
			s.logger.Error("failed to list history", zap.String("collection", string(collection)), zap.Error(err))
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load history")
		}
		for _, doc := range docs {
			rows = append(rows, projection.Project(string(collection), doc.ID, doc.Data))
			keys = append(keys, archivedAtMillis(doc.Data[models.FieldTimestamp]))
		}
	}
	listview.SortByTime(rows, keys)
	res := s.pageOf(rows, q)
	return &res, nil
}

// ListHistoryCollection returns one history collection.
func (s *RecordService) ListHistoryCollection(ctx context.Context, history models.Collection, q ListQuery) (*ListResult, error) {
	if !history.IsHistory() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown history collection %q", history))
	}
	rows, err := s.project(ctx, history, listview.HistoryProjection(s.zone))
	if err != nil {
		return nil, err
	}
	res := s.pageOf(rows, q)
	return &res, nil
}

func archivedAtMillis(v any) int64 {
	if ts, ok := docstore.TimestampValue(v); ok {
		return ts.Time().UnixMilli()
	}
	if ms, ok := v.(float64); ok {
		return int64(ms)
	}
	return 0
}

// Get returns one document with its id.
func (s *RecordService) Get(ctx context.Context, collection models.Collection, id string) (map[string]any, error) {
	doc, err := s.repo.GetByID(ctx, collection, id)
	if err != nil {
		return nil, readError(err, "Record not found")
	}
	out := make(map[string]any, len(doc.Data)+2)
	for k, v := range doc.Data {
		out[k] = v
	}
	out["id"] = doc.ID
	out["collectionName"] = string(collection)
	return out, nil
}

// MarkViewed clears the unread indicator of a record, application or report.
// History entries and adopted snapshots are never mutated.
func (s *RecordService) MarkViewed(ctx context.Context, collection models.Collection, id string) error {
	if !collection.Archivable() {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("records of %q cannot be marked viewed", collection))
	}
	if err := s.repo.Update(ctx, collection, id, map[string]any{models.FieldViewed: models.ViewedYes}, 0); err != nil {
		s.logger.Warn("failed to mark viewed", zap.String("collection", string(collection)), zap.String("id", id), zap.Error(err))
		return writeError(err, "failed to mark record as viewed")
	}
	return nil
}
