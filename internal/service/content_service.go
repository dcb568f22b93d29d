package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/wanderpets/admin-api/internal/models"
	"github.com/wanderpets/admin-api/pkg/docstore"
	appErrors "github.com/wanderpets/admin-api/pkg/errors"
)

type contentRepository interface {
	List(ctx context.Context, collection models.Collection, orderBy string, direction docstore.Direction) ([]docstore.Document, error)
	Insert(ctx context.Context, collection models.Collection, fields map[string]any) (string, error)
}

// ContentService publishes articles and vet clinic listings.
type ContentService struct {
	repo      contentRepository
	audit     auditWriter
	validator *validator.Validate
	logger    *zap.Logger
	now       Clock
}

// NewContentService constructs a ContentService.
func NewContentService(repo contentRepository, audit auditWriter, validate *validator.Validate, logger *zap.Logger) *ContentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ContentService{repo: repo, audit: audit, validator: validate, logger: logger, now: utcNow}
}

// PublishArticle stores a new article stamped with its display creation time.
func (s *ContentService) PublishArticle(ctx context.Context, req models.CreateArticleRequest, actor models.Actor) (*models.Article, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid article payload")
	}
	article := models.Article{
		Title:      req.Title,
		Author:     req.Author,
		CoverImage: req.CoverImage,
		Link:       req.Link,
		CreatedAt:  models.FormatCreatedAt(s.now()),
	}
	fields, err := docstore.Encode(article)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode article")
	}
	delete(fields, "id")
	id, err := s.repo.Insert(ctx, models.CollectionArticles, fields)
	if err != nil {
		s.logger.Error("publish article failed", zap.Error(err))
		return nil, writeError(err, "failed to publish article")
	}
	article.ID = id
	emitAudit(ctx, s.audit, s.logger, actor, models.AuditActionPublish, string(models.CollectionArticles), id, nil,
		map[string]any{"title": article.Title})
	return &article, nil
}

// ListArticles returns articles, newest first. createdAt is a display
// string, so ordering happens after parsing it.
func (s *ContentService) ListArticles(ctx context.Context) ([]models.Article, error) {
	docs, err := s.list(ctx, models.CollectionArticles, "")
	if err != nil {
		return nil, err
	}
	out := make([]models.Article, 0, len(docs))
	for i := range docs {
		var article models.Article
		if err := docstore.Decode(&docs[i], &article); err != nil {
			s.logger.Warn("skipping malformed article", zap.String("id", docs[i].ID), zap.Error(err))
			continue
		}
		out = append(out, article)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return articleTime(out[i]).After(articleTime(out[j]))
	})
	return out, nil
}

func articleTime(a models.Article) time.Time {
	t, err := time.ParseInLocation(models.CreatedAtLayout, a.CreatedAt, models.ConsoleZone)
	if err != nil {
		return time.Time{}
	}
	return t
}

// AddVetClinic stores a clinic listing with a server timestamp.
func (s *ContentService) AddVetClinic(ctx context.Context, req models.CreateVetClinicRequest, actor models.Actor) (*models.VetClinic, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid clinic payload")
	}
	fields := map[string]any{
		"clinicName":          req.ClinicName,
		"address":             req.Address,
		"picture":             req.Picture,
		"snsLink":             req.SNSLink,
		models.FieldTimestamp: docstore.ServerTimestamp,
	}
	id, err := s.repo.Insert(ctx, models.CollectionVetClinics, fields)
	if err != nil {
		s.logger.Error("add vet clinic failed", zap.Error(err))
		return nil, writeError(err, "failed to add clinic")
	}
	ts := docstore.FromTime(s.now())
	emitAudit(ctx, s.audit, s.logger, actor, models.AuditActionPublish, string(models.CollectionVetClinics), id, nil,
		map[string]any{"clinicName": req.ClinicName})
	return &models.VetClinic{
		ID:         id,
		ClinicName: req.ClinicName,
		Address:    req.Address,
		Picture:    req.Picture,
		SNSLink:    req.SNSLink,
		Timestamp:  &ts,
	}, nil
}

// ListVetClinics returns clinics, newest first.
func (s *ContentService) ListVetClinics(ctx context.Context) ([]models.VetClinic, error) {
	docs, err := s.list(ctx, models.CollectionVetClinics, models.FieldTimestamp)
	if err != nil {
		return nil, err
	}
	out := make([]models.VetClinic, 0, len(docs))
	for i := range docs {
		var clinic models.VetClinic
		if err := docstore.Decode(&docs[i], &clinic); err != nil {
			s.logger.Warn("skipping malformed clinic", zap.String("id", docs[i].ID), zap.Error(err))
			continue
		}
		out = append(out, clinic)
	}
	return out, nil
}

func (s *ContentService) list(ctx context.Context, collection models.Collection, orderBy string) ([]docstore.Document, error) {
	docs, err := s.repo.List(ctx, collection, orderBy, docstore.Desc)
	if err != nil {
		s.logger.Error("content list failed", zap.String("collection", string(collection)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to load %s", collection))
	}
	return docs, nil
}
