package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wanderpets/admin-api/internal/listview"
	"github.com/wanderpets/admin-api/internal/models"
	"github.com/wanderpets/admin-api/pkg/docstore"
	appErrors "github.com/wanderpets/admin-api/pkg/errors"
	"github.com/wanderpets/admin-api/pkg/export"
	"github.com/wanderpets/admin-api/pkg/storage"
)

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	Token     string        `json:"token"`
	URL       string        `json:"url"`
	Format    export.Format `json:"format"`
	Rows      int           `json:"rows"`
	ExpiresAt time.Time     `json:"expiresAt"`
}

// ExportDownload is an opened export ready to stream.
type ExportDownload struct {
	File        *os.File
	Filename    string
	ContentType string
}

var historyExportHeaders = []string{"id", "name", "breed", "petType", "postType", "originalCollection", "deletedAt", "timestamp"}

// ExportService renders history collections to CSV or PDF behind signed links.
type ExportService struct {
	repo    documentRepository
	storage fileStorage
	signer  *storage.SignedURLSigner
	audit   auditWriter
	logger  *zap.Logger
	cfg     ExportConfig
	now     Clock
}

// NewExportService constructs an ExportService.
func NewExportService(repo documentRepository, files fileStorage, signer *storage.SignedURLSigner, audit auditWriter, cfg ExportConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	return &ExportService{repo: repo, storage: files, signer: signer, audit: audit, logger: logger, cfg: cfg, now: utcNow}
}

// ExportHistory renders the filtered history collection and returns a signed download link.
func (s *ExportService) ExportHistory(ctx context.Context, history models.Collection, format export.Format, q ListQuery, actor models.Actor) (*ExportResult, error) {
	if !history.IsHistory() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown history collection %q", history))
	}
	docs, err := s.repo.List(ctx, history, models.FieldTimestamp, docstore.Desc)
	if err != nil {
		s.logger.Error("export load failed", zap.String("collection", string(history)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load history")
	}
	projection := listview.HistoryProjection(models.ConsoleZone)
	rows := make([]listview.Row, 0, len(docs))
	for _, doc := range docs {
		rows = append(rows, projection.Project(string(history), doc.ID, doc.Data))
	}
	rows = listview.Filter(listview.Search(rows, q.Search), q.Filters...)

	dataset := export.Dataset{Title: fmt.Sprintf("%s export", history), Headers: historyExportHeaders}
	for _, row := range rows {
		dataset.Rows = append(dataset.Rows, map[string]string(row))
	}
	payload, err := export.ForFormat(format).Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	exportID := strings.ReplaceAll(uuid.NewString(), "-", "")
	filename := fmt.Sprintf("%s_%s_%s.%s", history, s.now().Format("20060102T150405"), exportID[:8], format)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		s.logger.Error("export save failed", zap.String("file", filename), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store export")
	}
	token, err := s.signer.Sign(exportID, relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign export link")
	}

	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}
	emitAudit(ctx, s.audit, s.logger, actor, models.AuditActionExport, string(history), exportID, nil,
		map[string]any{"format": string(format), "rows": len(rows)})

	return &ExportResult{
		Token:     token.Token,
		URL:       fmt.Sprintf("%s/history/exports/%s", prefix, token.Token),
		Format:    format,
		Rows:      len(rows),
		ExpiresAt: token.ExpiresAt,
	}, nil
}

// Open validates a download token and opens the export.
func (s *ExportService) Open(token string) (*ExportDownload, error) {
	signed, err := s.signer.Verify(token, false)
	if err != nil {
		if errors.Is(err, storage.ErrTokenExpired) {
			return nil, appErrors.As(appErrors.ErrNotFound, err, "export link has expired")
		}
		return nil, appErrors.As(appErrors.ErrUnauthorized, err, "invalid export link")
	}
	file, err := s.storage.Open(signed.Path)
	if err != nil {
		return nil, appErrors.As(appErrors.ErrNotFound, err, "export no longer available")
	}
	name := path.Base(signed.Path)
	format := export.FormatCSV
	if strings.HasSuffix(name, "."+string(export.FormatPDF)) {
		format = export.FormatPDF
	}
	return &ExportDownload{File: file, Filename: name, ContentType: format.ContentType()}, nil
}

// Cleanup removes exports older than the result TTL.
func (s *ExportService) Cleanup() (int, error) {
	removed, err := s.storage.CleanupOlderThan(s.cfg.ResultTTL)
	if err != nil {
		return len(removed), err
	}
	return len(removed), nil
}

// RunCleanup removes expired exports on an interval until ctx is cancelled.
func (s *ExportService) RunCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.Cleanup()
			if err != nil {
				s.logger.Warn("export cleanup failed", zap.Error(err))
				continue
			}
			if n > 0 {
				s.logger.Info("expired exports removed", zap.Int("count", n))
			}
		}
	}
}
