package service

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wanderpets/admin-api/internal/models"
	appErrors "github.com/wanderpets/admin-api/pkg/errors"
	"github.com/wanderpets/admin-api/pkg/export"
	"github.com/wanderpets/admin-api/pkg/storage"
)

func newTestExportService(t *testing.T, repo documentRepository, audit auditWriter) (*ExportService, *storage.LocalStorage) {
	t.Helper()
	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("export-secret", time.Hour)
	svc := NewExportService(repo, files, signer, audit, ExportConfig{APIPrefix: "/api/v1", ResultTTL: time.Hour}, zap.NewNop())
	return svc, files
}

func seedHistory(t *testing.T, repo documentRepository) {
	seed(t, repo, models.CollectionMissing.History(), "m1", map[string]any{
		"name": "Choco", "breed": "Shih Tzu", "petType": "Dog", "postType": "Missing",
		models.FieldOriginalCollection: "missing", models.FieldDeletedAt: "March 9, 2024 at 02:30:00 PM GMT+8", models.FieldTimestamp: float64(2000),
	})
	seed(t, repo, models.CollectionMissing.History(), "m2", map[string]any{
		"name": "Whitey", "petType": "Cat", models.FieldTimestamp: float64(1000),
	})
}

func TestExportServiceCSVRoundTrip(t *testing.T) {
	repo := newMemoryRepo(t)
	seedHistory(t, repo)
	audit := &recordingAudit{}
	svc, _ := newTestExportService(t, repo, audit)

	res, err := svc.ExportHistory(context.Background(), models.CollectionMissing.History(), export.FormatCSV, ListQuery{}, models.Actor{UserID: "admin-1"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Rows)
	assert.True(t, strings.HasPrefix(res.URL, "/api/v1/history/exports/"))
	assert.Equal(t, []string{models.AuditActionExport}, audit.actions())

	download, err := svc.Open(res.Token)
	require.NoError(t, err)
	defer download.File.Close()
	assert.Equal(t, "text/csv", download.ContentType)
	assert.True(t, strings.HasSuffix(download.Filename, ".csv"))

	body, err := io.ReadAll(download.File)
	require.NoError(t, err)
	content := string(body)
	assert.Contains(t, content, "Choco")
	assert.Contains(t, content, "Shih Tzu")
	assert.Contains(t, content, "Unknown")
	assert.Less(t, strings.Index(content, "Choco"), strings.Index(content, "Whitey"))
}

func TestExportServiceAppliesSearch(t *testing.T) {
	repo := newMemoryRepo(t)
	seedHistory(t, repo)
	svc, _ := newTestExportService(t, repo, nil)

	res, err := svc.ExportHistory(context.Background(), models.CollectionMissing.History(), export.FormatPDF, ListQuery{Search: "whitey"}, models.Actor{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Rows)

	download, err := svc.Open(res.Token)
	require.NoError(t, err)
	defer download.File.Close()
	assert.Equal(t, "application/pdf", download.ContentType)
}

func TestExportServiceRejectsActiveCollections(t *testing.T) {
	svc, _ := newTestExportService(t, newMemoryRepo(t), nil)

	_, err := svc.ExportHistory(context.Background(), models.CollectionMissing, export.FormatCSV, ListQuery{}, models.Actor{})
	assert.Equal(t, appErrors.ErrValidation.Code, errCode(err))
}

func TestExportServiceRejectsTamperedToken(t *testing.T) {
	repo := newMemoryRepo(t)
	seedHistory(t, repo)
	svc, _ := newTestExportService(t, repo, nil)

	res, err := svc.ExportHistory(context.Background(), models.CollectionMissing.History(), export.FormatCSV, ListQuery{}, models.Actor{})
	require.NoError(t, err)

	_, err = svc.Open(res.Token + "0")
	assert.Equal(t, appErrors.ErrUnauthorized.Code, errCode(err))
}

func TestExportServiceCleanupRemovesExpiredFiles(t *testing.T) {
	repo := newMemoryRepo(t)
	seedHistory(t, repo)
	svc, files := newTestExportService(t, repo, nil)

	res, err := svc.ExportHistory(context.Background(), models.CollectionMissing.History(), export.FormatCSV, ListQuery{}, models.Actor{})
	require.NoError(t, err)
	download, err := svc.Open(res.Token)
	require.NoError(t, err)
	download.File.Close()

	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(files.Root(), download.Filename), old, old))

	removed, err := svc.Cleanup()
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = svc.Open(res.Token)
	assert.Equal(t, appErrors.ErrNotFound.Code, errCode(err))
}
