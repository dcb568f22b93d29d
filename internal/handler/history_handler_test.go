package handler

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderpets/admin-api/internal/models"
	"github.com/wanderpets/admin-api/internal/service"
	appErrors "github.com/wanderpets/admin-api/pkg/errors"
	"github.com/wanderpets/admin-api/pkg/export"
)

type fakeExports struct {
	format     export.Format
	collection models.Collection
	search     string
	file       string
}

func (f *fakeExports) ExportHistory(_ context.Context, history models.Collection, format export.Format, q service.ListQuery, _ models.Actor) (*service.ExportResult, error) {
	f.collection = history
	f.format = format
	f.search = q.Search
	return &service.ExportResult{Token: "tok", URL: "/api/v1/history/exports/tok", Format: format, Rows: 3}, nil
}

func (f *fakeExports) Open(token string) (*service.ExportDownload, error) {
	if token != "tok" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid export link")
	}
	file, err := os.Open(f.file)
	if err != nil {
		return nil, err
	}
	return &service.ExportDownload{File: file, Filename: "missingHistory.csv", ContentType: "text/csv"}, nil
}

func TestHistoryHandlerExport(t *testing.T) {
	exports := &fakeExports{}
	h := NewHistoryHandler(nil, exports)
	c, rec := newTestContext(http.MethodPost, "/history/missingHistory/exports",
		map[string]any{"format": "pdf", "search": "choco"}, gin.Param{Key: "collection", Value: "missingHistory"})

	h.Export(c)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, export.FormatPDF, exports.format)
	assert.Equal(t, models.CollectionMissing.History(), exports.collection)
	assert.Equal(t, "choco", exports.search)
}

func TestHistoryHandlerExportRejectsFormat(t *testing.T) {
	h := NewHistoryHandler(nil, &fakeExports{})
	c, rec := newTestContext(http.MethodPost, "/history/missingHistory/exports?format=xlsx", nil,
		gin.Param{Key: "collection", Value: "missingHistory"})

	h.Export(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistoryHandlerDownload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,name\nm1,Choco\n"), 0o644))
	h := NewHistoryHandler(nil, &fakeExports{file: path})

	c, rec := newTestContext(http.MethodGet, "/history/exports/tok", nil, gin.Param{Key: "token", Value: "tok"})
	h.Download(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "missingHistory.csv")
	assert.Equal(t, "id,name\nm1,Choco\n", rec.Body.String())

	c, rec = newTestContext(http.MethodGet, "/history/exports/bad", nil, gin.Param{Key: "token", Value: "bad"})
	h.Download(c)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
