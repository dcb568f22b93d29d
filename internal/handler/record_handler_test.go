package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderpets/admin-api/internal/listview"
	"github.com/wanderpets/admin-api/internal/models"
	"github.com/wanderpets/admin-api/internal/service"
	appErrors "github.com/wanderpets/admin-api/pkg/errors"
)

type fakeRecords struct {
	lastQuery      service.ListQuery
	lastCollection models.Collection
	viewed         []string
	getErr         error
}

func (f *fakeRecords) page(q service.ListQuery) *service.ListResult {
	f.lastQuery = q
	return &service.ListResult{
		Rows:       []listview.Row{{"id": "a1", "name": "Bantay"}},
		Pagination: models.Pagination{Page: 1, PageSize: 8, TotalCount: 1, TotalPages: 1, Window: []int{1}},
	}
}

func (f *fakeRecords) ListApplications(_ context.Context, q service.ListQuery) (*service.ListResult, error) {
	return f.page(q), nil
}

func (f *fakeRecords) ListRescueReports(_ context.Context, q service.ListQuery) (*service.ListResult, error) {
	return f.page(q), nil
}

func (f *fakeRecords) ListPetRecords(_ context.Context, collection models.Collection, q service.ListQuery) (*service.ListResult, error) {
	f.lastCollection = collection
	return f.page(q), nil
}

func (f *fakeRecords) Get(_ context.Context, collection models.Collection, id string) (map[string]any, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return map[string]any{"id": id, "collectionName": string(collection)}, nil
}

func (f *fakeRecords) MarkViewed(_ context.Context, collection models.Collection, id string) error {
	f.viewed = append(f.viewed, string(collection)+"/"+id)
	return nil
}

func filterValue(filters []listview.FieldFilter, field string) string {
	for _, f := range filters {
		if f.Field == field {
			return f.Value
		}
	}
	return ""
}

func TestRecordHandlerListApplicationsBindsQuery(t *testing.T) {
	fake := &fakeRecords{}
	h := NewRecordHandler(fake)
	c, rec := newTestContext(http.MethodGet, "/adoption-applications?search=bantay&applicationStatus=REVIEWING&page=2&pageSize=5", nil)

	h.ListApplications(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "bantay", fake.lastQuery.Search)
	assert.Equal(t, 2, fake.lastQuery.Page)
	assert.Equal(t, 5, fake.lastQuery.PageSize)
	assert.Equal(t, "REVIEWING", filterValue(fake.lastQuery.Filters, "applicationStatus"))

	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 1, env.Pagination.TotalCount)
	var data struct {
		Rows []map[string]string `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "Bantay", data.Rows[0]["name"])
}

func TestRecordHandlerListPetRecords(t *testing.T) {
	fake := &fakeRecords{}
	h := NewRecordHandler(fake)
	c, rec := newTestContext(http.MethodGet, "/records/found?breed=Aspin", nil, gin.Param{Key: "collection", Value: "found"})

	h.ListPetRecords(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.CollectionFound, fake.lastCollection)
	assert.Equal(t, "Aspin", filterValue(fake.lastQuery.Filters, "breed"))
}

func TestRecordHandlerRejectsBadPage(t *testing.T) {
	h := NewRecordHandler(&fakeRecords{})
	c, rec := newTestContext(http.MethodGet, "/rescue-reports?page=two", nil)

	h.ListRescueReports(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = newTestContext(http.MethodGet, "/rescue-reports?page=-3", nil)
	h.ListRescueReports(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecordHandlerGetNotFound(t *testing.T) {
	h := NewRecordHandler(&fakeRecords{getErr: appErrors.Clone(appErrors.ErrNotFound, "Application not found")})
	c, rec := newTestContext(http.MethodGet, "/adoption-applications/x", nil, gin.Param{Key: "id", Value: "x"})

	h.GetApplication(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Application not found", decodeEnvelope(t, rec).Message)
}

func TestRecordHandlerMarkViewed(t *testing.T) {
	fake := &fakeRecords{}
	h := NewRecordHandler(fake)

	c, _ := newTestContext(http.MethodPost, "/rescue-reports/r1/viewed", nil, gin.Param{Key: "id", Value: "r1"})
	h.MarkRescueReportViewed(c)
	assert.Equal(t, http.StatusNoContent, c.Writer.Status())

	c, _ = newTestContext(http.MethodPost, "/records/missing/m1/viewed", nil,
		gin.Param{Key: "collection", Value: "missing"}, gin.Param{Key: "id", Value: "m1"})
	h.MarkRecordViewed(c)

	assert.Equal(t, []string{"rescue/r1", "missing/m1"}, fake.viewed)
}
