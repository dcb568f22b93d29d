package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderpets/admin-api/internal/listview"
	"github.com/wanderpets/admin-api/internal/models"
	appErrors "github.com/wanderpets/admin-api/pkg/errors"
)

func TestRecordServiceListApplicationsSearchAndFilter(t *testing.T) {
	repo := newMemoryRepo(t)
	svc := NewRecordService(repo, 0, nil)
	seed(t, repo, models.CollectionAdoptionApplication, "a1", map[string]any{
		"firstName": "Maria", "lastName": "Santos", "name": "Bantay", "applicationStatus": "PENDING", "timestamp": float64(3000),
	})
	seed(t, repo, models.CollectionAdoptionApplication, "a2", map[string]any{
		"firstName": "Jose", "lastName": "Rizal", "name": "Mingming", "applicationStatus": "REVIEWING", "timestamp": float64(2000),
	})
	seed(t, repo, models.CollectionAdoptionApplication, "a3", map[string]any{
		"firstName": "Ana", "name": "Bantay Jr", "timestamp": float64(1000),
	})

	res, err := svc.ListApplications(context.Background(), ListQuery{Search: "bantay"})
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, "a1", res.Rows[0]["id"])
	assert.Equal(t, "Maria Santos", res.Rows[0]["fullName"])
	assert.Equal(t, "Ana", res.Rows[1]["fullName"])
	assert.Equal(t, "PENDING", res.Rows[1]["applicationStatus"])

	res, err = svc.ListApplications(context.Background(), ListQuery{
		Filters: listview.ApplicationFilters{ApplicationStatus: "reviewing"}.Filters(),
	})
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "a2", res.Rows[0]["id"])

	res, err = svc.ListApplications(context.Background(), ListQuery{
		Filters: listview.ApplicationFilters{ApplicationStatus: listview.AllStatuses}.Filters(),
	})
	require.NoError(t, err)
	assert.Len(t, res.Rows, 3)
}

func TestRecordServicePaginationWindow(t *testing.T) {
	repo := newMemoryRepo(t)
	svc := NewRecordService(repo, 5, nil)
	for i := 0; i < 37; i++ {
		seed(t, repo, models.CollectionMissing, fmt.Sprintf("m%02d", i), map[string]any{"name": fmt.Sprintf("Pet %d", i), "timestamp": float64(i)})
	}

	res, err := svc.ListPetRecords(context.Background(), models.CollectionMissing, ListQuery{Page: 4})
	require.NoError(t, err)
	assert.Len(t, res.Rows, 5)
	assert.Equal(t, 37, res.Pagination.TotalCount)
	assert.Equal(t, 8, res.Pagination.TotalPages)
	assert.Equal(t, []int{2, 3, 4, 5, 6}, res.Pagination.Window)

	res, err = svc.ListPetRecords(context.Background(), models.CollectionMissing, ListQuery{Page: 8, PageSize: 5})
	require.NoError(t, err)
	assert.Len(t, res.Rows, 2)

	res, err = svc.ListPetRecords(context.Background(), models.CollectionMissing, ListQuery{Page: 20})
	require.NoError(t, err)
	assert.NotNil(t, res.Rows)
	assert.Empty(t, res.Rows)
}

func TestRecordServiceListPetRecordsRejectsOtherCollections(t *testing.T) {
	svc := NewRecordService(newMemoryRepo(t), 0, nil)

	_, err := svc.ListPetRecords(context.Background(), models.CollectionRescue, ListQuery{})
	assert.Equal(t, appErrors.ErrValidation.Code, errCode(err))
}

func TestRecordServiceListHistoryMergesNewestFirst(t *testing.T) {
	repo := newMemoryRepo(t)
	svc := NewRecordService(repo, 0, nil)
	seed(t, repo, models.CollectionMissing.History(), "m1", map[string]any{"name": "Choco", "timestamp": float64(100)})
	seed(t, repo, models.CollectionFound.History(), "f1", map[string]any{"name": "Mingming", "timestamp": float64(300)})
	seed(t, repo, models.CollectionWandering.History(), "w1", map[string]any{"name": "Browny", "timestamp": float64(200)})
	seed(t, repo, models.CollectionRescue.History(), "r1", map[string]any{"name": "Not a pet record", "timestamp": float64(900)})

	res, err := svc.ListHistory(context.Background(), ListQuery{})
	require.NoError(t, err)
	require.Len(t, res.Rows, 3)
	assert.Equal(t, []string{"f1", "w1", "m1"}, []string{res.Rows[0]["id"], res.Rows[1]["id"], res.Rows[2]["id"]})
	assert.Equal(t, "foundHistory", res.Rows[0]["collectionName"])
	assert.Equal(t, listview.Unknown, res.Rows[0]["breed"])

	res, err = svc.ListHistoryCollection(context.Background(), models.CollectionRescue.History(), ListQuery{})
	require.NoError(t, err)
	assert.Len(t, res.Rows, 1)

	_, err = svc.ListHistoryCollection(context.Background(), models.CollectionRescue, ListQuery{})
	assert.Equal(t, appErrors.ErrValidation.Code, errCode(err))
}

func TestRecordServiceGetAndMarkViewed(t *testing.T) {
	repo := newMemoryRepo(t)
	svc := NewRecordService(repo, 0, nil)
	seed(t, repo, models.CollectionRescue, "r1", map[string]any{"firstName": "Ana", models.FieldViewed: models.ViewedNo})

	require.NoError(t, svc.MarkViewed(context.Background(), models.CollectionRescue, "r1"))

	doc, err := svc.Get(context.Background(), models.CollectionRescue, "r1")
	require.NoError(t, err)
	assert.Equal(t, "r1", doc["id"])
	assert.Equal(t, "rescue", doc["collectionName"])
	assert.Equal(t, models.ViewedYes, doc[models.FieldViewed])

	_, err = svc.Get(context.Background(), models.CollectionRescue, "ghost")
	assert.Equal(t, appErrors.ErrNotFound.Code, errCode(err))

	err = svc.MarkViewed(context.Background(), models.CollectionRescue, "ghost")
	assert.Equal(t, appErrors.ErrNotFound.Code, errCode(err))

	err = svc.MarkViewed(context.Background(), models.Collection("bogus"), "r1")
	assert.Equal(t, appErrors.ErrValidation.Code, errCode(err))
}

func TestRecordServiceMarkViewedLeavesTerminalDocuments(t *testing.T) {
	repo := newMemoryRepo(t)
	svc := NewRecordService(repo, 0, nil)
	seed(t, repo, models.CollectionMissing.History(), "m1", map[string]any{"name": "Choco", models.FieldViewed: models.ViewedNo})
	seed(t, repo, models.CollectionAdopted, "a1", map[string]any{"name": "Bantay", models.FieldViewed: models.ViewedNo})

	err := svc.MarkViewed(context.Background(), models.CollectionMissing.History(), "m1")
	assert.Equal(t, appErrors.ErrValidation.Code, errCode(err))
	err = svc.MarkViewed(context.Background(), models.CollectionAdopted, "a1")
	assert.Equal(t, appErrors.ErrValidation.Code, errCode(err))

	assert.Equal(t, models.ViewedNo, mustGet(t, repo, models.CollectionMissing.History(), "m1")[models.FieldViewed])
	assert.Equal(t, models.ViewedNo, mustGet(t, repo, models.CollectionAdopted, "a1")[models.FieldViewed])
}
