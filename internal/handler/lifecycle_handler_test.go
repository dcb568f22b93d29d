package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderpets/admin-api/internal/models"
	"github.com/wanderpets/admin-api/internal/service"
	appErrors "github.com/wanderpets/admin-api/pkg/errors"
)

type fakeLifecycle struct {
	statusReq   models.StatusChangeRequest
	statusErr   error
	archiveErr  error
	purgeErr    error
	archived    []string
	purged      []string
	actorUserID string
}

func (f *fakeLifecycle) SetApplicationStatus(_ context.Context, id string, req models.StatusChangeRequest, actor models.Actor) (*models.StatusChangeResult, error) {
	f.statusReq = req
	f.actorUserID = actor.UserID
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	return &models.StatusChangeResult{ID: id, From: "PENDING", To: req.Status}, nil
}

func (f *fakeLifecycle) SetReportStatus(_ context.Context, id string, req models.StatusChangeRequest, actor models.Actor) (*models.StatusChangeResult, error) {
	f.statusReq = req
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	return &models.StatusChangeResult{ID: id, From: "ONGOING", To: req.Status}, nil
}

func (f *fakeLifecycle) ArchiveAndDelete(_ context.Context, collection models.Collection, id string, actor models.Actor) (*models.ArchiveResult, error) {
	if f.archiveErr != nil {
		return nil, f.archiveErr
	}
	f.archived = append(f.archived, string(collection)+"/"+id)
	return &models.ArchiveResult{Collection: collection, ID: id, HistoryID: id}, nil
}

func (f *fakeLifecycle) PurgeHistory(_ context.Context, history models.Collection, id string, actor models.Actor) error {
	if f.purgeErr != nil {
		return f.purgeErr
	}
	f.purged = append(f.purged, string(history)+"/"+id)
	return nil
}

func newLifecycleHandler(f *fakeLifecycle) *LifecycleHandler {
	return NewLifecycleHandler(f, f, f, service.SuccessMessage)
}

func TestLifecycleHandlerSetApplicationStatus(t *testing.T) {
	fake := &fakeLifecycle{}
	h := newLifecycleHandler(fake)
	c, rec := newTestContext(http.MethodPatch, "/adoption-applications/a1/status",
		map[string]any{"status": "REVIEWING", "confirm": true}, gin.Param{Key: "id", Value: "a1"})

	h.SetApplicationStatus(c)

	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "Status updated to REVIEWING", env.Message)
	assert.True(t, fake.statusReq.Confirm)
	assert.Equal(t, "admin-1", fake.actorUserID)
}

func TestLifecycleHandlerSetReportStatusInvalidTransition(t *testing.T) {
	fake := &fakeLifecycle{statusErr: appErrors.Clone(appErrors.ErrInvalidTransition, "cannot move from PENDING to RESCUED")}
	h := newLifecycleHandler(fake)
	c, rec := newTestContext(http.MethodPatch, "/rescue-reports/r1/status",
		map[string]any{"status": "RESCUED", "confirm": true}, gin.Param{Key: "id", Value: "r1"})

	h.SetReportStatus(c)

	assert.Equal(t, http.StatusConflict, rec.Code)
	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, env.Error.Code)
}

func TestLifecycleHandlerDeleteRequiresConfirmation(t *testing.T) {
	fake := &fakeLifecycle{}
	h := newLifecycleHandler(fake)
	c, rec := newTestContext(http.MethodDelete, "/records/missing/m1", nil,
		gin.Param{Key: "collection", Value: "missing"}, gin.Param{Key: "id", Value: "m1"})

	h.DeleteRecord(c)

	assert.Equal(t, http.StatusPreconditionRequired, rec.Code)
	assert.Empty(t, fake.archived)
}

func TestLifecycleHandlerDeleteRescueReport(t *testing.T) {
	fake := &fakeLifecycle{}
	h := newLifecycleHandler(fake)
	c, rec := newTestContext(http.MethodDelete, "/rescue-reports/r1?confirm=true", nil, gin.Param{Key: "id", Value: "r1"})

	h.DeleteRescueReport(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Rescue request archived and deleted successfully!", decodeEnvelope(t, rec).Message)
	assert.Equal(t, []string{"rescue/r1"}, fake.archived)
}

func TestLifecycleHandlerDeleteFailurePrefixesMessage(t *testing.T) {
	fake := &fakeLifecycle{archiveErr: appErrors.Clone(appErrors.ErrAlreadyArchived, "This rescue request already exists in history")}
	h := newLifecycleHandler(fake)
	c, rec := newTestContext(http.MethodDelete, "/rescue-reports/r1?confirm=true", nil, gin.Param{Key: "id", Value: "r1"})

	h.DeleteRescueReport(c)

	assert.Equal(t, http.StatusConflict, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "Deletion failed: This rescue request already exists in history", env.Message)
	assert.Equal(t, appErrors.ErrAlreadyArchived.Code, env.Error.Code)
}

func TestLifecycleHandlerDeleteUnknownCollection(t *testing.T) {
	h := newLifecycleHandler(&fakeLifecycle{})
	c, rec := newTestContext(http.MethodDelete, "/records/pets/p1?confirm=true", nil,
		gin.Param{Key: "collection", Value: "pets"}, gin.Param{Key: "id", Value: "p1"})

	h.DeleteRecord(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLifecycleHandlerPurgeHistory(t *testing.T) {
	fake := &fakeLifecycle{}
	h := newLifecycleHandler(fake)
	c, rec := newTestContext(http.MethodDelete, "/history/foundHistory/f1?confirm=true", nil,
		gin.Param{Key: "collection", Value: "foundHistory"}, gin.Param{Key: "id", Value: "f1"})

	h.PurgeHistory(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Record permanently deleted!", decodeEnvelope(t, rec).Message)
	assert.Equal(t, []string{"foundHistory/f1"}, fake.purged)
}
