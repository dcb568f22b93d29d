package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderpets/admin-api/internal/models"
	appErrors "github.com/wanderpets/admin-api/pkg/errors"
)

func newTestContentService(t *testing.T) (*ContentService, *recordingAudit) {
	t.Helper()
	audit := &recordingAudit{}
	svc := NewContentService(newMemoryRepo(t), audit, nil, nil)
	svc.now = func() time.Time { return fixedNow }
	return svc, audit
}

func TestContentServicePublishArticle(t *testing.T) {
	svc, audit := newTestContentService(t)

	article, err := svc.PublishArticle(context.Background(), models.CreateArticleRequest{
		Title:      "Caring for senior dogs",
		Author:     "Dr. Reyes",
		CoverImage: "https://cdn.example.com/cover.png",
		Link:       "https://blog.example.com/senior-dogs",
	}, models.Actor{UserID: "admin-1"})
	require.NoError(t, err)
	assert.NotEmpty(t, article.ID)
	assert.Equal(t, "March 09, 2024 at 02:30:00 PM GMT+8", article.CreatedAt)
	assert.Equal(t, []string{models.AuditActionPublish}, audit.actions())

	articles, err := svc.ListArticles(context.Background())
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, article.ID, articles[0].ID)
	assert.Equal(t, "Dr. Reyes", articles[0].Author)
}

func TestContentServicePublishArticleValidates(t *testing.T) {
	svc, audit := newTestContentService(t)

	_, err := svc.PublishArticle(context.Background(), models.CreateArticleRequest{Title: "No links"}, models.Actor{})
	assert.Equal(t, appErrors.ErrValidation.Code, errCode(err))
	assert.Empty(t, audit.actions())
}

func TestContentServiceListArticlesNewestFirst(t *testing.T) {
	repo := newMemoryRepo(t)
	svc := NewContentService(repo, nil, nil, nil)
	seed(t, repo, models.CollectionArticles, "old", map[string]any{"title": "Old", "createdAt": "December 31, 2023 at 11:00:00 PM GMT+8"})
	seed(t, repo, models.CollectionArticles, "new", map[string]any{"title": "New", "createdAt": "January 02, 2024 at 08:15:00 AM GMT+8"})
	seed(t, repo, models.CollectionArticles, "mid", map[string]any{"title": "Mid", "createdAt": "January 01, 2024 at 09:00:00 PM GMT+8"})

	articles, err := svc.ListArticles(context.Background())
	require.NoError(t, err)
	require.Len(t, articles, 3)
	assert.Equal(t, []string{"new", "mid", "old"}, []string{articles[0].ID, articles[1].ID, articles[2].ID})
}

func TestContentServiceVetClinics(t *testing.T) {
	svc, audit := newTestContentService(t)
	ctx := context.Background()

	clinic, err := svc.AddVetClinic(ctx, models.CreateVetClinicRequest{
		ClinicName: "Paws & Claws",
		Address:    "12 Mabini St",
		Picture:    "https://cdn.example.com/clinic.png",
		SNSLink:    "https://facebook.com/pawsclaws",
	}, models.Actor{UserID: "admin-1"})
	require.NoError(t, err)
	require.NotNil(t, clinic.Timestamp)
	assert.Equal(t, fixedNow.Unix(), clinic.Timestamp.Seconds)

	clinics, err := svc.ListVetClinics(ctx)
	require.NoError(t, err)
	require.Len(t, clinics, 1)
	assert.Equal(t, "Paws & Claws", clinics[0].ClinicName)
	require.NotNil(t, clinics[0].Timestamp)
	assert.Equal(t, fixedNow.Unix(), clinics[0].Timestamp.Seconds)
	assert.Equal(t, []string{models.AuditActionPublish}, audit.actions())

	_, err = svc.AddVetClinic(ctx, models.CreateVetClinicRequest{ClinicName: "Missing fields"}, models.Actor{})
	assert.Equal(t, appErrors.ErrValidation.Code, errCode(err))
}
