package models

import "github.com/wanderpets/admin-api/pkg/docstore"

// Article is a published article in the article collection.
type Article struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Author     string `json:"author"`
	CoverImage string `json:"coverImage"`
	Link       string `json:"link"`
	CreatedAt  string `json:"createdAt"`
}

// CreateArticleRequest is the payload for publishing an article.
type CreateArticleRequest struct {
	Title      string `json:"title" validate:"required,max=200"`
	Author     string `json:"author" validate:"required,max=120"`
	CoverImage string `json:"coverImage" validate:"required,url"`
	Link       string `json:"link" validate:"required,url"`
}

// VetClinic is a listed clinic in the vetClinic collection.
type VetClinic struct {
	ID         string              `json:"id"`
	ClinicName string              `json:"clinicName"`
	Address    string              `json:"address"`
	Picture    string              `json:"picture"`
	SNSLink    string              `json:"snsLink"`
	Timestamp  *docstore.Timestamp `json:"timestamp,omitempty"`
}

// CreateVetClinicRequest is the payload for listing a clinic.
type CreateVetClinicRequest struct {
	ClinicName string `json:"clinicName" validate:"required,max=200"`
	Address    string `json:"address" validate:"required,max=300"`
	Picture    string `json:"picture" validate:"required,url"`
	SNSLink    string `json:"snsLink" validate:"required,url"`
}
