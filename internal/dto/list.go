package dto

import "github.com/wanderpets/admin-api/internal/listview"

// ListParams captures the shared list view query parameters.
type ListParams struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"pageSize"`
}

// ApplicationListQuery is the adoption application list query.
type ApplicationListQuery struct {
	ListParams
	listview.ApplicationFilters
}

// RescueListQuery is the rescue report list query.
type RescueListQuery struct {
	ListParams
	listview.RescueFilters
}

// PetListQuery is the pet record and history list query.
type PetListQuery struct {
	ListParams
	listview.PetFilters
}

// RowsResponse is a page of projected list rows.
type RowsResponse struct {
	Rows []listview.Row `json:"rows"`
}

// BreedCatalogResponse lists selectable breeds per pet type.
type BreedCatalogResponse struct {
	PetTypes []string            `json:"petTypes"`
	Breeds   map[string][]string `json:"breeds"`
}

// StatusOptionsResponse lists the selectable statuses of a workflow.
type StatusOptionsResponse struct {
	Statuses []string `json:"statuses"`
}
