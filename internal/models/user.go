package models

import (
	"time"

	"github.com/wanderpets/admin-api/pkg/docstore"
)

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleSuperAdmin UserRole = "SUPERADMIN"
	RoleAdmin      UserRole = "ADMIN"
	RoleStaff      UserRole = "STAFF"
)

// Admin is a console operator stored in the admins collection.
type Admin struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"passwordHash"`
	FullName     string     `json:"fullName"`
	Role         UserRole   `json:"role"`
	Active       bool       `json:"active"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// AppUser is a public app account in the users collection.
type AppUser struct {
	ID             string              `json:"id"`
	Username       string              `json:"username,omitempty"`
	FirstName      string              `json:"firstName,omitempty"`
	LastName       string              `json:"lastName,omitempty"`
	Email          string              `json:"email"`
	PhoneNumber    FlexString          `json:"phoneNumber,omitempty"`
	Address        string              `json:"address,omitempty"`
	ProfilePicture string              `json:"profilePicture,omitempty"`
	CreatedAt      *docstore.Timestamp `json:"createdAt,omitempty"`
}

// UserPet is a pet registered by an app user.
type UserPet struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	PetDetails
	ProfilePicture string `json:"profilePicture,omitempty"`
}

// UserProfile bundles an app user with their registered pets.
type UserProfile struct {
	User   AppUser   `json:"user"`
	Joined string    `json:"joined,omitempty"`
	Pets   []UserPet `json:"pets"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalCount int   `json:"total_count"`
	TotalPages int   `json:"total_pages"`
	Window     []int `json:"window,omitempty"`
}
