package models

import "time"

// AuditAction constants represent actions to be logged.
const (
	AuditActionLogin         = "LOGIN"
	AuditActionLogout        = "LOGOUT"
	AuditActionStatusChange  = "STATUS_CHANGE"
	AuditActionArchive       = "ARCHIVE"
	AuditActionPurge         = "PURGE"
	AuditActionPublish       = "PUBLISH"
	AuditActionExport        = "EXPORT"
	AuditActionAdoptedReplay = "ADOPTED_REPLAY"
	AuditActionCreate        = "CREATE"
)

// AuditLog represents an audit trail record.
type AuditLog struct {
	ID         string         `json:"id"`
	UserID     *string        `json:"user_id,omitempty"`
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	ResourceID *string        `json:"resource_id,omitempty"`
	OldValues  map[string]any `json:"old_values,omitempty"`
	NewValues  map[string]any `json:"new_values,omitempty"`
	IPAddress  string         `json:"ip_address,omitempty"`
	UserAgent  string         `json:"user_agent,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// Actor identifies who triggered an operation.
type Actor struct {
	UserID    string
	Email     string
	IP        string
	UserAgent string
}
