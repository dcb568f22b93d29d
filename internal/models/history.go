package models

import "time"

// Display layouts used by the console. Both are rendered in UTC+8.
const (
	DeletedAtLayout = "January 2, 2006 at 03:04:05 PM MST"
	CreatedAtLayout = "January 02, 2006 at 03:04:05 PM MST"
)

// ConsoleZone is the fixed display zone of the organization.
var ConsoleZone = time.FixedZone("GMT+8", 8*60*60)

// FormatDeletedAt renders the archival time stamped on history entries.
func FormatDeletedAt(t time.Time) string {
	return t.In(ConsoleZone).Format(DeletedAtLayout)
}

// FormatCreatedAt renders creation times of published content.
func FormatCreatedAt(t time.Time) string {
	return t.In(ConsoleZone).Format(CreatedAtLayout)
}

// HistoryEntry is an archived record in <collection>History. Archived
// documents keep every source field, so the typed view only names the
// archival metadata.
type HistoryEntry struct {
	ID                 string         `json:"id"`
	OriginalCollection Collection     `json:"originalCollection"`
	OriginalID         string         `json:"originalId"`
	DeletedAt          string         `json:"deletedAt"`
	Viewed             string         `json:"viewed"`
	Timestamp          int64          `json:"timestamp"`
	Fields             map[string]any `json:"fields,omitempty"`
}

// ArchiveResult reports a successful archive-and-delete.
type ArchiveResult struct {
	Collection Collection `json:"collection"`
	ID         string     `json:"id"`
	HistoryID  string     `json:"historyId"`
	DeletedAt  string     `json:"deletedAt"`
}

// NewHistoryFields builds the document written to history from the source
// fields. The source map is not modified.
func NewHistoryFields(source map[string]any, collection Collection, id string, now time.Time) map[string]any {
	out := make(map[string]any, len(source)+5)
	for k, v := range source {
		out[k] = v
	}
	out[FieldOriginalCollection] = string(collection)
	out[FieldOriginalID] = id
	out[FieldDeletedAt] = FormatDeletedAt(now)
	out[FieldViewed] = ViewedNo
	out[FieldTimestamp] = now.UnixMilli()
	return out
}
