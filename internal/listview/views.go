package listview

import "time"

// Console projections per list view.

// ApplicationProjection renders adoption applications.
func ApplicationProjection(zone *time.Location) Projection {
	return Projection{
		Zone: zone,
		Columns: []Column{
			{Field: "transactionNumber"},
			{Field: "contactFirstName"},
			{Field: "contactEmail"},
			{Field: "firstName"},
			{Field: "lastName"},
			{Field: "name"},
			{Field: "applicationStatus", Default: "PENDING"},
			{Field: "timestamp", Timestamp: true},
		},
		Derived: FullName,
	}
}

// ApplicationFilters collects the application column filters.
type ApplicationFilters struct {
	TransactionNumber string `form:"transactionNumber"`
	FullName          string `form:"fullName"`
	ContactEmail      string `form:"contactEmail"`
	PetName           string `form:"petName"`
	ApplicationStatus string `form:"applicationStatus"`
	Timestamp         string `form:"timestamp"`
}

// Filters converts the query into column filters.
func (f ApplicationFilters) Filters() []FieldFilter {
	return []FieldFilter{
		{Field: "transactionNumber", Value: f.TransactionNumber},
		{Field: "fullName", Value: f.FullName},
		{Field: "contactEmail", Value: f.ContactEmail},
		{Field: "name", Value: f.PetName},
		{Field: "applicationStatus", Value: f.ApplicationStatus, Mode: Exact},
		{Field: "timestamp", Value: f.Timestamp},
	}
}

// RescueProjection renders rescue reports.
func RescueProjection(zone *time.Location) Projection {
	return Projection{
		Zone: zone,
		Columns: []Column{
			{Field: "firstName"},
			{Field: "lastName"},
			{Field: "email"},
			{Field: "phoneNumber"},
			{Field: "transactionNumber"},
			{Field: "reportStatus", Default: "PENDING"},
			{Field: "timestamp", Timestamp: true},
		},
		Derived: FullName,
	}
}

// RescueFilters collects the rescue report column filters.
type RescueFilters struct {
	TransactionNumber string `form:"transactionNumber"`
	FullName          string `form:"fullName"`
	PhoneNumber       string `form:"phoneNumber"`
	ReportStatus      string `form:"reportStatus"`
	Timestamp         string `form:"timestamp"`
}

// Filters converts the query into column filters.
func (f RescueFilters) Filters() []FieldFilter {
	return []FieldFilter{
		{Field: "transactionNumber", Value: f.TransactionNumber},
		{Field: "fullName", Value: f.FullName},
		{Field: "phoneNumber", Value: f.PhoneNumber},
		{Field: "reportStatus", Value: f.ReportStatus, Mode: Exact},
		{Field: "timestamp", Value: f.Timestamp},
	}
}

// PetProjection renders pet records.
func PetProjection(zone *time.Location) Projection {
	return Projection{
		Zone: zone,
		Columns: []Column{
			{Field: "name"},
			{Field: "petType"},
			{Field: "breed"},
			{Field: "gender"},
			{Field: "size"},
			{Field: "postType"},
			{Field: "viewed", Default: "NO"},
			{Field: "timestamp", Timestamp: true},
		},
	}
}

// HistoryProjection renders archived pet records.
func HistoryProjection(zone *time.Location) Projection {
	return Projection{
		Zone: zone,
		Columns: []Column{
			{Field: "name"},
			{Field: "breed", Default: Unknown},
			{Field: "petType", Default: Unknown},
			{Field: "postType"},
			{Field: "originalCollection"},
			{Field: "deletedAt"},
			{Field: "viewed", Default: "NO"},
			{Field: "timestamp", Timestamp: true},
		},
	}
}

// PetFilters collects pet record and history column filters.
type PetFilters struct {
	Name      string `form:"name"`
	Breed     string `form:"breed"`
	PetType   string `form:"petType"`
	Size      string `form:"size"`
	PostType  string `form:"postType"`
	Timestamp string `form:"timestamp"`
}

// Filters converts the query into column filters.
func (f PetFilters) Filters() []FieldFilter {
	return []FieldFilter{
		{Field: "name", Value: f.Name},
		{Field: "breed", Value: f.Breed, Mode: Exact},
		{Field: "petType", Value: f.PetType, Mode: Exact},
		{Field: "size", Value: f.Size, Mode: Exact},
		{Field: "postType", Value: f.PostType},
		{Field: "timestamp", Value: f.Timestamp},
	}
}

// UserProjection renders app users.
func UserProjection(zone *time.Location) Projection {
	return Projection{
		Zone: zone,
		Columns: []Column{
			{Field: "username"},
			{Field: "firstName"},
			{Field: "lastName"},
			{Field: "email"},
			{Field: "createdAt", Timestamp: true},
		},
	}
}
