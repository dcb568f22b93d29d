package models

import "github.com/wanderpets/admin-api/pkg/docstore"

// Document field names written by the lifecycle engine.
const (
	FieldApplicationStatus  = "applicationStatus"
	FieldReportStatus       = "reportStatus"
	FieldStatusChange       = "statusChange"
	FieldViewed             = "viewed"
	FieldPersonnel          = "personnel"
	FieldRescuer            = "rescuer"
	FieldRescueDate         = "rescueDate"
	FieldTimestamp          = "timestamp"
	FieldOriginalCollection = "originalCollection"
	FieldOriginalID         = "originalId"
	FieldDeletedAt          = "deletedAt"
)

// AdoptedSnapshotFields are the application fields carried into the adopted
// record. Values are copied as stored; supporting documents may be a single
// URL or a list of URLs.
var AdoptedSnapshotFields = []string{
	"petId", "name", "petType", "breed", "gender", "size", "age", "description",
	"petPicture", "media", "profilePicture", "validID", "homePhotos",
}

// AdoptedSnapshot derives the adopted pet record from the raw application
// data. Applicant and workflow fields are left out.
func AdoptedSnapshot(application map[string]any) map[string]any {
	out := make(map[string]any, len(AdoptedSnapshotFields))
	for _, key := range AdoptedSnapshotFields {
		if v, ok := application[key]; ok && v != nil {
			out[key] = v
		}
	}
	return out
}

// RescueReport is a document in rescue.
type RescueReport struct {
	ID                string `json:"id"`
	TransactionNumber string `json:"transactionNumber,omitempty"`
	Contact
	PetDetails
	Location     string              `json:"location,omitempty"`
	ReportStatus string              `json:"reportStatus,omitempty"`
	StatusChange *docstore.Timestamp `json:"statusChange,omitempty"`
	Rescuer      *string             `json:"rescuer,omitempty"`
	RescueDate   *docstore.Timestamp `json:"rescueDate,omitempty"`
	Viewed       string              `json:"viewed,omitempty"`
	Timestamp    *docstore.Timestamp `json:"timestamp,omitempty"`
}

// StatusChangeRequest is the operator's transition request.
type StatusChangeRequest struct {
	Status    string `json:"status" validate:"required"`
	Personnel string `json:"personnel,omitempty"`
	Rescuer   string `json:"rescuer,omitempty"`
	Confirm   bool   `json:"confirm"`
}

// StatusChangeResult reports a committed transition.
type StatusChangeResult struct {
	ID   string `json:"id"`
	From string `json:"from"`
	To   string `json:"to"`
	// Adopted is set once the adopted snapshot has been written.
	Adopted bool `json:"adopted,omitempty"`
}
