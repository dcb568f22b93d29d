package models

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/wanderpets/admin-api/pkg/docstore"
)

// Viewed flag values.
const (
	ViewedYes = "YES"
	ViewedNo  = "NO"
)

// FlexString accepts either a JSON string or number. Submission channels
// store ages and phone numbers both ways.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		*f = FlexString(strconv.FormatInt(i, 10))
		return nil
	}
	*f = FlexString(n.String())
	return nil
}

// MediaItem is an attached image or video.
type MediaItem struct {
	Type string `json:"type"`
	URI  string `json:"uri"`
}

// Contact is the owner or reporter block shared by records and reports.
type Contact struct {
	FirstName   string     `json:"firstName,omitempty"`
	LastName    string     `json:"lastName,omitempty"`
	Email       string     `json:"email,omitempty"`
	PhoneNumber FlexString `json:"phoneNumber,omitempty"`
	Address     string     `json:"address,omitempty"`
	City        string     `json:"city,omitempty"`
}

// PetDetails are the descriptive fields shared by every pet-bearing document.
type PetDetails struct {
	Name        string      `json:"name,omitempty"`
	PetType     string      `json:"petType,omitempty"`
	Breed       string      `json:"breed,omitempty"`
	Gender      string      `json:"gender,omitempty"`
	Size        string      `json:"size,omitempty"`
	Age         FlexString  `json:"age,omitempty"`
	Description string      `json:"description,omitempty"`
	PetPicture  string      `json:"petPicture,omitempty"`
	Media       []MediaItem `json:"media,omitempty"`
}

// PetRecord is a document in missing, wandering, found, adoption or adopted.
type PetRecord struct {
	ID string `json:"id"`
	PetDetails
	Contact
	PostType       string              `json:"postType,omitempty"`
	Note           string              `json:"note,omitempty"`
	ProfilePicture string              `json:"profilePicture,omitempty"`
	FoundAt        string              `json:"foundAt,omitempty"`
	FoundBy        string              `json:"foundBy,omitempty"`
	FoundOn        string              `json:"foundOn,omitempty"`
	Viewed         string              `json:"viewed,omitempty"`
	Timestamp      *docstore.Timestamp `json:"timestamp,omitempty"`
}

// BreedsByType lists the selectable breeds per pet type.
var BreedsByType = map[string][]string{
	"Dog": {"Unknown", "Aspin", "Beagle", "Bulldog", "Chihuahua", "Dachshund", "German Shepherd",
		"Golden Retriever", "Labrador Retriever", "Maltese", "Pomeranian",
		"Poodle", "Pug", "Rottweiler", "Shih Tzu", "Siberian Husky", "Welsh Corgi", "Others"},
	"Cat": {"Unknown", "Abyssinian", "Bengal", "Burmese", "Persian", "Puspin",
		"Ragdoll", "Russian Blue", "Scottish Fold", "Siamese", "Sphynx", "Others"},
}
