package models

import "strings"

// Collection names a document store collection.
type Collection string

// Active record collections.
const (
	CollectionMissing             Collection = "missing"
	CollectionWandering           Collection = "wandering"
	CollectionFound               Collection = "found"
	CollectionAdoption            Collection = "adoption"
	CollectionAdopted             Collection = "adopted"
	CollectionAdoptionApplication Collection = "adoptionApplication"
	CollectionRescue              Collection = "rescue"
)

// Supporting collections.
const (
	CollectionUsers      Collection = "users"
	CollectionUserPets   Collection = "userPets"
	CollectionArticles   Collection = "article"
	CollectionVetClinics Collection = "vetClinic"
	CollectionAdmins     Collection = "admins"
	CollectionAuditLogs  Collection = "auditLogs"
	CollectionOutbox     Collection = "lifecycleOutbox"
)

const historySuffix = "History"

// History returns the archive collection paired with c.
func (c Collection) History() Collection {
	return c + historySuffix
}

// IsHistory reports whether c is an archive collection.
func (c Collection) IsHistory() bool {
	return strings.HasSuffix(string(c), historySuffix) && c.Original().Archivable()
}

// Original returns the active collection for a history collection.
func (c Collection) Original() Collection {
	return Collection(strings.TrimSuffix(string(c), historySuffix))
}

// Archivable reports whether records in c are moved to history on delete.
func (c Collection) Archivable() bool {
	switch c {
	case CollectionMissing, CollectionWandering, CollectionFound, CollectionAdoption,
		CollectionRescue, CollectionAdoptionApplication:
		return true
	}
	return false
}

// IsPetRecord reports whether c holds plain pet records.
func (c Collection) IsPetRecord() bool {
	switch c {
	case CollectionMissing, CollectionWandering, CollectionFound, CollectionAdoption, CollectionAdopted:
		return true
	}
	return false
}

// Purgeable reports whether entries of a history collection may be hard deleted.
func (c Collection) Purgeable() bool {
	for _, h := range PetHistoryCollections() {
		if c == h {
			return true
		}
	}
	return false
}

// PetRecordCollections lists the collections browsable as pet records.
func PetRecordCollections() []Collection {
	return []Collection{CollectionMissing, CollectionWandering, CollectionFound, CollectionAdoption, CollectionAdopted}
}

// PetHistoryCollections lists the history collections merged by the generic history view.
func PetHistoryCollections() []Collection {
	return []Collection{
		CollectionMissing.History(),
		CollectionWandering.History(),
		CollectionFound.History(),
	}
}

// HistoryCollections lists every archive collection.
func HistoryCollections() []Collection {
	return []Collection{
		CollectionMissing.History(),
		CollectionWandering.History(),
		CollectionFound.History(),
		CollectionAdoption.History(),
		CollectionAdoptionApplication.History(),
		CollectionRescue.History(),
	}
}

// ParseCollection accepts an active or history collection name exactly as stored.
func ParseCollection(raw string) (Collection, bool) {
	c := Collection(strings.TrimSpace(raw))
	if c.Archivable() || c == CollectionAdopted || c.IsHistory() {
		return c, true
	}
	return "", false
}
