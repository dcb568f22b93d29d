package models

import "time"

// OutboxStatus tracks replay progress of a recorded side effect.
type OutboxStatus string

const (
	OutboxPending   OutboxStatus = "PENDING"
	OutboxDone      OutboxStatus = "DONE"
	OutboxDiscarded OutboxStatus = "DISCARDED"
)

// OutboxEntry records a side effect that must eventually be applied.
type OutboxEntry struct {
	ID         string       `json:"id"`
	Kind       SideEffect   `json:"kind"`
	Collection Collection   `json:"collection"`
	TargetID   string       `json:"targetId"`
	Status     OutboxStatus `json:"status"`
	Attempts   int          `json:"attempts"`
	LastError  string       `json:"lastError,omitempty"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

// AdoptedOutboxID is the deterministic outbox id for an application's snapshot.
func AdoptedOutboxID(applicationID string) string {
	return "adopted_" + applicationID
}
