package models

import "strings"

// ApplicationStatus is the review state of an adoption application.
type ApplicationStatus string

const (
	ApplicationPending   ApplicationStatus = "PENDING"
	ApplicationReviewing ApplicationStatus = "REVIEWING"
	ApplicationApproved  ApplicationStatus = "APPROVED"
	ApplicationRejected  ApplicationStatus = "REJECTED"
	ApplicationCompleted ApplicationStatus = "COMPLETED"
)

// ReportStatus is the operational state of a rescue report.
type ReportStatus string

const (
	ReportPending   ReportStatus = "PENDING"
	ReportReviewing ReportStatus = "REVIEWING"
	ReportOngoing   ReportStatus = "ONGOING"
	ReportRescued   ReportStatus = "RESCUED"
	ReportDeclined  ReportStatus = "DECLINED"
)

// SideEffect names the extra write attached to a transition.
type SideEffect string

const (
	SideEffectNone SideEffect = ""
	// SideEffectAdoptedSnapshot copies the pet into the adopted collection.
	SideEffectAdoptedSnapshot SideEffect = "ADOPTED_SNAPSHOT"
	// SideEffectRescueDetails stamps rescuer and rescueDate.
	SideEffectRescueDetails SideEffect = "RESCUE_DETAILS"
)

// Transition is one allowed edge of a status machine.
type Transition struct {
	Allowed    bool
	SideEffect SideEffect
}

// ApplicationTransitions maps current status to allowed targets.
var ApplicationTransitions = map[ApplicationStatus]map[ApplicationStatus]Transition{
	ApplicationPending: {
		ApplicationReviewing: {Allowed: true},
	},
	ApplicationReviewing: {
		ApplicationApproved: {Allowed: true},
		ApplicationRejected: {Allowed: true},
	},
	ApplicationApproved: {
		ApplicationCompleted: {Allowed: true, SideEffect: SideEffectAdoptedSnapshot},
	},
}

// ReportTransitions maps current status to allowed targets.
var ReportTransitions = map[ReportStatus]map[ReportStatus]Transition{
	ReportPending: {
		ReportReviewing: {Allowed: true},
	},
	ReportReviewing: {
		ReportOngoing:  {Allowed: true},
		ReportDeclined: {Allowed: true},
	},
	ReportOngoing: {
		ReportRescued: {Allowed: true, SideEffect: SideEffectRescueDetails},
	},
}

// LookupApplicationTransition returns the edge from current to target.
func LookupApplicationTransition(current, target ApplicationStatus) Transition {
	return ApplicationTransitions[current][target]
}

// LookupReportTransition returns the edge from current to target.
func LookupReportTransition(current, target ReportStatus) Transition {
	return ReportTransitions[current][target]
}

// ParseApplicationStatus normalises a stored or requested status. An empty
// stored value is treated as PENDING.
func ParseApplicationStatus(raw string) (ApplicationStatus, bool) {
	s := ApplicationStatus(strings.ToUpper(strings.TrimSpace(raw)))
	switch s {
	case "":
		return ApplicationPending, true
	case ApplicationPending, ApplicationReviewing, ApplicationApproved, ApplicationRejected, ApplicationCompleted:
		return s, true
	}
	return "", false
}

// ParseReportStatus normalises a stored or requested status. An empty stored
// value is treated as PENDING.
func ParseReportStatus(raw string) (ReportStatus, bool) {
	s := ReportStatus(strings.ToUpper(strings.TrimSpace(raw)))
	switch s {
	case "":
		return ReportPending, true
	case ReportPending, ReportReviewing, ReportOngoing, ReportRescued, ReportDeclined:
		return s, true
	}
	return "", false
}

// ApplicationStatuses lists every application status in lifecycle order.
func ApplicationStatuses() []ApplicationStatus {
	return []ApplicationStatus{ApplicationPending, ApplicationReviewing, ApplicationApproved, ApplicationRejected, ApplicationCompleted}
}

// ReportStatuses lists every report status in lifecycle order.
func ReportStatuses() []ReportStatus {
	return []ReportStatus{ReportPending, ReportReviewing, ReportOngoing, ReportRescued, ReportDeclined}
}
