// Package lifecycle defines the status state machine for a single
// (job, student) application.
//
// Valid status graph:
//
//	Pending ──► Interview Scheduled ──► Accepted ──► Confirmed
//	    │                │                  │
//	    │                └──► Rejected ◄────┤
//	    └──► Accepted / Rejected            └──► Withdrawn (System)
//
// Rejected, Confirmed and Withdrawn (System) are terminal. Confirmed is only
// ever reached by the student accepting an offer; Withdrawn (System) is only
// ever set as a side effect of confirming a different offer. A Pending
// application can also be removed outright by a student withdrawal, which is
// a record deletion rather than a transition.
package lifecycle

import "fmt"

// Status values are stored verbatim in the applications table.
type Status string

const (
	StatusPending         Status = "Pending"
	StatusAccepted        Status = "Accepted"
	StatusRejected        Status = "Rejected"
	StatusInterview       Status = "Interview Scheduled"
	StatusConfirmed       Status = "Confirmed"
	StatusWithdrawnSystem Status = "Withdrawn (System)"
)

// validTransitions lists every allowed (from → to) pair.
var validTransitions = map[Status][]Status{
	StatusPending:   {StatusAccepted, StatusRejected, StatusInterview},
	StatusInterview: {StatusAccepted, StatusRejected},
	StatusAccepted:  {StatusConfirmed, StatusWithdrawnSystem},
	// Rejected, Confirmed, Withdrawn (System) are terminal
}

// Parse converts a raw string to a Status, returning an error for unknown
// values.
func Parse(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusPending, StatusAccepted, StatusRejected, StatusInterview, StatusConfirmed, StatusWithdrawnSystem:
		return st, nil
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

// CanTransition returns true when moving from → to is permitted by the state
// machine.
func CanTransition(from, to Status) bool {
	allowed, ok := validTransitions[from]
	if !ok {
		return false // terminal state
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal returns true when status has no outgoing transitions.
func IsTerminal(s Status) bool {
	_, ok := validTransitions[s]
	return !ok
}

// RecruiterSettable reports whether a recruiter may move an application to the
// given status through the status-update endpoint. Confirmed and
// Withdrawn (System) belong to the accept-offer flow and are never set
// directly.
func RecruiterSettable(s Status) bool {
	switch s {
	case StatusAccepted, StatusRejected, StatusInterview:
		return true
	}
	return false
}

// Live reports whether an application still counts as active from the
// student's point of view: not rejected, not confirmed, not already withdrawn
// by the system. Live applications are the ones forfeited when the student
// confirms an offer elsewhere.
func Live(s Status) bool {
	switch s {
	case StatusRejected, StatusConfirmed, StatusWithdrawnSystem:
		return false
	}
	return true
}
