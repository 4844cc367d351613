// Package status owns the account status enum and the legal transitions
// between statuses. All status changes elsewhere in the codebase go through
// Next; a transition that is not in the table fails with
// *IllegalTransitionError and is never silently ignored.
package status

import "fmt"

// Status is the moderation state of an account. Exactly one value applies
// at any time.
type Status string

const (
	Pending   Status = "pending"
	Active    Status = "active"
	Confirmed Status = "confirmed"
	Suspended Status = "suspended"
	Deleted   Status = "deleted"
)

// Initial is the status assigned to newly created accounts.
const Initial = Pending

// Event names a requested status transition.
type Event string

const (
	// A normal account becomes active once its email is confirmed.
	EventActivate Event = "activate"

	// Confirming an account overrides future spam scoring.
	EventConfirm Event = "confirm"

	// Unconfirming makes the account subject to spam scoring again.
	EventUnconfirm Event = "unconfirm"

	// Accounts can be suspended automatically by the spam check.
	EventSuspend Event = "suspend"

	// Unsuspending moves back to active without overriding spam scoring.
	EventUnsuspend Event = "unsuspend"

	// Hide marks the account deleted but keeps all data intact.
	EventHide Event = "hide"

	EventUnhide Event = "unhide"

	// SoftDestroy marks the account deleted and removes personal data.
	EventSoftDestroy Event = "soft_destroy"
)

type transition struct {
	from []Status
	to   Status
}

var transitions = map[Event]transition{
	EventActivate:    {from: []Status{Pending}, to: Active},
	EventConfirm:     {from: []Status{Pending, Active, Suspended}, to: Confirmed},
	EventUnconfirm:   {from: []Status{Confirmed}, to: Active},
	EventSuspend:     {from: []Status{Pending, Active}, to: Suspended},
	EventUnsuspend:   {from: []Status{Suspended}, to: Active},
	EventHide:        {from: []Status{Pending, Active, Confirmed, Suspended}, to: Deleted},
	EventUnhide:      {from: []Status{Deleted}, to: Active},
	EventSoftDestroy: {from: []Status{Pending, Active, Confirmed, Suspended}, to: Deleted},
}

// IllegalTransitionError reports an event requested from a status that is
// not a legal source for it.
type IllegalTransitionError struct {
	From    Status
	Event   Event
	Allowed []Status
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal transition: event %q not allowed from status %q (allowed from %v)",
		e.Event, e.From, e.Allowed)
}

// Next returns the status that results from applying event to current.
// Unknown events and events whose source list does not contain current
// return *IllegalTransitionError.
func Next(current Status, event Event) (Status, error) {
	t, ok := transitions[event]
	if !ok {
		return "", &IllegalTransitionError{From: current, Event: event}
	}
	for _, s := range t.from {
		if s == current {
			return t.to, nil
		}
	}
	return "", &IllegalTransitionError{From: current, Event: event, Allowed: t.from}
}

// CanApply reports whether event is legal from current.
func CanApply(current Status, event Event) bool {
	_, err := Next(current, event)
	return err == nil
}

// Events lists the events that are legal from current.
func Events(current Status) []Event {
	var out []Event
	for _, e := range []Event{
		EventActivate, EventConfirm, EventUnconfirm, EventSuspend,
		EventUnsuspend, EventHide, EventUnhide, EventSoftDestroy,
	} {
		if CanApply(current, e) {
			out = append(out, e)
		}
	}
	return out
}

// IsVisible reports whether accounts with this status appear publicly.
func IsVisible(s Status) bool {
	return s == Pending || s == Active || s == Confirmed
}

// IsActive reports whether accounts with this status are in active standing.
func IsActive(s Status) bool {
	return s == Active || s == Confirmed
}

// Valid reports whether s is one of the five enumerated statuses.
func Valid(s Status) bool {
	switch s {
	case Pending, Active, Confirmed, Suspended, Deleted:
		return true
	}
	return false
}
