package status

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNext_LegalTransitions(t *testing.T) {
	tests := []struct {
		name  string
		from  Status
		event Event
		want  Status
	}{
		{"activate from pending", Pending, EventActivate, Active},
		{"confirm from pending", Pending, EventConfirm, Confirmed},
		{"confirm from active", Active, EventConfirm, Confirmed},
		{"confirm from suspended", Suspended, EventConfirm, Confirmed},
		{"unconfirm from confirmed", Confirmed, EventUnconfirm, Active},
		{"suspend from pending", Pending, EventSuspend, Suspended},
		{"suspend from active", Active, EventSuspend, Suspended},
		{"unsuspend from suspended", Suspended, EventUnsuspend, Active},
		{"hide from pending", Pending, EventHide, Deleted},
		{"hide from active", Active, EventHide, Deleted},
		{"hide from confirmed", Confirmed, EventHide, Deleted},
		{"hide from suspended", Suspended, EventHide, Deleted},
		{"unhide from deleted", Deleted, EventUnhide, Active},
		{"soft destroy from pending", Pending, EventSoftDestroy, Deleted},
		{"soft destroy from active", Active, EventSoftDestroy, Deleted},
		{"soft destroy from confirmed", Confirmed, EventSoftDestroy, Deleted},
		{"soft destroy from suspended", Suspended, EventSoftDestroy, Deleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Next(tt.from, tt.event)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNext_IllegalTransitions(t *testing.T) {
	tests := []struct {
		name  string
		from  Status
		event Event
	}{
		{"activate from active", Active, EventActivate},
		{"activate from confirmed", Confirmed, EventActivate},
		{"activate from deleted", Deleted, EventActivate},
		{"confirm from confirmed", Confirmed, EventConfirm},
		{"confirm from deleted", Deleted, EventConfirm},
		{"unconfirm from active", Active, EventUnconfirm},
		{"suspend from confirmed", Confirmed, EventSuspend},
		{"suspend from suspended", Suspended, EventSuspend},
		{"suspend from deleted", Deleted, EventSuspend},
		{"unsuspend from active", Active, EventUnsuspend},
		{"hide from deleted", Deleted, EventHide},
		{"unhide from active", Active, EventUnhide},
		{"soft destroy from deleted", Deleted, EventSoftDestroy},
		{"unknown event", Active, Event("banish")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Next(tt.from, tt.event)
			require.Error(t, err)

			var illegal *IllegalTransitionError
			require.True(t, errors.As(err, &illegal))
			assert.Equal(t, tt.from, illegal.From)
			assert.Equal(t, tt.event, illegal.Event)
		})
	}
}

// Confirming an account and then trying to suspend it must fail: confirmed
// accounts are exempt from suspension until unconfirmed.
func TestConfirmedAccountCannotBeSuspended(t *testing.T) {
	s, err := Next(Active, EventConfirm)
	require.NoError(t, err)
	require.Equal(t, Confirmed, s)

	_, err = Next(s, EventSuspend)
	require.Error(t, err)

	s, err = Next(s, EventUnconfirm)
	require.NoError(t, err)
	s, err = Next(s, EventSuspend)
	require.NoError(t, err)
	assert.Equal(t, Suspended, s)
}

func TestCanApply(t *testing.T) {
	assert.True(t, CanApply(Active, EventSuspend))
	assert.False(t, CanApply(Confirmed, EventSuspend))
	assert.False(t, CanApply(Deleted, EventSoftDestroy))
}

func TestEvents(t *testing.T) {
	assert.ElementsMatch(t,
		[]Event{EventActivate, EventConfirm, EventSuspend, EventHide, EventSoftDestroy},
		Events(Pending))
	assert.ElementsMatch(t, []Event{EventUnhide}, Events(Deleted))
}

func TestVisibilityAndStanding(t *testing.T) {
	assert.True(t, IsVisible(Pending))
	assert.True(t, IsVisible(Active))
	assert.True(t, IsVisible(Confirmed))
	assert.False(t, IsVisible(Suspended))
	assert.False(t, IsVisible(Deleted))

	assert.False(t, IsActive(Pending))
	assert.True(t, IsActive(Active))
	assert.True(t, IsActive(Confirmed))
	assert.False(t, IsActive(Suspended))
	assert.False(t, IsActive(Deleted))
}

func TestValid(t *testing.T) {
	for _, s := range []Status{Pending, Active, Confirmed, Suspended, Deleted} {
		assert.True(t, Valid(s))
	}
	assert.False(t, Valid(Status("banned")))
	assert.False(t, Valid(Status("")))
}
