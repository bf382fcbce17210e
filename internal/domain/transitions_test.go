package domain

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		actor Actor
		from  string
		to    string
		want  bool
	}{
		{ActorProvider, BookingStatusPending, BookingStatusConfirmed, true},
		{ActorSeeker, BookingStatusPending, BookingStatusConfirmed, false},
		{ActorSeeker, BookingStatusPending, BookingStatusCancelled, true},
		{ActorProvider, BookingStatusPending, BookingStatusCancelled, true},
		{ActorSeeker, BookingStatusConfirmed, BookingStatusCancelled, true},
		{ActorProvider, BookingStatusConfirmed, BookingStatusCancelled, true},
		{ActorProvider, BookingStatusConfirmed, BookingStatusInProgress, true},
		{ActorSeeker, BookingStatusConfirmed, BookingStatusInProgress, false},
		{ActorProvider, BookingStatusInProgress, BookingStatusCompleted, true},
		{ActorSeeker, BookingStatusInProgress, BookingStatusCompleted, false},
		// no skipping stages
		{ActorProvider, BookingStatusPending, BookingStatusInProgress, false},
		{ActorProvider, BookingStatusPending, BookingStatusCompleted, false},
		{ActorProvider, BookingStatusConfirmed, BookingStatusCompleted, false},
		// no cancelling a running or finished service
		{ActorSeeker, BookingStatusInProgress, BookingStatusCancelled, false},
		{ActorProvider, BookingStatusInProgress, BookingStatusCancelled, false},
		{ActorSeeker, BookingStatusCompleted, BookingStatusCancelled, false},
		// terminal states have no exits
		{ActorProvider, BookingStatusCompleted, BookingStatusInProgress, false},
		{ActorProvider, BookingStatusCancelled, BookingStatusConfirmed, false},
		// no going backwards
		{ActorProvider, BookingStatusConfirmed, BookingStatusPending, false},
		{ActorProvider, BookingStatusInProgress, BookingStatusConfirmed, false},
	}
	for _, c := range cases {
		if got := CanTransition(c.actor, c.from, c.to); got != c.want {
			t.Errorf("CanTransition(%s, %s -> %s) = %v, want %v", c.actor, c.from, c.to, got, c.want)
		}
	}
}

func TestTransitionExists(t *testing.T) {
	if !TransitionExists(BookingStatusPending, BookingStatusConfirmed) {
		t.Error("pending -> confirmed should exist")
	}
	if TransitionExists(BookingStatusCompleted, BookingStatusPending) {
		t.Error("completed is terminal")
	}
	if TransitionExists("BOGUS", BookingStatusConfirmed) {
		t.Error("unknown status should not transition")
	}
}

func TestRequiresOTP(t *testing.T) {
	if !RequiresOTP(BookingStatusConfirmed, BookingStatusInProgress) {
		t.Error("starting service requires a passcode")
	}
	if RequiresOTP(BookingStatusPending, BookingStatusConfirmed) {
		t.Error("confirmation needs no passcode")
	}
	if RequiresOTP(BookingStatusInProgress, BookingStatusCompleted) {
		t.Error("completion needs no passcode")
	}
}
