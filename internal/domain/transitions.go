package domain

// Actor is who a caller is relative to a booking, not their platform role.
type Actor string

const (
	ActorSeeker   Actor = "seeker"
	ActorProvider Actor = "provider"
)

type transition struct {
	from string
	to   string
}

// transitionActors is the single source of truth for booking status changes:
// which transitions exist at all, and who may request each one.
var transitionActors = map[transition][]Actor{
	{BookingStatusPending, BookingStatusConfirmed}:    {ActorProvider},
	{BookingStatusPending, BookingStatusCancelled}:    {ActorSeeker, ActorProvider},
	{BookingStatusConfirmed, BookingStatusCancelled}:  {ActorSeeker, ActorProvider},
	{BookingStatusConfirmed, BookingStatusInProgress}: {ActorProvider},
	{BookingStatusInProgress, BookingStatusCompleted}: {ActorProvider},
}

// CanTransition reports whether the given actor may move a booking from one
// status to another. Unknown status pairs are always denied.
func CanTransition(actor Actor, from, to string) bool {
	allowed, ok := transitionActors[transition{from, to}]
	if !ok {
		return false
	}
	for _, a := range allowed {
		if a == actor {
			return true
		}
	}
	return false
}

// TransitionExists reports whether from->to is a legal edge for any actor.
func TransitionExists(from, to string) bool {
	_, ok := transitionActors[transition{from, to}]
	return ok
}

// RequiresOTP reports whether the transition is gated by a verified passcode.
func RequiresOTP(from, to string) bool {
	return from == BookingStatusConfirmed && to == BookingStatusInProgress
}
