package enums

import "fmt"

// RideStatus tracks a ride from request to drop-off.
type RideStatus string

const (
	RideStatusPending    RideStatus = "pending"
	RideStatusAccepted   RideStatus = "accepted"
	RideStatusInProgress RideStatus = "in_progress"
	RideStatusCompleted  RideStatus = "completed"
	RideStatusCancelled  RideStatus = "cancelled"
)

var validRideStatuses = []RideStatus{
	RideStatusPending,
	RideStatusAccepted,
	RideStatusInProgress,
	RideStatusCompleted,
	RideStatusCancelled,
}

var rideTransitions = map[RideStatus][]RideStatus{
	RideStatusPending:    {RideStatusAccepted, RideStatusCancelled},
	RideStatusAccepted:   {RideStatusInProgress, RideStatusCancelled},
	RideStatusInProgress: {RideStatusCompleted, RideStatusCancelled},
}

// String implements fmt.Stringer.
func (s RideStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known RideStatus.
func (s RideStatus) IsValid() bool {
	for _, candidate := range validRideStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions leave this status.
func (s RideStatus) IsTerminal() bool {
	return s == RideStatusCompleted || s == RideStatusCancelled
}

// CanTransitionTo reports whether next follows s on the forward path.
// Staying in the same status is always allowed.
func (s RideStatus) CanTransitionTo(next RideStatus) bool {
	if s == next {
		return true
	}
	for _, candidate := range rideTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// ParseRideStatus converts raw input into a RideStatus.
func ParseRideStatus(value string) (RideStatus, error) {
	for _, candidate := range validRideStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ride status %q", value)
}
