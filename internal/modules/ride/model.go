// README: Ride aggregate and lifecycle status definitions.
package ride

import (
	"time"

	"swiftride/internal/modules/identity"
	"swiftride/internal/types"
)

type Status string

const (
	StatusRequested      Status = "requested"
	StatusAccepted       Status = "accepted"
	StatusOngoing        Status = "ongoing"
	StatusCompleted      Status = "completed"
	StatusCancelled      Status = "cancelled"
	StatusDriverNotFound Status = "driver-not-found"
)

type Ride struct {
	ID            types.ID         `json:"id"`
	UserID        types.ID         `json:"userId"`
	User          *identity.User   `json:"user,omitempty"`
	DriverID      *types.ID        `json:"driverId,omitempty"`
	Driver        *identity.Driver `json:"driver,omitempty"`
	Pickup        types.Location   `json:"pickupLocation"`
	Dropoff       types.Location   `json:"dropoffLocation"`
	Status        Status           `json:"status"`
	StatusVersion int              `json:"-"`
	Fare          *float64         `json:"fare,omitempty"`
	EstimatedTime string           `json:"estimatedTime,omitempty"`
	CancelledBy   string           `json:"cancelledBy,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// AllowedTransitions represents the ride state flow as code. A ride may only
// carry a driver from accepted onward, so requested never jumps straight to
// ongoing or completed.
var AllowedTransitions = map[Status][]Status{
	StatusRequested:      {StatusAccepted, StatusDriverNotFound, StatusCancelled},
	StatusAccepted:       {StatusOngoing, StatusCompleted, StatusCancelled},
	StatusOngoing:        {StatusCompleted, StatusCancelled},
	StatusDriverNotFound: {StatusCancelled},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition may leave the status.
func IsTerminal(s Status) bool {
	return s == StatusCompleted || s == StatusCancelled
}
