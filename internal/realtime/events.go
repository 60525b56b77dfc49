// README: Notifier adapters: lifecycle events -> hub channels per party.
package realtime

import (
	"swiftride/internal/modules/ride"
	"swiftride/internal/modules/settlement"
)

// Notifier translates persisted lifecycle transitions into targeted and
// broadcast events. It is injected into the ride and settlement services so
// neither ever touches the transport directly.
type Notifier struct {
	hub *Hub
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

// statusUpdate is the compact payload pushed on plain status changes.
type statusUpdate struct {
	RideID   string `json:"rideId"`
	Status   string `json:"status"`
	UserID   string `json:"user_id"`
	DriverID string `json:"driver_id,omitempty"`
}

// cancelNotice tells a party their ride is gone and who pulled the plug.
type cancelNotice struct {
	RideID      string `json:"rideId"`
	Status      string `json:"status"`
	CancelledBy string `json:"cancelledBy"`
}

// RideRequested goes to every connected driver. No driver is assigned yet,
// so there is no channel to target.
func (n *Notifier) RideRequested(r *ride.Ride) {
	n.hub.Broadcast(Event{Name: "newRideRequest", Data: r})
}

func (n *Notifier) RideAccepted(r *ride.Ride) {
	n.hub.EmitTo(string(r.UserID), Event{Name: "rideAccepted", Data: r})
}

func (n *Notifier) RideStatusUpdated(r *ride.Ride) {
	payload := statusUpdate{
		RideID: string(r.ID),
		Status: string(r.Status),
		UserID: string(r.UserID),
	}
	if r.DriverID != nil {
		payload.DriverID = string(*r.DriverID)
	}
	n.hub.EmitTo(string(r.UserID), Event{Name: "rideStatusUpdated", Data: payload})
	if r.DriverID != nil {
		n.hub.EmitTo(string(*r.DriverID), Event{Name: "rideStatusUpdated", Data: payload})
	}
}

// RideCancelled notifies the assigned parties; for a still-unassigned ride it
// instead tells every driver to drop the open request from their list.
func (n *Notifier) RideCancelled(r *ride.Ride, cancelledBy string) {
	notice := cancelNotice{
		RideID:      string(r.ID),
		Status:      string(ride.StatusCancelled),
		CancelledBy: cancelledBy,
	}
	e := Event{Name: "rideCancelled", Data: notice}
	n.hub.EmitTo(string(r.UserID), e)
	if r.DriverID != nil {
		n.hub.EmitTo(string(*r.DriverID), e)
		return
	}
	n.hub.Broadcast(Event{Name: "removeRideRequest", Data: map[string]string{"rideId": string(r.ID)}})
}

// RideExpired withdraws the request from all drivers and tells the rider no
// driver was found.
func (n *Notifier) RideExpired(r *ride.Ride) {
	n.hub.Broadcast(Event{Name: "removeRideRequest", Data: map[string]string{"rideId": string(r.ID)}})
	n.hub.EmitTo(string(r.UserID), Event{Name: "rideStatusUpdated", Data: statusUpdate{
		RideID: string(r.ID),
		Status: string(ride.StatusDriverNotFound),
		UserID: string(r.UserID),
	}})
}

func (n *Notifier) PaymentSettled(p settlement.Payment) {
	e := Event{Name: "payment:success", Data: p}
	n.hub.EmitTo(string(p.UserID), e)
	n.hub.EmitTo(string(p.DriverID), e)
}
