// README: Notifier routing tests: which party hears which lifecycle event.
package realtime

import (
	"testing"

	"github.com/rs/zerolog"

	"swiftride/internal/modules/ride"
	"swiftride/internal/modules/settlement"
	"swiftride/internal/types"
)

func TestRideRequestedBroadcasts(t *testing.T) {
	n, sessions := newTestNotifier(t)

	n.RideRequested(&ride.Ride{ID: "r1", UserID: "u1"})

	for name, s := range sessions {
		events := s.received()
		if len(events) != 1 || events[0].Name != "newRideRequest" {
			t.Fatalf("session %s: expected newRideRequest, got %+v", name, events)
		}
	}
}

func TestRideAcceptedGoesToRiderOnly(t *testing.T) {
	n, sessions := newTestNotifier(t)
	driverID := types.ID("d1")

	n.RideAccepted(&ride.Ride{ID: "r1", UserID: "u1", DriverID: &driverID})

	if events := sessions["u1"].received(); len(events) != 1 || events[0].Name != "rideAccepted" {
		t.Fatalf("rider: expected rideAccepted, got %+v", events)
	}
	if events := sessions["d1"].received(); len(events) != 0 {
		t.Fatalf("accepting driver should get the ride back over HTTP, got %+v", events)
	}
	if events := sessions["d2"].received(); len(events) != 0 {
		t.Fatalf("other driver: expected nothing, got %+v", events)
	}
}

func TestRideStatusUpdatedGoesToBothParties(t *testing.T) {
	n, sessions := newTestNotifier(t)
	driverID := types.ID("d1")

	n.RideStatusUpdated(&ride.Ride{ID: "r1", UserID: "u1", DriverID: &driverID, Status: ride.StatusOngoing})

	for _, name := range []string{"u1", "d1"} {
		events := sessions[name].received()
		if len(events) != 1 || events[0].Name != "rideStatusUpdated" {
			t.Fatalf("%s: expected rideStatusUpdated, got %+v", name, events)
		}
		payload := events[0].Data.(statusUpdate)
		if payload.RideID != "r1" || payload.Status != "ongoing" {
			t.Fatalf("%s: unexpected payload %+v", name, payload)
		}
	}
	if events := sessions["d2"].received(); len(events) != 0 {
		t.Fatalf("uninvolved driver: expected nothing, got %+v", events)
	}
}

func TestRideCancelledAssignedRide(t *testing.T) {
	n, sessions := newTestNotifier(t)
	driverID := types.ID("d1")

	n.RideCancelled(&ride.Ride{ID: "r1", UserID: "u1", DriverID: &driverID}, "driver")

	for _, name := range []string{"u1", "d1"} {
		events := sessions[name].received()
		if len(events) != 1 || events[0].Name != "rideCancelled" {
			t.Fatalf("%s: expected rideCancelled, got %+v", name, events)
		}
		notice := events[0].Data.(cancelNotice)
		if notice.CancelledBy != "driver" {
			t.Fatalf("%s: expected cancelledBy=driver, got %+v", name, notice)
		}
	}
	if events := sessions["d2"].received(); len(events) != 0 {
		t.Fatalf("uninvolved driver: expected nothing, got %+v", events)
	}
}

func TestRideCancelledUnassignedWithdrawsRequest(t *testing.T) {
	n, sessions := newTestNotifier(t)

	n.RideCancelled(&ride.Ride{ID: "r1", UserID: "u1"}, "user")

	// Every session hears removeRideRequest; the rider additionally hears the
	// cancel notice.
	for _, name := range []string{"d1", "d2"} {
		events := sessions[name].received()
		if len(events) != 1 || events[0].Name != "removeRideRequest" {
			t.Fatalf("%s: expected removeRideRequest, got %+v", name, events)
		}
	}
	riderEvents := sessions["u1"].received()
	if len(riderEvents) != 2 {
		t.Fatalf("rider: expected cancel notice plus withdrawal, got %+v", riderEvents)
	}
	if riderEvents[0].Name != "rideCancelled" {
		t.Fatalf("rider: expected rideCancelled first, got %+v", riderEvents)
	}
}

func TestRideExpiredTellsRiderAndWithdraws(t *testing.T) {
	n, sessions := newTestNotifier(t)

	n.RideExpired(&ride.Ride{ID: "r1", UserID: "u1", Status: ride.StatusDriverNotFound})

	riderEvents := sessions["u1"].received()
	if len(riderEvents) != 2 {
		t.Fatalf("rider: expected 2 events, got %+v", riderEvents)
	}
	last := riderEvents[len(riderEvents)-1]
	if last.Name != "rideStatusUpdated" {
		t.Fatalf("rider: expected rideStatusUpdated, got %+v", last)
	}
	if payload := last.Data.(statusUpdate); payload.Status != "driver-not-found" {
		t.Fatalf("rider: expected driver-not-found status, got %+v", payload)
	}
	for _, name := range []string{"d1", "d2"} {
		events := sessions[name].received()
		if len(events) != 1 || events[0].Name != "removeRideRequest" {
			t.Fatalf("%s: expected removeRideRequest, got %+v", name, events)
		}
	}
}

func TestPaymentSettledGoesToBothParties(t *testing.T) {
	n, sessions := newTestNotifier(t)

	n.PaymentSettled(settlement.Payment{RideID: "r1", UserID: "u1", DriverID: "d1", Status: "success"})

	for _, name := range []string{"u1", "d1"} {
		events := sessions[name].received()
		if len(events) != 1 || events[0].Name != "payment:success" {
			t.Fatalf("%s: expected payment:success, got %+v", name, events)
		}
	}
	if events := sessions["d2"].received(); len(events) != 0 {
		t.Fatalf("uninvolved driver: expected nothing, got %+v", events)
	}
}

func newTestNotifier(t *testing.T) (*Notifier, map[string]*fakeSession) {
	t.Helper()
	hub := NewHub(zerolog.Nop())
	sessions := map[string]*fakeSession{
		"u1": newFakeSession("u1", false),
		"d1": newFakeSession("d1", true),
		"d2": newFakeSession("d2", true),
	}
	for _, s := range sessions {
		hub.Join(s)
	}
	return NewNotifier(hub), sessions
}
