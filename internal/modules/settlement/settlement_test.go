// README: Settlement engine tests (fee split, preconditions, idempotency).
package settlement

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"swiftride/internal/modules/identity"
	"swiftride/internal/modules/ride"
	"swiftride/internal/modules/wallet"
	"swiftride/internal/types"
)

func TestSettleSplitsFare(t *testing.T) {
	env := newTestEnv(t)
	rideID := env.completedRide(t, 100)

	res, err := env.svc.Settle(context.Background(), rideID)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if res.PlatformFeePercent != 0.5 {
		t.Fatalf("expected fee percent 0.5, got %v", res.PlatformFeePercent)
	}
	if res.PlatformFee != 0.50 {
		t.Fatalf("expected platform fee 0.50, got %v", res.PlatformFee)
	}
	if res.NetAmount != 99.50 {
		t.Fatalf("expected net 99.50, got %v", res.NetAmount)
	}
	if res.Wallet.Balance != 99.50 {
		t.Fatalf("expected wallet balance 99.50, got %v", res.Wallet.Balance)
	}
	if len(res.Wallet.Transactions) != 2 {
		t.Fatalf("expected 2 ledger records, got %d", len(res.Wallet.Transactions))
	}
	if res.Wallet.Transactions[0].Type != wallet.TypeAddCredit {
		t.Fatalf("expected add_credit first, got %s", res.Wallet.Transactions[0].Type)
	}
	if res.Wallet.Transactions[1].Type != wallet.TypeRideDeduction {
		t.Fatalf("expected ride_deduction second, got %s", res.Wallet.Transactions[1].Type)
	}
}

func TestSettleRounding(t *testing.T) {
	cases := []struct {
		fare    float64
		wantFee float64
		wantNet float64
	}{
		{100, 0.50, 99.50},
		{199.99, 1.00, 198.99},
		{1, 0.01, 0.99},
		{0.99, 0, 0.99}, // fee rounds to zero, no deduction record expected
	}
	for _, tc := range cases {
		env := newTestEnv(t)
		rideID := env.completedRide(t, tc.fare)

		res, err := env.svc.Settle(context.Background(), rideID)
		if err != nil {
			t.Fatalf("settle fare %v: %v", tc.fare, err)
		}
		if res.PlatformFee != tc.wantFee {
			t.Errorf("fare %v: expected fee %v, got %v", tc.fare, tc.wantFee, res.PlatformFee)
		}
		if res.NetAmount != tc.wantNet {
			t.Errorf("fare %v: expected net %v, got %v", tc.fare, tc.wantNet, res.NetAmount)
		}
		if res.PlatformFee == 0 && len(res.Wallet.Transactions) != 1 {
			t.Errorf("fare %v: expected only the credit record, got %d", tc.fare, len(res.Wallet.Transactions))
		}
	}
}

func TestSettlePreconditions(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown_ride", func(t *testing.T) {
		env := newTestEnv(t)
		if _, err := env.svc.Settle(ctx, "missing"); err != ride.ErrRideNotFound {
			t.Fatalf("expected ErrRideNotFound, got %v", err)
		}
	})

	t.Run("ride_not_completed", func(t *testing.T) {
		env := newTestEnv(t)
		r := env.storedRide(t, ride.StatusOngoing, ptrID("d1"), ptrFare(100))
		if _, err := env.svc.Settle(ctx, r); err != ErrRideNotCompleted {
			t.Fatalf("expected ErrRideNotCompleted, got %v", err)
		}
	})

	t.Run("no_driver", func(t *testing.T) {
		env := newTestEnv(t)
		r := env.storedRide(t, ride.StatusCompleted, nil, ptrFare(100))
		if _, err := env.svc.Settle(ctx, r); err != ErrNoDriverAssigned {
			t.Fatalf("expected ErrNoDriverAssigned, got %v", err)
		}
	})

	t.Run("missing_fare", func(t *testing.T) {
		env := newTestEnv(t)
		r := env.storedRide(t, ride.StatusCompleted, ptrID("d1"), nil)
		if _, err := env.svc.Settle(ctx, r); err != ErrInvalidFare {
			t.Fatalf("expected ErrInvalidFare, got %v", err)
		}
	})

	t.Run("zero_fare", func(t *testing.T) {
		env := newTestEnv(t)
		r := env.storedRide(t, ride.StatusCompleted, ptrID("d1"), ptrFare(0))
		if _, err := env.svc.Settle(ctx, r); err != ErrInvalidFare {
			t.Fatalf("expected ErrInvalidFare, got %v", err)
		}
	})
}

func TestSettleTwiceFails(t *testing.T) {
	env := newTestEnv(t)
	rideID := env.completedRide(t, 100)
	ctx := context.Background()

	if _, err := env.svc.Settle(ctx, rideID); err != nil {
		t.Fatalf("first settle: %v", err)
	}
	if _, err := env.svc.Settle(ctx, rideID); err != wallet.ErrAlreadySettled {
		t.Fatalf("second settle: expected ErrAlreadySettled, got %v", err)
	}

	// The wallet still holds exactly one settlement's worth.
	w, err := env.wallets.History(ctx, "d1")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(w) != 2 {
		t.Fatalf("expected 2 ledger records after double settle, got %d", len(w))
	}
}

func TestSettleNotifiesBothParties(t *testing.T) {
	env := newTestEnv(t)
	rideID := env.completedRide(t, 200)

	if _, err := env.svc.Settle(context.Background(), rideID); err != nil {
		t.Fatalf("settle: %v", err)
	}
	if env.notifier.last == nil {
		t.Fatal("expected a payment notification")
	}
	p := *env.notifier.last
	if p.RideID != rideID || p.UserID != "u1" || p.DriverID != "d1" {
		t.Fatalf("unexpected payment parties: %+v", p)
	}
	if p.Fare != 200 || p.PlatformFee != 1.00 || p.NetAmount != 199.00 {
		t.Fatalf("unexpected payment amounts: %+v", p)
	}
	if p.Status != "success" {
		t.Fatalf("expected status success, got %q", p.Status)
	}
}

type recordingNotifier struct {
	last *Payment
}

func (n *recordingNotifier) PaymentSettled(p Payment) { n.last = &p }

type testEnv struct {
	rides    *ride.MemoryStore
	wallets  *wallet.Service
	notifier *recordingNotifier
	svc      *Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	identities := identity.NewMemoryStore()
	identities.PutDriver(&identity.Driver{ID: "d1", Name: "Settle Driver"})

	rides := ride.NewMemoryStore()
	wallets := wallet.NewService(wallet.NewMemoryStore(), identities)
	notifier := &recordingNotifier{}
	return &testEnv{
		rides:    rides,
		wallets:  wallets,
		notifier: notifier,
		svc:      NewService(rides, wallets, notifier, 0.5, zerolog.Nop()),
	}
}

func (e *testEnv) completedRide(t *testing.T, fare float64) types.ID {
	t.Helper()
	return e.storedRide(t, ride.StatusCompleted, ptrID("d1"), &fare)
}

func (e *testEnv) storedRide(t *testing.T, status ride.Status, driverID *types.ID, fare *float64) types.ID {
	t.Helper()
	r := &ride.Ride{
		ID:       ride.NewID(),
		UserID:   "u1",
		DriverID: driverID,
		Status:   status,
		Fare:     fare,
	}
	if err := e.rides.Create(context.Background(), r); err != nil {
		t.Fatalf("create ride: %v", err)
	}
	return r.ID
}

func ptrID(s types.ID) *types.ID { return &s }
func ptrFare(v float64) *float64 { return &v }
