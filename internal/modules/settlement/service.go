// README: Settlement engine: splits a completed fare into platform fee and driver net.
package settlement

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"swiftride/internal/modules/ride"
	"swiftride/internal/modules/wallet"
	"swiftride/internal/types"
)

var (
	ErrRideNotCompleted = errors.New("ride is not completed yet")
	ErrNoDriverAssigned = errors.New("no driver assigned to this ride")
	ErrInvalidFare      = errors.New("invalid fare amount for this ride")
)

// Result is what the caller and both realtime parties see after settlement.
type Result struct {
	PlatformFeePercent float64        `json:"platformFeePercent"`
	PlatformFee        float64        `json:"platformFee"`
	NetAmount          float64        `json:"netAmount"`
	Wallet             *wallet.Wallet `json:"wallet"`
}

// Payment is the realtime payload emitted to the rider and the driver.
type Payment struct {
	RideID             types.ID `json:"rideId"`
	UserID             types.ID `json:"userId"`
	DriverID           types.ID `json:"driverId"`
	Fare               float64  `json:"fare"`
	PlatformFeePercent float64  `json:"platformFeePercent"`
	PlatformFee        float64  `json:"platformFee"`
	NetAmount          float64  `json:"netAmount"`
	Status             string   `json:"status"`
}

type Notifier interface {
	PaymentSettled(p Payment)
}

type Service struct {
	rides      ride.Store
	wallets    *wallet.Service
	notifier   Notifier
	feePercent float64
	log        zerolog.Logger
}

func NewService(rides ride.Store, wallets *wallet.Service, notifier Notifier, feePercent float64, log zerolog.Logger) *Service {
	return &Service{rides: rides, wallets: wallets, notifier: notifier, feePercent: feePercent, log: log}
}

// Settle credits a completed ride's fare to its driver, minus the platform
// fee. Preconditions are checked in order; the first failure wins. The wallet
// write is one compound atomic update, and a second settlement of the same
// ride fails with wallet.ErrAlreadySettled instead of double-crediting.
//
// Amounts are rounded to 2 decimals, half away from zero (types.Round2).
func (s *Service) Settle(ctx context.Context, rideID types.ID) (*Result, error) {
	r, err := s.rides.Get(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if r.Status != ride.StatusCompleted {
		return nil, ErrRideNotCompleted
	}
	if r.DriverID == nil {
		return nil, ErrNoDriverAssigned
	}
	if r.Fare == nil || *r.Fare <= 0 {
		return nil, ErrInvalidFare
	}

	fare := *r.Fare
	fee := types.Round2(fare * s.feePercent / 100)
	net := types.Round2(fare - fee)

	w, err := s.wallets.ApplySettlement(ctx, *r.DriverID, net, fee, r.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("ride_id", string(r.ID)).
		Str("driver_id", string(*r.DriverID)).
		Float64("fare", fare).
		Float64("platform_fee", fee).
		Float64("net_amount", net).
		Msg("ride payment settled")

	if s.notifier != nil {
		s.notifier.PaymentSettled(Payment{
			RideID:             r.ID,
			UserID:             r.UserID,
			DriverID:           *r.DriverID,
			Fare:               fare,
			PlatformFeePercent: s.feePercent,
			PlatformFee:        fee,
			NetAmount:          net,
			Status:             "success",
		})
	}

	return &Result{
		PlatformFeePercent: s.feePercent,
		PlatformFee:        fee,
		NetAmount:          net,
		Wallet:             w,
	}, nil
}
