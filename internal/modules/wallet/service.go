// README: Wallet ledger service: credit grants and transaction history.
package wallet

import (
	"context"
	"errors"
	"time"

	"swiftride/internal/modules/identity"
	"swiftride/internal/types"
)

var (
	ErrInvalidAmount  = errors.New("please provide a valid credit amount")
	ErrWalletNotFound = errors.New("no credit wallet found for this driver")
	ErrAlreadySettled = errors.New("ride has already been settled")
)

// nowFunc is swapped in tests to pin transaction timestamps.
var nowFunc = time.Now

type Service struct {
	store   Store
	drivers identity.Store
}

func NewService(store Store, drivers identity.Store) *Service {
	return &Service{store: store, drivers: drivers}
}

// Credit adds amount to the driver's wallet and appends one transaction.
// Wallet creation is lazy, but only for a driver the identity store knows:
// crediting an unknown id fails with identity.ErrDriverNotFound.
func (s *Service) Credit(ctx context.Context, driverID types.ID, amount float64, txType TransactionType, rideRef *types.ID) (*Wallet, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if _, err := s.store.Get(ctx, driverID); errors.Is(err, ErrWalletNotFound) {
		if _, derr := s.drivers.GetDriver(ctx, driverID); derr != nil {
			return nil, derr
		}
	} else if err != nil {
		return nil, err
	}
	return s.store.Credit(ctx, driverID, Transaction{
		Amount:    amount,
		Type:      txType,
		Timestamp: nowFunc(),
		RideID:    rideRef,
	})
}

// History returns the wallet's transactions in append order.
func (s *Service) History(ctx context.Context, driverID types.ID) ([]Transaction, error) {
	w, err := s.store.Get(ctx, driverID)
	if err != nil {
		return nil, err
	}
	return w.Transactions, nil
}

// ApplySettlement forwards the settlement engine's compound update to the
// store. The net credit and the fee record land together or not at all, and a
// ride settles at most once.
func (s *Service) ApplySettlement(ctx context.Context, driverID types.ID, net, fee float64, rideID types.ID) (*Wallet, error) {
	return s.store.ApplySettlement(ctx, driverID, net, fee, rideID)
}
