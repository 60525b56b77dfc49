// README: Wallet store interface; balance changes are atomic increments, never read-modify-write.
package wallet

import (
	"context"

	"swiftride/internal/types"
)

// Store owns the wallet document. Credit and ApplySettlement must each be a
// single atomic operation: concurrent calls for the same driver serialize on
// the store's increment, and a settlement either lands both its entries or
// neither.
type Store interface {
	Get(ctx context.Context, driverID types.ID) (*Wallet, error)
	// Credit increments the balance by tx.Amount and appends tx, creating the
	// wallet if absent.
	Credit(ctx context.Context, driverID types.ID, tx Transaction) (*Wallet, error)
	// ApplySettlement increments the balance by net and appends the
	// add_credit(net) entry plus, when fee > 0, the ride_deduction(fee)
	// entry, all tagged with rideID. Returns ErrAlreadySettled if the log
	// already holds an add_credit for this ride.
	ApplySettlement(ctx context.Context, driverID types.ID, net, fee float64, rideID types.ID) (*Wallet, error)
}
