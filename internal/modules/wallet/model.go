// README: Credit wallet aggregate and its append-only transaction entries.
package wallet

import (
	"time"

	"swiftride/internal/types"
)

type TransactionType string

const (
	TypeAddCredit     TransactionType = "add_credit"
	TypeRideDeduction TransactionType = "ride_deduction"
)

// Transaction is immutable once appended. Amounts are always stored positive;
// the type carries the sign.
type Transaction struct {
	Amount    float64         `json:"amount"`
	Type      TransactionType `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	RideID    *types.ID       `json:"rideId,omitempty"`
}

type Wallet struct {
	DriverID     types.ID      `json:"driver"`
	Balance      float64       `json:"balance"`
	Transactions []Transaction `json:"transactions"`
}
