// README: In-memory wallet store; one mutex stands in for the store's atomic increment.
package wallet

import (
	"context"
	"sync"

	"swiftride/internal/types"
)

type MemoryStore struct {
	mu      sync.Mutex
	wallets map[types.ID]*Wallet
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{wallets: make(map[types.ID]*Wallet)}
}

func (s *MemoryStore) Get(_ context.Context, driverID types.ID) (*Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets[driverID]
	if !ok {
		return nil, ErrWalletNotFound
	}
	return cloneWallet(w), nil
}

func (s *MemoryStore) Credit(_ context.Context, driverID types.ID, tx Transaction) (*Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := s.upsert(driverID)
	w.Balance += tx.Amount
	w.Transactions = append(w.Transactions, tx)
	return cloneWallet(w), nil
}

func (s *MemoryStore) ApplySettlement(_ context.Context, driverID types.ID, net, fee float64, rideID types.ID) (*Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range s.wallets {
		for _, tx := range w.Transactions {
			if tx.Type == TypeAddCredit && tx.RideID != nil && *tx.RideID == rideID {
				return nil, ErrAlreadySettled
			}
		}
	}
	w := s.upsert(driverID)
	w.Balance += net
	now := nowFunc()
	w.Transactions = append(w.Transactions, Transaction{
		Amount: net, Type: TypeAddCredit, Timestamp: now, RideID: &rideID,
	})
	if fee > 0 {
		w.Transactions = append(w.Transactions, Transaction{
			Amount: fee, Type: TypeRideDeduction, Timestamp: now, RideID: &rideID,
		})
	}
	return cloneWallet(w), nil
}

func (s *MemoryStore) upsert(driverID types.ID) *Wallet {
	w, ok := s.wallets[driverID]
	if !ok {
		w = &Wallet{DriverID: driverID}
		s.wallets[driverID] = w
	}
	return w
}

func cloneWallet(w *Wallet) *Wallet {
	cp := *w
	cp.Transactions = append([]Transaction(nil), w.Transactions...)
	return &cp
}
