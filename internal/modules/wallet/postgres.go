// README: Wallet store backed by PostgreSQL; settlements run in one transaction.
package wallet

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"swiftride/internal/types"
)

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, driverID types.ID) (*Wallet, error) {
	row := s.db.QueryRow(ctx, `SELECT driver_id, balance FROM wallets WHERE driver_id = $1`, string(driverID))
	var w Wallet
	err := row.Scan(&w.DriverID, &w.Balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrWalletNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, `
		SELECT amount, type, created_at, ride_id
		FROM wallet_transactions
		WHERE driver_id = $1
		ORDER BY id`, string(driverID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var tx Transaction
		var rideID *string
		if err := rows.Scan(&tx.Amount, &tx.Type, &tx.Timestamp, &rideID); err != nil {
			return nil, err
		}
		if rideID != nil {
			id := types.ID(*rideID)
			tx.RideID = &id
		}
		w.Transactions = append(w.Transactions, tx)
	}
	return &w, rows.Err()
}

func (s *PostgresStore) Credit(ctx context.Context, driverID types.ID, tx Transaction) (*Wallet, error) {
	var out *Wallet
	err := pgx.BeginFunc(ctx, s.db, func(dbtx pgx.Tx) error {
		// Upsert with an in-place increment: no balance is ever read before
		// being written, so concurrent credits serialize in the store.
		if _, err := dbtx.Exec(ctx, `
			INSERT INTO wallets (driver_id, balance) VALUES ($1, $2)
			ON CONFLICT (driver_id) DO UPDATE SET balance = wallets.balance + $2`,
			string(driverID), tx.Amount,
		); err != nil {
			return err
		}
		if err := appendTransaction(ctx, dbtx, driverID, tx); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out, err = s.Get(ctx, driverID)
	return out, err
}

func (s *PostgresStore) ApplySettlement(ctx context.Context, driverID types.ID, net, fee float64, rideID types.ID) (*Wallet, error) {
	now := time.Now()
	err := pgx.BeginFunc(ctx, s.db, func(dbtx pgx.Tx) error {
		var settled bool
		if err := dbtx.QueryRow(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM wallet_transactions
				WHERE ride_id = $1 AND type = 'add_credit'
			)`, string(rideID),
		).Scan(&settled); err != nil {
			return err
		}
		if settled {
			return ErrAlreadySettled
		}
		if _, err := dbtx.Exec(ctx, `
			INSERT INTO wallets (driver_id, balance) VALUES ($1, $2)
			ON CONFLICT (driver_id) DO UPDATE SET balance = wallets.balance + $2`,
			string(driverID), net,
		); err != nil {
			return err
		}
		if err := appendTransaction(ctx, dbtx, driverID, Transaction{
			Amount: net, Type: TypeAddCredit, Timestamp: now, RideID: &rideID,
		}); err != nil {
			return err
		}
		if fee > 0 {
			if err := appendTransaction(ctx, dbtx, driverID, Transaction{
				Amount: fee, Type: TypeRideDeduction, Timestamp: now, RideID: &rideID,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		// Two settlements racing past the existence check both insert; the
		// loser hits the per-ride credit index. Same outcome as the check.
		if isSettledConflict(err) {
			return nil, ErrAlreadySettled
		}
		return nil, err
	}
	return s.Get(ctx, driverID)
}

// isSettledConflict reports whether err is the unique violation raised by
// wallet_tx_ride_credit_idx, the index that caps a ride at one add_credit.
func isSettledConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) &&
		pgErr.Code == "23505" &&
		pgErr.ConstraintName == "wallet_tx_ride_credit_idx"
}

func appendTransaction(ctx context.Context, dbtx pgx.Tx, driverID types.ID, tx Transaction) error {
	var rideID *string
	if tx.RideID != nil {
		v := string(*tx.RideID)
		rideID = &v
	}
	_, err := dbtx.Exec(ctx, `
		INSERT INTO wallet_transactions (driver_id, amount, type, created_at, ride_id)
		VALUES ($1, $2, $3, $4, $5)`,
		string(driverID), tx.Amount, string(tx.Type), tx.Timestamp, rideID,
	)
	return err
}
