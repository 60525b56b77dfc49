// README: Identity store: interface plus the Postgres implementation.
package identity

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"swiftride/internal/types"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDriverNotFound = errors.New("driver not found")
)

// Store resolves claimed identities against the backing records. The realtime
// gate and the wallet ledger both refuse to act for ids this store cannot
// resolve.
type Store interface {
	GetUser(ctx context.Context, id types.ID) (*User, error)
	GetDriver(ctx context.Context, id types.ID) (*Driver, error)
}

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) GetUser(ctx context.Context, id types.ID) (*User, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, name, phone_number, profile_picture_url, created_at
		FROM users
		WHERE id = $1`, string(id),
	)
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.PhoneNumber, &u.ProfilePicture, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *PostgresStore) GetDriver(ctx context.Context, id types.ID) (*Driver, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, driver_name, vehicle_model, vehicle_number, rating, profile_image, created_at
		FROM drivers
		WHERE id = $1`, string(id),
	)
	var d Driver
	err := row.Scan(&d.ID, &d.Name, &d.VehicleModel, &d.VehicleNumber, &d.Rating, &d.ProfileImage, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrDriverNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}
