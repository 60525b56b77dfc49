// README: Ride store backed by PostgreSQL.
package ride

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"swiftride/internal/types"
)

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

const rideColumns = `
	id, user_id, driver_id, status, status_version,
	pickup_address, pickup_lat, pickup_lng,
	dropoff_address, dropoff_lat, dropoff_lng,
	fare, estimated_time, cancelled_by, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, r *Ride) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO rides (
			id, user_id, driver_id, status, status_version,
			pickup_address, pickup_lat, pickup_lng,
			dropoff_address, dropoff_lat, dropoff_lng,
			fare, estimated_time, cancelled_by, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8,
			$9, $10, $11,
			$12, $13, $14, $15, $16
		)`,
		string(r.ID),
		string(r.UserID),
		idPtr(r.DriverID),
		string(r.Status),
		r.StatusVersion,
		r.Pickup.Address, r.Pickup.Lat, r.Pickup.Lng,
		r.Dropoff.Address, r.Dropoff.Lat, r.Dropoff.Lng,
		r.Fare,
		r.EstimatedTime,
		r.CancelledBy,
		r.CreatedAt,
		r.UpdatedAt,
	)
	return err
}

func (s *PostgresStore) Get(ctx context.Context, id types.ID) (*Ride, error) {
	row := s.db.QueryRow(ctx, `SELECT`+rideColumns+` FROM rides WHERE id = $1`, string(id))
	return scanRide(row)
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, id types.ID, from, to Status, version int, driverID *types.ID, cancelledBy string) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE rides
		SET status = $1,
		    status_version = status_version + 1,
		    driver_id = COALESCE($2, driver_id),
		    cancelled_by = CASE WHEN $3 <> '' THEN $3 ELSE cancelled_by END,
		    updated_at = NOW()
		WHERE id = $4 AND status = $5 AND status_version = $6`,
		string(to),
		idPtr(driverID),
		cancelledBy,
		string(id),
		string(from),
		version,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *PostgresStore) ActiveForIdentity(ctx context.Context, identity types.ID, isDriver bool, since time.Time) (*Ride, error) {
	col := "user_id"
	if isDriver {
		col = "driver_id"
	}
	row := s.db.QueryRow(ctx, `
		SELECT`+rideColumns+`
		FROM rides
		WHERE `+col+` = $1
		  AND status IN ('accepted', 'ongoing')
		  AND created_at >= $2
		ORDER BY created_at DESC
		LIMIT 1`, string(identity), since,
	)
	r, err := scanRide(row)
	if errors.Is(err, ErrRideNotFound) {
		return nil, nil
	}
	return r, err
}

func (s *PostgresStore) ListByIdentity(ctx context.Context, identity types.ID, isDriver bool, status Status) ([]*Ride, error) {
	col := "user_id"
	if isDriver {
		col = "driver_id"
	}
	q := `SELECT` + rideColumns + ` FROM rides WHERE ` + col + ` = $1`
	args := []any{string(identity)}
	if status != "" {
		q += ` AND status = $2`
		args = append(args, string(status))
	}
	q += ` ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRides(rows)
}

func (s *PostgresStore) ListStaleRequested(ctx context.Context, before time.Time) ([]*Ride, error) {
	rows, err := s.db.Query(ctx, `
		SELECT`+rideColumns+`
		FROM rides
		WHERE status = 'requested' AND created_at < $1`, before,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRides(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRide(row rowScanner) (*Ride, error) {
	var r Ride
	var driverID, cancelledBy sql.NullString
	var fare sql.NullFloat64

	err := row.Scan(
		&r.ID, &r.UserID, &driverID, &r.Status, &r.StatusVersion,
		&r.Pickup.Address, &r.Pickup.Lat, &r.Pickup.Lng,
		&r.Dropoff.Address, &r.Dropoff.Lat, &r.Dropoff.Lng,
		&fare, &r.EstimatedTime, &cancelledBy, &r.CreatedAt, &r.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRideNotFound
	}
	if err != nil {
		return nil, err
	}
	if driverID.Valid {
		d := types.ID(driverID.String)
		r.DriverID = &d
	}
	if fare.Valid {
		v := fare.Float64
		r.Fare = &v
	}
	if cancelledBy.Valid {
		r.CancelledBy = cancelledBy.String
	}
	return &r, nil
}

func collectRides(rows pgx.Rows) ([]*Ride, error) {
	var out []*Ride
	for rows.Next() {
		r, err := scanRide(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func idPtr(v *types.ID) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}
