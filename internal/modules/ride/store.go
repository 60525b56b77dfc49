// README: Ride store interface; all lifecycle writes go through UpdateStatus CAS.
package ride

import (
	"context"
	"time"

	"swiftride/internal/types"
)

// Store persists rides. UpdateStatus is the only mutation after Create: it
// must apply the status change and any driver/cancelled-by assignment as one
// conditional update that fails (false, nil) when the observed status or
// version no longer matches. Rides are never deleted.
type Store interface {
	Create(ctx context.Context, r *Ride) error
	Get(ctx context.Context, id types.ID) (*Ride, error)
	UpdateStatus(ctx context.Context, id types.ID, from, to Status, version int, driverID *types.ID, cancelledBy string) (bool, error)
	// ActiveForIdentity returns the most recent ride in {accepted, ongoing}
	// owned by the identity and created at or after the cutoff, or nil.
	ActiveForIdentity(ctx context.Context, identity types.ID, isDriver bool, since time.Time) (*Ride, error)
	ListByIdentity(ctx context.Context, identity types.ID, isDriver bool, status Status) ([]*Ride, error)
	// ListStaleRequested returns rides still in requested that were created
	// before the cutoff.
	ListStaleRequested(ctx context.Context, before time.Time) ([]*Ride, error)
}
