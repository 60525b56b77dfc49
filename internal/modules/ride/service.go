// README: Ride service implements the lifecycle state machine over the store CAS.
package ride

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"swiftride/internal/modules/identity"
	"swiftride/internal/types"
)

var (
	ErrRideNotFound      = errors.New("ride not found")
	ErrRideNotAvailable  = errors.New("ride is no longer available")
	ErrIllegalTransition = errors.New("illegal status transition")
	ErrAlreadyFinal      = errors.New("this ride cannot be cancelled")
	ErrConflict          = errors.New("ride state conflict")
	ErrBadRequest        = errors.New("pickup and dropoff locations are required")
)

// Notifier receives lifecycle events after a transition has been persisted.
// Implementations deliver best-effort; the service never fails a transition
// over a delivery problem.
type Notifier interface {
	RideRequested(r *Ride)
	RideAccepted(r *Ride)
	RideStatusUpdated(r *Ride)
	RideCancelled(r *Ride, cancelledBy string)
	RideExpired(r *Ride)
}

// Estimator produces a human-readable travel time for a pickup/dropoff pair.
type Estimator interface {
	EstimateTravelTime(ctx context.Context, from, to types.Point) (string, error)
}

type Service struct {
	store      Store
	identities identity.Store
	notifier   Notifier
	estimator  Estimator
	log        zerolog.Logger
}

func NewService(store Store, identities identity.Store, notifier Notifier, estimator Estimator, log zerolog.Logger) *Service {
	return &Service{store: store, identities: identities, notifier: notifier, estimator: estimator, log: log}
}

type RequestCommand struct {
	UserID        types.ID
	Pickup        types.Location
	Dropoff       types.Location
	Fare          *float64
	EstimatedTime string
}

func (s *Service) Request(ctx context.Context, cmd RequestCommand) (*Ride, error) {
	if cmd.UserID == "" || emptyLocation(cmd.Pickup) || emptyLocation(cmd.Dropoff) {
		return nil, ErrBadRequest
	}

	now := time.Now()
	r := &Ride{
		ID:            NewID(),
		UserID:        cmd.UserID,
		Pickup:        cmd.Pickup,
		Dropoff:       cmd.Dropoff,
		Status:        StatusRequested,
		Fare:          cmd.Fare,
		EstimatedTime: cmd.EstimatedTime,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if r.EstimatedTime == "" && s.estimator != nil {
		if eta, err := s.estimator.EstimateTravelTime(ctx, cmd.Pickup.Point(), cmd.Dropoff.Point()); err == nil {
			r.EstimatedTime = eta
		}
	}
	if err := s.store.Create(ctx, r); err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.RideRequested(r)
	}
	return r, nil
}

// Accept assigns the ride to the driver. First acceptor wins: the status
// check and the driver assignment are one conditional update, so a losing
// racer observes ErrRideNotAvailable rather than overwriting the winner.
func (s *Service) Accept(ctx context.Context, rideID, driverID types.ID) (*Ride, error) {
	r, err := s.store.Get(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if r.Status != StatusRequested {
		return nil, ErrRideNotAvailable
	}
	ok, err := s.store.UpdateStatus(ctx, r.ID, StatusRequested, StatusAccepted, r.StatusVersion, &driverID, "")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrRideNotAvailable
	}
	accepted, err := s.Get(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.RideAccepted(accepted)
	}
	return accepted, nil
}

// UpdateStatus moves a ride to ongoing or completed. Anything else, and any
// move out of a terminal status, is rejected before the store is touched.
func (s *Service) UpdateStatus(ctx context.Context, rideID types.ID, to Status) (*Ride, error) {
	if to != StatusOngoing && to != StatusCompleted {
		return nil, ErrIllegalTransition
	}
	r, err := s.store.Get(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(r.Status, to) {
		return nil, ErrIllegalTransition
	}
	ok, err := s.store.UpdateStatus(ctx, r.ID, r.Status, to, r.StatusVersion, nil, "")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConflict
	}
	updated, err := s.Get(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.RideStatusUpdated(updated)
	}
	return updated, nil
}

// Cancel is legal from any non-terminal status and records which role asked.
func (s *Service) Cancel(ctx context.Context, rideID types.ID, actorRole string) (*Ride, error) {
	r, err := s.store.Get(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if IsTerminal(r.Status) {
		return nil, ErrAlreadyFinal
	}
	if actorRole == "" {
		actorRole = "user"
	}
	ok, err := s.store.UpdateStatus(ctx, r.ID, r.Status, StatusCancelled, r.StatusVersion, nil, actorRole)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConflict
	}
	cancelled, err := s.Get(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.RideCancelled(cancelled, actorRole)
	}
	return cancelled, nil
}

// Get returns the ride with its driver details populated.
func (s *Service) Get(ctx context.Context, rideID types.ID) (*Ride, error) {
	r, err := s.store.Get(ctx, rideID)
	if err != nil {
		return nil, err
	}
	s.populate(ctx, r)
	return r, nil
}

func (s *Service) History(ctx context.Context, identityID types.ID, isDriver bool, status Status) ([]*Ride, error) {
	rides, err := s.store.ListByIdentity(ctx, identityID, isDriver, status)
	if err != nil {
		return nil, err
	}
	for _, r := range rides {
		s.populate(ctx, r)
	}
	return rides, nil
}

// ActiveRide finds the identity's most recent accepted/ongoing ride created
// within the window; nil when there is none. Used by the session gate's
// restore step.
func (s *Service) ActiveRide(ctx context.Context, identityID types.ID, isDriver bool, window time.Duration) (*Ride, error) {
	r, err := s.store.ActiveForIdentity(ctx, identityID, isDriver, time.Now().Add(-window))
	if err != nil || r == nil {
		return nil, err
	}
	s.populate(ctx, r)
	return r, nil
}

// ExpireStaleRequests moves rides stuck in requested past the timeout to
// driver-not-found. Races with a concurrent accept lose to the CAS and are
// skipped.
func (s *Service) ExpireStaleRequests(ctx context.Context, timeout time.Duration) error {
	stale, err := s.store.ListStaleRequested(ctx, time.Now().Add(-timeout))
	if err != nil {
		return err
	}
	for _, r := range stale {
		ok, err := s.store.UpdateStatus(ctx, r.ID, StatusRequested, StatusDriverNotFound, r.StatusVersion, nil, "")
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		r.Status = StatusDriverNotFound
		if s.notifier != nil {
			s.notifier.RideExpired(r)
		}
		s.log.Info().Str("ride_id", string(r.ID)).Msg("ride expired with no driver")
	}
	return nil
}

// RunRequestTimeoutMonitor drives ExpireStaleRequests until the context ends.
func (s *Service) RunRequestTimeoutMonitor(ctx context.Context, interval, timeout time.Duration) {
	if timeout <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.ExpireStaleRequests(ctx, timeout); err != nil {
				s.log.Error().Err(err).Msg("expire stale ride requests")
			}
		}
	}
}

// populate embeds the rider and driver details clients render alongside the
// ride. Lookups are best-effort; an unresolved identity leaves the field nil.
func (s *Service) populate(ctx context.Context, r *Ride) {
	if s.identities == nil {
		return
	}
	if u, err := s.identities.GetUser(ctx, r.UserID); err == nil {
		r.User = u
	} else {
		s.log.Warn().Err(err).Str("user_id", string(r.UserID)).Msg("populate ride user")
	}
	if r.DriverID == nil {
		return
	}
	d, err := s.identities.GetDriver(ctx, *r.DriverID)
	if err != nil {
		s.log.Warn().Err(err).Str("driver_id", string(*r.DriverID)).Msg("populate ride driver")
		return
	}
	r.Driver = d
}

func emptyLocation(l types.Location) bool {
	return l.Address == "" && l.Lat == 0 && l.Lng == 0
}

func NewID() types.ID {
	var b [12]byte
	_, _ = rand.Read(b[:])
	return types.ID(hex.EncodeToString(b[:]))
}
