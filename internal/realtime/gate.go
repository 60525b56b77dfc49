// README: Presence gate: identity validation on connect and restore-on-reconnect.
package realtime

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"swiftride/internal/modules/identity"
	"swiftride/internal/modules/ride"
	"swiftride/internal/types"
)

var (
	ErrIdentityRequired = errors.New("userId is required")
	ErrUnknownIdentity  = errors.New("identity could not be resolved")
)

// Gate authenticates a handshake before the hub will admit the connection,
// and replays the caller's in-flight ride on (re)connect.
type Gate struct {
	identities identity.Store
	rides      *ride.Service
	window     time.Duration
	log        zerolog.Logger
}

func NewGate(identities identity.Store, rides *ride.Service, window time.Duration, log zerolog.Logger) *Gate {
	if window <= 0 {
		window = 24 * time.Hour
	}
	return &Gate{identities: identities, rides: rides, window: window, log: log}
}

// Authenticate resolves the claimed identity against the backing store. A
// connection must not join any channel until this returns nil.
func (g *Gate) Authenticate(ctx context.Context, identityID string, isDriver bool) error {
	if identityID == "" {
		return ErrIdentityRequired
	}
	var err error
	if isDriver {
		_, err = g.identities.GetDriver(ctx, types.ID(identityID))
	} else {
		_, err = g.identities.GetUser(ctx, types.ID(identityID))
	}
	if errors.Is(err, identity.ErrDriverNotFound) || errors.Is(err, identity.ErrUserNotFound) {
		return ErrUnknownIdentity
	}
	return err
}

// Restore pushes the session's most recent accepted/ongoing ride from within
// the window, or an explicit null when there is none. Idempotent; the client
// may re-trigger it at any time.
func (g *Gate) Restore(ctx context.Context, s Session) {
	r, err := g.rides.ActiveRide(ctx, types.ID(s.Identity()), s.IsDriver(), g.window)
	if err != nil {
		g.log.Error().Err(err).Str("identity", s.Identity()).Msg("restore ride lookup")
		return
	}
	var data any
	if r != nil {
		data = r
	}
	if err := s.Send(Event{Name: "restoreRide", Data: data}); err != nil {
		g.log.Warn().Err(err).Str("identity", s.Identity()).Msg("restore ride send")
	}
}
