// README: Websocket-backed session with read/write pumps and inbound dispatch.
package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"swiftride/internal/modules/location"
	"swiftride/internal/types"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 4096
)

// inboundMessage mirrors the outbound envelope for client-sent events.
type inboundMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type locationUpdate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// WSSession binds one websocket connection to one identity channel.
type WSSession struct {
	conn     *websocket.Conn
	identity string
	isDriver bool

	hub      *Hub
	gate     *Gate
	location *location.Service
	log      zerolog.Logger

	writeMu sync.Mutex
	once    sync.Once
	done    chan struct{}
}

func NewWSSession(conn *websocket.Conn, identity string, isDriver bool, hub *Hub, gate *Gate, loc *location.Service, log zerolog.Logger) *WSSession {
	return &WSSession{
		conn:     conn,
		identity: identity,
		isDriver: isDriver,
		hub:      hub,
		gate:     gate,
		location: loc,
		log:      log.With().Str("identity", identity).Bool("is_driver", isDriver).Logger(),
		done:     make(chan struct{}),
	}
}

func (s *WSSession) Identity() string { return s.identity }
func (s *WSSession) IsDriver() bool   { return s.isDriver }

// Send writes one event. The mutex serializes writers; gorilla connections
// allow only one concurrent writer.
func (s *WSSession) Send(e Event) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(e)
}

func (s *WSSession) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		err = s.conn.Close()
	})
	return err
}

// Run joins the hub, pushes the initial restore payload, and pumps inbound
// messages until the connection drops. It blocks for the connection lifetime.
func (s *WSSession) Run(ctx context.Context) {
	s.hub.Join(s)
	defer func() {
		s.hub.Leave(s)
		_ = s.Close()
		if s.isDriver && s.location != nil {
			_ = s.location.Remove(context.WithoutCancel(ctx), types.ID(s.identity))
		}
	}()

	go s.pingLoop()

	// Restore-on-connect: the client immediately learns about its in-flight
	// ride, if any.
	s.gate.Restore(ctx, s)

	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn().Err(err).Msg("unexpected websocket close")
			}
			return
		}
		s.dispatch(ctx, raw)
	}
}

func (s *WSSession) dispatch(ctx context.Context, raw []byte) {
	var msg inboundMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		s.log.Warn().Err(err).Msg("malformed inbound realtime message")
		return
	}
	switch msg.Event {
	case "updateLocation":
		s.handleLocationUpdate(ctx, msg.Data)
	case "rideRequest":
		// Ride requests arrive over HTTP; the socket copy is informational.
		s.log.Info().RawJSON("details", msg.Data).Msg("ride request received over socket")
	case "getRestoreRide":
		s.gate.Restore(ctx, s)
	default:
		s.log.Debug().Str("event", msg.Event).Msg("unhandled inbound realtime event")
	}
}

func (s *WSSession) handleLocationUpdate(ctx context.Context, data json.RawMessage) {
	if s.isDriver && s.location != nil {
		var upd locationUpdate
		if err := json.Unmarshal(data, &upd); err == nil && (upd.Lat != 0 || upd.Lng != 0) {
			if err := s.location.Update(ctx, types.ID(s.identity), types.Point{Lat: upd.Lat, Lng: upd.Lng}); err != nil {
				s.log.Warn().Err(err).Msg("store driver location")
			}
		}
	}
	// Everyone but the sender sees the raw payload.
	var payload any
	_ = json.Unmarshal(data, &payload)
	s.hub.BroadcastExcept(s, Event{Name: "driverLocationUpdated", Data: payload})
}

func (s *WSSession) pingLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.writeMu.Lock()
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			err := s.conn.WriteMessage(websocket.PingMessage, nil)
			s.writeMu.Unlock()
			if err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}
