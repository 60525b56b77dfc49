// README: Realtime hub: identity-keyed channels over live websocket sessions.
package realtime

import (
	"sync"

	"github.com/rs/zerolog"

	"swiftride/internal/observability"
)

// Event is the wire envelope for every outbound realtime message.
type Event struct {
	Name string `json:"event"`
	Data any    `json:"data"`
}

// Session is one live connection that has passed the gate. Each session
// belongs to exactly one identity channel for its whole lifetime.
type Session interface {
	Identity() string
	IsDriver() bool
	Send(e Event) error
	Close() error
}

// Hub maps identity -> set of live sessions. Delivery is best-effort and
// at-most-once per connected session; a send failure drops the session rather
// than retrying.
type Hub struct {
	mu       sync.RWMutex
	channels map[string]map[Session]struct{}
	log      zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		channels: make(map[string]map[Session]struct{}),
		log:      log,
	}
}

func (h *Hub) Join(s Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch := h.channels[s.Identity()]
	if ch == nil {
		ch = make(map[Session]struct{})
		h.channels[s.Identity()] = ch
	}
	ch[s] = struct{}{}
	observability.WSConnections.Inc()
	h.log.Info().
		Str("identity", s.Identity()).
		Bool("is_driver", s.IsDriver()).
		Int("channel_sessions", len(ch)).
		Msg("realtime session joined channel")
}

func (h *Hub) Leave(s Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(s)
}

// EmitTo delivers the event to every session in the identity's channel.
func (h *Hub) EmitTo(identity string, e Event) {
	h.mu.RLock()
	targets := h.snapshot(h.channels[identity])
	h.mu.RUnlock()
	h.deliver(targets, e)
}

// Broadcast delivers the event to every connected session, no room filter.
func (h *Hub) Broadcast(e Event) {
	h.mu.RLock()
	var targets []Session
	for _, ch := range h.channels {
		targets = append(targets, h.snapshot(ch)...)
	}
	h.mu.RUnlock()
	h.deliver(targets, e)
}

// BroadcastExcept delivers the event to every session but the sender.
func (h *Hub) BroadcastExcept(sender Session, e Event) {
	h.mu.RLock()
	var targets []Session
	for _, ch := range h.channels {
		for s := range ch {
			if s != sender {
				targets = append(targets, s)
			}
		}
	}
	h.mu.RUnlock()
	h.deliver(targets, e)
}

// SessionCount reports the total number of live sessions.
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, ch := range h.channels {
		n += len(ch)
	}
	return n
}

func (h *Hub) deliver(targets []Session, e Event) {
	for _, s := range targets {
		if err := s.Send(e); err != nil {
			h.log.Warn().
				Err(err).
				Str("identity", s.Identity()).
				Str("event", e.Name).
				Msg("realtime send failed, dropping session")
			_ = s.Close()
			h.Leave(s)
		}
	}
}

func (h *Hub) snapshot(ch map[Session]struct{}) []Session {
	if len(ch) == 0 {
		return nil
	}
	out := make([]Session, 0, len(ch))
	for s := range ch {
		out = append(out, s)
	}
	return out
}

func (h *Hub) removeLocked(s Session) {
	ch, ok := h.channels[s.Identity()]
	if !ok {
		return
	}
	if _, member := ch[s]; !member {
		return
	}
	delete(ch, s)
	if len(ch) == 0 {
		delete(h.channels, s.Identity())
	}
	observability.WSConnections.Dec()
	h.log.Info().
		Str("identity", s.Identity()).
		Int("channel_sessions", len(ch)).
		Msg("realtime session left channel")
}
