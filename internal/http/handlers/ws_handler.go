// README: Websocket upgrade handler; the gate screens the handshake.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"swiftride/internal/modules/location"
	"swiftride/internal/realtime"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Mobile clients connect from app webviews; origin checks happen at the
	// gateway.
	CheckOrigin: func(*http.Request) bool { return true },
}

type WSHandler struct {
	hub      *realtime.Hub
	gate     *realtime.Gate
	location *location.Service
	log      zerolog.Logger
}

func NewWSHandler(hub *realtime.Hub, gate *realtime.Gate, loc *location.Service, log zerolog.Logger) *WSHandler {
	return &WSHandler{hub: hub, gate: gate, location: loc, log: log}
}

// Connect validates the claimed identity before any channel is joined. An
// unknown or missing identity is disconnected immediately and receives no
// restore payload.
func (h *WSHandler) Connect(c *gin.Context) {
	identity := c.Query("userId")
	isDriver := c.Query("isDriver") == "true"

	if err := h.gate.Authenticate(c.Request.Context(), identity, isDriver); err != nil {
		h.log.Warn().
			Err(err).
			Str("identity", identity).
			Bool("is_driver", isDriver).
			Msg("realtime handshake refused")
		respondError(c, http.StatusUnauthorized, err.Error())
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		return
	}

	session := realtime.NewWSSession(conn, identity, isDriver, h.hub, h.gate, h.location, h.log)
	// net/http cancels the request context as soon as this handler returns,
	// but the session lives as long as the connection. Detach it so restore
	// lookups and location writes keep working after the handshake.
	go session.Run(context.WithoutCancel(c.Request.Context()))
}
