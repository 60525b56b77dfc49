// README: API gateway; registers HTTP routes and delegates to module services.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"swiftride/internal/http/handlers"
	"swiftride/internal/http/middleware"
	"swiftride/internal/infra"
	"swiftride/internal/modules/location"
	"swiftride/internal/modules/pricing"
	"swiftride/internal/modules/ride"
	"swiftride/internal/modules/settlement"
	"swiftride/internal/modules/wallet"
	"swiftride/internal/realtime"
)

type ServerDeps struct {
	Rides      *ride.Service
	Wallets    *wallet.Service
	Settlement *settlement.Service
	Location   *location.Service
	Pricing    *pricing.Service
	Estimator  ride.Estimator
	Hub        *realtime.Hub
	Gate       *realtime.Gate
	Verifier   infra.TokenVerifier
	Log        zerolog.Logger
}

type Server struct {
	engine *gin.Engine
}

func NewServer(deps ServerDeps) *Server {
	engine := gin.New()
	engine.Use(middleware.Recovery(deps.Log))
	engine.Use(middleware.Logging(deps.Log))

	rideHandler := handlers.NewRideHandler(deps.Rides, deps.Pricing, deps.Estimator)
	creditHandler := handlers.NewCreditHandler(deps.Settlement, deps.Wallets)
	locationHandler := handlers.NewLocationHandler(deps.Location)
	wsHandler := handlers.NewWSHandler(deps.Hub, deps.Gate, deps.Location, deps.Log)

	authed := engine.Group("/", middleware.Auth(deps.Verifier))

	rides := authed.Group("/ride")
	rides.POST("/request", middleware.RequireRole(middleware.RoleUser), rideHandler.Request)
	rides.GET("/history", rideHandler.History)
	rides.GET("/estimate", rideHandler.Estimate)
	rides.POST("/:rideId/accept", middleware.RequireRole(middleware.RoleDriver), rideHandler.Accept)
	rides.GET("/:rideId/status", rideHandler.Status)
	rides.PATCH("/:rideId/update-status", rideHandler.UpdateStatus)
	rides.POST("/:rideId/cancel", rideHandler.Cancel)

	credits := authed.Group("/credit")
	credits.POST("/ride/:rideId/settle", creditHandler.Settle)
	credits.POST("/driver/:driverId/add", middleware.RequireRole(middleware.RoleAdmin), creditHandler.AddCredits)
	credits.GET("/driver/:driverId/history", creditHandler.History)

	authed.GET("/drivers/nearby", locationHandler.Nearby)

	// Websocket handshakes carry identity as query params, not bearer tokens;
	// the realtime gate validates them before any channel is joined.
	engine.GET("/ws", wsHandler.Connect)

	engine.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return &Server{engine: engine}
}

func (s *Server) Handler() http.Handler {
	return s.engine
}
