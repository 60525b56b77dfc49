// README: Entry point; loads config, wires services, starts HTTP server and background monitors.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"swiftride/internal/config"
	httptransport "swiftride/internal/http"
	"swiftride/internal/infra"
	"swiftride/internal/maps"
	"swiftride/internal/modules/identity"
	"swiftride/internal/modules/location"
	"swiftride/internal/modules/pricing"
	"swiftride/internal/modules/ride"
	"swiftride/internal/modules/settlement"
	"swiftride/internal/modules/wallet"
	"swiftride/internal/realtime"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Firebase.ProjectID == "" {
		log.Fatal().Msg("SWIFTRIDE_FIREBASE_PROJECT_ID is required")
	}
	verifier, err := infra.NewFirebaseVerifier(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("firebase init")
	}

	var (
		identityStore identity.Store
		rideStore     ride.Store
		walletStore   wallet.Store
	)
	if cfg.DB.DSN != "" {
		dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			log.Fatal().Err(err).Msg("postgres init")
		}
		defer dbPool.Close()
		identityStore = identity.NewPostgresStore(dbPool)
		rideStore = ride.NewPostgresStore(dbPool)
		walletStore = wallet.NewPostgresStore(dbPool)
	} else {
		log.Warn().Msg("SWIFTRIDE_DB_DSN not set, using in-memory stores")
		identityStore = identity.NewMemoryStore()
		rideStore = ride.NewMemoryStore()
		walletStore = wallet.NewMemoryStore()
	}

	var locationStore location.Store
	if cfg.Redis.Addr != "" {
		locationStore = location.NewRedisStore(infra.NewRedis(cfg.Redis.Addr))
	} else {
		log.Warn().Msg("SWIFTRIDE_REDIS_ADDR not set, using in-memory driver locations")
		locationStore = location.NewMemoryStore()
	}
	locationSvc := location.NewService(locationStore)

	var estimator ride.Estimator = location.HaversineEstimator{}
	if cfg.Maps.APIKey != "" {
		routeSvc, err := maps.NewRouteService(cfg.Maps.APIKey)
		if err != nil {
			log.Fatal().Err(err).Msg("maps init")
		}
		estimator = routeSvc
	}

	hub := realtime.NewHub(log)
	notifier := realtime.NewNotifier(hub)

	rideSvc := ride.NewService(rideStore, identityStore, notifier, estimator, log)
	walletSvc := wallet.NewService(walletStore, identityStore)
	settlementSvc := settlement.NewService(rideStore, walletSvc, notifier, cfg.Settlement.PlatformFeePercent, log)
	pricingSvc := pricing.NewService(pricing.DefaultRate)
	gate := realtime.NewGate(identityStore, rideSvc, cfg.Ride.RestoreWindow, log)

	srv := httptransport.NewServer(httptransport.ServerDeps{
		Rides:      rideSvc,
		Wallets:    walletSvc,
		Settlement: settlementSvc,
		Location:   locationSvc,
		Pricing:    pricingSvc,
		Estimator:  estimator,
		Hub:        hub,
		Gate:       gate,
		Verifier:   verifier,
		Log:        log,
	})

	if cfg.Ride.RequestTimeout > 0 {
		go rideSvc.RunRequestTimeoutMonitor(ctx, time.Minute, cfg.Ride.RequestTimeout)
	}

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: srv.Handler()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", cfg.HTTP.Addr).Msg("swiftride api listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server")
	}
}
