package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	"github.com/angelmondragon/dryfruit-backend/api/controllers"
	"github.com/angelmondragon/dryfruit-backend/api/routes"
	"github.com/angelmondragon/dryfruit-backend/internal/address"
	"github.com/angelmondragon/dryfruit-backend/internal/admin"
	"github.com/angelmondragon/dryfruit-backend/internal/cart"
	"github.com/angelmondragon/dryfruit-backend/internal/catalog"
	"github.com/angelmondragon/dryfruit-backend/internal/checkout"
	"github.com/angelmondragon/dryfruit-backend/internal/delivery"
	"github.com/angelmondragon/dryfruit-backend/internal/orders"
	"github.com/angelmondragon/dryfruit-backend/internal/users"
	"github.com/angelmondragon/dryfruit-backend/pkg/auth/session"
	"github.com/angelmondragon/dryfruit-backend/pkg/config"
	"github.com/angelmondragon/dryfruit-backend/pkg/db"
	"github.com/angelmondragon/dryfruit-backend/pkg/events"
	"github.com/angelmondragon/dryfruit-backend/pkg/instance"
	"github.com/angelmondragon/dryfruit-backend/pkg/kvstore"
	"github.com/angelmondragon/dryfruit-backend/pkg/latency"
	"github.com/angelmondragon/dryfruit-backend/pkg/logger"
	"github.com/angelmondragon/dryfruit-backend/pkg/maps"
	"github.com/angelmondragon/dryfruit-backend/pkg/metrics"
	"github.com/angelmondragon/dryfruit-backend/pkg/migrate"
	"github.com/angelmondragon/dryfruit-backend/pkg/pubsub"
	"github.com/angelmondragon/dryfruit-backend/pkg/redis"
	"github.com/joho/godotenv"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var closers []io.Closer
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			err = multierr.Append(err, closers[i].Close())
		}
	}()

	readiness := map[string]controllers.Pinger{}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	closers = append(closers, redisClient)
	readiness["redis"] = redisClient

	store, err := stateStore(ctx, cfg, logg, redisClient, readiness, &closers)
	if err != nil {
		return err
	}
	locker, err := kvstore.NewRedisLocker(redisClient, cfg.State.LockTTL)
	if err != nil {
		return err
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	storeMetrics := metrics.NewStoreMetrics(registry)
	sim := latency.FromConfig(cfg.Latency, storeMetrics)

	publisher, err := orderPublisher(ctx, cfg, logg, readiness, &closers)
	if err != nil {
		return err
	}

	svc := routes.Services{Catalog: catalog.NewService()}

	if svc.Users, err = users.NewService(users.ServiceParams{
		Store:          store,
		Locker:         locker,
		OTP:            redisClient,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		OTPTTL:         cfg.Store.OTPTTL,
		Latency:        sim,
		Logger:         logg,
	}); err != nil {
		return err
	}
	if svc.Cart, err = cart.NewService(store, locker, svc.Catalog); err != nil {
		return err
	}
	if svc.Delivery, err = delivery.NewService(store, locker, sim, logg); err != nil {
		return err
	}
	if svc.Orders, err = orders.NewService(orders.ServiceParams{
		Store:     store,
		Locker:    locker,
		Latency:   sim,
		Publisher: publisher,
		Roster:    svc.Delivery,
		Metrics:   storeMetrics,
		Logger:    logg,
		ETA:       cfg.Store.DeliveryETA,
	}); err != nil {
		return err
	}
	if svc.Checkout, err = checkout.NewService(svc.Cart, svc.Users, svc.Orders, locker, cfg.Store, logg); err != nil {
		return err
	}
	if svc.Admin, err = admin.NewService(admin.ServiceParams{
		Config:         cfg.Admin,
		PasswordConfig: cfg.Password,
		JWTConfig:      cfg.JWT,
		SessionManager: sessionManager,
		Orders:         svc.Orders,
		Roster:         svc.Delivery,
		Latency:        sim,
		Logger:         logg,
	}); err != nil {
		return err
	}

	if key := strings.TrimSpace(cfg.GoogleMaps.APIKey); key != "" {
		mapsClient, err := maps.NewClient(key, maps.WithRegion(cfg.GoogleMaps.Region))
		if err != nil {
			return err
		}
		svc.Geocoder = address.NewService(mapsClient)
	} else {
		logg.Warn(ctx, "google maps key not set; address lookup disabled")
	}

	addr := ":" + cfg.App.Port
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	ctx = logg.WithFields(ctx, map[string]any{
		"env":           cfg.App.Env,
		"addr":          addr,
		"instance":      instance.GetID(),
		"state_backend": cfg.State.Backend,
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, readiness, redisClient, sessionManager, svc, promhttp.HandlerFor(registry, promhttp.HandlerOpts{})),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logg.Info(ctx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// stateStore picks the snapshot backend named by DRYFRUIT_STATE_BACKEND.
func stateStore(ctx context.Context, cfg *config.Config, logg *logger.Logger, redisClient *redis.Client, readiness map[string]controllers.Pinger, closers *[]io.Closer) (kvstore.Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.State.Backend)) {
	case config.StateBackendMemory:
		logg.Warn(ctx, "memory state backend selected; data is lost on restart")
		return kvstore.NewMemoryStore(), nil
	case config.StateBackendRedis:
		return kvstore.NewRedisStore(redisClient)
	default:
		dbClient, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			return nil, err
		}
		*closers = append(*closers, dbClient)
		readiness["db"] = dbClient
		if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
			return nil, err
		}
		return kvstore.NewGormStore(dbClient.DB())
	}
}

// orderPublisher streams order events to Pub/Sub when enabled and logs them otherwise.
func orderPublisher(ctx context.Context, cfg *config.Config, logg *logger.Logger, readiness map[string]controllers.Pinger, closers *[]io.Closer) (events.Publisher, error) {
	if !cfg.PubSub.Enabled {
		return events.NewLogPublisher(logg), nil
	}
	client, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
	if err != nil {
		return nil, err
	}
	*closers = append(*closers, client)
	readiness["pubsub"] = client
	return events.NewPubSubPublisher(client.OrdersPublisher())
}
