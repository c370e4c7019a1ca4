package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	redisClient "github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	_ "modernc.org/sqlite"

	"auction-house/internal/api/handlers"
	"auction-house/internal/bus"
	"auction-house/internal/config"
	"auction-house/internal/domain"
	"auction-house/internal/infrastructure/leader"
	"auction-house/internal/infrastructure/redis"
	"auction-house/internal/infrastructure/sqlstore"
	"auction-house/internal/services"
	"auction-house/pkg/logger"
)

func main() {
	log := logger.New()
	log.Info("Starting auction service")

	cfg, err := config.Load()
	if err != nil {
		log.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	log.Info("Configuration loaded", "config", cfg.String())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Redis
	rdb := redisClient.NewClient(&redisClient.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	log.Info("Connected to Redis", "address", cfg.Redis.Address)

	// Database
	db, err := sql.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		log.Error("Failed to open database", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", "error", err)
		}
	}()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		log.Error("Failed to ping database", "error", err)
		os.Exit(1)
	}
	if err := sqlstore.EnsureSchema(ctx, db); err != nil {
		log.Error("Failed to ensure schema", "error", err)
		os.Exit(1)
	}
	log.Info("Connected to database", "driver", cfg.Database.Driver)

	// Event bus and subscribers. Every subscriber hears only committed events.
	eventBus := bus.NewEventBus()

	stateCache := redis.NewStateCache(rdb)
	relay := redis.NewEventRelay(rdb)

	eventBus.Subscribe(domain.EventBidPlaced, services.NewBidderNotifier(log))
	eventBus.Subscribe(domain.EventBidPlaced, services.NewActivityRecorder(log))
	eventBus.Subscribe(domain.EventBidPlaced, stateCache.Subscriber())
	eventBus.Subscribe(domain.EventBidPlaced, relay.Subscriber())
	eventBus.Subscribe(domain.EventAuctionClosed, services.NewActivityRecorder(log))
	eventBus.Subscribe(domain.EventAuctionClosed, stateCache.Subscriber())
	eventBus.Subscribe(domain.EventAuctionClosed, relay.Subscriber())

	// Write side
	uow := sqlstore.NewUnitOfWork(db, eventBus, log)
	createHandler := services.NewCreateAuctionHandler(uow, log)
	placeBidHandler := services.NewPlaceBidHandler(uow, log)
	closeHandler := services.NewCloseAuctionHandler(uow, log)

	commandBus := bus.NewCommandBus()
	commandBus.Register(services.CreateAuctionCommandName, createHandler)
	commandBus.Register(services.PlaceBidCommandName, placeBidHandler)
	commandBus.Register(services.CloseAuctionCommandName, closeHandler)

	// Read side
	readRepo := sqlstore.NewReadRepository(db)

	queryBus := bus.NewQueryBus()
	queryBus.Register(services.GetAuctionQueryName, services.NewGetAuctionHandler(readRepo))
	queryBus.Register(services.ListAuctionsQueryName, services.NewListAuctionsHandler(readRepo))
	queryBus.Register(services.ListBidsQueryName, services.NewListBidsHandler(readRepo))

	// Reconciler keeps the Redis hot keys honest; the lease pins it to one
	// instance.
	lease := leader.NewLease(rdb, "auction:reconciler:leader", cfg.Instance.ID, cfg.Reconciler.LeaseTTL)
	reconciler := services.NewStateCacheReconciler(readRepo, stateCache, lease, log)
	if err := reconciler.Start(context.Background(), cfg.Reconciler.Schedule); err != nil {
		log.Error("Failed to start reconciler", "error", err)
		os.Exit(1)
	}

	// HTTP
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	auctionHandler := handlers.NewAuctionHandler(createHandler, commandBus, queryBus, log)
	auctionHandler.Register(e.Group("/api/v1"))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":    "ok",
			"service":   "auction-service",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		log.Info("Starting HTTP server", "address", serverAddr)
		if err := e.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down auction service")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	reconciler.Stop()
	if err := lease.Release(shutdownCtx); err != nil {
		log.Error("Failed to release reconciler lease", "error", err)
	}
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}
	if err := rdb.Close(); err != nil {
		log.Error("Failed to close Redis client", "error", err)
	}

	log.Info("Auction service stopped")
}
