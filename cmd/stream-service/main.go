package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	redisClient "github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"

	"auction-house/internal/api/middleware"
	"auction-house/internal/config"
	"auction-house/internal/domain"
	"auction-house/internal/infrastructure/redis"
	"auction-house/internal/infrastructure/websocket"
	"auction-house/pkg/logger"
)

func main() {
	log := logger.New()
	log.Info("Starting stream service")

	cfg, err := config.Load()
	if err != nil {
		log.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	rdb := redisClient.NewClient(&redisClient.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	log.Info("Connected to Redis", "address", cfg.Redis.Address)

	connManager := websocket.NewConnectionManager(log)
	wsHandler := websocket.NewHandler(connManager, log)

	// Relay committed events from the API process to connected clients.
	streamCtx, streamCancel := context.WithCancel(context.Background())
	defer streamCancel()

	stream := redis.NewEventStream(rdb, log)
	go func() {
		err := stream.Run(streamCtx, func(event redis.WireEvent) error {
			switch event.Name {
			case domain.EventBidPlaced:
				connManager.BroadcastToAuction(event.AuctionID, map[string]interface{}{
					"type":        "bid_update",
					"auction_id":  event.AuctionID,
					"bidder_id":   event.BidderID,
					"current_bid": event.Amount,
					"timestamp":   event.Timestamp,
				})
			case domain.EventAuctionClosed:
				connManager.BroadcastToAuction(event.AuctionID, map[string]interface{}{
					"type":       "auction_closed",
					"auction_id": event.AuctionID,
					"timestamp":  event.Timestamp,
				})
				connManager.CloseAuction(event.AuctionID)
			}
			return nil
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error("Event stream terminated", "error", err)
		}
	}()

	router := mux.NewRouter()
	router.Use(middleware.CORS)
	router.HandleFunc("/ws/{auctionID}", wsHandler.HandleConnection)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":"ok","service":"stream-service","timestamp":%q}`, time.Now().Format(time.RFC3339))
	}).Methods("GET")

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Stream.Host, cfg.Stream.Port),
		Handler: router,
	}

	go func() {
		log.Info("Starting stream server", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Stream server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down stream service")
	streamCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Stream server forced to shutdown", "error", err)
	}
	if err := rdb.Close(); err != nil {
		log.Error("Failed to close Redis client", "error", err)
	}

	log.Info("Stream service stopped")
}
