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

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/ronda-app/config"
	"github.com/yeremiapane/ronda-app/database"
	"github.com/yeremiapane/ronda-app/kds"
	"github.com/yeremiapane/ronda-app/messaging"
	"github.com/yeremiapane/ronda-app/models"
	"github.com/yeremiapane/ronda-app/router"
	"github.com/yeremiapane/ronda-app/services"
	"github.com/yeremiapane/ronda-app/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	utils.InitLogger(cfg.LogLvl)
	utils.ConfigureJWT(cfg.JWTSecret, cfg.JWTExpirationHours)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		if cfg.JWTSecret == "change-me-in-production" {
			utils.ErrorLogger.Fatal("JWT_SECRET must be set in production")
		}
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to migrate: %v", err)
	}
	utils.InfoLogger.Printf("Database ready (driver=%s)", cfg.DBDriver)

	hub := kds.Default()
	publishers := messaging.MultiPublisher{messaging.NewHubPublisher(hub)}
	if cfg.AMQPURL != "" {
		amqpPub, err := messaging.NewAMQPPublisher(cfg.AMQPURL, messaging.DefaultExchange)
		if err != nil {
			utils.ErrorLogger.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer amqpPub.Close()
		publishers = append(publishers, amqpPub)
		utils.InfoLogger.Printf("Publishing floor events to exchange %s", messaging.DefaultExchange)
	}

	opts := []services.Option{
		services.WithPublisher(publishers),
		services.WithOrderPlacedStatus(models.TableStatus(cfg.OrderPlacedStatus)),
	}
	if cfg.RedisURL != "" {
		rdb, err := services.NewRedis(cfg.RedisURL)
		if err != nil {
			utils.ErrorLogger.Fatalf("Failed to connect to redis: %v", err)
		}
		defer rdb.Close()
		opts = append(opts, services.WithLocker(services.NewRedisLocker(rdb)))
		utils.InfoLogger.Println("Using redis table locks")
	}
	floor := services.NewFloorService(db, opts...)

	if cfg.FloorMonitorInterval > 0 {
		monitor := services.NewFloorMonitor(db, publishers)
		monitor.Interval = cfg.FloorMonitorInterval
		monitor.Start()
		defer monitor.Stop()
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router.SetupRouter(cfg, floor, hub),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.InfoLogger.Printf("Listening on port %d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	utils.InfoLogger.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		utils.ErrorLogger.Printf("Forced shutdown: %v", err)
	}
}
