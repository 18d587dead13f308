// main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"go-logistics/config"
	"go-logistics/controllers"
	"go-logistics/logger"
	"go-logistics/notify"
	"go-logistics/repositories"
	"go-logistics/routes"
	"go-logistics/services"
	"go-logistics/utils"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Proceeding with environment variables.")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if err := logger.Initialize(cfg.Log.Level, cfg.Log.Env); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Log.Sync()
	logger.Log.Info("starting", zap.Stringer("config", cfg))

	utils.JwtKey = []byte(cfg.Auth.JWTSecret)

	sweepAt, _ := config.ParseTimeOfDay(cfg.Sweep.At)
	location, _ := time.LoadLocation(cfg.Sweep.Timezone)

	client, err := utils.ConnectDB(cfg.Mongo.URI, cfg.Mongo.Timeout)
	if err != nil {
		logger.Log.Fatal("failed to connect to mongodb", zap.Error(err))
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Log.Error("failed to disconnect from mongodb", zap.Error(err))
		}
	}()
	db := client.Database(cfg.Mongo.Database)

	orders := repositories.NewOrderRepository(db, cfg.Mongo.Timeout)
	riders := repositories.NewRiderRepository(db, cfg.Mongo.Timeout)
	trucks := repositories.NewTruckRepository(db, cfg.Mongo.Timeout)
	sessions := repositories.NewSessionRepository(db, cfg.Mongo.Timeout)
	users := repositories.NewUserRepository(db, cfg.Mongo.Timeout)
	notifications := repositories.NewNotificationRepository(db, cfg.Mongo.Timeout)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	queue := services.NewJobQueueService(ctx, cfg.Queue.Capacity, cfg.Queue.Workers)
	hub := notify.NewHub()
	go hub.Run(ctx)

	dispatcher := notify.NewService(
		queue,
		notifications,
		notify.RepositoryDirectory{Riders: riders, Users: users},
		utils.NewMailer(cfg.Email),
		hub,
	)

	clock := services.SystemClock{}
	sessionService := services.NewSessionService(sessions, orders, riders, trucks,
		repositories.NewMongoTransactor(client), dispatcher, clock)
	sweeper := services.NewSweeper(orders, clock, sweepAt, location, cfg.Sweep.Grace)
	sweeper.Start()

	router := mux.NewRouter()
	routes.RegisterRoutes(router, routes.Controllers{
		Users:           controllers.NewUserController(users, riders),
		Fleet:           controllers.NewFleetController(riders, trucks),
		Orders:          controllers.NewOrderController(orders),
		DeliverySession: controllers.NewDeliverySessionController(sessionService),
		Admin:           controllers.NewAdminController(notifications, sweeper),
		Live:            hub.ServeWS,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Info("server is running", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("server shutdown failed", zap.Error(err))
	}

	sweeper.Stop()
	queue.Shutdown()
	cancel()
}
