// main.go
package main

import (
	"context"
	"log"
	"time"

	"pitch-booking/cmd"
	"pitch-booking/internal/cache"
	"pitch-booking/internal/data/repository"
	"pitch-booking/internal/notify"
	"pitch-booking/internal/usecase"
	"pitch-booking/internal/wire"
	"pitch-booking/pkg/database"
	"pitch-booking/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	loc, err := config.Location()
	if err != nil {
		logger.Fatal("Invalid timezone", zap.Error(err))
	}

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.String("timezone", loc.String()),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	repos := repository.NewRepository(db, logger)

	// Slot cache is optional
	slotCache := cache.NewNoop()
	if config.Redis.URL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		client, err := cache.NewRedisClient(ctx, config.Redis.URL)
		cancel()
		if err != nil {
			logger.Warn("Redis unavailable, slot cache disabled", zap.Error(err))
		} else {
			defer client.Close()
			slotCache = cache.NewRedisSlotCache(client, config.Redis.SlotTTL, logger)
			logger.Info("Slot cache enabled")
		}
	}

	// Notifications go to RabbitMQ when configured, otherwise to the log
	var sender notify.Sender = notify.NewLogSender(logger)
	if config.Notify.AMQPURL != "" {
		amqpSender, err := notify.NewAMQPSender(config.Notify.AMQPURL, config.Notify.Exchange, logger)
		if err != nil {
			logger.Warn("RabbitMQ unavailable, notifications are log-only", zap.Error(err))
		} else {
			defer amqpSender.Close()
			sender = amqpSender
		}
	}
	dispatcher := notify.NewDispatcher(sender, notify.Options{
		Workers:     config.Notify.Workers,
		QueueSize:   config.Notify.QueueSize,
		MaxAttempts: config.Notify.MaxAttempts,
		Backoff:     config.Notify.Backoff,
	}, logger)

	// Wire all dependencies
	app := wire.Wiring(usecase.Deps{
		Repo:     repos,
		Tx:       database.NewTxManager(db, logger),
		Cache:    slotCache,
		Notifier: dispatcher,
		Clock:    utils.SystemClock{Location: loc},
		Location: loc,
		Config:   config,
	}, config, logger)

	if err := cmd.APIServer(app.Router, config.App.Port, config.App.ShutdownTimeout, logger); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.App.ShutdownTimeout)
	defer cancel()
	if err := dispatcher.Close(ctx); err != nil {
		logger.Warn("Pending notifications dropped on shutdown", zap.Error(err))
	}

	logger.Info("Server stopped")
}
