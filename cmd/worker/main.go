package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/emilyhospital/hospital-api/internal/config"
	"github.com/emilyhospital/hospital-api/internal/notification"
	"github.com/emilyhospital/hospital-api/internal/repository/postgres"
	"github.com/emilyhospital/hospital-api/internal/worker"
	"github.com/emilyhospital/hospital-api/pkg/logger"
	redisbroker "github.com/emilyhospital/hospital-api/pkg/messaging/redis"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(&logger.Config{
		Level:  logger.InfoLevel,
		Output: os.Stdout,
	})

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	broker, err := redisbroker.NewRedisBroker(redisbroker.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   3,
		RetryBackoff: 100 * time.Millisecond,
		PoolSize:     5,
		MinIdleConns: 1,
	}, log.Zerolog())
	if err != nil {
		log.Fatal(err, "failed to connect to Redis")
	}
	defer broker.Close()

	notifSvc := notification.NewService(notification.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	}, log.Zerolog())

	notifier := worker.NewNotifier(broker, postgres.NewUserRepository(db), notifSvc, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		cancel()
	}()

	if err := notifier.Start(ctx); err != nil {
		log.Fatal(err, "notifier failed")
	}
}
