package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"

	"github.com/pageza/feedback/backend/config"
	"github.com/pageza/feedback/backend/internal/database"
	"github.com/pageza/feedback/backend/internal/server"
)

func main() {
	grip.EmergencyFatal(run())
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return errors.Wrap(err, "loading configuration")
	}

	db, err := database.Open(cfg)
	if err != nil {
		return errors.Wrap(err, "connecting to database")
	}
	defer database.Close(db)

	// production schemas are managed with feedbackctl initdb
	if !cfg.Environment.IsProduction() {
		if err := database.CreateAll(db); err != nil {
			return errors.Wrap(err, "creating tables")
		}
	}

	redisClient, err := database.NewRedisClient(cfg)
	switch {
	case errors.Is(err, database.ErrRedisNotConfigured):
		grip.Info("REDIS_URL not set, keeping challenges in memory without rate limits")
	case err != nil:
		return errors.Wrap(err, "connecting to Redis")
	default:
		defer redisClient.Close()
	}

	srv := server.New(cfg, db, redisClient)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			return errors.Wrap(err, "serving")
		}
		return nil
	case sig := <-quit:
		grip.Info(message.Fields{
			"message": "received signal",
			"signal":  sig.String(),
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "shutting down server")
	}
	grip.Info("server stopped")
	return nil
}
