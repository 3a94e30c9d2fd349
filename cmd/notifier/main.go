// cmd/notifier runs the queue consumer that turns domain events into stored
// notifications. It serves the notification read API on the same process.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/matchup-gg/matchup/internal/config"
	"github.com/matchup-gg/matchup/internal/database"
	"github.com/matchup-gg/matchup/internal/handlers"
	"github.com/matchup-gg/matchup/internal/middleware"
	"github.com/matchup-gg/matchup/internal/notifier"
)

func main() {
	logger := logrus.New()
	cfg := config.Load()

	pool, err := database.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("connect database: %v", err)
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()

	store := database.NewNotificationStore(pool)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumer := notifier.New(redisClient, store, logger)
	go consumer.Run(ctx)

	server := handlers.NewNotificationServer(store, logger)
	mux := http.NewServeMux()
	server.Register(mux, middleware.RequireAuth(cfg.JWTSecret))

	go func() {
		addr := ":" + cfg.Port
		logger.Infof("notification service listening on %s", addr)
		if err := http.ListenAndServe(addr, middleware.LogMiddleware(logger)(mux)); err != nil {
			logger.Fatalf("server exited: %v", err)
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	sig := <-sigs
	logger.Infof("terminating: %v", sig)
	cancel()
}
