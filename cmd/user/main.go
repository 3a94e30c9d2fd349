// cmd/user runs the identity and friend-graph service.
package main

import (
	"context"
	"net/http"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/matchup-gg/matchup/internal/config"
	"github.com/matchup-gg/matchup/internal/database"
	"github.com/matchup-gg/matchup/internal/events"
	"github.com/matchup-gg/matchup/internal/handlers"
	"github.com/matchup-gg/matchup/internal/middleware"
)

func main() {
	logger := logrus.New()
	cfg := config.Load()

	pool, err := database.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("connect database: %v", err)
	}
	defer pool.Close()

	publisher := events.NewPublisher(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, logger)
	defer publisher.Close()

	server := handlers.NewUserServer(
		database.NewUserStore(pool),
		database.NewFriendStore(pool),
		publisher,
		logger,
		cfg.JWTSecret,
		cfg.TokenTTL,
	)

	mux := http.NewServeMux()
	server.Register(mux, middleware.RequireAuth(cfg.JWTSecret))

	addr := ":" + cfg.Port
	logger.Infof("user service listening on %s", addr)
	if err := http.ListenAndServe(addr, middleware.LogMiddleware(logger)(mux)); err != nil {
		logger.Fatalf("server exited: %v", err)
	}
}
