// cmd/lobby runs the lobby lifecycle service.
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
	"github.com/matchup-gg/matchup/internal/lobby"
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

	svc := lobby.NewService(database.NewLobbyStore(pool), publisher, logger)
	server := handlers.NewLobbyServer(svc, logger)

	mux := http.NewServeMux()
	server.Register(mux, middleware.RequireAuth(cfg.JWTSecret))

	addr := ":" + cfg.Port
	logger.Infof("lobby service listening on %s", addr)
	if err := http.ListenAndServe(addr, middleware.LogMiddleware(logger)(mux)); err != nil {
		logger.Fatalf("server exited: %v", err)
	}
}
