// cmd/rating runs the peer-rating service. Lobby state is fetched from the
// lobby service on every eligibility check; nothing is cached locally.
package main

import (
	"context"
	"net/http"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/matchup-gg/matchup/internal/config"
	"github.com/matchup-gg/matchup/internal/database"
	"github.com/matchup-gg/matchup/internal/handlers"
	"github.com/matchup-gg/matchup/internal/lobbyclient"
	"github.com/matchup-gg/matchup/internal/middleware"
	"github.com/matchup-gg/matchup/internal/rating"
)

func main() {
	logger := logrus.New()
	cfg := config.Load()

	pool, err := database.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("connect database: %v", err)
	}
	defer pool.Close()

	lobbies := lobbyclient.New(cfg.LobbyServiceURL, cfg.LobbyServiceTimeout)
	engine := rating.NewEngine(database.NewRatingStore(pool), lobbies)
	server := handlers.NewRatingServer(engine, logger)

	mux := http.NewServeMux()
	server.Register(mux, middleware.RequireAuth(cfg.JWTSecret))

	addr := ":" + cfg.Port
	logger.Infof("rating service listening on %s", addr)
	if err := http.ListenAndServe(addr, middleware.LogMiddleware(logger)(mux)); err != nil {
		logger.Fatalf("server exited: %v", err)
	}
}
