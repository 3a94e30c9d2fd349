// cmd/gateway fronts the services with a single origin, proxying /api/*
// prefixes to the owning service.
package main

import (
	"net/http"
	"net/http/httputil"
	"net/url"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/matchup-gg/matchup/internal/config"
	"github.com/matchup-gg/matchup/internal/middleware"
)

func proxyTo(logger *logrus.Logger, rawURL string) http.Handler {
	target, err := url.Parse(rawURL)
	if err != nil {
		logger.Fatalf("invalid upstream url %q: %v", rawURL, err)
	}
	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logger.WithField("upstream", target.Host).WithError(err).Warn("upstream unreachable")
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}
	return proxy
}

func main() {
	logger := logrus.New()
	cfg := config.Load()

	mux := http.NewServeMux()
	mux.Handle("/users/", proxyTo(logger, cfg.UserServiceURL))
	mux.Handle("/users", proxyTo(logger, cfg.UserServiceURL))
	mux.Handle("/friends/", proxyTo(logger, cfg.UserServiceURL))
	mux.Handle("/friends", proxyTo(logger, cfg.UserServiceURL))
	mux.Handle("/lobbies/", proxyTo(logger, cfg.LobbyServiceURL))
	mux.Handle("/lobbies", proxyTo(logger, cfg.LobbyServiceURL))
	mux.Handle("/ratings/", proxyTo(logger, cfg.RatingServiceURL))
	mux.Handle("/ratings", proxyTo(logger, cfg.RatingServiceURL))
	mux.Handle("/notifications/", proxyTo(logger, cfg.NotificationServiceURL))
	mux.Handle("/notifications", proxyTo(logger, cfg.NotificationServiceURL))

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	gateway := http.StripPrefix("/api", mux)

	addr := ":" + cfg.Port
	logger.Infof("gateway listening on %s", addr)
	if err := http.ListenAndServe(addr, middleware.LogMiddleware(logger)(gateway)); err != nil {
		logger.Fatalf("server exited: %v", err)
	}
}
