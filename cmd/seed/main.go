// Command seed loads a small development dataset: a handful of users, a few
// lobbies across sports, and one finished match ready for rating.
package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/matchup-gg/matchup/internal/config"
	"github.com/matchup-gg/matchup/internal/database"
	"github.com/matchup-gg/matchup/internal/lobby"
	"github.com/matchup-gg/matchup/internal/models"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg := config.Load()
	ctx := context.Background()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to postgres")
	}
	defer pool.Close()

	if err := run(ctx, log, pool); err != nil {
		log.WithError(err).Fatal("seed failed")
	}
	log.Info("seed complete")
}

func run(ctx context.Context, log *logrus.Logger, pool *pgxpool.Pool) error {
	users := database.NewUserStore(pool)
	lobbies := lobby.NewService(database.NewLobbyStore(pool), nil, log)

	specs := []struct {
		email string
		name  string
	}{
		{"alice@example.com", "Alice"},
		{"bob@example.com", "Bob"},
		{"carol@example.com", "Carol"},
		{"dave@example.com", "Dave"},
	}
	ids := make([]uuid.UUID, 0, len(specs))
	for _, su := range specs {
		u := &models.User{Email: su.email, Password: "password123", DisplayName: su.name}
		if err := users.Create(ctx, u); err != nil {
			if errors.Is(err, database.ErrEmailTaken) {
				existing, getErr := users.GetByEmail(ctx, su.email)
				if getErr != nil {
					return getErr
				}
				ids = append(ids, existing.ID)
				continue
			}
			return fmt.Errorf("create user %s: %w", su.email, err)
		}
		log.WithField("email", su.email).Info("created user")
		ids = append(ids, u.ID)
	}
	alice, bob, carol, dave := ids[0], ids[1], ids[2], ids[3]

	open, err := lobbies.Create(ctx, alice, "Alice", lobby.CreateInput{
		Sport:       "football",
		Location:    "Riverside Park",
		Time:        time.Now().Add(48 * time.Hour),
		MaxPlayers:  10,
		Description: "Casual 5v5, all levels welcome",
	})
	if err != nil {
		return fmt.Errorf("create open lobby: %w", err)
	}
	if _, err := lobbies.Join(ctx, open.ID, bob, "Bob"); err != nil {
		return fmt.Errorf("join open lobby: %w", err)
	}

	if _, err := lobbies.Create(ctx, carol, "Carol", lobby.CreateInput{
		Sport:      "tennis",
		Location:   "City Courts",
		Time:       time.Now().Add(24 * time.Hour),
		MaxPlayers: 2,
	}); err != nil {
		return fmt.Errorf("create tennis lobby: %w", err)
	}

	finished, err := lobbies.Create(ctx, bob, "Bob", lobby.CreateInput{
		Sport:      "basketball",
		Location:   "Downtown Gym",
		Time:       time.Now().Add(-2 * time.Hour),
		MaxPlayers: 6,
	})
	if err != nil {
		return fmt.Errorf("create basketball lobby: %w", err)
	}
	if _, err := lobbies.Join(ctx, finished.ID, carol, "Carol"); err != nil {
		return fmt.Errorf("join basketball lobby: %w", err)
	}
	if _, err := lobbies.Join(ctx, finished.ID, dave, "Dave"); err != nil {
		return fmt.Errorf("join basketball lobby: %w", err)
	}
	if _, err := lobbies.Finish(ctx, finished.ID, bob); err != nil {
		return fmt.Errorf("finish basketball lobby: %w", err)
	}
	log.WithField("lobby_id", finished.ID).Info("seeded finished lobby ready for rating")
	return nil
}
