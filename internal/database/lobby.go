package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/matchup-gg/matchup/internal/lobby"
	"github.com/matchup-gg/matchup/internal/models"
)

// LobbyStore is the postgres implementation of lobby.Store. Roster mutations
// are serialized per lobby by locking the lobby row FOR UPDATE, so two
// concurrent joins can never both observe the last open slot.
type LobbyStore struct {
	pool *pgxpool.Pool
}

func NewLobbyStore(pool *pgxpool.Pool) *LobbyStore {
	return &LobbyStore{pool: pool}
}

const lobbyColumns = `id, sport, location, time, max_players, owner_id, status, description, created_at, updated_at`

func scanLobby(row pgx.Row) (*models.Lobby, error) {
	var l models.Lobby
	err := row.Scan(
		&l.ID, &l.Sport, &l.Location, &l.Time, &l.MaxPlayers,
		&l.OwnerID, &l.Status, &l.Description, &l.CreatedAt, &l.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, lobby.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// queryer is satisfied by both *pgxpool.Pool and pgx.Tx.
type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func loadPlayers(ctx context.Context, q queryer, lobbyID uuid.UUID) ([]models.LobbyPlayer, error) {
	rows, err := q.Query(ctx, `
		SELECT user_id, display_name
		FROM lobby_players
		WHERE lobby_id = $1
		ORDER BY position
	`, lobbyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := []models.LobbyPlayer{}
	for rows.Next() {
		var p models.LobbyPlayer
		if err := rows.Scan(&p.UserID, &p.DisplayName); err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// Insert creates the lobby row and its initial roster in one transaction.
func (s *LobbyStore) Insert(ctx context.Context, l *models.Lobby) error {
	return pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO lobbies (`+lobbyColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`,
			l.ID, l.Sport, l.Location, l.Time, l.MaxPlayers,
			l.OwnerID, l.Status, l.Description, l.CreatedAt, l.UpdatedAt,
		)
		if err != nil {
			return err
		}
		return insertPlayers(ctx, tx, l.ID, l.Players)
	})
}

func insertPlayers(ctx context.Context, tx pgx.Tx, lobbyID uuid.UUID, players []models.LobbyPlayer) error {
	for i, p := range players {
		_, err := tx.Exec(ctx, `
			INSERT INTO lobby_players (lobby_id, user_id, display_name, position)
			VALUES ($1, $2, $3, $4)
		`, lobbyID, p.UserID, p.DisplayName, i)
		if err != nil {
			return err
		}
	}
	return nil
}

// Get fetches a lobby with its roster.
func (s *LobbyStore) Get(ctx context.Context, id uuid.UUID) (*models.Lobby, error) {
	l, err := scanLobby(s.pool.QueryRow(ctx, `SELECT `+lobbyColumns+` FROM lobbies WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	l.Players, err = loadPlayers(ctx, s.pool, id)
	if err != nil {
		return nil, fmt.Errorf("load players: %w", err)
	}
	return l, nil
}

// List returns lobbies newest-first, filtered by sport and status set.
func (s *LobbyStore) List(ctx context.Context, f lobby.Filter) ([]models.Lobby, error) {
	statuses := make([]string, len(f.Statuses))
	for i, st := range f.Statuses {
		statuses[i] = string(st)
	}

	q := `SELECT ` + lobbyColumns + ` FROM lobbies WHERE status = ANY($1)`
	args := []any{statuses}
	if f.Sport != "" {
		q += ` AND sport = $2`
		args = append(args, f.Sport)
	}
	q += ` ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lobbies []models.Lobby
	for rows.Next() {
		var l models.Lobby
		err := rows.Scan(
			&l.ID, &l.Sport, &l.Location, &l.Time, &l.MaxPlayers,
			&l.OwnerID, &l.Status, &l.Description, &l.CreatedAt, &l.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		lobbies = append(lobbies, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range lobbies {
		lobbies[i].Players, err = loadPlayers(ctx, s.pool, lobbies[i].ID)
		if err != nil {
			return nil, fmt.Errorf("load players: %w", err)
		}
	}
	return lobbies, nil
}

// Update loads the lobby under a row lock, applies mutate, and persists the
// result. A mutate error rolls the transaction back untouched.
func (s *LobbyStore) Update(ctx context.Context, id uuid.UUID, mutate func(*models.Lobby) error) (*models.Lobby, error) {
	var out *models.Lobby
	err := pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		l, err := scanLobby(tx.QueryRow(ctx, `SELECT `+lobbyColumns+` FROM lobbies WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			return err
		}
		l.Players, err = loadPlayers(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("load players: %w", err)
		}
		if err := mutate(l); err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `
			UPDATE lobbies
			SET sport=$1, location=$2, time=$3, max_players=$4, status=$5, description=$6, updated_at=$7
			WHERE id=$8
		`, l.Sport, l.Location, l.Time, l.MaxPlayers, l.Status, l.Description, l.UpdatedAt, l.ID)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM lobby_players WHERE lobby_id=$1`, id); err != nil {
			return err
		}
		if err := insertPlayers(ctx, tx, id, l.Players); err != nil {
			return err
		}
		out = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a lobby and its roster.
func (s *LobbyStore) Delete(ctx context.Context, id uuid.UUID) error {
	return pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM lobby_players WHERE lobby_id=$1`, id); err != nil {
			return err
		}
		ct, err := tx.Exec(ctx, `DELETE FROM lobbies WHERE id=$1`, id)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return lobby.ErrNotFound
		}
		return nil
	})
}
