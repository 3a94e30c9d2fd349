package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/matchup-gg/matchup/internal/models"
	"github.com/matchup-gg/matchup/internal/rating"
)

// RatingStore is the postgres implementation of rating.Store. The unique key
// on (from_user_id, to_user_id, lobby_id) is the duplicate-submit race guard.
type RatingStore struct {
	pool *pgxpool.Pool
}

func NewRatingStore(pool *pgxpool.Pool) *RatingStore {
	return &RatingStore{pool: pool}
}

const uniqueViolation = "23505"

// Insert persists a rating, mapping a unique-key violation to ErrDuplicate.
func (s *RatingStore) Insert(ctx context.Context, r *models.Rating) error {
	err := pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO ratings (id, from_user_id, to_user_id, lobby_id, type, category, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, r.ID, r.FromUserID, r.ToUserID, r.LobbyID, r.Type, r.Category, r.CreatedAt)
		return err
	})
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return rating.ErrDuplicate
	}
	return err
}

// ListForUser returns ratings received by toUserID, newest first.
func (s *RatingStore) ListForUser(ctx context.Context, toUserID uuid.UUID, f rating.Filter) ([]models.Rating, error) {
	q := `
		SELECT id, from_user_id, to_user_id, lobby_id, type, category, created_at
		FROM ratings
		WHERE to_user_id = $1
	`
	args := []any{toUserID}
	if f.Type != "" {
		args = append(args, f.Type)
		q += ` AND type = $2`
	}
	if f.Category != "" {
		args = append(args, f.Category)
		if f.Type != "" {
			q += ` AND category = $3`
		} else {
			q += ` AND category = $2`
		}
	}
	q += ` ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRatings(rows)
}

// ListByRater returns the ratings fromUserID submitted within one lobby.
func (s *RatingStore) ListByRater(ctx context.Context, fromUserID, lobbyID uuid.UUID) ([]models.Rating, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, from_user_id, to_user_id, lobby_id, type, category, created_at
		FROM ratings
		WHERE from_user_id = $1 AND lobby_id = $2
	`, fromUserID, lobbyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRatings(rows)
}

func scanRatings(rows pgx.Rows) ([]models.Rating, error) {
	var rs []models.Rating
	for rows.Next() {
		var r models.Rating
		if err := rows.Scan(&r.ID, &r.FromUserID, &r.ToUserID, &r.LobbyID, &r.Type, &r.Category, &r.CreatedAt); err != nil {
			return nil, err
		}
		rs = append(rs, r)
	}
	return rs, rows.Err()
}

// CountByTypeCategory aggregates received ratings per type and category.
func (s *RatingStore) CountByTypeCategory(ctx context.Context, toUserID uuid.UUID) (map[models.RatingType]map[models.RatingCategory]int, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT type, category, COUNT(*)
		FROM ratings
		WHERE to_user_id = $1
		GROUP BY type, category
	`, toUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.RatingType]map[models.RatingCategory]int)
	for rows.Next() {
		var t models.RatingType
		var c models.RatingCategory
		var n int
		if err := rows.Scan(&t, &c, &n); err != nil {
			return nil, err
		}
		if counts[t] == nil {
			counts[t] = make(map[models.RatingCategory]int)
		}
		counts[t][c] = n
	}
	return counts, rows.Err()
}
