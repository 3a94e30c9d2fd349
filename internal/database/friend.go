package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/matchup-gg/matchup/internal/apperr"
	"github.com/matchup-gg/matchup/internal/models"
)

var ErrNoPendingRequest = apperr.New(apperr.NotFound, "NO_PENDING_REQUEST", "no pending friend request found")

// FriendStore is the postgres store for the friend graph. One row per
// relationship, keyed (requester, recipient).
type FriendStore struct {
	pool *pgxpool.Pool
}

func NewFriendStore(pool *pgxpool.Pool) *FriendStore {
	return &FriendStore{pool: pool}
}

// Request records a pending friend request from user1 to user2. Re-sending
// resets a previously removed or pending row back to pending.
func (s *FriendStore) Request(ctx context.Context, user1, user2 uuid.UUID) error {
	q := `
		INSERT INTO friends (user1_id, user2_id, status, updated_at)
		VALUES ($1, $2, 'pending', NOW())
		ON CONFLICT (user1_id, user2_id)
		DO UPDATE SET status='pending', updated_at=NOW()
	`
	return pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, q, user1, user2)
		return err
	})
}

// Accept flips a pending request from user1 to user2 to accepted.
func (s *FriendStore) Accept(ctx context.Context, user1, user2 uuid.UUID) error {
	q := `
		UPDATE friends
		SET status='accepted', updated_at=NOW()
		WHERE user1_id=$1 AND user2_id=$2 AND status='pending'
	`
	return pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		ct, err := tx.Exec(ctx, q, user1, user2)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return ErrNoPendingRequest
		}
		return nil
	})
}

// List returns every relationship involving userID, pending or accepted.
func (s *FriendStore) List(ctx context.Context, userID uuid.UUID) ([]models.Friend, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT user1_id, user2_id, status, updated_at
		FROM friends
		WHERE user1_id=$1 OR user2_id=$1
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fs []models.Friend
	for rows.Next() {
		var f models.Friend
		if err := rows.Scan(&f.User1ID, &f.User2ID, &f.Status, &f.UpdatedAt); err != nil {
			return nil, err
		}
		fs = append(fs, f)
	}
	return fs, rows.Err()
}

// Remove hard-deletes the relationship in either direction.
func (s *FriendStore) Remove(ctx context.Context, user1, user2 uuid.UUID) error {
	q := `
		DELETE FROM friends
		WHERE (user1_id=$1 AND user2_id=$2)
		   OR (user1_id=$2 AND user2_id=$1)
	`
	return pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, q, user1, user2)
		return err
	})
}
