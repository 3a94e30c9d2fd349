package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/matchup-gg/matchup/internal/apperr"
	"github.com/matchup-gg/matchup/internal/models"
)

var (
	ErrNotificationNotFound = apperr.New(apperr.NotFound, "NOTIFICATION_NOT_FOUND", "notification not found")
	ErrNotNotificationOwner = apperr.New(apperr.Forbidden, "NOT_NOTIFICATION_OWNER", "cannot modify another user's notification")
)

// NotificationStore is the postgres store for notification records written
// by the notifier and read back by clients.
type NotificationStore struct {
	pool *pgxpool.Pool
}

func NewNotificationStore(pool *pgxpool.Pool) *NotificationStore {
	return &NotificationStore{pool: pool}
}

func (s *NotificationStore) Insert(ctx context.Context, n *models.Notification) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO notifications (id, user_id, type, from_user_id, lobby_id, lobby_name, message, read, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, n.ID, n.UserID, n.Type, n.FromUserID, nullableUUID(n.LobbyID), n.LobbyName, n.Message, n.Read, n.CreatedAt)
		return err
	})
}

func nullableUUID(id uuid.UUID) any {
	if id == uuid.Nil {
		return nil
	}
	return id
}

// ListUnreadForUser returns the newest unread notifications for userID,
// capped at limit. Read notifications never appear in the inbox.
func (s *NotificationStore) ListUnreadForUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, type, from_user_id, COALESCE(lobby_id, '00000000-0000-0000-0000-000000000000'), lobby_name, message, read, created_at
		FROM notifications
		WHERE user_id = $1 AND read = FALSE
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ns []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.FromUserID, &n.LobbyID, &n.LobbyName, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		ns = append(ns, n)
	}
	return ns, rows.Err()
}

// CountUnread returns the number of unread notifications for userID,
// regardless of any listing limit.
func (s *NotificationStore) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read = FALSE
	`, userID).Scan(&count)
	return count, err
}

// MarkRead flags one notification as read. The row must exist and belong to
// userID; a foreign row fails with Forbidden, never silently updates.
func (s *NotificationStore) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	return pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		var ownerID uuid.UUID
		err := tx.QueryRow(ctx, `SELECT user_id FROM notifications WHERE id = $1 FOR UPDATE`, id).Scan(&ownerID)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotificationNotFound
		}
		if err != nil {
			return err
		}
		if ownerID != userID {
			return ErrNotNotificationOwner
		}
		_, err = tx.Exec(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1`, id)
		return err
	})
}

// MarkAllRead flags every unread notification for userID as read.
func (s *NotificationStore) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `UPDATE notifications SET read = TRUE WHERE user_id = $1 AND read = FALSE`, userID)
		return err
	})
}
