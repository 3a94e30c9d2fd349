package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/matchup-gg/matchup/internal/database"
	"github.com/matchup-gg/matchup/internal/models"
)

// NotificationStore keeps notification records in memory with the same
// ownership semantics as the postgres store.
type NotificationStore struct {
	mu            sync.Mutex
	notifications map[uuid.UUID]*models.Notification
}

func NewNotificationStore() *NotificationStore {
	return &NotificationStore{notifications: make(map[uuid.UUID]*models.Notification)}
}

func (s *NotificationStore) Insert(_ context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	c := *n
	s.notifications[n.ID] = &c
	return nil
}

func (s *NotificationStore) ListUnreadForUser(_ context.Context, userID uuid.UUID, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var ns []models.Notification
	for _, n := range s.notifications {
		if n.UserID == userID && !n.Read {
			ns = append(ns, *n)
		}
	}
	sort.Slice(ns, func(i, j int) bool { return ns[i].CreatedAt.After(ns[j].CreatedAt) })
	if len(ns) > limit {
		ns = ns[:limit]
	}
	return ns, nil
}

func (s *NotificationStore) CountUnread(_ context.Context, userID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, n := range s.notifications {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (s *NotificationStore) MarkRead(_ context.Context, id, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[id]
	if !ok {
		return database.ErrNotificationNotFound
	}
	if n.UserID != userID {
		return database.ErrNotNotificationOwner
	}
	n.Read = true
	return nil
}

func (s *NotificationStore) MarkAllRead(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.notifications {
		if n.UserID == userID {
			n.Read = true
		}
	}
	return nil
}
