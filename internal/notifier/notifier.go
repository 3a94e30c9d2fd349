// Package notifier consumes domain events off the Redis queues and persists
// them as notification records.
package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/matchup-gg/matchup/internal/events"
	"github.com/matchup-gg/matchup/internal/models"
)

// NotificationStore is the slice of storage the notifier needs.
type NotificationStore interface {
	Insert(ctx context.Context, n *models.Notification) error
}

// Service pops events from both notification queues and writes one
// notification row per event. Malformed payloads are logged and dropped,
// not requeued.
type Service struct {
	redis *redis.Client
	store NotificationStore
	log   *logrus.Logger

	popTimeout time.Duration
}

func New(redisClient *redis.Client, store NotificationStore, log *logrus.Logger) *Service {
	return &Service{
		redis:      redisClient,
		store:      store,
		log:        log,
		popTimeout: 3 * time.Second,
	}
}

// Run blocks until ctx is cancelled, consuming both queues with a single
// blocking pop.
func (s *Service) Run(ctx context.Context) {
	s.log.WithFields(logrus.Fields{
		"queues": []string{events.LobbyQueue, events.FriendQueue},
	}).Info("notifier started")

	for {
		select {
		case <-ctx.Done():
			s.log.Info("notifier shutting down")
			return
		default:
		}

		res, err := s.redis.BLPop(ctx, s.popTimeout, events.LobbyQueue, events.FriendQueue).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) {
				continue
			}
			s.log.WithError(err).Error("blpop failed")
			time.Sleep(time.Second)
			continue
		}
		if len(res) < 2 {
			continue
		}

		queue, payload := res[0], res[1]
		if err := s.handle(ctx, queue, []byte(payload)); err != nil {
			s.log.WithField("queue", queue).WithError(err).Error("failed to process event")
		}
	}
}

func (s *Service) handle(ctx context.Context, queue string, payload []byte) error {
	switch queue {
	case events.LobbyQueue:
		var ev models.LobbyJoinEvent
		if err := json.Unmarshal(payload, &ev); err != nil {
			return fmt.Errorf("invalid lobby join payload: %w", err)
		}
		return s.handleLobbyJoin(ctx, ev)
	case events.FriendQueue:
		var ev models.FriendRequestEvent
		if err := json.Unmarshal(payload, &ev); err != nil {
			return fmt.Errorf("invalid friend request payload: %w", err)
		}
		return s.handleFriendRequest(ctx, ev)
	}
	return fmt.Errorf("unknown queue %q", queue)
}

func (s *Service) handleLobbyJoin(ctx context.Context, ev models.LobbyJoinEvent) error {
	n := LobbyJoinNotification(ev)
	if err := s.store.Insert(ctx, &n); err != nil {
		return fmt.Errorf("store lobby join notification: %w", err)
	}
	s.log.WithFields(logrus.Fields{
		"player_id": ev.PlayerID,
		"owner_id":  ev.OwnerID,
		"lobby":     ev.LobbyName,
	}).Info("lobby join notification created")
	return nil
}

func (s *Service) handleFriendRequest(ctx context.Context, ev models.FriendRequestEvent) error {
	n := FriendRequestNotification(ev)
	if err := s.store.Insert(ctx, &n); err != nil {
		return fmt.Errorf("store friend request notification: %w", err)
	}
	s.log.WithFields(logrus.Fields{
		"from_user": ev.FromUserID,
		"to_user":   ev.ToUserID,
	}).Info("friend request notification created")
	return nil
}

// LobbyJoinNotification translates a join event into the owner's
// notification record.
func LobbyJoinNotification(ev models.LobbyJoinEvent) models.Notification {
	return models.Notification{
		UserID:     ev.OwnerID,
		Type:       models.NotificationLobbyJoin,
		FromUserID: ev.PlayerID,
		LobbyID:    ev.LobbyID,
		LobbyName:  ev.LobbyName,
		Message:    "A player joined your lobby: " + ev.LobbyName,
		CreatedAt:  eventTime(ev.CreatedAt),
	}
}

// FriendRequestNotification translates a friend-request event into the
// recipient's notification record.
func FriendRequestNotification(ev models.FriendRequestEvent) models.Notification {
	return models.Notification{
		UserID:     ev.ToUserID,
		Type:       models.NotificationFriendRequest,
		FromUserID: ev.FromUserID,
		Message:    "You have a new friend request",
		CreatedAt:  eventTime(ev.CreatedAt),
	}
}

func eventTime(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t
}
