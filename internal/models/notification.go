package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification is a stored fan-out record produced by the notifier from
// queue events. Delivery is pull-based; there is no push channel.
type Notification struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"userId"`
	Type       string    `json:"type"` // 'friend_request' or 'lobby_join'
	FromUserID uuid.UUID `json:"fromUserId"`
	LobbyID    uuid.UUID `json:"lobbyId,omitempty"`
	LobbyName  string    `json:"lobbyName,omitempty"`
	Message    string    `json:"message"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"createdAt"`
}

const (
	NotificationFriendRequest = "friend_request"
	NotificationLobbyJoin     = "lobby_join"
)
