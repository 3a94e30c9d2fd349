package models

import (
	"time"

	"github.com/google/uuid"
)

// Queue event records. Field names are part of the wire contract with the
// notifier and must stay stable.

const (
	EventLobbyUserJoined   = "lobby.user.joined"
	EventFriendRequestSent = "friend.request.sent"
)

// LobbyJoinEvent is published when a player joins a lobby. The notifier
// turns it into a notification for the lobby owner.
type LobbyJoinEvent struct {
	Type      string    `json:"type"`
	LobbyID   uuid.UUID `json:"lobbyId"`
	OwnerID   uuid.UUID `json:"ownerId"`
	PlayerID  uuid.UUID `json:"playerId"`
	LobbyName string    `json:"lobbyName"`
	CreatedAt time.Time `json:"createdAt"`
}

// FriendRequestEvent is published when a friend request is sent.
type FriendRequestEvent struct {
	Type       string    `json:"type"`
	FromUserID uuid.UUID `json:"fromUserId"`
	ToUserID   uuid.UUID `json:"toUserId"`
	CreatedAt  time.Time `json:"createdAt"`
}
