package models

import (
	"time"

	"github.com/google/uuid"
)

// LobbyStatus is the lifecycle state of a lobby. OPEN and FULL may oscillate
// as players come and go; FINISHED and CANCELLED are terminal.
type LobbyStatus string

const (
	LobbyOpen      LobbyStatus = "OPEN"
	LobbyFull      LobbyStatus = "FULL"
	LobbyFinished  LobbyStatus = "FINISHED"
	LobbyCancelled LobbyStatus = "CANCELLED"
)

// ValidLobbyStatus reports whether s is one of the four lifecycle states.
func ValidLobbyStatus(s LobbyStatus) bool {
	switch s {
	case LobbyOpen, LobbyFull, LobbyFinished, LobbyCancelled:
		return true
	}
	return false
}

// Terminal reports whether the status permits no further roster mutation.
func (s LobbyStatus) Terminal() bool {
	return s == LobbyFinished || s == LobbyCancelled
}

// LobbyPlayer is a roster entry. Roster order is insertion order.
type LobbyPlayer struct {
	UserID      uuid.UUID `json:"userId"`
	DisplayName string    `json:"displayName"`
}

// Lobby represents a scheduled sports activity with a bounded roster.
// UpdatedAt doubles as the finish timestamp once the lobby is FINISHED; the
// rating window is anchored on it.
type Lobby struct {
	ID          uuid.UUID     `json:"id"`
	Sport       string        `json:"sport"`
	Location    string        `json:"location"`
	Time        time.Time     `json:"time"`
	MaxPlayers  int           `json:"maxPlayers"`
	Players     []LobbyPlayer `json:"players"`
	OwnerID     uuid.UUID     `json:"ownerId"`
	Status      LobbyStatus   `json:"status"`
	Description string        `json:"description,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// HasPlayer reports whether userID is on the roster.
func (l *Lobby) HasPlayer(userID uuid.UUID) bool {
	for _, p := range l.Players {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// Name is the human label used in notification events,
// e.g. "football @ Central Park".
func (l *Lobby) Name() string {
	return l.Sport + " @ " + l.Location
}
