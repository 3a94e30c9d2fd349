package models

import (
	"time"

	"github.com/google/uuid"
)

type Friend struct {
	User1ID   uuid.UUID `json:"user1Id"`
	User2ID   uuid.UUID `json:"user2Id"`
	Status    string    `json:"status"` // 'pending' or 'accepted'
	UpdatedAt time.Time `json:"updatedAt"`
}
