package lobby

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/matchup-gg/matchup/internal/apperr"
	"github.com/matchup-gg/matchup/internal/models"
	"github.com/matchup-gg/matchup/internal/sports"
)

// Roster and capacity bounds.
const (
	MinPlayers     = 2
	MaxPlayers     = 50
	MaxDescription = 500
)

// The transition rules below mutate a lobby in place and return a kinded
// error when the transition is disallowed. They carry no I/O; the store
// applies them inside its serialization boundary (row lock or mutex), which
// is what keeps two concurrent joins from both seeing the last open slot.

func invalidInput(format string, args ...any) error {
	return apperr.New(apperr.InvalidInput, "INVALID_INPUT", fmt.Sprintf(format, args...))
}

// validateCore checks the fields shared by create and update.
func validateCore(sport, location string, when time.Time, maxPlayers int, description string) error {
	if !sports.Valid(sport) {
		return invalidInput("unknown sport %q", sport)
	}
	if location == "" {
		return invalidInput("location is required")
	}
	if when.IsZero() {
		return invalidInput("time is required")
	}
	if maxPlayers < MinPlayers || maxPlayers > MaxPlayers {
		return invalidInput("maxPlayers must be between %d and %d", MinPlayers, MaxPlayers)
	}
	if len(description) > MaxDescription {
		return invalidInput("description exceeds %d characters", MaxDescription)
	}
	return nil
}

// refreshStatus re-derives OPEN/FULL from the roster. Terminal states are
// never touched.
func refreshStatus(l *models.Lobby) {
	if l.Status.Terminal() {
		return
	}
	if len(l.Players) == l.MaxPlayers {
		l.Status = models.LobbyFull
	} else {
		l.Status = models.LobbyOpen
	}
}

// newLobby builds an OPEN lobby with the owner already on the roster.
func newLobby(ownerID uuid.UUID, ownerName, sport, location string, when time.Time, maxPlayers int, description string, now time.Time) (*models.Lobby, error) {
	if err := validateCore(sport, location, when, maxPlayers, description); err != nil {
		return nil, err
	}
	l := &models.Lobby{
		ID:          uuid.New(),
		Sport:       sport,
		Location:    location,
		Time:        when,
		MaxPlayers:  maxPlayers,
		Players:     []models.LobbyPlayer{{UserID: ownerID, DisplayName: ownerName}},
		OwnerID:     ownerID,
		Status:      models.LobbyOpen,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	refreshStatus(l)
	return l, nil
}

// applyJoin appends a player. Check order: terminal state, capacity,
// membership; the capacity check runs before the membership check.
func applyJoin(l *models.Lobby, p models.LobbyPlayer, now time.Time) error {
	if l.Status.Terminal() {
		return ErrClosed
	}
	if l.Status == models.LobbyFull || len(l.Players) >= l.MaxPlayers {
		return ErrFull
	}
	if l.HasPlayer(p.UserID) {
		return ErrAlreadyMember
	}
	l.Players = append(l.Players, p)
	refreshStatus(l)
	l.UpdatedAt = now
	return nil
}

// removePlayer drops userID from the roster, preserving the order of the
// remaining players.
func removePlayer(l *models.Lobby, userID uuid.UUID) {
	kept := l.Players[:0]
	for _, p := range l.Players {
		if p.UserID != userID {
			kept = append(kept, p)
		}
	}
	l.Players = kept
}

// applyLeave removes a voluntary leaver. The owner may never leave.
func applyLeave(l *models.Lobby, userID uuid.UUID, now time.Time) error {
	if l.Status.Terminal() {
		if l.Status == models.LobbyCancelled {
			return ErrCancelled
		}
		return ErrClosed
	}
	if userID == l.OwnerID {
		return ErrOwnerCannotLeave
	}
	if !l.HasPlayer(userID) {
		return ErrNotMember
	}
	removePlayer(l, userID)
	refreshStatus(l)
	l.UpdatedAt = now
	return nil
}

// applyKick removes targetID on behalf of the owner and returns the removed
// roster entry.
func applyKick(l *models.Lobby, requesterID, targetID uuid.UUID, now time.Time) (models.LobbyPlayer, error) {
	if requesterID != l.OwnerID {
		return models.LobbyPlayer{}, ErrNotOwner
	}
	if l.Status.Terminal() {
		return models.LobbyPlayer{}, ErrClosed
	}
	if targetID == l.OwnerID {
		return models.LobbyPlayer{}, ErrSelfKick
	}
	var removed models.LobbyPlayer
	found := false
	for _, p := range l.Players {
		if p.UserID == targetID {
			removed = p
			found = true
			break
		}
	}
	if !found {
		return models.LobbyPlayer{}, ErrPlayerNotFound
	}
	removePlayer(l, targetID)
	refreshStatus(l)
	l.UpdatedAt = now
	return removed, nil
}

// applyFinish moves the lobby to FINISHED. UpdatedAt becomes the anchor of
// the 72-hour rating window.
func applyFinish(l *models.Lobby, requesterID uuid.UUID, now time.Time) error {
	if requesterID != l.OwnerID {
		return ErrNotOwner
	}
	if l.Status == models.LobbyFinished {
		return ErrAlreadyFinished
	}
	if l.Status == models.LobbyCancelled {
		return ErrCancelled
	}
	l.Status = models.LobbyFinished
	l.UpdatedAt = now
	return nil
}

// UpdatePatch is a partial update of owner-editable fields. Nil means
// "leave unchanged"; an entirely empty patch is invalid input.
type UpdatePatch struct {
	Sport       *string
	Location    *string
	Time        *time.Time
	MaxPlayers  *int
	Description *string
}

func (p UpdatePatch) empty() bool {
	return p.Sport == nil && p.Location == nil && p.Time == nil && p.MaxPlayers == nil && p.Description == nil
}

// applyUpdate patches the permitted fields and re-derives OPEN/FULL, since a
// maxPlayers change can flip the capacity invariant either way.
func applyUpdate(l *models.Lobby, requesterID uuid.UUID, patch UpdatePatch, now time.Time) error {
	if requesterID != l.OwnerID {
		return ErrNotOwner
	}
	if l.Status.Terminal() {
		return ErrClosed
	}
	if patch.empty() {
		return invalidInput("update patch is empty")
	}
	next := *l
	if patch.Sport != nil {
		next.Sport = *patch.Sport
	}
	if patch.Location != nil {
		next.Location = *patch.Location
	}
	if patch.Time != nil {
		next.Time = *patch.Time
	}
	if patch.MaxPlayers != nil {
		next.MaxPlayers = *patch.MaxPlayers
	}
	if patch.Description != nil {
		next.Description = *patch.Description
	}
	if err := validateCore(next.Sport, next.Location, next.Time, next.MaxPlayers, next.Description); err != nil {
		return err
	}
	if next.MaxPlayers < len(l.Players) {
		return invalidInput("maxPlayers cannot be below the current roster size (%d)", len(l.Players))
	}
	*l = next
	refreshStatus(l)
	l.UpdatedAt = now
	return nil
}
