// Package lobby owns the lifecycle of a lobby: creation, roster mutation,
// and the OPEN/FULL/FINISHED/CANCELLED state machine.
package lobby

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/matchup-gg/matchup/internal/apperr"
	"github.com/matchup-gg/matchup/internal/models"
	"github.com/matchup-gg/matchup/internal/sports"
)

// Filter narrows a lobby listing.
type Filter struct {
	Sport    string
	Statuses []models.LobbyStatus
}

// Store persists lobbies. Update must serialize concurrent mutations of the
// same lobby id (row lock or equivalent) and roll back when the mutate
// callback returns an error. Get and Update return ErrNotFound for unknown
// ids.
type Store interface {
	Insert(ctx context.Context, l *models.Lobby) error
	Get(ctx context.Context, id uuid.UUID) (*models.Lobby, error)
	List(ctx context.Context, f Filter) ([]models.Lobby, error)
	Update(ctx context.Context, id uuid.UUID, mutate func(*models.Lobby) error) (*models.Lobby, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// EventSink receives domain events for asynchronous fan-out.
type EventSink interface {
	PublishLobbyJoin(ctx context.Context, ev models.LobbyJoinEvent) error
}

// Service is the lobby lifecycle engine.
type Service struct {
	store  Store
	events EventSink
	log    *logrus.Logger
	now    func() time.Time
}

// NewService wires the engine. events may be nil when no queue is configured.
func NewService(store Store, events EventSink, log *logrus.Logger) *Service {
	return &Service{store: store, events: events, log: log, now: time.Now}
}

// CreateInput carries the owner-supplied lobby fields.
type CreateInput struct {
	Sport       string
	Location    string
	Time        time.Time
	MaxPlayers  int
	Description string
}

// Create opens a new lobby. The owner is inserted into the roster
// immediately and counts against maxPlayers.
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, ownerName string, in CreateInput) (*models.Lobby, error) {
	l, err := newLobby(ownerID, ownerName, in.Sport, in.Location, in.Time, in.MaxPlayers, in.Description, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.store.Insert(ctx, l); err != nil {
		return nil, fmt.Errorf("insert lobby: %w", err)
	}
	return l, nil
}

// List returns lobbies newest-first. Without a status filter only OPEN and
// FULL lobbies are shown.
func (s *Service) List(ctx context.Context, sport string, statuses []models.LobbyStatus) ([]models.Lobby, error) {
	if sport != "" && !sports.Valid(sport) {
		return nil, invalidInput("unknown sport %q", sport)
	}
	for _, st := range statuses {
		if !models.ValidLobbyStatus(st) {
			return nil, invalidInput("unknown status %q", st)
		}
	}
	if len(statuses) == 0 {
		statuses = []models.LobbyStatus{models.LobbyOpen, models.LobbyFull}
	}
	return s.store.List(ctx, Filter{Sport: sport, Statuses: statuses})
}

// Get fetches a single lobby by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Lobby, error) {
	return s.store.Get(ctx, id)
}

// Update patches owner-editable fields.
func (s *Service) Update(ctx context.Context, id, requesterID uuid.UUID, patch UpdatePatch) (*models.Lobby, error) {
	return s.store.Update(ctx, id, func(l *models.Lobby) error {
		return applyUpdate(l, requesterID, patch, s.now())
	})
}

// Join adds a player to the roster, flipping OPEN to FULL when the last slot
// fills. A "player joined" event is published best-effort; a publish failure
// never rolls back the join.
func (s *Service) Join(ctx context.Context, id, userID uuid.UUID, displayName string) (*models.Lobby, error) {
	l, err := s.store.Update(ctx, id, func(l *models.Lobby) error {
		return applyJoin(l, models.LobbyPlayer{UserID: userID, DisplayName: displayName}, s.now())
	})
	if err != nil {
		return nil, err
	}
	s.publishJoin(ctx, l, userID)
	return l, nil
}

func (s *Service) publishJoin(ctx context.Context, l *models.Lobby, playerID uuid.UUID) {
	if s.events == nil {
		return
	}
	ev := models.LobbyJoinEvent{
		Type:      models.EventLobbyUserJoined,
		LobbyID:   l.ID,
		OwnerID:   l.OwnerID,
		PlayerID:  playerID,
		LobbyName: l.Name(),
		CreatedAt: s.now().UTC(),
	}
	if err := s.events.PublishLobbyJoin(ctx, ev); err != nil {
		s.log.WithFields(logrus.Fields{
			"lobby_id":  l.ID,
			"player_id": playerID,
		}).WithError(err).Warn("failed to publish lobby join event")
	}
}

// Leave removes a voluntary leaver and reverts FULL to OPEN if needed.
func (s *Service) Leave(ctx context.Context, id, userID uuid.UUID) (*models.Lobby, error) {
	return s.store.Update(ctx, id, func(l *models.Lobby) error {
		return applyLeave(l, userID, s.now())
	})
}

// Kick removes a player on behalf of the owner and returns the removed
// roster entry alongside the updated lobby.
func (s *Service) Kick(ctx context.Context, id, requesterID, targetID uuid.UUID) (*models.Lobby, models.LobbyPlayer, error) {
	var removed models.LobbyPlayer
	l, err := s.store.Update(ctx, id, func(l *models.Lobby) error {
		var kickErr error
		removed, kickErr = applyKick(l, requesterID, targetID, s.now())
		return kickErr
	})
	if err != nil {
		return nil, models.LobbyPlayer{}, err
	}
	return l, removed, nil
}

// Finish moves the lobby to FINISHED and stamps the rating-window anchor.
func (s *Service) Finish(ctx context.Context, id, requesterID uuid.UUID) (*models.Lobby, error) {
	return s.store.Update(ctx, id, func(l *models.Lobby) error {
		return applyFinish(l, requesterID, s.now())
	})
}

// DeleteOrCancel hard-deletes a FINISHED lobby and soft-cancels anything
// else. The returned flag reports whether the row was deleted.
func (s *Service) DeleteOrCancel(ctx context.Context, id, requesterID uuid.UUID) (bool, error) {
	l, err := s.store.Get(ctx, id)
	if err != nil {
		return false, err
	}
	if l.OwnerID != requesterID {
		return false, ErrNotOwner
	}
	if l.Status == models.LobbyFinished {
		if err := s.store.Delete(ctx, id); err != nil {
			return false, fmt.Errorf("delete lobby: %w", err)
		}
		return true, nil
	}
	_, err = s.store.Update(ctx, id, func(l *models.Lobby) error {
		if l.OwnerID != requesterID {
			return ErrNotOwner
		}
		if l.Status == models.LobbyFinished {
			// Raced with a concurrent finish; the caller can retry the delete.
			return ErrAlreadyFinished
		}
		l.Status = models.LobbyCancelled
		l.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return false, err
	}
	return false, nil
}

// ParseStatuses converts raw query values into lobby statuses, rejecting
// unknown ones.
func ParseStatuses(raw []string) ([]models.LobbyStatus, error) {
	var out []models.LobbyStatus
	for _, r := range raw {
		if r == "" {
			continue
		}
		st := models.LobbyStatus(r)
		if !models.ValidLobbyStatus(st) {
			return nil, apperr.New(apperr.InvalidInput, "INVALID_INPUT", fmt.Sprintf("unknown status %q", r))
		}
		out = append(out, st)
	}
	return out, nil
}
