// Package memory holds in-memory store implementations, used by tests and
// by the seeder's dry-run mode.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/matchup-gg/matchup/internal/lobby"
	"github.com/matchup-gg/matchup/internal/models"
)

// LobbyStore keeps lobbies in a map guarded by one mutex. Holding the mutex
// across the whole read-mutate-write in Update gives the same linearization
// the postgres store gets from its row lock.
type LobbyStore struct {
	mu      sync.Mutex
	lobbies map[uuid.UUID]*models.Lobby
}

func NewLobbyStore() *LobbyStore {
	return &LobbyStore{lobbies: make(map[uuid.UUID]*models.Lobby)}
}

func cloneLobby(l *models.Lobby) *models.Lobby {
	c := *l
	c.Players = append([]models.LobbyPlayer(nil), l.Players...)
	return &c
}

func (s *LobbyStore) Insert(_ context.Context, l *models.Lobby) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lobbies[l.ID] = cloneLobby(l)
	return nil
}

func (s *LobbyStore) Get(_ context.Context, id uuid.UUID) (*models.Lobby, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lobbies[id]
	if !ok {
		return nil, lobby.ErrNotFound
	}
	return cloneLobby(l), nil
}

func (s *LobbyStore) List(_ context.Context, f lobby.Filter) ([]models.Lobby, error) {
	wanted := make(map[models.LobbyStatus]bool, len(f.Statuses))
	for _, st := range f.Statuses {
		wanted[st] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Lobby
	for _, l := range s.lobbies {
		if f.Sport != "" && l.Sport != f.Sport {
			continue
		}
		if len(wanted) > 0 && !wanted[l.Status] {
			continue
		}
		out = append(out, *cloneLobby(l))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *LobbyStore) Update(_ context.Context, id uuid.UUID, mutate func(*models.Lobby) error) (*models.Lobby, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lobbies[id]
	if !ok {
		return nil, lobby.ErrNotFound
	}
	next := cloneLobby(l)
	if err := mutate(next); err != nil {
		return nil, err
	}
	s.lobbies[id] = next
	return cloneLobby(next), nil
}

func (s *LobbyStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lobbies[id]; !ok {
		return lobby.ErrNotFound
	}
	delete(s.lobbies, id)
	return nil
}
