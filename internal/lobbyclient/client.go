// Package lobbyclient fetches lobby state from the lobby service over HTTP.
// It is the rating service's single source of truth for eligibility facts.
package lobbyclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matchup-gg/matchup/internal/apperr"
	"github.com/matchup-gg/matchup/internal/models"
)

// DefaultTimeout bounds the cross-service fetch. A slow lobby service must
// surface as a retryable failure, not hang the rating request.
const DefaultTimeout = 5 * time.Second

var (
	errLobbyNotFound = apperr.New(apperr.NotFound, "LOBBY_NOT_FOUND", "lobby not found")
)

func unavailable(cause error) error {
	return apperr.Wrap(cause, apperr.Unavailable, "REMOTE_UNAVAILABLE", "lobby service unavailable")
}

// Client is an HTTP client for the lobby service's read API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New builds a client for baseURL, e.g. "http://lobby:8081". A zero timeout
// falls back to DefaultTimeout.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Lobby fetches a lobby by id. A 404 maps to a NotFound error; transport
// failures and unexpected statuses map to a retryable Unavailable error and
// are never conflated with "lobby legitimately not found".
func (c *Client) Lobby(ctx context.Context, id uuid.UUID) (*models.Lobby, error) {
	url := fmt.Sprintf("%s/lobbies/%s", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build lobby request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, unavailable(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, errLobbyNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, unavailable(fmt.Errorf("lobby service returned %d", resp.StatusCode))
	}

	var l models.Lobby
	if err := json.NewDecoder(resp.Body).Decode(&l); err != nil {
		return nil, unavailable(fmt.Errorf("decode lobby response: %w", err))
	}
	return &l, nil
}
