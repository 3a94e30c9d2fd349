package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesByCode(t *testing.T) {
	a := New(NotFound, "LOBBY_NOT_FOUND", "lobby not found")
	b := New(NotFound, "LOBBY_NOT_FOUND", "different message")
	c := New(NotFound, "USER_NOT_FOUND", "user not found")

	assert.True(t, errors.Is(a, b), "same code must match regardless of message")
	assert.False(t, errors.Is(a, c))
}

func TestIsSurvivesWrapping(t *testing.T) {
	base := New(InvalidState, "LOBBY_FULL", "lobby is already full")
	wrapped := fmt.Errorf("join lobby: %w", base)

	assert.True(t, errors.Is(wrapped, base))
	assert.Equal(t, InvalidState, KindOf(wrapped))
	assert.Equal(t, "LOBBY_FULL", CodeOf(wrapped))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, Unavailable, "REMOTE_UNAVAILABLE", "lobby service unavailable")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, "lobby service unavailable", MessageOf(err))
}

func TestUntaggedErrorDefaults(t *testing.T) {
	err := errors.New("pq: out of shared memory")

	assert.Equal(t, Internal, KindOf(err))
	assert.Equal(t, "INTERNAL", CodeOf(err))
	assert.Equal(t, "internal server error", MessageOf(err), "internals must not leak")
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(err))
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		kind Kind
		want int
	}{
		{InvalidInput, http.StatusBadRequest},
		{InvalidState, http.StatusBadRequest},
		{Unauthenticated, http.StatusUnauthorized},
		{Forbidden, http.StatusForbidden},
		{NotFound, http.StatusNotFound},
		{Unavailable, http.StatusBadGateway},
		{Internal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatus(New(tc.kind, "X", "x")), "kind %d", tc.kind)
	}
}
