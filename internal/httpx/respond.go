// Package httpx holds the JSON response helpers shared by all services.
package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/matchup-gg/matchup/internal/apperr"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// WriteError maps err's kind to a status code and writes the machine code
// plus client-safe message. Untagged errors surface as a generic 500.
func WriteError(w http.ResponseWriter, err error) {
	WriteJSON(w, apperr.HTTPStatus(err), errorBody{Error: errorDetail{
		Code:    apperr.CodeOf(err),
		Message: apperr.MessageOf(err),
	}})
}
