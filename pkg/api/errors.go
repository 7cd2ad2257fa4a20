package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrAuthRequired is returned when the backend rejects a request with 401.
// By the time a caller sees this error the session has already been torn
// down via the auth-failure hook.
var ErrAuthRequired = errors.New("authentication required")

// APIError is a non-2xx response translated by a typed endpoint helper.
// Message is the backend-supplied "error" field when present, otherwise a
// generic fallback for the failed operation.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// errorBody is the backend's standard error payload.
type errorBody struct {
	Error string `json:"error"`
}

// errorFromResponse builds an *APIError from a non-2xx response, preferring
// the backend message and falling back to the given format.
func errorFromResponse(resp *http.Response, fallback string, args ...any) *APIError {
	msg := fmt.Sprintf(fallback, args...)

	var body errorBody
	if data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)); err == nil {
		if json.Unmarshal(data, &body) == nil && body.Error != "" {
			msg = body.Error
		}
	}

	return &APIError{
		Status:  resp.StatusCode,
		Message: msg,
	}
}
