package common

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound covers every referenced row that does not exist or is not
// visible to the caller (inactive activity on the public path included).
var ErrNotFound = errors.New("not found")

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// ConflictError reports a state-machine precondition failure or a uniqueness
// violation detected at write time. Exactly one of two concurrent transitions
// on the same booking gets through; the loser receives this.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

type AuthorizationError struct {
	Msg string
}

func (e *AuthorizationError) Error() string { return e.Msg }

// CancellationWindowError carries the activity's free-cancellation threshold
// so the caller can surface it in user messaging.
type CancellationWindowError struct {
	Hours int
}

func (e *CancellationWindowError) Error() string {
	return fmt.Sprintf("free cancellation period has expired, must cancel at least %d hours before activity", e.Hours)
}

// HTTPStatus maps the core error taxonomy to a response code. Handlers use it
// instead of deciding codes case by case.
func HTTPStatus(err error) int {
	var (
		ve *ValidationError
		ce *ConflictError
		ae *AuthorizationError
		we *CancellationWindowError
	)
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &we):
		return http.StatusBadRequest
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &ce):
		return http.StatusConflict
	case errors.As(err, &ae):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}
