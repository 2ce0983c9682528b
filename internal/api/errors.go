package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrSessionExpired marks the authentication-failure subtype of transport
// errors. It is always wrapped in a *TransportError so callers can test for
// it with errors.Is and route it to the process-wide session handler instead
// of a generic error toast.
var ErrSessionExpired = errors.New("session expired")

// RemoteRejection is a request the platform understood and refused
// (success:false). Message is the server's wording, surfaced verbatim; the
// client never reinterprets the reason.
type RemoteRejection struct {
	Message string
}

func (e *RemoteRejection) Error() string {
	return e.Message
}

// TransportError covers network failures and malformed responses. Distinct
// from RemoteRejection: retrying may help here, and the message shown to the
// user is generic rather than server-authored.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("platform %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RespondPlatformError maps the upstream error taxonomy onto HTTP responses.
// Remote rejections carry the server's message verbatim; transport failures
// get a generic retry-suggesting message; an expired session is routed to
// 401 so the frontend drops to the unauthenticated view instead of showing
// a toast.
func RespondPlatformError(c *gin.Context, err error) {
	var rejection *RemoteRejection
	if errors.As(err, &rejection) {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: rejection.Message})
		return
	}

	if errors.Is(err, ErrSessionExpired) {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "session expired"})
		return
	}

	var transport *TransportError
	if errors.As(err, &transport) {
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "platform unavailable, please try again"})
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}
