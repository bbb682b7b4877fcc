package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/AssetAkire/Capstone-FacilityFix/internal/core/domain"
)

// errorBody is the structured error every operation returns: a stable kind
// clients can branch on, a message, and optional collaborator detail.
type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps gateway error kinds to their HTTP status codes.
//   - Logs internal errors with their collaborator detail without leaking a
//     raw stack trace to the client.
//   - Renders a consistent JSON envelope: {"error": {kind, message, details}}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: body})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorBody) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		kind := domain.KindInvalidArgument
		switch he.Code {
		case http.StatusUnauthorized:
			kind = domain.KindUnauthenticated
		case http.StatusForbidden:
			kind = domain.KindPermissionDenied
		case http.StatusNotFound:
			kind = domain.KindNotFound
		case http.StatusInternalServerError:
			kind = domain.KindInternal
		}
		return he.Code, errorBody{Kind: string(kind), Message: fmt.Sprintf("%v", he.Message)}
	}

	var ge *domain.Error
	if errors.As(err, &ge) {
		code := statusForKind(ge.Kind)
		if ge.Kind == domain.KindInternal {
			log.Error().
				Str("details", ge.Details).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Msg(ge.Message)
		}
		return code, errorBody{Kind: string(ge.Kind), Message: ge.Message, Details: ge.Details}
	}

	// Unexpected error: log the real cause, return a generic envelope.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorBody{
		Kind:    string(domain.KindInternal),
		Message: "internal server error",
	}
}

func statusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindUnauthenticated:
		return http.StatusUnauthorized
	case domain.KindInvalidArgument:
		return http.StatusBadRequest
	case domain.KindPermissionDenied:
		return http.StatusForbidden
	case domain.KindAlreadyExists:
		return http.StatusConflict
	case domain.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
