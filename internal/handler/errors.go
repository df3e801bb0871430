package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/flightscanner/internal/airports"
	"github.com/dharmasatrya/flightscanner/internal/logger"
	"github.com/dharmasatrya/flightscanner/internal/models"
	"github.com/dharmasatrya/flightscanner/internal/providers"
)

func errorKind(err error) string {
	var ve models.ValidationError
	switch {
	case errors.As(err, &ve):
		return "validation_error"
	case errors.Is(err, airports.ErrNotFound):
		return "not_found"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, airports.ErrUnavailable), errors.Is(err, providers.ErrUpstreamUnavailable):
		return "upstream_unavailable"
	default:
		return "internal_error"
	}
}

func httpStatus(kind string) int {
	switch kind {
	case "validation_error", "invalid_request":
		return http.StatusBadRequest
	case "not_found":
		return http.StatusNotFound
	case "timeout":
		return http.StatusGatewayTimeout
	case "upstream_unavailable":
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c echo.Context, err error) error {
	kind := errorKind(err)
	code := httpStatus(kind)
	if code >= http.StatusInternalServerError {
		l := logger.Ctx(c.Request().Context())
		l.Error().Err(err).Str("kind", kind).Msg("request failed")
	}
	return c.JSON(code, models.ErrorResponse{
		Error:   kind,
		Message: err.Error(),
		Code:    code,
	})
}
