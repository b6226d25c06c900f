package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"property-service/internal/service"
	"property-service/pkg/media"

	"github.com/labstack/echo/v4"
)

// mapHTTPStatus converts domain errors to HTTP status codes
func mapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrPropertyNotFound), errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidRange), errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, media.ErrInvalidPayload):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUpload):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the {"message": ...} error body
func respondError(c echo.Context, err error) error {
	return c.JSON(mapHTTPStatus(err), echo.Map{"message": err.Error()})
}

// parseID reads the :id path parameter
func parseID(c echo.Context) (uint, error) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: invalid id %q", service.ErrInvalidInput, raw)
	}
	return uint(id), nil
}
