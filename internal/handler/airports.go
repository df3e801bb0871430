package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/flightscanner/internal/airports"
	"github.com/dharmasatrya/flightscanner/internal/models"
)

type AirportDirectory interface {
	AllAirports(ctx context.Context) ([]models.AirportInfo, error)
	FindByCity(ctx context.Context, city string) ([]models.AirportInfo, error)
	DestinationAirports(ctx context.Context, origin string) ([]models.AirportInfo, error)
}

type AirportHandler struct {
	directory AirportDirectory
}

func NewAirportHandler(d AirportDirectory) *AirportHandler {
	return &AirportHandler{directory: d}
}

func (h *AirportHandler) List(c echo.Context) error {
	all, err := h.directory.AllAirports(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	if len(all) == 0 {
		return writeError(c, fmt.Errorf("no airports could be loaded: %w", airports.ErrNotFound))
	}
	return c.JSON(http.StatusOK, all)
}

func (h *AirportHandler) Destinations(c echo.Context) error {
	code := strings.ToUpper(c.Param("code"))
	if len(code) != 3 {
		return writeError(c, models.ErrInvalidOrigin)
	}

	dests, err := h.directory.DestinationAirports(c.Request().Context(), code)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dests)
}

func (h *AirportHandler) LookupCity(c echo.Context) error {
	matches, err := h.directory.FindByCity(c.Request().Context(), c.Param("city"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, matches)
}
