package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/dharmasatrya/flightscanner/internal/logger"
)

// Register mounts every route on e.
func Register(e *echo.Echo, search *SearchHandler, airportHandler *AirportHandler) {
	e.GET("/", RootHandler)
	e.GET("/health", HealthHandler)

	api := e.Group("/api/v1")
	api.POST("/flights/search", search.Search)
	api.GET("/airports", airportHandler.List)
	api.GET("/airports/iata-lookup/:city", airportHandler.LookupCity)
	api.GET("/airports/:code/destinations", airportHandler.Destinations)
}

// ContextLogger stores a request-scoped logger carrying the request id in the
// request context. It must run after middleware.RequestID.
func ContextLogger(base zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Response().Header().Get(echo.HeaderXRequestID)
			if id == "" {
				id = c.Request().Header.Get(echo.HeaderXRequestID)
			}
			l := base.With().Str(logger.FieldRequestID, id).Logger()
			c.SetRequest(c.Request().WithContext(logger.WithLogger(c.Request().Context(), l)))
			return next(c)
		}
	}
}

func RequestLogger(base zerolog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ev := base.Info()
			if v.Error != nil {
				ev = base.Error().Err(v.Error)
			}
			ev.Str(logger.FieldRequestID, v.RequestID).
				Str(logger.FieldMethod, v.Method).
				Str(logger.FieldPath, v.URI).
				Int(logger.FieldStatus, v.Status).
				Int64(logger.FieldLatency, v.Latency.Milliseconds()).
				Msg("request")
			return nil
		},
	})
}

func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func RootHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"service": "flightscanner",
		"endpoints": []string{
			"GET /health",
			"POST /api/v1/flights/search",
			"GET /api/v1/airports",
			"GET /api/v1/airports/:code/destinations",
			"GET /api/v1/airports/iata-lookup/:city",
		},
	})
}
