package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/flightscanner/internal/logger"
	"github.com/dharmasatrya/flightscanner/internal/models"
)

type Searcher interface {
	Search(ctx context.Context, req models.SearchRequest) models.SearchResponse
	RequestDefaults() models.RequestDefaults
}

type SearchHandler struct {
	searcher Searcher
}

func NewSearchHandler(s Searcher) *SearchHandler {
	return &SearchHandler{searcher: s}
}

// Search validates the request up front; everything after that is answered
// with 200 and a response whose error field describes any degradation.
func (h *SearchHandler) Search(c echo.Context) error {
	var req models.SearchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Failed to parse request body: " + err.Error(),
			Code:    http.StatusBadRequest,
		})
	}

	if err := req.Normalize(h.searcher.RequestDefaults()); err != nil {
		return writeError(c, err)
	}

	resp := h.searcher.Search(c.Request().Context(), req)
	if resp.Error != "" {
		l := logger.Ctx(c.Request().Context())
		l.Warn().Str(logger.FieldSearchID, resp.Metadata.SearchID).
			Str("error", resp.Error).Msg("search degraded")
	}
	return c.JSON(http.StatusOK, resp)
}
