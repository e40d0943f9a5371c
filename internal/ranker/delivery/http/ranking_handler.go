package http

import (
	"net/http"
	"strconv"

	"golang-stock-ranker/internal/ranker/dto"
	"golang-stock-ranker/internal/ranker/service"
	"golang-stock-ranker/pkg/logger"

	"github.com/labstack/echo/v4"
)

// RankingHandler handles HTTP requests for ranking runs.
type RankingHandler struct {
	rankerService service.RankerService
	logger        *logger.Logger
}

// NewRankingHandler creates a new RankingHandler.
func NewRankingHandler(rankerService service.RankerService, logger *logger.Logger) *RankingHandler {
	return &RankingHandler{rankerService: rankerService, logger: logger}
}

// RegisterRoutes registers the ranking routes to the Echo group.
func (h *RankingHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetLatestRanking)
	g.POST("/run", h.RunRanking)
}

// GetLatestRanking returns the cached ranked table, computing a fresh one
// with the configured defaults on a cache miss.
func (h *RankingHandler) GetLatestRanking(c echo.Context) error {
	snapshot, err := h.rankerService.LatestSnapshot(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to load latest ranking snapshot", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
	}
	return c.JSONBlob(http.StatusOK, snapshot)
}

// RunRanking executes an ad-hoc ranking run with the weights, universe and
// top_k from the request body.
func (h *RankingHandler) RunRanking(c echo.Context) error {
	var req dto.RankRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}

	table, err := h.rankerService.Rank(c.Request().Context(), &req)
	if err != nil {
		h.logger.Error("Ranking run failed", logger.ErrorField(err))
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	}

	if req.TopK > 0 {
		table.Rows = table.TopK(req.TopK)
	}
	return c.JSON(http.StatusOK, table)
}

// parseIDParam parses the :id path parameter shared by the profile routes.
func parseIDParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
