package http

import (
	"net/http"

	"golang-stock-ranker/internal/ranker/dto"
	"golang-stock-ranker/internal/ranker/service"
	"golang-stock-ranker/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ProfileHandler handles HTTP requests for ranking profiles.
type ProfileHandler struct {
	profileService service.ProfileService
	logger         *logger.Logger
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService service.ProfileService, logger *logger.Logger) *ProfileHandler {
	return &ProfileHandler{profileService: profileService, logger: logger}
}

// RegisterRoutes registers the profile routes to the Echo group.
func (h *ProfileHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.CreateProfile)
	g.GET("", h.GetAllProfiles)
	g.GET("/:id", h.GetProfileByID)
	g.PUT("/:id", h.UpdateProfile)
	g.DELETE("/:id", h.DeleteProfile)
}

// CreateProfile stores a new named weight profile.
func (h *ProfileHandler) CreateProfile(c echo.Context) error {
	var req dto.CreateRankingProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}

	profile, err := h.profileService.Create(c.Request().Context(), &req)
	if err != nil {
		h.logger.Error("Failed to create profile", logger.ErrorField(err))
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusCreated, profile)
}

// GetProfileByID returns a single profile.
func (h *ProfileHandler) GetProfileByID(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid profile ID"})
	}

	profile, err := h.profileService.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, profile)
}

// GetAllProfiles lists every stored profile.
func (h *ProfileHandler) GetAllProfiles(c echo.Context) error {
	profiles, err := h.profileService.GetAll(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to list profiles", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, profiles)
}

// UpdateProfile replaces an existing profile's name, weights and top_k.
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid profile ID"})
	}

	var req dto.CreateRankingProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}

	profile, err := h.profileService.Update(c.Request().Context(), id, &req)
	if err != nil {
		h.logger.Error("Failed to update profile", logger.ErrorField(err))
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, profile)
}

// DeleteProfile removes a profile.
func (h *ProfileHandler) DeleteProfile(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid profile ID"})
	}

	if err := h.profileService.Delete(c.Request().Context(), id); err != nil {
		h.logger.Error("Failed to delete profile", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}
