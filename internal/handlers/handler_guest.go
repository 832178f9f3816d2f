package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/hoteliq/billing_backend/internal/core/ports/services"
	"github.com/hoteliq/billing_backend/internal/dto"
	"github.com/hoteliq/billing_backend/internal/middleware"
)

// guestHandler handles HTTP requests related to guests.
type guestHandler struct {
	guestService portssvc.GuestSvcFacade
}

// registerGuestRoutes registers routes related to guests.
func registerGuestRoutes(rg *gin.RouterGroup, guestService portssvc.GuestSvcFacade) {
	h := &guestHandler{guestService: guestService}

	guests := rg.Group("/guests")
	{
		guests.POST("", h.createGuest)
		guests.GET("/:id", h.getGuest)
		guests.GET("", h.listGuests)
		guests.PUT("/:id", h.updateGuest)
		guests.DELETE("/:id", h.deleteGuest)
	}
}

// createGuest godoc
// @Summary Register a new guest
// @Description Creates a guest profile used for reservations and folios
// @Tags guests
// @Accept  json
// @Produce  json
// @Param   guest body dto.CreateGuestRequest true "Guest details"
// @Success 201 {object} domain.Guest
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create guest"
// @Security BearerAuth
// @Router /guests [post]
func (h *guestHandler) createGuest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateGuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateGuest", slog.String("error", err.Error()))
		respondBindError(c, err)
		return
	}

	actorID, ok := requireActor(c, logger)
	if !ok {
		return
	}

	guest, err := h.guestService.CreateGuest(c.Request.Context(), req, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "create guest")
		return
	}

	logger.Info("Guest created successfully", slog.String("guest_id", guest.GuestID))
	c.JSON(http.StatusCreated, guest)
}

// getGuest godoc
// @Summary Get a guest by ID
// @Tags guests
// @Produce  json
// @Param   id path string true "Guest ID"
// @Success 200 {object} domain.Guest
// @Failure 404 {object} map[string]string "Guest not found"
// @Security BearerAuth
// @Router /guests/{id} [get]
func (h *guestHandler) getGuest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	guestID := c.Param("id")

	guest, err := h.guestService.GetGuestByID(c.Request.Context(), guestID)
	if err != nil {
		respondServiceError(c, logger, err, "retrieve guest")
		return
	}
	c.JSON(http.StatusOK, guest)
}

// listGuests godoc
// @Summary List guests
// @Tags guests
// @Produce  json
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Cursor from a previous page"
// @Success 200 {object} dto.ListGuestsResponse
// @Security BearerAuth
// @Router /guests [get]
func (h *guestHandler) listGuests(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	limit, nextToken := parseListQuery(c)

	resp, err := h.guestService.ListGuests(c.Request.Context(), dto.ListGuestsParams{Limit: limit, NextToken: nextToken})
	if err != nil {
		respondServiceError(c, logger, err, "list guests")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// updateGuest godoc
// @Summary Update a guest
// @Description Updates guest profile fields; omitted fields are left unchanged
// @Tags guests
// @Accept  json
// @Produce  json
// @Param   id path string true "Guest ID"
// @Param   guest body dto.UpdateGuestRequest true "Fields to update"
// @Success 200 {object} domain.Guest
// @Failure 404 {object} map[string]string "Guest not found"
// @Security BearerAuth
// @Router /guests/{id} [put]
func (h *guestHandler) updateGuest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	guestID := c.Param("id")

	var req dto.UpdateGuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateGuest", slog.String("error", err.Error()))
		respondBindError(c, err)
		return
	}

	actorID, ok := requireActor(c, logger)
	if !ok {
		return
	}

	guest, err := h.guestService.UpdateGuest(c.Request.Context(), guestID, req, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "update guest")
		return
	}

	logger.Info("Guest updated successfully", slog.String("guest_id", guestID))
	c.JSON(http.StatusOK, guest)
}

// deleteGuest godoc
// @Summary Delete a guest
// @Tags guests
// @Produce  json
// @Param   id path string true "Guest ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Guest not found"
// @Security BearerAuth
// @Router /guests/{id} [delete]
func (h *guestHandler) deleteGuest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	guestID := c.Param("id")

	if _, ok := requireActor(c, logger); !ok {
		return
	}

	if err := h.guestService.DeleteGuest(c.Request.Context(), guestID); err != nil {
		respondServiceError(c, logger, err, "delete guest")
		return
	}

	logger.Info("Guest deleted successfully", slog.String("guest_id", guestID))
	c.Status(http.StatusNoContent)
}
