package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hoteliq/billing_backend/internal/core/domain"
	portssvc "github.com/hoteliq/billing_backend/internal/core/ports/services"
	"github.com/hoteliq/billing_backend/internal/dto"
	"github.com/hoteliq/billing_backend/internal/middleware"
)

// reservationHandler handles HTTP requests related to reservations.
type reservationHandler struct {
	reservationService portssvc.ReservationSvcFacade
}

// registerReservationRoutes registers routes related to reservations.
func registerReservationRoutes(rg *gin.RouterGroup, reservationService portssvc.ReservationSvcFacade) {
	h := &reservationHandler{reservationService: reservationService}

	reservations := rg.Group("/reservations")
	{
		reservations.POST("", h.createReservation)
		reservations.GET("/:id", h.getReservation)
		reservations.GET("", h.listReservations)
		reservations.PUT("/:id", h.updateReservation)
		reservations.PATCH("/:id/status", h.updateReservationStatus)
	}
}

// createReservation godoc
// @Summary Book a reservation
// @Description Books a stay for an existing guest
// @Tags reservations
// @Accept  json
// @Produce  json
// @Param   reservation body dto.CreateReservationRequest true "Reservation details"
// @Success 201 {object} domain.Reservation
// @Failure 400 {object} map[string]string "Invalid input or check-out before check-in"
// @Failure 404 {object} map[string]string "Guest not found"
// @Failure 409 {object} map[string]string "Reservation number already exists"
// @Security BearerAuth
// @Router /reservations [post]
func (h *reservationHandler) createReservation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateReservation", slog.String("error", err.Error()))
		respondBindError(c, err)
		return
	}

	actorID, ok := requireActor(c, logger)
	if !ok {
		return
	}

	reservation, err := h.reservationService.CreateReservation(c.Request.Context(), req, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "create reservation")
		return
	}

	logger.Info("Reservation created successfully", slog.String("reservation_id", reservation.ReservationID))
	c.JSON(http.StatusCreated, reservation)
}

// getReservation godoc
// @Summary Get a reservation by ID
// @Tags reservations
// @Produce  json
// @Param   id path string true "Reservation ID"
// @Success 200 {object} domain.Reservation
// @Failure 404 {object} map[string]string "Reservation not found"
// @Security BearerAuth
// @Router /reservations/{id} [get]
func (h *reservationHandler) getReservation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reservationID := c.Param("id")

	reservation, err := h.reservationService.GetReservationByID(c.Request.Context(), reservationID)
	if err != nil {
		respondServiceError(c, logger, err, "retrieve reservation")
		return
	}
	c.JSON(http.StatusOK, reservation)
}

// listReservations godoc
// @Summary List reservations
// @Tags reservations
// @Produce  json
// @Param   status query string false "Filter by status" Enums(booked, checked_in, checked_out, cancelled)
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Cursor from a previous page"
// @Success 200 {object} dto.ListReservationsResponse
// @Security BearerAuth
// @Router /reservations [get]
func (h *reservationHandler) listReservations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	limit, nextToken := parseListQuery(c)

	params := dto.ListReservationsParams{Limit: limit, NextToken: nextToken}
	if raw := c.Query("status"); raw != "" {
		status := domain.ReservationStatus(raw)
		params.Status = &status
	}

	resp, err := h.reservationService.ListReservations(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, logger, err, "list reservations")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// updateReservation godoc
// @Summary Update a reservation
// @Description Updates stay details; terminal reservations cannot be changed
// @Tags reservations
// @Accept  json
// @Produce  json
// @Param   id path string true "Reservation ID"
// @Param   reservation body dto.UpdateReservationRequest true "Fields to update"
// @Success 200 {object} domain.Reservation
// @Failure 404 {object} map[string]string "Reservation not found"
// @Failure 409 {object} map[string]string "Reservation is in a terminal state"
// @Security BearerAuth
// @Router /reservations/{id} [put]
func (h *reservationHandler) updateReservation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reservationID := c.Param("id")

	var req dto.UpdateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateReservation", slog.String("error", err.Error()))
		respondBindError(c, err)
		return
	}

	actorID, ok := requireActor(c, logger)
	if !ok {
		return
	}

	reservation, err := h.reservationService.UpdateReservation(c.Request.Context(), reservationID, req, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "update reservation")
		return
	}

	logger.Info("Reservation updated successfully", slog.String("reservation_id", reservationID))
	c.JSON(http.StatusOK, reservation)
}

// updateReservationStatus godoc
// @Summary Move a reservation through its lifecycle
// @Description Transitions: booked to checked_in or cancelled, checked_in to checked_out
// @Tags reservations
// @Accept  json
// @Produce  json
// @Param   id path string true "Reservation ID"
// @Param   status body dto.UpdateReservationStatusRequest true "Target status"
// @Success 200 {object} domain.Reservation
// @Failure 404 {object} map[string]string "Reservation not found"
// @Failure 409 {object} map[string]string "Transition not allowed"
// @Security BearerAuth
// @Router /reservations/{id}/status [patch]
func (h *reservationHandler) updateReservationStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reservationID := c.Param("id")

	var req dto.UpdateReservationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateReservationStatus", slog.String("error", err.Error()))
		respondBindError(c, err)
		return
	}

	actorID, ok := requireActor(c, logger)
	if !ok {
		return
	}

	reservation, err := h.reservationService.UpdateReservationStatus(c.Request.Context(), reservationID, req.Status, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "update reservation status")
		return
	}

	logger.Info("Reservation status updated", slog.String("reservation_id", reservationID), slog.String("status", string(req.Status)))
	c.JSON(http.StatusOK, reservation)
}
