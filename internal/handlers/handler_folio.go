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

// folioHandler handles HTTP requests related to folios and their charges.
type folioHandler struct {
	folioService portssvc.FolioSvcFacade
}

// registerFolioRoutes registers routes related to folios.
func registerFolioRoutes(rg *gin.RouterGroup, folioService portssvc.FolioSvcFacade) {
	h := &folioHandler{folioService: folioService}

	folios := rg.Group("/folios")
	{
		folios.POST("", h.createFolio)
		folios.GET("/:id", h.getFolio)
		folios.GET("", h.listFolios)
		folios.PATCH("/:id/status", h.updateFolioStatus)
		folios.POST("/:id/items", h.addItem)
		folios.PUT("/:id/items/:itemID", h.updateItem)
		folios.POST("/:id/discounts", h.attachDiscount)
	}
}

// createFolio godoc
// @Summary Open a folio
// @Description Opens a running bill for a reservation or a walk-in guest
// @Tags folios
// @Accept  json
// @Produce  json
// @Param   folio body dto.CreateFolioRequest true "Folio details"
// @Success 201 {object} dto.FolioResponse
// @Failure 400 {object} map[string]string "Walk-in folio missing guest name"
// @Failure 404 {object} map[string]string "Reservation not found"
// @Security BearerAuth
// @Router /folios [post]
func (h *folioHandler) createFolio(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateFolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateFolio", slog.String("error", err.Error()))
		respondBindError(c, err)
		return
	}

	actorID, ok := requireActor(c, logger)
	if !ok {
		return
	}

	folio, err := h.folioService.CreateFolio(c.Request.Context(), req, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "create folio")
		return
	}

	logger.Info("Folio created successfully", slog.String("folio_id", folio.FolioID), slog.String("folio_number", folio.FolioNumber))
	c.JSON(http.StatusCreated, dto.ToFolioResponse(*folio))
}

// getFolio godoc
// @Summary Get a folio by ID
// @Description Returns the folio with its items, attached discounts and live totals
// @Tags folios
// @Produce  json
// @Param   id path string true "Folio ID"
// @Success 200 {object} dto.FolioResponse
// @Failure 404 {object} map[string]string "Folio not found"
// @Security BearerAuth
// @Router /folios/{id} [get]
func (h *folioHandler) getFolio(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	folioID := c.Param("id")

	folio, err := h.folioService.GetFolioByID(c.Request.Context(), folioID)
	if err != nil {
		respondServiceError(c, logger, err, "retrieve folio")
		return
	}
	c.JSON(http.StatusOK, dto.ToFolioResponse(*folio))
}

// listFolios godoc
// @Summary List folios
// @Tags folios
// @Produce  json
// @Param   status query string false "Filter by status" Enums(open, closed, settled)
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Cursor from a previous page"
// @Success 200 {object} dto.ListFoliosResponse
// @Security BearerAuth
// @Router /folios [get]
func (h *folioHandler) listFolios(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	limit, nextToken := parseListQuery(c)

	params := dto.ListFoliosParams{Limit: limit, NextToken: nextToken}
	if raw := c.Query("status"); raw != "" {
		status := domain.FolioStatus(raw)
		params.Status = &status
	}

	resp, err := h.folioService.ListFolios(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, logger, err, "list folios")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// updateFolioStatus godoc
// @Summary Move a folio between open, closed and settled
// @Description Transitions: open to closed, closed to open or settled
// @Tags folios
// @Accept  json
// @Produce  json
// @Param   id path string true "Folio ID"
// @Param   status body dto.UpdateFolioStatusRequest true "Target status"
// @Success 200 {object} dto.FolioResponse
// @Failure 404 {object} map[string]string "Folio not found"
// @Failure 409 {object} map[string]string "Transition not allowed"
// @Security BearerAuth
// @Router /folios/{id}/status [patch]
func (h *folioHandler) updateFolioStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	folioID := c.Param("id")

	var req dto.UpdateFolioStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateFolioStatus", slog.String("error", err.Error()))
		respondBindError(c, err)
		return
	}

	actorID, ok := requireActor(c, logger)
	if !ok {
		return
	}

	folio, err := h.folioService.UpdateFolioStatus(c.Request.Context(), folioID, req.Status, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "update folio status")
		return
	}

	logger.Info("Folio status updated", slog.String("folio_id", folioID), slog.String("status", string(req.Status)))
	c.JSON(http.StatusOK, dto.ToFolioResponse(*folio))
}

// addItem godoc
// @Summary Post a charge to a folio
// @Description Adds a room, service or adjustment line to an open folio
// @Tags folios
// @Accept  json
// @Produce  json
// @Param   id path string true "Folio ID"
// @Param   item body dto.AddFolioItemRequest true "Charge details"
// @Success 201 {object} dto.FolioItemResponse
// @Failure 400 {object} map[string]string "Invalid quantity, price or tax rule"
// @Failure 404 {object} map[string]string "Folio not found"
// @Failure 409 {object} map[string]string "Folio is not open"
// @Security BearerAuth
// @Router /folios/{id}/items [post]
func (h *folioHandler) addItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	folioID := c.Param("id")

	var req dto.AddFolioItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddFolioItem", slog.String("error", err.Error()))
		respondBindError(c, err)
		return
	}

	actorID, ok := requireActor(c, logger)
	if !ok {
		return
	}

	item, err := h.folioService.AddItem(c.Request.Context(), folioID, req, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "post folio item")
		return
	}

	logger.Info("Folio item posted", slog.String("folio_id", folioID), slog.String("folio_item_id", item.FolioItemID))
	c.JSON(http.StatusCreated, dto.ToFolioItemResponse(*item))
}

// updateItem godoc
// @Summary Rewrite a posted charge
// @Description Updates a folio item while the folio is still open
// @Tags folios
// @Accept  json
// @Produce  json
// @Param   id path string true "Folio ID"
// @Param   itemID path string true "Folio item ID"
// @Param   item body dto.UpdateFolioItemRequest true "Fields to update"
// @Success 200 {object} dto.FolioItemResponse
// @Failure 404 {object} map[string]string "Folio or item not found"
// @Failure 409 {object} map[string]string "Folio is not open"
// @Security BearerAuth
// @Router /folios/{id}/items/{itemID} [put]
func (h *folioHandler) updateItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	folioID := c.Param("id")
	itemID := c.Param("itemID")

	var req dto.UpdateFolioItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateFolioItem", slog.String("error", err.Error()))
		respondBindError(c, err)
		return
	}

	actorID, ok := requireActor(c, logger)
	if !ok {
		return
	}

	item, err := h.folioService.UpdateItem(c.Request.Context(), folioID, itemID, req, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "update folio item")
		return
	}

	logger.Info("Folio item updated", slog.String("folio_id", folioID), slog.String("folio_item_id", itemID))
	c.JSON(http.StatusOK, dto.ToFolioItemResponse(*item))
}

// attachDiscount godoc
// @Summary Attach a discount to a folio
// @Description Links an applicable discount, freezing its current value
// @Tags folios
// @Accept  json
// @Produce  json
// @Param   id path string true "Folio ID"
// @Param   discount body dto.AttachFolioDiscountRequest true "Discount to attach"
// @Success 201 {object} domain.FolioDiscount
// @Failure 400 {object} map[string]string "Discount not applicable"
// @Failure 404 {object} map[string]string "Folio or discount not found"
// @Failure 409 {object} map[string]string "Discount already attached"
// @Security BearerAuth
// @Router /folios/{id}/discounts [post]
func (h *folioHandler) attachDiscount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	folioID := c.Param("id")

	var req dto.AttachFolioDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AttachFolioDiscount", slog.String("error", err.Error()))
		respondBindError(c, err)
		return
	}

	actorID, ok := requireActor(c, logger)
	if !ok {
		return
	}

	link, err := h.folioService.AttachDiscount(c.Request.Context(), folioID, req, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "attach discount")
		return
	}

	logger.Info("Discount attached to folio", slog.String("folio_id", folioID), slog.String("discount_id", req.DiscountID))
	c.JSON(http.StatusCreated, link)
}
