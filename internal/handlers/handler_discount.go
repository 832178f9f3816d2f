package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/hoteliq/billing_backend/internal/core/ports/services"
	"github.com/hoteliq/billing_backend/internal/dto"
	"github.com/hoteliq/billing_backend/internal/middleware"
)

// discountHandler handles HTTP requests for discount reference data.
type discountHandler struct {
	discountService portssvc.DiscountSvcFacade
}

// registerDiscountRoutes registers routes related to discounts.
func registerDiscountRoutes(rg *gin.RouterGroup, discountService portssvc.DiscountSvcFacade) {
	h := &discountHandler{discountService: discountService}

	discounts := rg.Group("/discounts")
	{
		discounts.POST("", h.createDiscount)
		discounts.GET("", h.listDiscounts)
	}
}

// createDiscount godoc
// @Summary Register a discount
// @Description Creates a percentage or fixed discount rule, optionally scoped to a corporate account and a validity window
// @Tags discounts
// @Accept  json
// @Produce  json
// @Param   discount body dto.CreateDiscountRequest true "Discount details"
// @Success 201 {object} domain.Discount
// @Failure 400 {object} map[string]string "Value not positive or percentage above 100"
// @Security BearerAuth
// @Router /discounts [post]
func (h *discountHandler) createDiscount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateDiscount", slog.String("error", err.Error()))
		respondBindError(c, err)
		return
	}

	actorID, ok := requireActor(c, logger)
	if !ok {
		return
	}

	discount, err := h.discountService.CreateDiscount(c.Request.Context(), req, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "create discount")
		return
	}

	logger.Info("Discount created", slog.String("discount_id", discount.DiscountID))
	c.JSON(http.StatusCreated, discount)
}

// listDiscounts godoc
// @Summary List discounts
// @Tags discounts
// @Produce  json
// @Param   activeOnly query bool false "Only return active discounts"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Cursor from a previous page"
// @Success 200 {object} dto.ListDiscountsResponse
// @Security BearerAuth
// @Router /discounts [get]
func (h *discountHandler) listDiscounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	limit, nextToken := parseListQuery(c)

	params := dto.ListDiscountsParams{
		ActiveOnly: c.Query("activeOnly") == "true",
		Limit:      limit,
		NextToken:  nextToken,
	}

	resp, err := h.discountService.ListDiscounts(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, logger, err, "list discounts")
		return
	}
	c.JSON(http.StatusOK, resp)
}
