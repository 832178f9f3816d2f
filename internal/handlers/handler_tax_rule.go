package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/hoteliq/billing_backend/internal/core/ports/services"
	"github.com/hoteliq/billing_backend/internal/dto"
	"github.com/hoteliq/billing_backend/internal/middleware"
)

// taxRuleHandler handles HTTP requests for tax rule reference data.
type taxRuleHandler struct {
	taxRuleService portssvc.TaxRuleSvcFacade
}

// registerTaxRuleRoutes registers routes related to tax rules.
func registerTaxRuleRoutes(rg *gin.RouterGroup, taxRuleService portssvc.TaxRuleSvcFacade) {
	h := &taxRuleHandler{taxRuleService: taxRuleService}

	taxRules := rg.Group("/tax-rules")
	{
		taxRules.POST("", h.createTaxRule)
		taxRules.GET("/:id", h.getTaxRule)
		taxRules.GET("", h.listTaxRules)
		taxRules.PUT("/:id", h.updateTaxRule)
	}
}

// createTaxRule godoc
// @Summary Register a tax rule
// @Tags tax-rules
// @Accept  json
// @Produce  json
// @Param   taxRule body dto.CreateTaxRuleRequest true "Tax rule details"
// @Success 201 {object} domain.TaxRule
// @Failure 400 {object} map[string]string "Rate outside 0-100"
// @Security BearerAuth
// @Router /tax-rules [post]
func (h *taxRuleHandler) createTaxRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateTaxRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTaxRule", slog.String("error", err.Error()))
		respondBindError(c, err)
		return
	}

	actorID, ok := requireActor(c, logger)
	if !ok {
		return
	}

	rule, err := h.taxRuleService.CreateTaxRule(c.Request.Context(), req, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "create tax rule")
		return
	}

	logger.Info("Tax rule created", slog.String("tax_rule_id", rule.TaxRuleID))
	c.JSON(http.StatusCreated, rule)
}

// getTaxRule godoc
// @Summary Get a tax rule by ID
// @Tags tax-rules
// @Produce  json
// @Param   id path string true "Tax rule ID"
// @Success 200 {object} domain.TaxRule
// @Failure 404 {object} map[string]string "Tax rule not found"
// @Security BearerAuth
// @Router /tax-rules/{id} [get]
func (h *taxRuleHandler) getTaxRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	rule, err := h.taxRuleService.GetTaxRuleByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "retrieve tax rule")
		return
	}
	c.JSON(http.StatusOK, rule)
}

// listTaxRules godoc
// @Summary List tax rules
// @Tags tax-rules
// @Produce  json
// @Param   activeOnly query bool false "Only return active rules"
// @Success 200 {array} domain.TaxRule
// @Security BearerAuth
// @Router /tax-rules [get]
func (h *taxRuleHandler) listTaxRules(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	rules, err := h.taxRuleService.ListTaxRules(c.Request.Context(), c.Query("activeOnly") == "true")
	if err != nil {
		respondServiceError(c, logger, err, "list tax rules")
		return
	}
	c.JSON(http.StatusOK, rules)
}

// updateTaxRule godoc
// @Summary Update a tax rule
// @Description Changes affect future folio postings only; issued invoice lines keep their snapshotted tax
// @Tags tax-rules
// @Accept  json
// @Produce  json
// @Param   id path string true "Tax rule ID"
// @Param   taxRule body dto.UpdateTaxRuleRequest true "Fields to update"
// @Success 200 {object} domain.TaxRule
// @Failure 404 {object} map[string]string "Tax rule not found"
// @Security BearerAuth
// @Router /tax-rules/{id} [put]
func (h *taxRuleHandler) updateTaxRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateTaxRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateTaxRule", slog.String("error", err.Error()))
		respondBindError(c, err)
		return
	}

	actorID, ok := requireActor(c, logger)
	if !ok {
		return
	}

	rule, err := h.taxRuleService.UpdateTaxRule(c.Request.Context(), c.Param("id"), req, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "update tax rule")
		return
	}

	logger.Info("Tax rule updated", slog.String("tax_rule_id", rule.TaxRuleID))
	c.JSON(http.StatusOK, rule)
}
