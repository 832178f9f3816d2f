package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/hoteliq/billing_backend/internal/core/ports/services"
	"github.com/hoteliq/billing_backend/internal/dto"
	"github.com/hoteliq/billing_backend/internal/middleware"
)

// corporateAccountHandler handles HTTP requests related to corporate accounts.
type corporateAccountHandler struct {
	corporateAccountService portssvc.CorporateAccountSvcFacade
	invoiceService          portssvc.InvoiceSvcFacade
}

// registerCorporateAccountRoutes registers routes related to corporate
// accounts, including the account's invoice listing.
func registerCorporateAccountRoutes(rg *gin.RouterGroup, corporateAccountService portssvc.CorporateAccountSvcFacade, invoiceService portssvc.InvoiceSvcFacade) {
	h := &corporateAccountHandler{corporateAccountService: corporateAccountService, invoiceService: invoiceService}

	accounts := rg.Group("/corporate-accounts")
	{
		accounts.POST("", h.createCorporateAccount)
		accounts.GET("/:id", h.getCorporateAccount)
		accounts.GET("", h.listCorporateAccounts)
		accounts.PUT("/:id", h.updateCorporateAccount)
		accounts.GET("/:id/invoices", h.listAccountInvoices)
	}
}

// createCorporateAccount godoc
// @Summary Register a corporate billing account
// @Tags corporate-accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateCorporateAccountRequest true "Account details"
// @Success 201 {object} domain.CorporateAccount
// @Failure 400 {object} map[string]string "Discount rate outside 0-100"
// @Failure 409 {object} map[string]string "Code already exists"
// @Security BearerAuth
// @Router /corporate-accounts [post]
func (h *corporateAccountHandler) createCorporateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCorporateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateCorporateAccount", slog.String("error", err.Error()))
		respondBindError(c, err)
		return
	}

	actorID, ok := requireActor(c, logger)
	if !ok {
		return
	}

	account, err := h.corporateAccountService.CreateCorporateAccount(c.Request.Context(), req, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "create corporate account")
		return
	}

	logger.Info("Corporate account created", slog.String("corporate_account_id", account.CorporateAccountID))
	c.JSON(http.StatusCreated, account)
}

// getCorporateAccount godoc
// @Summary Get a corporate account by ID
// @Tags corporate-accounts
// @Produce  json
// @Param   id path string true "Corporate account ID"
// @Success 200 {object} domain.CorporateAccount
// @Failure 404 {object} map[string]string "Corporate account not found"
// @Security BearerAuth
// @Router /corporate-accounts/{id} [get]
func (h *corporateAccountHandler) getCorporateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	account, err := h.corporateAccountService.GetCorporateAccountByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "retrieve corporate account")
		return
	}
	c.JSON(http.StatusOK, account)
}

// listCorporateAccounts godoc
// @Summary List corporate accounts
// @Tags corporate-accounts
// @Produce  json
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Cursor from a previous page"
// @Success 200 {object} dto.ListCorporateAccountsResponse
// @Security BearerAuth
// @Router /corporate-accounts [get]
func (h *corporateAccountHandler) listCorporateAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	limit, nextToken := parseListQuery(c)

	resp, err := h.corporateAccountService.ListCorporateAccounts(c.Request.Context(), dto.ListCorporateAccountsParams{Limit: limit, NextToken: nextToken})
	if err != nil {
		respondServiceError(c, logger, err, "list corporate accounts")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// updateCorporateAccount godoc
// @Summary Update a corporate account
// @Tags corporate-accounts
// @Accept  json
// @Produce  json
// @Param   id path string true "Corporate account ID"
// @Param   account body dto.UpdateCorporateAccountRequest true "Fields to update"
// @Success 200 {object} domain.CorporateAccount
// @Failure 404 {object} map[string]string "Corporate account not found"
// @Security BearerAuth
// @Router /corporate-accounts/{id} [put]
func (h *corporateAccountHandler) updateCorporateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateCorporateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateCorporateAccount", slog.String("error", err.Error()))
		respondBindError(c, err)
		return
	}

	actorID, ok := requireActor(c, logger)
	if !ok {
		return
	}

	account, err := h.corporateAccountService.UpdateCorporateAccount(c.Request.Context(), c.Param("id"), req, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "update corporate account")
		return
	}

	logger.Info("Corporate account updated", slog.String("corporate_account_id", account.CorporateAccountID))
	c.JSON(http.StatusOK, account)
}

// listAccountInvoices godoc
// @Summary List invoices billed to a corporate account
// @Tags corporate-accounts
// @Produce  json
// @Param   id path string true "Corporate account ID"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Cursor from a previous page"
// @Success 200 {object} dto.ListInvoicesResponse
// @Failure 404 {object} map[string]string "Corporate account not found"
// @Security BearerAuth
// @Router /corporate-accounts/{id}/invoices [get]
func (h *corporateAccountHandler) listAccountInvoices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")
	limit, nextToken := parseListQuery(c)

	resp, err := h.invoiceService.ListInvoicesByCorporateAccount(c.Request.Context(), accountID, limit, nextToken)
	if err != nil {
		respondServiceError(c, logger, err, "list corporate account invoices")
		return
	}
	c.JSON(http.StatusOK, resp)
}
