package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/hoteliq/billing_backend/internal/core/ports/services"
	"github.com/hoteliq/billing_backend/internal/middleware"
)

// reportingHandler handles HTTP requests for billing reports.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

// registerReportingRoutes registers the read-only report routes.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := &reportingHandler{reportingService: reportingService}

	reports := rg.Group("/reports")
	{
		reports.GET("/daily", h.getDailyReport)
		reports.GET("/tax-summary", h.getTaxSummary)
		reports.GET("/outstanding", h.listOutstandingInvoices)
	}
}

// getDailyReport godoc
// @Summary Daily revenue report
// @Description Aggregates invoices issued and payments posted on a single date
// @Tags reports
// @Produce  json
// @Param   date query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} domain.DailyReport
// @Failure 400 {object} map[string]string "Invalid date"
// @Security BearerAuth
// @Router /reports/daily [get]
func (h *reportingHandler) getDailyReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	day := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
			return
		}
		day = parsed
	}

	report, err := h.reportingService.GetDailyReport(c.Request.Context(), day)
	if err != nil {
		respondServiceError(c, logger, err, "build daily report")
		return
	}
	c.JSON(http.StatusOK, report)
}

// getTaxSummary godoc
// @Summary Tax summary report
// @Description Groups invoiced amounts by tax rule over a date range
// @Tags reports
// @Produce  json
// @Param   from query string true "Range start (YYYY-MM-DD)"
// @Param   to query string true "Range end (YYYY-MM-DD)"
// @Success 200 {array} domain.TaxSummaryRow
// @Failure 400 {object} map[string]string "Invalid or reversed range"
// @Security BearerAuth
// @Router /reports/tax-summary [get]
func (h *reportingHandler) getTaxSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from date, expected YYYY-MM-DD"})
		return
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to date, expected YYYY-MM-DD"})
		return
	}
	// Make the range inclusive of the last day.
	to = to.Add(24*time.Hour - time.Nanosecond)

	summary, err := h.reportingService.GetTaxSummary(c.Request.Context(), from, to)
	if err != nil {
		respondServiceError(c, logger, err, "build tax summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// listOutstandingInvoices godoc
// @Summary Outstanding invoices report
// @Description Lists non-void invoices whose posted payments have not cleared the total
// @Tags reports
// @Produce  json
// @Success 200 {array} domain.OutstandingInvoice
// @Security BearerAuth
// @Router /reports/outstanding [get]
func (h *reportingHandler) listOutstandingInvoices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	outstanding, err := h.reportingService.ListOutstandingInvoices(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err, "list outstanding invoices")
		return
	}
	c.JSON(http.StatusOK, outstanding)
}
