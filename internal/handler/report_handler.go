package handler

import (
	"net/http"
	"time"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	staff := middleware.RequireRole(model.RoleAdmin, model.RoleStaff)
	reports := router.Group("/api/reports")
	{
		reports.GET("/budget-vs-actual", staff, h.BudgetVsActual)
		reports.GET("/aging", staff, h.Aging)
	}
}

// BudgetVsActual compares budgets with booked spend per cost center
// @Summary      Budget vs actual report
// @Description  Compares each cost center's effective budget in the period against vendor bill spend booked on its lines
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        start_date  query     string  true   "Period start (YYYY-MM-DD)"
// @Param        end_date    query     string  true   "Period end (YYYY-MM-DD)"
// @Success      200         {object}  response.Response{data=[]service.BudgetActualRow}
// @Failure      400         {object}  response.Response
// @Router       /api/reports/budget-vs-actual [get]
func (h *ReportHandler) BudgetVsActual(c *gin.Context) {
	startDate := c.Query("start_date")
	endDate := c.Query("end_date")

	// Default to the current month
	now := time.Now()
	if startDate == "" {
		startDate = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Format("2006-01-02")
	}
	if endDate == "" {
		endDate = now.Format("2006-01-02")
	}

	rows, err := h.reportService.BudgetVsActual(c.Request.Context(), service.BudgetActualFilter{
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, rows))
}

// Aging returns the outstanding balance bucketed by days overdue
// @Summary      Aging report
// @Description  Buckets open vendor bill or invoice balances by days past due (CURRENT, 1-30, 31-60, 61-90, 90+)
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        type  query     string  false  "Document type (VENDOR_BILL or INVOICE, default INVOICE)"
// @Success      200   {object}  response.Response{data=[]repository.AgingBucket}
// @Failure      400   {object}  response.Response
// @Router       /api/reports/aging [get]
func (h *ReportHandler) Aging(c *gin.Context) {
	docType := c.DefaultQuery("type", model.DocTypeInvoice)

	buckets, err := h.reportService.Aging(c.Request.Context(), docType)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, buckets))
}
