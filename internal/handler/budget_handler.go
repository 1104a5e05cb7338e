package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type BudgetHandler struct {
	budgetService service.BudgetService
}

func NewBudgetHandler(budgetService service.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

func (h *BudgetHandler) RegisterRoutes(router *gin.RouterGroup) {
	staff := middleware.RequireRole(model.RoleAdmin, model.RoleStaff)
	admin := middleware.RequireRole(model.RoleAdmin)

	budgets := router.Group("/api/budgets")
	{
		budgets.POST("", admin, h.CreateBudget)
		budgets.GET("", staff, h.ListBudgets)
		budgets.GET("/:id", staff, h.GetBudget)
		budgets.PUT("/:id/revise", admin, h.ReviseBudget)
		budgets.DELETE("/:id", admin, h.DeleteBudget)
	}
}

// CreateBudget creates a budget for a cost center and period
// @Summary      Create budget
// @Tags         budgets
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateBudgetRequest  true  "Create Budget Payload"
// @Success      201      {object}  response.Response{data=service.BudgetResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/budgets [post]
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	var req service.CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	budget, err := h.budgetService.CreateBudget(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, budget))
}

// ListBudgets returns a paginated list of budgets
// @Summary      List budgets
// @Tags         budgets
// @Security     BearerAuth
// @Produce      json
// @Param        cost_center_id  query     string  false  "Filter by cost center"
// @Param        page            query     int     false  "Page number (default 1)"
// @Param        limit           query     int     false  "Number of items per page (default 20)"
// @Success      200             {object}  response.Response{data=object}
// @Failure      500             {object}  response.Response
// @Router       /api/budgets [get]
func (h *BudgetHandler) ListBudgets(c *gin.Context) {
	params := pagination.Parse(c)

	budgets, total, err := h.budgetService.ListBudgets(c.Request.Context(), c.Query("cost_center_id"), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"budgets": budgets,
		"total":   total,
		"page":    params.Page,
		"limit":   params.Limit,
	}))
}

// GetBudget returns one budget with its revision history
// @Summary      Get budget
// @Tags         budgets
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Budget ID"
// @Success      200  {object}  response.Response{data=service.BudgetResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/budgets/{id} [get]
func (h *BudgetHandler) GetBudget(c *gin.Context) {
	budget, err := h.budgetService.GetBudget(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, budget))
}

// ReviseBudget records a budget revision
// @Summary      Revise budget
// @Description  Changes the budget's effective amount, keeping an append-only revision history.
// @Tags         budgets
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                       true  "Budget ID"
// @Param        payload  body      service.ReviseBudgetRequest  true  "Revise Budget Payload"
// @Success      200      {object}  response.Response{data=service.BudgetResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/budgets/{id}/revise [put]
func (h *BudgetHandler) ReviseBudget(c *gin.Context) {
	var req service.ReviseBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID, _ := c.Get("userID")
	userIDStr, _ := userID.(string)

	budget, err := h.budgetService.ReviseBudget(c.Request.Context(), c.Param("id"), req, userIDStr)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, budget))
}

// DeleteBudget deletes a budget
// @Summary      Delete budget
// @Tags         budgets
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Budget ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	if err := h.budgetService.DeleteBudget(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Budget deleted"}))
}
