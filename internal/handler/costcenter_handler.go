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

// CostCenterHandler serves cost centers and the assignment rules that route
// document lines onto them.
type CostCenterHandler struct {
	costCenterService service.CostCenterService
}

func NewCostCenterHandler(costCenterService service.CostCenterService) *CostCenterHandler {
	return &CostCenterHandler{costCenterService: costCenterService}
}

func (h *CostCenterHandler) RegisterRoutes(router *gin.RouterGroup) {
	staff := middleware.RequireRole(model.RoleAdmin, model.RoleStaff)
	admin := middleware.RequireRole(model.RoleAdmin)

	centers := router.Group("/api/cost-centers")
	{
		centers.POST("", admin, h.CreateCostCenter)
		centers.GET("", staff, h.ListCostCenters)
		centers.GET("/:id", staff, h.GetCostCenter)
		centers.PUT("/:id", admin, h.UpdateCostCenter)
		centers.DELETE("/:id", admin, h.DeleteCostCenter)
	}

	rules := router.Group("/api/assignment-rules")
	{
		rules.POST("", admin, h.CreateRule)
		rules.GET("", staff, h.ListRules)
		rules.PUT("/:id", admin, h.UpdateRule)
		rules.DELETE("/:id", admin, h.DeleteRule)
	}
}

// CreateCostCenter creates a cost center
// @Summary      Create cost center
// @Tags         cost-centers
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CostCenterRequest  true  "Cost Center Payload"
// @Success      201      {object}  response.Response{data=service.CostCenterResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/cost-centers [post]
func (h *CostCenterHandler) CreateCostCenter(c *gin.Context) {
	var req service.CostCenterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	center, err := h.costCenterService.CreateCostCenter(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, center))
}

// ListCostCenters returns a paginated list of cost centers
// @Summary      List cost centers
// @Tags         cost-centers
// @Security     BearerAuth
// @Produce      json
// @Param        search  query     string  false  "Search by code or name"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Success      200     {object}  response.Response{data=object}
// @Failure      500     {object}  response.Response
// @Router       /api/cost-centers [get]
func (h *CostCenterHandler) ListCostCenters(c *gin.Context) {
	params := pagination.Parse(c)

	centers, total, err := h.costCenterService.ListCostCenters(c.Request.Context(), c.Query("search"), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"cost_centers": centers,
		"total":        total,
		"page":         params.Page,
		"limit":        params.Limit,
	}))
}

// GetCostCenter returns one cost center
// @Summary      Get cost center
// @Tags         cost-centers
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Cost Center ID"
// @Success      200  {object}  response.Response{data=service.CostCenterResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/cost-centers/{id} [get]
func (h *CostCenterHandler) GetCostCenter(c *gin.Context) {
	center, err := h.costCenterService.GetCostCenter(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, center))
}

// UpdateCostCenter updates a cost center
// @Summary      Update cost center
// @Description  Updates a cost center. Re-parenting that would create a cycle is rejected.
// @Tags         cost-centers
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                     true  "Cost Center ID"
// @Param        payload  body      service.CostCenterRequest  true  "Cost Center Payload"
// @Success      200      {object}  response.Response{data=service.CostCenterResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/cost-centers/{id} [put]
func (h *CostCenterHandler) UpdateCostCenter(c *gin.Context) {
	var req service.CostCenterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	center, err := h.costCenterService.UpdateCostCenter(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, center))
}

// DeleteCostCenter deletes a cost center
// @Summary      Delete cost center
// @Description  Deletes a cost center. Rejected while it has children.
// @Tags         cost-centers
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Cost Center ID"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/cost-centers/{id} [delete]
func (h *CostCenterHandler) DeleteCostCenter(c *gin.Context) {
	if err := h.costCenterService.DeleteCostCenter(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Cost center deleted"}))
}

// CreateRule creates an assignment rule
// @Summary      Create assignment rule
// @Description  Creates a rule that routes document lines to a cost center by product category, name match or vendor.
// @Tags         assignment-rules
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.RuleRequest  true  "Rule Payload"
// @Success      201      {object}  response.Response{data=service.RuleResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/assignment-rules [post]
func (h *CostCenterHandler) CreateRule(c *gin.Context) {
	var req service.RuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	rule, err := h.costCenterService.CreateRule(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, rule))
}

// ListRules returns a paginated list of assignment rules
// @Summary      List assignment rules
// @Tags         assignment-rules
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Failure      500    {object}  response.Response
// @Router       /api/assignment-rules [get]
func (h *CostCenterHandler) ListRules(c *gin.Context) {
	params := pagination.Parse(c)

	rules, total, err := h.costCenterService.ListRules(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"rules": rules,
		"total": total,
		"page":  params.Page,
		"limit": params.Limit,
	}))
}

// UpdateRule updates an assignment rule
// @Summary      Update assignment rule
// @Tags         assignment-rules
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string               true  "Rule ID"
// @Param        payload  body      service.RuleRequest  true  "Rule Payload"
// @Success      200      {object}  response.Response{data=service.RuleResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/assignment-rules/{id} [put]
func (h *CostCenterHandler) UpdateRule(c *gin.Context) {
	var req service.RuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	rule, err := h.costCenterService.UpdateRule(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, rule))
}

// DeleteRule deletes an assignment rule
// @Summary      Delete assignment rule
// @Tags         assignment-rules
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Rule ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/assignment-rules/{id} [delete]
func (h *CostCenterHandler) DeleteRule(c *gin.Context) {
	if err := h.costCenterService.DeleteRule(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Rule deleted"}))
}
