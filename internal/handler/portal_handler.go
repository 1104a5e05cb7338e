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

// PortalHandler serves the customer-facing routes. Every portal endpoint
// scopes its queries to the contact bound to the caller's token; there is
// no way to address another contact's data.
type PortalHandler struct {
	portalService service.PortalService
}

func NewPortalHandler(portalService service.PortalService) *PortalHandler {
	return &PortalHandler{portalService: portalService}
}

func (h *PortalHandler) RegisterRoutes(router *gin.RouterGroup) {
	staff := middleware.RequireRole(model.RoleAdmin, model.RoleStaff)
	customer := middleware.RequireRole(model.RoleCustomer)

	router.POST("/api/portal/invitations", staff, h.InviteCustomer)

	portal := router.Group("/api/portal")
	{
		portal.GET("/invoices", customer, h.ListMyInvoices)
		portal.GET("/invoices/:id", customer, h.GetMyInvoice)
		portal.GET("/payments", customer, h.ListMyPayments)
	}
}

// InviteCustomer creates a portal account for a customer contact
// @Summary      Invite customer
// @Description  Creates a customer-role user bound to the contact and emails a temporary password. Mail delivery runs in the background.
// @Tags         portal
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.InviteCustomerRequest  true  "Invite Payload"
// @Success      201      {object}  response.Response{data=service.InviteCustomerResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/portal/invitations [post]
func (h *PortalHandler) InviteCustomer(c *gin.Context) {
	var req service.InviteCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID, _ := c.Get("userID")
	userIDStr, _ := userID.(string)

	invite, err := h.portalService.InviteCustomer(c.Request.Context(), req, userIDStr)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, invite))
}

// ListMyInvoices returns the caller's invoices
// @Summary      List my invoices
// @Description  Returns the non-draft invoices of the contact bound to the authenticated portal user
// @Tags         portal
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Failure      403    {object}  response.Response
// @Router       /api/portal/invoices [get]
func (h *PortalHandler) ListMyInvoices(c *gin.Context) {
	contactID, ok := portalContactID(c)
	if !ok {
		return
	}
	params := pagination.Parse(c)

	invoices, total, err := h.portalService.ListMyInvoices(c.Request.Context(), contactID, params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"invoices": invoices,
		"total":    total,
		"page":     params.Page,
		"limit":    params.Limit,
	}))
}

// GetMyInvoice returns one of the caller's invoices with its lines
// @Summary      Get my invoice
// @Tags         portal
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  response.Response{data=service.DocumentResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/portal/invoices/{id} [get]
func (h *PortalHandler) GetMyInvoice(c *gin.Context) {
	contactID, ok := portalContactID(c)
	if !ok {
		return
	}

	invoice, err := h.portalService.GetMyInvoice(c.Request.Context(), contactID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// ListMyPayments returns payments on the caller's invoices
// @Summary      List my payments
// @Tags         portal
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Failure      403    {object}  response.Response
// @Router       /api/portal/payments [get]
func (h *PortalHandler) ListMyPayments(c *gin.Context) {
	contactID, ok := portalContactID(c)
	if !ok {
		return
	}
	params := pagination.Parse(c)

	payments, total, err := h.portalService.ListMyPayments(c.Request.Context(), contactID, params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"payments": payments,
		"total":    total,
		"page":     params.Page,
		"limit":    params.Limit,
	}))
}

// portalContactID extracts the contact bound to the portal token. A
// customer token without a contact binding cannot see any data.
func portalContactID(c *gin.Context) (string, bool) {
	contactID, _ := c.Get("contactID")
	contactIDStr, _ := contactID.(string)
	if contactIDStr == "" {
		c.JSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Portal account is not linked to a contact"))
		return "", false
	}
	return contactIDStr, true
}
