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

type ContactHandler struct {
	contactService service.ContactService
}

func NewContactHandler(contactService service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

func (h *ContactHandler) RegisterRoutes(router *gin.RouterGroup) {
	staff := middleware.RequireRole(model.RoleAdmin, model.RoleStaff)
	contacts := router.Group("/api/contacts")
	{
		contacts.POST("", staff, h.CreateContact)
		contacts.GET("", staff, h.ListContacts)
		contacts.GET("/:id", staff, h.GetContact)
		contacts.PUT("/:id", staff, h.UpdateContact)
		contacts.DELETE("/:id", staff, h.DeleteContact)
	}
}

// CreateContact creates a new customer or vendor
// @Summary      Create contact
// @Tags         contacts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateContactRequest  true  "Create Contact Payload"
// @Success      201      {object}  response.Response{data=service.ContactResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/contacts [post]
func (h *ContactHandler) CreateContact(c *gin.Context) {
	var req service.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	contact, err := h.contactService.CreateContact(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, contact))
}

// ListContacts returns a paginated list of contacts
// @Summary      List contacts
// @Description  Retrieves contacts, optionally filtered by type. Contacts of type BOTH match either filter.
// @Tags         contacts
// @Security     BearerAuth
// @Produce      json
// @Param        type    query     string  false  "Filter by type (CUSTOMER, VENDOR)"
// @Param        search  query     string  false  "Search by name or email"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Success      200     {object}  response.Response{data=object}
// @Failure      500     {object}  response.Response
// @Router       /api/contacts [get]
func (h *ContactHandler) ListContacts(c *gin.Context) {
	params := pagination.Parse(c)

	contacts, total, err := h.contactService.GetContacts(c.Request.Context(), c.Query("type"), c.Query("search"), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"contacts": contacts,
		"total":    total,
		"page":     params.Page,
		"limit":    params.Limit,
	}))
}

// GetContact returns one contact with its addresses
// @Summary      Get contact
// @Tags         contacts
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Contact ID"
// @Success      200  {object}  response.Response{data=service.ContactResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/contacts/{id} [get]
func (h *ContactHandler) GetContact(c *gin.Context) {
	contact, err := h.contactService.GetContact(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, contact))
}

// UpdateContact updates contact fields and addresses
// @Summary      Update contact
// @Tags         contacts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true  "Contact ID"
// @Param        payload  body      service.UpdateContactRequest  true  "Update Contact Payload"
// @Success      200      {object}  response.Response{data=service.ContactResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/contacts/{id} [put]
func (h *ContactHandler) UpdateContact(c *gin.Context) {
	var req service.UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	contact, err := h.contactService.UpdateContact(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, contact))
}

// DeleteContact soft-deletes a contact
// @Summary      Delete contact
// @Description  Soft-deletes a contact. Rejected while documents still reference it.
// @Tags         contacts
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Contact ID"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/contacts/{id} [delete]
func (h *ContactHandler) DeleteContact(c *gin.Context) {
	if err := h.contactService.DeleteContact(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Contact deleted"}))
}
