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

// DocumentHandler serves all four document kinds through one set of
// handlers: each route group is bound to its type, so the URL decides
// whether a request touches purchase orders, vendor bills, sales orders
// or invoices.
type DocumentHandler struct {
	documentService service.DocumentService
}

func NewDocumentHandler(documentService service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

func (h *DocumentHandler) RegisterRoutes(router *gin.RouterGroup) {
	h.mount(router.Group("/api/purchase-orders"), model.DocTypePurchaseOrder)
	h.mount(router.Group("/api/vendor-bills"), model.DocTypeVendorBill)
	h.mount(router.Group("/api/sales-orders"), model.DocTypeSalesOrder)
	h.mount(router.Group("/api/invoices"), model.DocTypeInvoice)
}

func (h *DocumentHandler) mount(group *gin.RouterGroup, docType string) {
	staff := middleware.RequireRole(model.RoleAdmin, model.RoleStaff)
	group.POST("", staff, h.create(docType))
	group.GET("", staff, h.list(docType))
	group.GET("/:id", staff, h.get(docType))
	group.PUT("/:id", staff, h.update(docType))
	group.DELETE("/:id", staff, h.delete(docType))
	group.PUT("/:id/post", staff, h.post(docType))
	group.PUT("/:id/cancel", staff, h.cancel(docType))
	if docType == model.DocTypePurchaseOrder || docType == model.DocTypeSalesOrder {
		group.POST("/:id/convert", staff, h.convert(docType))
	}
}

// create creates a new draft document
// @Summary      Create document
// @Description  Creates a new draft purchase order, vendor bill, sales order or invoice with its lines
// @Tags         documents
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.DocumentRequest  true  "Document Payload"
// @Success      201      {object}  response.Response{data=service.DocumentResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/invoices [post]
func (h *DocumentHandler) create(docType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.DocumentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
			return
		}

		doc, err := h.documentService.Create(c.Request.Context(), docType, req)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, response.Success(http.StatusCreated, doc))
	}
}

// list returns a paginated list of documents
// @Summary      List documents
// @Description  Retrieves a paginated list, optionally filtered by status, contact or number search
// @Tags         documents
// @Security     BearerAuth
// @Produce      json
// @Param        status      query     string  false  "Filter by status (DRAFT, POSTED, SENT, PARTIALLY_PAID, PAID, CANCELLED)"
// @Param        contact_id  query     string  false  "Filter by contact"
// @Param        search      query     string  false  "Search by document number"
// @Param        page        query     int     false  "Page number (default 1)"
// @Param        limit       query     int     false  "Number of items per page (default 20)"
// @Success      200         {object}  response.Response{data=object}
// @Failure      500         {object}  response.Response
// @Router       /api/invoices [get]
func (h *DocumentHandler) list(docType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		params := pagination.Parse(c)

		filter := service.DocumentFilter{
			Status:    c.Query("status"),
			ContactID: c.Query("contact_id"),
			Search:    c.Query("search"),
			Page:      params.Page,
			Limit:     params.Limit,
		}

		docs, total, err := h.documentService.List(c.Request.Context(), docType, filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
			return
		}

		c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
			"documents": docs,
			"total":     total,
			"page":      params.Page,
			"limit":     params.Limit,
		}))
	}
}

// get returns one document with its lines
// @Summary      Get document
// @Tags         documents
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  response.Response{data=service.DocumentResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/invoices/{id} [get]
func (h *DocumentHandler) get(docType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := h.documentService.Get(c.Request.Context(), docType, c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.Success(http.StatusOK, doc))
	}
}

// update replaces a document's header fields and lines
// @Summary      Update document
// @Description  Replaces the document's lines and recomputes totals. Rejected once the document is locked by payments.
// @Tags         documents
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                   true  "Document ID"
// @Param        payload  body      service.DocumentRequest  true  "Document Payload"
// @Success      200      {object}  response.Response{data=service.DocumentResponse}
// @Failure      409      {object}  response.Response
// @Router       /api/invoices/{id} [put]
func (h *DocumentHandler) update(docType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.DocumentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
			return
		}

		doc, err := h.documentService.Update(c.Request.Context(), docType, c.Param("id"), req)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, response.Success(http.StatusOK, doc))
	}
}

// delete removes a draft document
// @Summary      Delete document
// @Description  Deletes a draft document. Posted documents must be cancelled instead.
// @Tags         documents
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/invoices/{id} [delete]
func (h *DocumentHandler) delete(docType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h.documentService.Delete(c.Request.Context(), docType, c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Document deleted"}))
	}
}

// post moves a draft document into its posted state
// @Summary      Post document
// @Description  Posts a draft document. Orders and bills become POSTED, sales documents become SENT.
// @Tags         documents
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  response.Response{data=service.DocumentResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/invoices/{id}/post [put]
func (h *DocumentHandler) post(docType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := c.Get("userID")
		userIDStr, _ := userID.(string)

		doc, err := h.documentService.Post(c.Request.Context(), docType, c.Param("id"), userIDStr)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.Success(http.StatusOK, doc))
	}
}

// cancel soft-cancels a document
// @Summary      Cancel document
// @Description  Marks the document CANCELLED. Rejected when payments or dependent documents exist.
// @Tags         documents
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  response.Response{data=service.DocumentResponse}
// @Failure      409  {object}  response.Response
// @Router       /api/invoices/{id}/cancel [put]
func (h *DocumentHandler) cancel(docType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := c.Get("userID")
		userIDStr, _ := userID.(string)

		doc, err := h.documentService.Cancel(c.Request.Context(), docType, c.Param("id"), userIDStr)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.Success(http.StatusOK, doc))
	}
}

// convert creates the follow-up document for an order
// @Summary      Convert order
// @Description  Creates a draft vendor bill from a purchase order, or a draft invoice from a sales order
// @Tags         documents
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Source order ID"
// @Success      201  {object}  response.Response{data=service.DocumentResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/sales-orders/{id}/convert [post]
func (h *DocumentHandler) convert(docType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := h.documentService.Convert(c.Request.Context(), docType, c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, response.Success(http.StatusCreated, doc))
	}
}
