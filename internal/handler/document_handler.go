package handler

import (
	"net/http"

	"aegisai/internal/middleware"
	"aegisai/internal/model"
	"aegisai/internal/service"
	"aegisai/pkg/pagination"
	"aegisai/pkg/response"

	"github.com/gin-gonic/gin"
)

type DocumentHandler struct {
	documentService service.DocumentService
	userService     service.UserService
}

// NewDocumentHandler sets up the routing dependencies for Document endpoints
func NewDocumentHandler(documentService service.DocumentService, userService service.UserService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService, userService: userService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *DocumentHandler) RegisterRoutes(router *gin.RouterGroup) {
	// Visible documents for the caller's own role — any authenticated user.
	router.GET("/documents/visible", middleware.RequireRole(model.AllRoles...), h.ListVisibleDocuments)
	router.GET("/documents/:id", middleware.RequireRole(model.AllRoles...), h.GetDocument)

	docs := router.Group("/documents", middleware.RequirePermission("admin.documents"))
	{
		docs.GET("", h.ListDocuments)
		docs.POST("", h.CreateDocument)
		docs.PUT("/:id", h.UpdateDocument)
		docs.DELETE("/:id", h.DeleteDocument)
	}
}

// ListDocuments returns one page of all documents, regardless of visibility
// @Summary      List documents (admin)
// @Tags         documents
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  response.Response{data=response.Paginated}
// @Router       /documents [get]
func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	params := pagination.Parse(c)
	docs, total, err := h.documentService.ListDocuments(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(statusFor(err), response.Error(statusFor(err), err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.SuccessPage(http.StatusOK, docs, total, params.Page, params.Limit))
}

// ListVisibleDocuments returns the documents the caller's role may see
// @Summary      List visible documents
// @Tags         documents
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]model.Document}
// @Router       /documents/visible [get]
func (h *DocumentHandler) ListVisibleDocuments(c *gin.Context) {
	role := model.UserRole(c.GetString("userRole"))
	docs, err := h.documentService.ListDocumentsForRole(c.Request.Context(), role)
	if err != nil {
		c.JSON(statusFor(err), response.Error(statusFor(err), err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, docs))
}

// GetDocument returns one document, enforcing visibility and auditing access
// @Summary      Get document
// @Tags         documents
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  response.Response{data=model.Document}
// @Failure      404  {object}  response.Response
// @Router       /documents/{id} [get]
func (h *DocumentHandler) GetDocument(c *gin.Context) {
	user, err := h.userService.GetUserByID(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		c.JSON(statusFor(err), response.Error(statusFor(err), err.Error()))
		return
	}

	doc, err := h.documentService.GetDocumentForUser(c.Request.Context(), c.Param("id"), user, c.ClientIP())
	if err != nil {
		c.JSON(statusFor(err), response.Error(statusFor(err), err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, doc))
}

// CreateDocument registers a newly uploaded document
// @Summary      Create document
// @Tags         documents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateDocumentRequest  true  "Document Payload"
// @Success      201      {object}  response.Response{data=model.Document}
// @Failure      400      {object}  response.Response
// @Router       /documents [post]
func (h *DocumentHandler) CreateDocument(c *gin.Context) {
	var req service.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	doc, err := h.documentService.CreateDocument(c.Request.Context(), req)
	if err != nil {
		c.JSON(statusFor(err), response.Error(statusFor(err), err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, doc))
}

// UpdateDocument mutates document metadata, visibility or status
// @Summary      Update document
// @Tags         documents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                         true  "Document ID"
// @Param        payload  body      service.UpdateDocumentRequest  true  "Document Payload"
// @Success      200      {object}  response.Response{data=model.Document}
// @Failure      404      {object}  response.Response
// @Router       /documents/{id} [put]
func (h *DocumentHandler) UpdateDocument(c *gin.Context) {
	var req service.UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	doc, err := h.documentService.UpdateDocument(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(statusFor(err), response.Error(statusFor(err), err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, doc))
}

// DeleteDocument removes a document
// @Summary      Delete document
// @Tags         documents
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /documents/{id} [delete]
func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	if err := h.documentService.DeleteDocument(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(statusFor(err), response.Error(statusFor(err), err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": c.Param("id")}))
}
