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

type SecurityHandler struct {
	securityService service.SecurityService
}

// NewSecurityHandler sets up the routing dependencies for audit endpoints
func NewSecurityHandler(securityService service.SecurityService) *SecurityHandler {
	return &SecurityHandler{securityService: securityService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *SecurityHandler) RegisterRoutes(router *gin.RouterGroup) {
	security := router.Group("/security", middleware.RequireRole(model.RoleAdmin, model.RoleSecurity))
	{
		security.GET("/logs", h.ListLogs)
		security.GET("/logs/flagged", h.ListFlaggedLogs)
		security.GET("/stats", h.GetStats)
	}
}

// ListLogs returns one page of the audit log, newest first
// @Summary      List security logs
// @Tags         security
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  response.Response{data=response.Paginated}
// @Router       /security/logs [get]
func (h *SecurityHandler) ListLogs(c *gin.Context) {
	params := pagination.Parse(c)
	logs, total, err := h.securityService.List(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(statusFor(err), response.Error(statusFor(err), err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.SuccessPage(http.StatusOK, logs, total, params.Page, params.Limit))
}

// ListFlaggedLogs returns only entries with a non-benign flag
// @Summary      List flagged security logs
// @Tags         security
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  response.Response{data=response.Paginated}
// @Router       /security/logs/flagged [get]
func (h *SecurityHandler) ListFlaggedLogs(c *gin.Context) {
	params := pagination.Parse(c)
	logs, total, err := h.securityService.ListFlagged(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(statusFor(err), response.Error(statusFor(err), err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.SuccessPage(http.StatusOK, logs, total, params.Page, params.Limit))
}

// GetStats aggregates the audit log into dashboard counters
// @Summary      Security statistics
// @Tags         security
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=service.SecurityStats}
// @Router       /security/stats [get]
func (h *SecurityHandler) GetStats(c *gin.Context) {
	stats, err := h.securityService.Stats(c.Request.Context())
	if err != nil {
		c.JSON(statusFor(err), response.Error(statusFor(err), err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}
