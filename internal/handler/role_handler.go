package handler

import (
	"net/http"

	"aegisai/internal/middleware"
	"aegisai/internal/service"
	"aegisai/pkg/response"

	"github.com/gin-gonic/gin"
)

type RoleHandler struct {
	roleService service.RoleService
}

// NewRoleHandler sets up the routing dependencies for Role endpoints
func NewRoleHandler(roleService service.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *RoleHandler) RegisterRoutes(router *gin.RouterGroup) {
	roles := router.Group("/roles", middleware.RequirePermission("admin.roles"))
	{
		roles.GET("", h.ListRoles)
		roles.PUT("/:id", h.UpdateRole)
	}
}

// ListRoles returns every role with its permission set and user count
// @Summary      List roles
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.RoleResponse}
// @Router       /roles [get]
func (h *RoleHandler) ListRoles(c *gin.Context) {
	roles, err := h.roleService.ListRoles(c.Request.Context())
	if err != nil {
		c.JSON(statusFor(err), response.Error(statusFor(err), err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, roles))
}

// UpdateRole mutates a role's label, description or permission set
// @Summary      Update role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                     true  "Role ID"
// @Param        payload  body      service.UpdateRoleRequest  true  "Role Payload"
// @Success      200      {object}  response.Response{data=service.RoleResponse}
// @Failure      404      {object}  response.Response
// @Router       /roles/{id} [put]
func (h *RoleHandler) UpdateRole(c *gin.Context) {
	var req service.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	role, err := h.roleService.UpdateRole(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(statusFor(err), response.Error(statusFor(err), err.Error()))
		return
	}

	// Permission changes take effect immediately for new requests.
	middleware.ClearPermissionCache(string(role.Name))

	c.JSON(http.StatusOK, response.Success(http.StatusOK, role))
}
