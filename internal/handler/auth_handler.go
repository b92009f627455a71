package handler

import (
	"net/http"

	"aegisai/internal/middleware"
	"aegisai/internal/model"
	"aegisai/internal/policy"
	"aegisai/internal/service"
	"aegisai/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService     service.AuthService
	userService     service.UserService
	securityService service.SecurityService
}

// NewAuthHandler sets up the routing dependencies for session endpoints
func NewAuthHandler(authService service.AuthService, userService service.UserService, securityService service.SecurityService) *AuthHandler {
	return &AuthHandler{
		authService:     authService,
		userService:     userService,
		securityService: securityService,
	}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
		auth.GET("/session", h.Session)
	}

	router.GET("/me", middleware.RequireRole(model.AllRoles...), h.GetMe)
}

// Login authenticates a user and persists the credential cookie
// @Summary      Login
// @Description  Authenticates by email and password, sets the access_token cookie and returns the user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.LoginRequest  true  "Login Credentials"
// @Success      200      {object}  response.Response{data=service.LoginResponse}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	res, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		_, _ = h.securityService.Record(c.Request.Context(), service.RecordInput{
			UserName:  req.Email,
			Action:    model.ActionLoginFailed,
			Resource:  "/auth/login",
			IPAddress: c.ClientIP(),
			Details:   "failed login attempt",
		})
		c.JSON(statusFor(err), response.Error(statusFor(err), err.Error()))
		return
	}

	middleware.SetTokenCookie(c, res.Token)

	_, _ = h.securityService.Record(c.Request.Context(), service.RecordInput{
		UserID:    res.User.ID,
		UserName:  res.User.Name,
		Action:    model.ActionLogin,
		Resource:  "/auth/login",
		IPAddress: c.ClientIP(),
	})

	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}

// Logout erases the credential cookie and invalidates the session
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	token, _ := c.Cookie("access_token")
	h.authService.Logout(c.Request.Context(), token)
	middleware.ClearTokenCookie(c)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"loggedOut": true}))
}

// Session restores the session from the persisted credential. A missing or
// malformed credential yields the anonymous session, never an error.
// @Summary      Restore session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.Session}
// @Router       /auth/session [get]
func (h *AuthHandler) Session(c *gin.Context) {
	token, _ := c.Cookie("access_token")

	session, err := h.authService.Restore(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	if !session.IsAuthenticated {
		// Discard whatever credential was presented.
		middleware.ClearTokenCookie(c)
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, session))
}

// GetMe returns the authenticated user with their navigation and permissions
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /me [get]
func (h *AuthHandler) GetMe(c *gin.Context) {
	userID := c.GetString("userID")
	userRole := model.UserRole(c.GetString("userRole"))

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(statusFor(err), response.Error(statusFor(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"user":       user,
		"navigation": policy.NavigationFor(userRole),
	}))
}
