package handler

import (
	"net/http"

	"aegisai/internal/middleware"
	"aegisai/internal/service"
	"aegisai/pkg/response"

	"github.com/gin-gonic/gin"
)

type CreateConversationRequest struct {
	Title string `json:"title" binding:"required"`
}

type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

type ChatHandler struct {
	chatService service.ChatService
}

// NewChatHandler sets up the routing dependencies for conversation endpoints
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *ChatHandler) RegisterRoutes(router *gin.RouterGroup) {
	convs := router.Group("/conversations", middleware.RequirePermission("chat"))
	{
		convs.GET("", h.ListConversations)
		convs.POST("", h.CreateConversation)
		convs.GET("/:id/messages", h.GetMessages)
		convs.POST("/:id/messages", h.SendMessage)
		convs.DELETE("/:id", h.DeleteConversation)
	}
}

// ownsConversation verifies the conversation belongs to the caller. A foreign
// or missing conversation is indistinguishable: both read as not found.
func (h *ChatHandler) ownsConversation(c *gin.Context, conversationID string) bool {
	conv, err := h.chatService.GetConversation(c.Request.Context(), conversationID)
	if err != nil || conv.UserID.String() != c.GetString("userID") {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "conversation not found"))
		return false
	}
	return true
}

// ListConversations returns the caller's conversations, newest first
// @Summary      List conversations
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]model.Conversation}
// @Router       /conversations [get]
func (h *ChatHandler) ListConversations(c *gin.Context) {
	convs, err := h.chatService.ListConversations(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		c.JSON(statusFor(err), response.Error(statusFor(err), err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, convs))
}

// CreateConversation starts a new, empty conversation for the caller
// @Summary      Create conversation
// @Tags         chat
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      CreateConversationRequest  true  "Conversation title"
// @Success      201      {object}  response.Response{data=model.Conversation}
// @Failure      400      {object}  response.Response
// @Router       /conversations [post]
func (h *ChatHandler) CreateConversation(c *gin.Context) {
	var req CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	conv, err := h.chatService.CreateConversation(c.Request.Context(), c.GetString("userID"), req.Title)
	if err != nil {
		c.JSON(statusFor(err), response.Error(statusFor(err), err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, conv))
}

// GetMessages loads the message collection of one conversation
// @Summary      List messages
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Conversation ID"
// @Success      200  {object}  response.Response{data=[]model.Message}
// @Failure      404  {object}  response.Response
// @Router       /conversations/{id}/messages [get]
func (h *ChatHandler) GetMessages(c *gin.Context) {
	id := c.Param("id")
	if !h.ownsConversation(c, id) {
		return
	}

	msgs, err := h.chatService.GetMessages(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusFor(err), response.Error(statusFor(err), err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, msgs))
}

// SendMessage appends one turn: the user message and the assistant reply
// @Summary      Send message
// @Description  Appends the user message and the synthesized assistant reply atomically. Returns 409 while a previous turn is still in flight.
// @Tags         chat
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string              true  "Conversation ID"
// @Param        payload  body      SendMessageRequest  true  "Message content"
// @Success      201      {object}  response.Response{data=service.SendResult}
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /conversations/{id}/messages [post]
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.chatService.SendMessage(c.Request.Context(), c.Param("id"), c.GetString("userID"), req.Content)
	if err != nil {
		c.JSON(statusFor(err), response.Error(statusFor(err), err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

// DeleteConversation removes a conversation and all of its messages
// @Summary      Delete conversation
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Conversation ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /conversations/{id} [delete]
func (h *ChatHandler) DeleteConversation(c *gin.Context) {
	id := c.Param("id")
	if !h.ownsConversation(c, id) {
		return
	}

	if err := h.chatService.DeleteConversation(c.Request.Context(), id); err != nil {
		c.JSON(statusFor(err), response.Error(statusFor(err), err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": id}))
}
