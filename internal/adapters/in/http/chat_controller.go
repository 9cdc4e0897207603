package http

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tailortalk/booking-assistant/internal/config"
	"github.com/tailortalk/booking-assistant/internal/core/ports/in"
)

type ChatController struct {
	useCase in.ChatUseCase
	cfg     *config.Config
}

func NewChatController(useCase in.ChatUseCase, cfg *config.Config) *ChatController {
	return &ChatController{
		useCase: useCase,
		cfg:     cfg,
	}
}

func (c *ChatController) RegisterRoutes(router *gin.Engine) {
	router.GET("/", c.banner)
	router.GET("/health", c.health)

	api := router.Group("/api/v1")
	if c.cfg.Auth.Enabled {
		api.Use(c.basicAuth())
	}
	{
		api.POST("/chat", c.chat)
	}
}

type ChatRequest struct {
	Message   string `json:"message" binding:"required"`
	SessionID string `json:"sessionId"`
}

type ChatResponse struct {
	Response  string `json:"response"`
	Status    string `json:"status"`
	SessionID string `json:"sessionId"`
}

func (c *ChatController) chat(ctx *gin.Context) {
	var req ChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), c.cfg.RequestTimeout())
	defer cancel()

	reply, err := c.useCase.HandleMessage(reqCtx, req.SessionID, req.Message)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	ctx.JSON(http.StatusOK, ChatResponse{
		Response:  reply.Text,
		Status:    "success",
		SessionID: reply.SessionID,
	})
}

func (c *ChatController) banner(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"service": "booking-assistant",
		"version": c.cfg.App.Version,
	})
}

func (c *ChatController) health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (c *ChatController) basicAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		username, password, hasAuth := ctx.Request.BasicAuth()
		if !hasAuth {
			ctx.Header("WWW-Authenticate", "Basic realm=Authorization Required")
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		if subtle.ConstantTimeCompare([]byte(username), []byte(c.cfg.Auth.Username)) != 1 ||
			subtle.ConstantTimeCompare([]byte(password), []byte(c.cfg.Auth.Password)) != 1 {
			ctx.Header("WWW-Authenticate", "Basic realm=Authorization Required")
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		ctx.Next()
	}
}
