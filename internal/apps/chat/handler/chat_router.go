package handler

import "github.com/gin-gonic/gin"

// RegisterChatRoutes registers all chat routes
func RegisterChatRoutes(router *gin.RouterGroup, handler *ChatHandler) {
	sessions := router.Group("/chat/sessions")
	{
		sessions.POST("", handler.StartSession)
		sessions.GET("/:id", handler.GetSession)
		sessions.POST("/:id/messages", handler.SendMessage)
		sessions.POST("/:id/skip", handler.Skip)
		sessions.GET("/:id/stream", handler.Stream)
		sessions.DELETE("/:id", handler.EndSession)
	}
}
