package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thereayou/campus-hub/internal/handlers"
)

type endpoints struct {
	auth          *handlers.AuthHandler
	users         *handlers.UserHandler
	clubs         *handlers.ClubHandler
	messages      *handlers.HTTPMessageHandler
	notifications *handlers.NotificationHandler
	ws            *handlers.WebSocketHandler

	requireAuth gin.HandlerFunc
	wsAuth      gin.HandlerFunc
}

func APIEndpoints(r *gin.Engine, e endpoints) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Auth endpoints
	auth := r.Group("/auth")
	{
		auth.POST("/register", e.auth.Register)
		auth.POST("/login", e.auth.Login)
		auth.POST("/logout", e.requireAuth, e.auth.Logout)
	}

	r.GET("/ws", e.wsAuth, e.ws.HandleWebSocket)

	// API endpoints
	api := r.Group("/api/v1", e.requireAuth)
	{
		api.GET("/users/me", e.users.GetMe)

		api.POST("/clubs", e.clubs.CreateClub)
		api.GET("/clubs/:id", e.clubs.GetClub)
		api.POST("/clubs/:id/join", e.clubs.JoinClub)
		api.POST("/clubs/:id/leave", e.clubs.LeaveClub)
		api.GET("/clubs/:id/requests", e.clubs.ListRequests)
		api.POST("/clubs/:id/requests/:userId/approve", e.clubs.ApproveRequest)
		api.POST("/clubs/:id/requests/:userId/reject", e.clubs.RejectRequest)
		api.GET("/clubs/:id/messages", e.messages.GetClubMessages)
		api.GET("/clubs/:id/online", e.clubs.OnlineUsers)

		api.GET("/notifications", e.notifications.List)
		api.GET("/notifications/unread-count", e.notifications.UnreadCount)
		api.POST("/notifications/read-all", e.notifications.MarkAllRead)
		api.POST("/notifications/:id/read", e.notifications.MarkRead)
	}
}
