package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/thereayou/campus-hub/internal/middleware"
	ws "github.com/thereayou/campus-hub/internal/websocket"
)

// WebSocketHandler управляет WebSocket соединениями
type WebSocketHandler struct {
	hub        *ws.Hub
	upgrader   websocket.Upgrader
	sendBuffer int
	log        *zap.Logger
}

func NewWebSocketHandler(hub *ws.Hub, allowedOrigins []string, sendBuffer int, log *zap.Logger) *WebSocketHandler {
	origins := newOriginPolicy(allowedOrigins, log)
	return &WebSocketHandler{
		hub:        hub,
		sendBuffer: sendBuffer,
		log:        log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     origins.check,
		},
	}
}

// HandleWebSocket обрабатывает WebSocket соединения
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	userID := middleware.UserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade сам пишет ответ с ошибкой
		h.log.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	h.hub.Attach(ws.NewClient(h.hub, conn, userID, h.sendBuffer))
}
