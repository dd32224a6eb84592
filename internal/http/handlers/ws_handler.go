package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/ignatzorin/lostfound-backend/internal/http/middleware"
	"github.com/ignatzorin/lostfound-backend/internal/interface/http/response"
	"github.com/ignatzorin/lostfound-backend/internal/logger"
	"github.com/ignatzorin/lostfound-backend/internal/ws"
)

// WSHandler отвечает за установку WebSocket соединений.
type WSHandler struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
}

// NewWSHandler создаёт новый хэндлер. CORS для WebSocket проверяется
// тем же списком origins, что и для API.
func NewWSHandler(hub *ws.Hub, allowedOrigins []string) *WSHandler {
	cors := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		cors[o] = struct{}{}
	}
	_, wildcard := cors["*"]

	return &WSHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || wildcard {
					return true
				}
				_, ok := cors[origin]
				return ok
			},
		},
	}
}

// Handle обслуживает GET /api/ws?token=...
// Пользователь уже проверен AuthMiddleware.
func (h *WSHandler) Handle(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "access токен обязателен")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade уже ответил клиенту.
		logger.WithComponent("ws").WithError(err).Warn("не удалось открыть WebSocket")
		return
	}

	client := ws.NewClient(conn, h.hub, userID)
	client.Run(c.Request.Context())
}
