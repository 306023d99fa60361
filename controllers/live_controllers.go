package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/cantina/live"
	"github.com/yeremiapane/cantina/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // token sudah dicek oleh WebSocketAuthMiddleware
	},
}

type LiveController struct {
	Hub *live.Hub
}

func NewLiveController(hub *live.Hub) *LiveController {
	return &LiveController{Hub: hub}
}

// Serve -> endpoint WebSocket untuk update tab secara real-time
func (lc *LiveController) Serve(c *gin.Context) {
	role := c.GetString("role")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	lc.Hub.Register(ws, role)
	utils.InfoLogger.Printf("Live client connected (role=%s), %d client(s)", role, lc.Hub.ClientCount())

	// Client tidak mengirim apa-apa; baca sampai koneksi putus
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}
	lc.Hub.Unregister(ws)
}
