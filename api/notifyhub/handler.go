package notifyhub

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || origin == "http://"+r.Host || origin == "https://"+r.Host
	},
}

// HandleNotifyWS upgrades the request to WebSocket and registers it under the client id
// resolved by clientID. Call only when the hub is set and notify WS is enabled.
func HandleNotifyWS(hub *Hub, clientID func(c *gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := clientID(c)
		if id == "" {
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		hub.Register(id, conn)
		defer hub.Unregister(id, conn)

		// Read loop to detect client close and keep connection alive
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}
}
