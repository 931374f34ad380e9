package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/chroma-ai/chroma-web/api/middlewares"
	"github.com/chroma-ai/chroma-web/api/notifyhub"
)

// HandleNotifyWS registers the socket under the caller's client id.
// Call only when the hub is set and notify WS is enabled.
func HandleNotifyWS(hub *notifyhub.Hub) gin.HandlerFunc {
	return notifyhub.HandleNotifyWS(hub, middlewares.ClientID)
}
