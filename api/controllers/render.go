package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chroma-ai/chroma-web/api/middlewares"
	"github.com/chroma-ai/chroma-web/api/models"
	"github.com/chroma-ai/chroma-web/preview"
	"github.com/chroma-ai/chroma-web/tool"
)

// pageData is the context every page starts from.
func pageData(c *gin.Context, title, active string) gin.H {
	return gin.H{
		"title":    title,
		"active":   active,
		"loggedIn": middlewares.AuthContext(c).IsAuthenticated(),
		"year":     time.Now().Year(),
		"notifyWS": models.GetNotifyHub() != nil,
		"maxMB":    tool.GetCurrentConfig().MaxUploadMB,
	}
}

func renderError(c *gin.Context, status int, message string) {
	data := pageData(c, http.StatusText(status), "")
	data["status"] = status
	data["message"] = message
	c.HTML(status, "error.html", data)
}

// HandleNotFound renders the 404 page for unknown routes.
func HandleNotFound(c *gin.Context) {
	renderError(c, http.StatusNotFound, "The page you are looking for does not exist.")
}

func wantsJSON(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "application/json")
}

// resolveBackend turns a backend-relative URL into an absolute one. Preview URLs stay local.
func resolveBackend(raw string) string {
	if raw == "" || strings.HasPrefix(raw, preview.URLPrefix) {
		return raw
	}
	return tool.ResolveAgainst(models.GetBackendURL(), raw)
}

// HandleTooManyRequests answers a throttled request with JSON or the error page.
func HandleTooManyRequests(c *gin.Context) {
	if wantsJSON(c) {
		c.JSON(http.StatusTooManyRequests, tool.FastReturnError(middlewares.MsgTooManyRequests))
		return
	}
	renderError(c, http.StatusTooManyRequests, middlewares.MsgTooManyRequests)
}
