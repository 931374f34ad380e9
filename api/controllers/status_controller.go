package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chroma-ai/chroma-web/api/models"
	"github.com/chroma-ai/chroma-web/notify"
	"github.com/chroma-ai/chroma-web/transfer"
)

const probeTimeout = 3 * time.Second

// HandleHealthcheck reports the frontend as running and whether the backend answers.
// GET /healthcheck
func HandleHealthcheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), probeTimeout)
	defer cancel()

	backend := "up"
	resp := gin.H{
		"running":           true,
		"notify_ws_enabled": notify.UseNotify && models.GetNotifyHub() != nil,
	}
	if err := transfer.ProbeBackend(ctx, nil, models.GetBackendURL()); err != nil {
		backend = "down"
		resp["backend_error"] = err.Error()
	}
	resp["backend"] = backend
	c.JSON(http.StatusOK, resp)
}

// HandleStats exposes in-memory counts. Local requests only.
// GET /debug/stats
func HandleStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"workspaces": models.GetRegistry().Len(),
		"previews":   models.GetPreviewStore().Len(),
	})
}
