package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/chroma-ai/chroma-web/api/models"
	"github.com/chroma-ai/chroma-web/preview"
	"github.com/chroma-ai/chroma-web/tool"
)

const maxPreviewDim = 2048

// HandlePreview serves a held preview. ?w=N scales it down to fit N x N.
func HandlePreview(c *gin.Context) {
	id := c.Param("id")
	size, _ := strconv.Atoi(c.Query("w"))
	if size > maxPreviewDim {
		size = maxPreviewDim
	}

	data, contentType, err := models.GetPreviewStore().Thumbnail(id, size)
	if err != nil {
		if errors.Is(err, preview.ErrNotFound) {
			c.JSON(http.StatusNotFound, tool.FastReturnError("Preview not found"))
			return
		}
		tool.DefaultLogger.Errorf("[Preview] %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, tool.FastReturnError("Failed to render preview"))
		return
	}
	c.Header("Cache-Control", "private, max-age=300")
	c.Data(http.StatusOK, contentType, data)
}
