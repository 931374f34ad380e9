package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"

	"github.com/chroma-ai/chroma-web/preview"
	"github.com/chroma-ai/chroma-web/tool"
)

const (
	defaultQRSize = 200
	minQRSize     = 64
	maxQRSize     = 512
)

var qrLevels = map[string]qrcode.RecoveryLevel{
	"l": qrcode.Low,
	"m": qrcode.Medium,
	"q": qrcode.High,
	"h": qrcode.Highest,
}

// HandleResultQRCode renders the URL of one result panel as a PNG QR code so the image
// can be opened on a phone.
// GET /colorize/qr?image=colorized|original&size=200x200&level=m
func HandleResultQRCode(c *gin.Context) {
	snap := currentWorkspace(c).Snapshot()
	var target string
	switch c.DefaultQuery("image", "colorized") {
	case "colorized":
		target = snap.ColorizedURL
	case "original":
		// a local preview is not reachable from another device
		if !strings.HasPrefix(snap.OriginalURL, preview.URLPrefix) {
			target = snap.OriginalURL
		}
	default:
		c.JSON(http.StatusBadRequest, tool.FastReturnError("image must be colorized or original"))
		return
	}
	target = resolveBackend(target)
	if target == "" {
		c.JSON(http.StatusNotFound, tool.FastReturnError("No colorized image yet"))
		return
	}

	level, ok := qrLevels[strings.ToLower(c.DefaultQuery("level", "m"))]
	if !ok {
		level = qrcode.Medium
	}
	png, err := qrcode.Encode(target, level, qrSize(c.Query("size")))
	if err != nil {
		tool.DefaultLogger.Errorf("[QR] encode %s: %v", target, err)
		c.JSON(http.StatusInternalServerError, tool.FastReturnError("Failed to encode QR code"))
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}

// qrSize reads "200" or "200x180" (the smaller side wins) and bounds it.
func qrSize(raw string) int {
	size := defaultQRSize
	if raw = strings.TrimSpace(raw); raw != "" {
		size = 0
		for _, part := range strings.SplitN(strings.ToLower(raw), "x", 2) {
			n, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil || n <= 0 {
				return defaultQRSize
			}
			if size == 0 || n < size {
				size = n
			}
		}
	}
	return max(minQRSize, min(size, maxQRSize))
}
