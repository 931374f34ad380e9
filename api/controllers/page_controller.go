package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func HandleHome(c *gin.Context) {
	c.HTML(http.StatusOK, "home.html", pageData(c, "Home", "home"))
}

func HandleAbout(c *gin.Context) {
	c.HTML(http.StatusOK, "about.html", pageData(c, "About", "about"))
}
