package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chroma-ai/chroma-web/api/middlewares"
	"github.com/chroma-ai/chroma-web/api/models"
	"github.com/chroma-ai/chroma-web/tool"
	"github.com/chroma-ai/chroma-web/transfer"
	"github.com/chroma-ai/chroma-web/types"
)

const MsgSignupDone = "Signup successful! Please login."

func HandleLoginPage(c *gin.Context) {
	data := pageData(c, "Login", "login")
	if c.Query("registered") == "1" {
		data["success"] = MsgSignupDone
	}
	c.HTML(http.StatusOK, "login.html", data)
}

// HandleLogin checks the form, logs in through the auth backend and redirects home.
func HandleLogin(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	ac := middlewares.AuthContext(c)
	_, err := models.GetAuthService().Login(c.Request.Context(), ac, username, password)
	if err != nil {
		data := pageData(c, "Login", "login")
		data["username"] = username
		data["error"] = authErrorText(err)
		c.HTML(authErrorStatus(err), "login.html", data)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func HandleSignupPage(c *gin.Context) {
	c.HTML(http.StatusOK, "signup.html", pageData(c, "Sign Up", "signup"))
}

// HandleSignup creates the account and sends the user to the login page.
func HandleSignup(c *gin.Context) {
	username := c.PostForm("username")
	email := c.PostForm("email")
	password := c.PostForm("password")

	if _, err := models.GetAuthService().Signup(c.Request.Context(), username, email, password); err != nil {
		data := pageData(c, "Sign Up", "signup")
		data["username"] = username
		data["email"] = email
		data["error"] = authErrorText(err)
		c.HTML(authErrorStatus(err), "signup.html", data)
		return
	}
	c.Redirect(http.StatusSeeOther, "/login?registered=1")
}

// HandleLogout drops the token; the other tabs are told through the auth subscribers.
func HandleLogout(c *gin.Context) {
	models.GetAuthService().Logout(middlewares.AuthContext(c))
	c.Redirect(http.StatusFound, "/login")
}

func authErrorText(err error) string {
	var ae *types.AuthError
	if errors.As(err, &ae) {
		return ae.Reason
	}
	tool.DefaultLogger.Errorf("[Auth] %v", err)
	return transfer.MsgAuthNetwork
}

func authErrorStatus(err error) int {
	var ae *types.AuthError
	if errors.As(err, &ae) && ae.Reason == transfer.MsgAuthNetwork {
		return http.StatusBadGateway
	}
	if errors.As(err, &ae) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
