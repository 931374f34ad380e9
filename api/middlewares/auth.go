package middlewares

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chroma-ai/chroma-web/auth"
	"github.com/chroma-ai/chroma-web/notify"
	"github.com/chroma-ai/chroma-web/tool"
	"github.com/chroma-ai/chroma-web/types"
)

const (
	authContextKey = "authContext"
	tokenMaxAge    = 30 * 24 * time.Hour
)

// LoadAuth builds the auth context of the request from the persisted token. Changes made
// during the request are written back to the cookie and announced to the client's other tabs.
func LoadAuth(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(types.AuthTokenKey)
		ac := auth.NewContext(token)
		clientID := ClientID(c)
		cancel := ac.Subscribe(func(ev auth.Event) {
			c.SetSameSite(http.SameSiteLaxMode)
			if ev.LoggedIn {
				c.SetCookie(types.AuthTokenKey, ev.Token, int(tokenMaxAge.Seconds()), "/", "", secure, true)
			} else {
				c.SetCookie(types.AuthTokenKey, "", -1, "/", "", secure, true)
			}
			if err := notify.SendAuthChanged(clientID, ev.LoggedIn); err != nil {
				tool.DefaultLogger.Debugf("[Auth] tab sync skipped: %v", err)
			}
		})
		defer cancel()
		c.Set(authContextKey, ac)
		c.Next()
	}
}

// AuthContext returns the context set by LoadAuth, or an anonymous one.
func AuthContext(c *gin.Context) *auth.Context {
	if v, ok := c.Get(authContextKey); ok {
		if ac, ok := v.(*auth.Context); ok {
			return ac
		}
	}
	return auth.NewContext("")
}

// RequireAuth redirects to /login when no token is present.
func RequireAuth(c *gin.Context) {
	if !AuthContext(c).IsAuthenticated() {
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return
	}
	c.Next()
}
