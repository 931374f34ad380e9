package middlewares

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"

	"github.com/chroma-ai/chroma-web/api/models"
	"github.com/chroma-ai/chroma-web/tool"
)

const (
	ClientCookie = "chroma_client"
	clientIDKey  = "clientID"
	clientMaxAge = 365 * 24 * 60 * 60
)

var clientIDPattern = regexp.MustCompile(`^[0-9a-f]{32}$`)

// ClientIdentity makes sure every browser carries a client id cookie. The id keys the
// workspace and the tab fan-out.
func ClientIdentity(c *gin.Context) {
	id, err := c.Cookie(ClientCookie)
	if err != nil || !clientIDPattern.MatchString(id) {
		id = tool.GenerateToken()
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(ClientCookie, id, clientMaxAge, "/", "", models.SecureCookies(), true)
	}
	c.Set(clientIDKey, id)
	c.Next()
}

// ClientID returns the id set by ClientIdentity.
func ClientID(c *gin.Context) string {
	return c.GetString(clientIDKey)
}
