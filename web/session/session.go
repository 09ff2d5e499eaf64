// Package session manages the admin session cookie. The cookie carries a
// signed token and nothing else; there is no server-side session store.
package session

import (
	"net/http"

	"github.com/onkonavigator/onkonav/config"

	"github.com/gin-gonic/gin"
)

const adminTokenCookie = "admin_token"

// SetAdminToken writes the session cookie: http-only, SameSite=Lax, scoped
// to the whole site, valid for the token lifetime.
func SetAdminToken(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(adminTokenCookie, token, config.SessionMaxAgeSeconds, "/", "", !config.IsDebug(), true)
}

// GetAdminToken returns the raw session token, or "" when no cookie is set.
func GetAdminToken(c *gin.Context) string {
	token, err := c.Cookie(adminTokenCookie)
	if err != nil {
		return ""
	}
	return token
}

// ClearAdminToken deletes the session cookie.
func ClearAdminToken(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(adminTokenCookie, "", -1, "/", "", !config.IsDebug(), true)
}
