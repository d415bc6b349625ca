package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/theukno/ecomproject/internal/utils"
)

// SessionCookie is the cookie carrying the session token.
const SessionCookie = "token"

// Page path prefixes gated by the guard. Protected pages need a valid
// session; auth pages must be reached without one.
var (
	protectedPaths = []string{"/profile", "/orders", "/checkout"}
	authPaths      = []string{"/login", "/signup", "/verify"}
)

// RouteGuard gates page navigation by session state. The check is signature
// and expiry only; it does not consult the user store, so a deleted account
// keeps passing until its token expires.
func RouteGuard(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		valid := false
		if token, err := c.Cookie(SessionCookie); err == nil && token != "" {
			if _, err := utils.ParseSessionToken(token, secret); err == nil {
				valid = true
			}
		}

		if !valid && matchesAny(path, protectedPaths) {
			target := "/login?callbackUrl=" + url.QueryEscape(path)
			c.Redirect(http.StatusTemporaryRedirect, target)
			c.Abort()
			return
		}

		if valid && matchesAny(path, authPaths) {
			c.Redirect(http.StatusTemporaryRedirect, "/")
			c.Abort()
			return
		}

		c.Next()
	}
}

func matchesAny(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}
