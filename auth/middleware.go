package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetCookie writes the session token cookie. HttpOnly always; Secure per
// deployment config.
func SetCookie(c *gin.Context, ts *TokenService, token string, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, int(ts.Lifetime().Seconds()), "/", "", secure, true)
}

// ClearCookie expires the session token cookie.
func ClearCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", secure, true)
}

// RequireAuth gates JSON endpoints. Missing, malformed, expired and
// badly-signed tokens all get the same answer; nothing reveals which check
// failed.
func RequireAuth(ts *TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(CookieName)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		claims, err := ts.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_email", claims.Email)
		c.Next()
	}
}

// RequirePage gates the server-rendered admin pages. Unauthenticated
// visitors are sent to the login form; a cookie that fails verification is
// cleared on the way out.
func RequirePage(ts *TokenService, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(CookieName)
		if err != nil || token == "" {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}

		claims, err := ts.Verify(token)
		if err != nil {
			ClearCookie(c, secure)
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_email", claims.Email)
		c.Next()
	}
}
