package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pitchside/api/internal/security"
)

const SessionKey = "session_payload"

// Auth requires a valid session cookie. Validity is purely cryptographic:
// signature plus expiry, no server-side session lookup.
func Auth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(security.SessionCookieName)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "message": "Unauthorized"})
			return
		}

		payload, err := security.VerifySession(jwtSecret, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "message": "Unauthorized"})
			return
		}

		c.Set(SessionKey, payload)
		c.Next()
	}
}

// CurrentSession returns the payload stored by Auth.
func CurrentSession(c *gin.Context) (security.SessionPayload, bool) {
	value, exists := c.Get(SessionKey)
	if !exists {
		return security.SessionPayload{}, false
	}
	payload, ok := value.(security.SessionPayload)
	return payload, ok
}
