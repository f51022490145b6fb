package middleware

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/gin-gonic/gin"
)

// SessionCookie identifies a browser for vote dedup. The cookie is a random
// id, not a credential: it only scopes the voted-set.
const SessionCookie = "songday_session"

const sessionMaxAge = 24 * 60 * 60

// VoterSession makes sure every request carries a session id, issuing a new
// cookie when none is present, and stores the id in the Gin context.
func VoterSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(SessionCookie)
		if err != nil || id == "" {
			id = newSessionID()
			c.SetCookie(SessionCookie, id, sessionMaxAge, "/", "", false, true)
		}
		c.Set("sessionID", id)
		c.Next()
	}
}

// GetSessionID returns the request's voter session id.
func GetSessionID(c *gin.Context) string {
	return c.GetString("sessionID")
}

func newSessionID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "fallback-session"
	}
	return hex.EncodeToString(buf)
}
