// Package auth resolves the caller of a request. Sign-in itself happens
// elsewhere: either an upstream login flow stores "user_id" in the session
// cookie, or a trusted gateway forwards the authenticated id in a header.
package auth

import (
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/skycareers/internal/services"
)

const (
	SessionUserID = "user_id"
	ContextUserID = "user_id"
)

// Identify stores the caller id in the gin context when one can be resolved.
// It never rejects a request; handlers decide whether a caller is required.
func Identify(trustedHeader string) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if id, ok := session.Get(SessionUserID).(string); ok && id != "" {
			c.Set(ContextUserID, id)
		} else if trustedHeader != "" {
			if id := strings.TrimSpace(c.GetHeader(trustedHeader)); id != "" {
				c.Set(ContextUserID, id)
			}
		}
		c.Next()
	}
}

// CurrentCaller returns nil for anonymous requests.
func CurrentCaller(c *gin.Context) *services.Caller {
	id := c.GetString(ContextUserID)
	if id == "" {
		return nil
	}
	return &services.Caller{ID: id}
}
