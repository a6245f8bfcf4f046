package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	SessionCookie = "session"
	StateCookie   = "oauth_state"

	ctxUserID   = "user_id"
	ctxIdentity = "identity"
)

// Middleware resolves the caller from a Bearer token or the session cookie.
// Unauthenticated requests get 401 {"error":"Unauthorized"}; a failed
// revocation lookup is a 500.
func Middleware(sessions *Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := sessions.Resolve(c.Request.Context(), TokenFromRequest(c.Request))
		if err != nil {
			if !IsSessionError(err) {
				_ = c.Error(err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set(ctxUserID, id.UserID)
		c.Set(ctxIdentity, id)
		c.Next()
	}
}

// TokenFromRequest returns the bearer token, falling back to the session cookie.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// UserID returns the caller set by Middleware, or "".
func UserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

// IdentityFrom returns the caller set by Middleware.
func IdentityFrom(c *gin.Context) (*Identity, bool) {
	v, ok := c.Get(ctxIdentity)
	if !ok {
		return nil, false
	}
	id, ok := v.(*Identity)
	return id, ok
}
