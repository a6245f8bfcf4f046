package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"contently/auth"
)

const stateTTL = 10 * 60

func (s *Server) handleLogin(c *gin.Context) {
	if s.oauth == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Sign-in is not configured"})
		return
	}
	state := uuid.NewString()
	s.setCookie(c, auth.StateCookie, state, stateTTL, "/auth")
	c.Redirect(http.StatusFound, s.oauth.AuthCodeURL(state))
}

func (s *Server) handleCallback(c *gin.Context) {
	if s.oauth == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Sign-in is not configured"})
		return
	}
	failed := s.publicURL + "/auth?error=auth_failed"
	log := s.logger.WithField("request_id", c.GetString("request_id"))

	want, _ := c.Cookie(auth.StateCookie)
	s.setCookie(c, auth.StateCookie, "", -1, "/auth")

	code := c.Query("code")
	if code == "" || want == "" || c.Query("state") != want {
		log.Warn("Sign-in callback rejected: missing code or state mismatch")
		c.Redirect(http.StatusFound, failed)
		return
	}

	id, err := s.oauth.Exchange(c.Request.Context(), code)
	if err != nil {
		log.WithError(err).Warn("Sign-in code exchange failed")
		c.Redirect(http.StatusFound, failed)
		return
	}
	token, _, err := s.sessions.Issue(*id)
	if err != nil {
		log.WithError(err).Error("Failed to issue session")
		c.Redirect(http.StatusFound, failed)
		return
	}
	s.setCookie(c, auth.SessionCookie, token, int(s.sessions.TTL().Seconds()), "/")
	log.WithField("user_id", id.UserID).Info("User signed in")

	target := s.publicURL
	if target == "" {
		target = "/"
	}
	c.Redirect(http.StatusFound, target)
}

// handleSignOut clears the cookie and revokes whichever session token came
// with the request, so a copied bearer token stops working too.
func (s *Server) handleSignOut(c *gin.Context) {
	s.setCookie(c, auth.SessionCookie, "", -1, "/")
	token := auth.TokenFromRequest(c.Request)
	if token != "" {
		if err := s.sessions.Revoke(c.Request.Context(), token); err != nil && !auth.IsSessionError(err) {
			s.abortWithError(c, err)
			return
		}
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleMe(c *gin.Context) {
	id, ok := auth.IdentityFrom(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, id)
}

func (s *Server) setCookie(c *gin.Context, name, value string, maxAge int, path string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, path, "", s.cookieSecure, true)
}
