package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"contently/auth"
	"contently/posts"
)

type generateRequest struct {
	PostID string `json:"postId"`
}

type generateResponse struct {
	Success bool   `json:"success"`
	Title   string `json:"title"`
}

// handleGenerate runs the generation workflow synchronously and answers
// once the post is generated or back in draft.
func (s *Server) handleGenerate(c *gin.Context) {
	var req generateRequest
	// A body that does not decode has no postId either.
	_ = c.ShouldBindJSON(&req)
	postID := strings.TrimSpace(req.PostID)
	if postID == "" {
		s.abortWithError(c, posts.ErrPostIDRequired)
		return
	}

	res, err := s.posts.Generate(c.Request.Context(), auth.UserID(c), postID)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, generateResponse{Success: true, Title: res.Title})
}
