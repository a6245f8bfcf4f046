package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"contently/auth"
	"contently/posts"
	"contently/render"
)

func (s *Server) handleCreatePost(c *gin.Context) {
	var in posts.NewPost
	if err := c.ShouldBindJSON(&in); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	p, err := s.posts.Create(c.Request.Context(), auth.UserID(c), in)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": p.ID, "status": p.Status})
}

func (s *Server) handleGetPost(c *gin.Context) {
	p, err := s.posts.Get(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) handleListPosts(c *gin.Context) {
	var status posts.Status
	if raw := c.Query("status"); raw != "" {
		st, err := posts.ParseStatus(raw)
		if err != nil {
			s.abortWithError(c, err)
			return
		}
		status = st
	}
	listing, err := s.posts.List(c.Request.Context(), auth.UserID(c), status)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

func (s *Server) handlePostHTML(c *gin.Context) {
	p, err := s.posts.Get(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	if !p.HasContent() {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Post has no generated content"})
		return
	}
	title := p.Prompt
	if p.Title != nil && *p.Title != "" {
		title = *p.Title
	}
	summary := ""
	if p.Summary != nil {
		summary = *p.Summary
	}
	page, err := render.Document(title, summary, *p.Content)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}
