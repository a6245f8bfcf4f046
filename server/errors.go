package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"contently/posts"
)

const internalErrorMessage = "Internal server error"

// errorStatus maps a service error to the HTTP status and message sent to the client.
func errorStatus(err error) (int, string) {
	var genErr *posts.GenerationError
	var persistErr *posts.PersistError

	switch {
	case errors.Is(err, posts.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, posts.ErrPostIDRequired):
		return http.StatusBadRequest, "postId is required"
	case errors.Is(err, posts.ErrPromptRequired):
		return http.StatusBadRequest, "prompt is required"
	case errors.Is(err, posts.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, posts.ErrNotFound):
		return http.StatusNotFound, "Post not found"
	case errors.Is(err, posts.ErrInProgress):
		return http.StatusConflict, "Generation already in progress"
	case errors.Is(err, posts.ErrNotDraft):
		return http.StatusConflict, "Post is not a draft"
	case errors.Is(err, posts.ErrConflict):
		return http.StatusConflict, "Post was modified during generation"
	case errors.As(err, &genErr):
		return http.StatusInternalServerError, genErr.Error()
	case errors.As(err, &persistErr):
		return http.StatusInternalServerError, persistErr.Error()
	default:
		return http.StatusInternalServerError, internalErrorMessage
	}
}

func (s *Server) abortWithError(c *gin.Context, err error) {
	status, msg := errorStatus(err)
	if status == http.StatusInternalServerError && msg == internalErrorMessage {
		s.logger.WithError(err).WithField("request_id", c.GetString("request_id")).Error("Unhandled error")
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
