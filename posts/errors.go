package posts

import "errors"

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidInput   = errors.New("invalid input")
	ErrPromptRequired = errors.New("prompt is required")
	ErrPostIDRequired = errors.New("postId is required")
	ErrNotFound       = errors.New("post not found")
	ErrNotDraft       = errors.New("post is not a draft")
	ErrInProgress     = errors.New("generation already in progress")
	// ErrConflict is returned by Store when a conditional write matched no row.
	ErrConflict = errors.New("post was modified during generation")
)

const defaultGenerationMessage = "Generation failed"

// GenerationError wraps a failure of the model call. The post has been
// rolled back to draft (best effort) when this is returned.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	if e.Err == nil || e.Err.Error() == "" {
		return defaultGenerationMessage
	}
	return e.Err.Error()
}

func (e *GenerationError) Unwrap() error { return e.Err }

// PersistError wraps a store failure on the final write after the model
// call succeeded. No rollback is attempted for it.
type PersistError struct {
	Err error
}

func (e *PersistError) Error() string {
	return e.Err.Error()
}

func (e *PersistError) Unwrap() error { return e.Err }
