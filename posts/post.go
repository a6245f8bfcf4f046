package posts

import (
	"strings"
	"time"
)

// Post is one blog-generation request and, once generated, its result.
type Post struct {
	ID                 string  `json:"id"`
	UserID             string  `json:"user_id"`
	Prompt             string  `json:"prompt"`
	Keywords           *string `json:"keywords"`
	Critique           *string `json:"critique"`
	ReferenceMaterials *string `json:"reference_materials"`
	Sources            *string `json:"sources"`

	// Title, Summary and Content are written together by a successful generation.
	Title   *string `json:"title"`
	Summary *string `json:"summary"`
	Content *string `json:"content"`

	Status Status `json:"status"`
	// Version is bumped by every status write and guards conditional updates.
	Version             int64      `json:"version"`
	GenerationStartedAt *time.Time `json:"generation_started_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// HasContent reports whether the post carries generated content.
func (p Post) HasContent() bool {
	return p.Content != nil && *p.Content != ""
}

// NewPost is the user-supplied input for a new draft.
type NewPost struct {
	Prompt             string `json:"prompt"`
	Keywords           string `json:"keywords,omitempty"`
	Critique           string `json:"critique,omitempty"`
	ReferenceMaterials string `json:"reference_materials,omitempty"`
	Sources            string `json:"sources,omitempty"`
}

// Normalize trims the input and rejects an empty prompt. Optional fields
// left blank become nil so they are stored as NULL, never as "".
func (in NewPost) Normalize() (prompt string, keywords, critique, references, sources *string, err error) {
	prompt = strings.TrimSpace(in.Prompt)
	if prompt == "" {
		return "", nil, nil, nil, nil, ErrPromptRequired
	}
	return prompt, optional(in.Keywords), optional(in.Critique), optional(in.ReferenceMaterials), optional(in.Sources), nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Article is the generated title/summary/content triple.
type Article struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Content string `json:"content"`
}
