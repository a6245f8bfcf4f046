package posts

import "fmt"

// Status drives a post's lifecycle.
type Status string

const (
	StatusDraft      Status = "draft"
	StatusGenerating Status = "generating"
	StatusGenerated  Status = "generated"
	StatusPublished  Status = "published"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{StatusDraft, StatusGenerating, StatusGenerated, StatusPublished}

var transitions = map[Status][]Status{
	StatusDraft:      {StatusGenerating},
	StatusGenerating: {StatusGenerated, StatusDraft},
	StatusGenerated:  {StatusPublished},
}

// ParseStatus validates a status string.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidInput, s)
	}
	return st, nil
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusGenerating, StatusGenerated, StatusPublished:
		return true
	}
	return false
}

// CanTransitionTo reports whether a post may move from s to next.
// published is only reachable from generated and is set outside this service.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s Status) String() string {
	return string(s)
}
