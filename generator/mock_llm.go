package generator

import (
	"context"
	"encoding/json"
	"strings"
)

// MockLLM answers locally without calling a model, with a fenced JSON
// article built from the user message.
type MockLLM struct{}

func (m MockLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	topic := prompt.User
	if first, _, ok := strings.Cut(prompt.User, "\n"); ok {
		topic = first
	}
	topic = strings.TrimPrefix(topic, "Blog topic: ")

	var body strings.Builder
	body.WriteString("## Introduction\n\n")
	body.WriteString("This is a locally generated placeholder article about ")
	body.WriteString(topic)
	body.WriteString(".\n\n## Brief\n\n")
	body.WriteString(prompt.User)
	body.WriteString("\n\n## Conclusion\n\nReplace the mock provider with a real model to get a full article.\n")

	out, err := json.Marshal(map[string]string{
		"title":   topic,
		"summary": "A placeholder summary generated without calling a model.",
		"content": body.String(),
	})
	if err != nil {
		return "", err
	}
	return "```json\n" + string(out) + "\n```", nil
}
