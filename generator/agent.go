package generator

import (
	"context"
	"errors"
)

// Agent 负责根据 Brief 调用模型并解析成文章。
type Agent struct {
	llm      LLMClient
	language string
}

// AgentOption configures an Agent.
type AgentOption func(*Agent)

// WithLanguage sets the language articles are written in.
func WithLanguage(language string) AgentOption {
	return func(a *Agent) {
		a.language = language
	}
}

func NewAgent(llm LLMClient, opts ...AgentOption) (*Agent, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	a := &Agent{llm: llm, language: DefaultLanguage}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Write makes exactly one model call for the brief and parses the reply.
// Errors come only from the model call itself; any reply, blank or not JSON,
// still produces a Result.
func (a *Agent) Write(ctx context.Context, b Brief) (Result, error) {
	raw, err := a.llm.Complete(ctx, BuildPrompt(b, a.language))
	if err != nil {
		return Result{}, err
	}
	return PostProcess(raw, b.Prompt), nil
}
