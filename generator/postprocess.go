package generator

import (
	"encoding/json"
	"errors"
	"strings"
	"unicode"
)

const (
	codeFence = "```"
	// fallbackTitleRunes bounds the title synthesised from the prompt.
	fallbackTitleRunes = 50
)

// PostProcess turns the model's reply into a Result. A reply that is not the
// expected JSON object, blank ones included, still yields a result: the title
// is taken from the prompt and the reply, minus any code fence, becomes the
// content verbatim.
func PostProcess(raw string, prompt string) Result {
	body := StripCodeFences(raw)
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return fallbackResult(prompt, body, OutcomeEmpty)
	}

	var payload struct {
		Title   *string `json:"title"`
		Summary *string `json:"summary"`
		Content *string `json:"content"`
	}
	err := json.Unmarshal([]byte(trimmed), &payload)
	switch {
	case err != nil:
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return fallbackResult(prompt, body, OutcomeMissingKeys)
		}
		return fallbackResult(prompt, body, OutcomeNotJSON)
	case payload.Title == nil || payload.Content == nil:
		return fallbackResult(prompt, body, OutcomeMissingKeys)
	}

	res := Result{
		Title:   *payload.Title,
		Content: *payload.Content,
		Outcome: OutcomeParsed,
	}
	if payload.Summary != nil {
		res.Summary = *payload.Summary
	}
	return res
}

func fallbackResult(prompt, content string, outcome ParseOutcome) Result {
	return Result{
		Title:   truncateRunes(prompt, fallbackTitleRunes),
		Summary: "",
		Content: content,
		Outcome: outcome,
	}
}

// StripCodeFences removes a Markdown code fence wrapped around the text: an
// opening ``` (optionally followed by a language tag such as json) and a
// closing ```. Fences inside the text are left alone, and text without a
// leading or trailing fence is returned unchanged.
func StripCodeFences(text string) string {
	s := strings.TrimSpace(text)
	stripped := false

	if strings.HasPrefix(s, codeFence) {
		s = s[len(codeFence):]
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			if isFenceTag(s[:nl]) {
				s = s[nl+1:]
			}
		} else if isFenceTag(s) {
			s = ""
		}
		stripped = true
	}

	if body := strings.TrimRightFunc(s, unicode.IsSpace); strings.HasSuffix(body, codeFence) {
		s = body[:len(body)-len(codeFence)]
		stripped = true
	}

	if !stripped {
		return text
	}
	return s
}

// isFenceTag reports whether the rest of an opening fence line is empty or a
// bare language tag.
func isFenceTag(line string) bool {
	line = strings.TrimSpace(line)
	for _, r := range line {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '+' && r != '_' {
			return false
		}
	}
	return true
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
