package generator

import (
	"strings"
	"testing"
)

func TestStripCodeFences(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"json tagged", "```json\n{\"a\":1}\n```", "{\"a\":1}\n"},
		{"untagged", "```\n{\"a\":1}\n```", "{\"a\":1}\n"},
		{"surrounding whitespace", "  \n```json\n{}\n```\n  ", "{}\n"},
		{"single line", "```{\"a\":1}```", "{\"a\":1}"},
		{"inner fences kept", "```markdown\nintro\n```go\nx := 1\n```\nend\n```", "intro\n```go\nx := 1\n```\nend\n"},
		{"only closing fence", "{\"a\":1}\n```", "{\"a\":1}\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StripCodeFences(tc.in); got != tc.want {
				t.Fatalf("StripCodeFences(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestStripCodeFencesIsNoOpWithoutFences(t *testing.T) {
	inputs := []string{
		"",
		"plain prose",
		"  padded text with trailing newline\n",
		"{\"title\":\"T\"}",
		"inline ``` fence in the middle",
	}
	for _, in := range inputs {
		if got := StripCodeFences(in); got != in {
			t.Fatalf("expected no-op for %q, got %q", in, got)
		}
	}
}

func TestPostProcessParsesExactValues(t *testing.T) {
	raw := `{"title":"  Winter trips ","summary":"Where to go.","content":"## Seoul\n\nSnow **and** lights"}`
	res := PostProcess(raw, "겨울 여행지 추천")
	if res.Outcome != OutcomeParsed {
		t.Fatalf("expected parsed outcome, got %s", res.Outcome)
	}
	if res.Title != "  Winter trips " || res.Summary != "Where to go." || res.Content != "## Seoul\n\nSnow **and** lights" {
		t.Fatalf("values were transformed: %+v", res)
	}
}

func TestPostProcessFencedMatchesUnfenced(t *testing.T) {
	plain := PostProcess(`{"title":"T","summary":"S","content":"C"}`, "p")
	fenced := PostProcess(" ```json\n{\"title\":\"T\",\"summary\":\"S\",\"content\":\"C\"}\n``` ", "p")
	if plain != fenced {
		t.Fatalf("fenced result %+v differs from plain %+v", fenced, plain)
	}
	if fenced.Title != "T" || fenced.Summary != "S" || fenced.Content != "C" {
		t.Fatalf("unexpected result: %+v", fenced)
	}
}

func TestPostProcessFallbacks(t *testing.T) {
	longPrompt := strings.Repeat("가", 60)

	cases := []struct {
		name    string
		raw     string
		outcome ParseOutcome
		content string
	}{
		{"prose", "Here is your article.\n\n## Part one", OutcomeNotJSON, "Here is your article.\n\n## Part one"},
		{"truncated json", "```json\n{\"title\": \"T\", \"content\": \"cut off", OutcomeNotJSON, "{\"title\": \"T\", \"content\": \"cut off"},
		{"missing content", `{"title":"T","summary":"S"}`, OutcomeMissingKeys, `{"title":"T","summary":"S"}`},
		{"wrong type", `{"title":1,"summary":"S","content":"C"}`, OutcomeMissingKeys, `{"title":1,"summary":"S","content":"C"}`},
		{"array", `["T","S","C"]`, OutcomeMissingKeys, `["T","S","C"]`},
		{"padded prose kept verbatim", "  plain prose  \n", OutcomeNotJSON, "  plain prose  \n"},
		{"fenced prose", "```\nJust words.\n```", OutcomeNotJSON, "Just words.\n"},
		{"empty", "", OutcomeEmpty, ""},
		{"whitespace only", "   \n", OutcomeEmpty, "   \n"},
		{"empty fence", "```json\n```", OutcomeEmpty, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := PostProcess(tc.raw, longPrompt)
			if res.Outcome != tc.outcome {
				t.Fatalf("expected outcome %s, got %s", tc.outcome, res.Outcome)
			}
			if res.Title != strings.Repeat("가", 50) {
				t.Fatalf("expected first 50 characters of prompt, got %q", res.Title)
			}
			if res.Summary != "" {
				t.Fatalf("expected empty summary, got %q", res.Summary)
			}
			if res.Content != tc.content {
				t.Fatalf("expected content %q, got %q", tc.content, res.Content)
			}
		})
	}
}

func TestPostProcessShortPromptTitle(t *testing.T) {
	res := PostProcess("not json", "겨울 여행지 추천")
	if res.Title != "겨울 여행지 추천" {
		t.Fatalf("unexpected title %q", res.Title)
	}
}

func TestPostProcessMissingSummaryIsEmpty(t *testing.T) {
	res := PostProcess(`{"title":"T","content":"C"}`, "p")
	if res.Outcome != OutcomeParsed || res.Summary != "" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestPostProcessEmptyReplyFallsBack(t *testing.T) {
	res := PostProcess("   \n", "겨울 여행지 추천")
	if res.Outcome != OutcomeEmpty || !res.Outcome.Fallback() {
		t.Fatalf("expected empty fallback, got %s", res.Outcome)
	}
	if res.Title != "겨울 여행지 추천" || res.Summary != "" || res.Content != "   \n" {
		t.Fatalf("unexpected result: %+v", res)
	}
}
