package generator

import (
	"fmt"
	"strings"
)

// Prompt 表示发送给 LLM 的消息集合。
type Prompt struct {
	System string
	User   string
}

// DefaultLanguage is the language articles are written in unless the Agent is told otherwise.
const DefaultLanguage = "Korean"

// SystemInstruction builds the fixed writer instruction and output contract.
func SystemInstruction(language string) string {
	if language == "" {
		language = DefaultLanguage
	}
	var sb strings.Builder
	sb.WriteString("You are a professional blog writer. Turn the user's idea into a high-quality blog post.\n\n")
	sb.WriteString("Respond with ONLY the JSON object below. Do not include any other text:\n")
	sb.WriteString("{\n")
	sb.WriteString("  \"title\": \"blog post title\",\n")
	sb.WriteString("  \"summary\": \"a 2-3 sentence summary\",\n")
	sb.WriteString("  \"content\": \"the article body in Markdown, at least 800 characters\"\n")
	sb.WriteString("}\n\n")
	sb.WriteString("Writing rules:\n")
	sb.WriteString(fmt.Sprintf("- Write in %s.\n", language))
	sb.WriteString("- Use a natural, easy-to-read register.\n")
	sb.WriteString("- Structure the body with subheadings (##) and clear paragraphs.\n")
	sb.WriteString("- Follow an introduction, body, conclusion structure.\n")
	return sb.String()
}

// UserMessage puts the mandatory topic first and appends each optional field
// that is present as its own labelled line. Absent fields are left out entirely.
func UserMessage(b Brief) string {
	var sb strings.Builder
	sb.WriteString("Blog topic: ")
	sb.WriteString(b.Prompt)
	appendLine(&sb, "Keywords", b.Keywords)
	appendLine(&sb, "Author's perspective/critique", b.Critique)
	appendLine(&sb, "Reference materials", b.ReferenceMaterials)
	appendLine(&sb, "Sources", b.Sources)
	return sb.String()
}

func appendLine(sb *strings.Builder, label string, value *string) {
	if value == nil {
		return
	}
	sb.WriteString("\n")
	sb.WriteString(label)
	sb.WriteString(": ")
	sb.WriteString(*value)
}

// BuildPrompt 生成首稿提示词。
func BuildPrompt(b Brief, language string) Prompt {
	return Prompt{
		System: SystemInstruction(language),
		User:   UserMessage(b),
	}
}
