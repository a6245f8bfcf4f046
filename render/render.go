// Package render turns generated Markdown into HTML.
package render

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Raw HTML in model output is dropped; goldmark only emits it when WithUnsafe is set.
var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// HTML converts Markdown to an HTML fragment.
func HTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var page = template.Must(template.New("post").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<article>
<h1>{{.Title}}</h1>
{{if .Summary}}<p class="summary">{{.Summary}}</p>
{{end}}{{.Body}}
</article>
</body>
</html>
`))

// Document renders a standalone page for a generated post.
func Document(title, summary, markdown string) (string, error) {
	body, err := HTML(markdown)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	err = page.Execute(&buf, struct {
		Title   string
		Summary string
		Body    template.HTML
	}{title, summary, template.HTML(body)})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Digest collapses whitespace and cuts the text to limit runes. It is used
// where a post has no summary to show.
func Digest(text string, limit int) string {
	joined := strings.Join(strings.Fields(text), " ")
	r := []rune(joined)
	if limit <= 0 || len(r) <= limit {
		return joined
	}
	return string(r[:limit])
}
