// Package renderer turns dashboards into markdown and HTML documents.
//
// Each document is a view struct, built from the core results with display
// ready types, and rendered through embedded text/template files.
package renderer

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"strings"
	textTemplate "text/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed *.md
var templates embed.FS

// RenderDashboard renders the Dashboard struct to a markdown string.
func RenderDashboard(d *Dashboard) string {
	partials := map[string]string{
		"dashboard_kpi":        "dashboard_kpi.md",
		"dashboard_positions":  "dashboard_positions.md",
		"dashboard_allocation": "dashboard_allocation.md",
		"dashboard_benchmarks": "dashboard_benchmarks.md",
		"dashboard_issues":     "dashboard_issues.md",
	}
	return renderTemplate("dashboard", "dashboard.md", partials, d)
}

// RenderHistory renders the History struct to a markdown string.
func RenderHistory(h *History) string {
	partials := map[string]string{
		"dashboard_issues": "dashboard_issues.md",
	}
	return renderTemplate("history", "history.md", partials, h)
}

// RenderJournal renders the Journal struct to a markdown string.
func RenderJournal(j *Journal) string {
	return renderTemplate("journal", "journal.md", nil, j)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := textTemplate.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		// An empty file name is a valid case, resulting in an empty template.
		if file != "" {
			content, err = fs.ReadFile(templates, file)
			if err != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, err)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// HTML converts a markdown document into an HTML fragment.
func HTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("cannot convert markdown: %w", err)
	}
	return buf.String(), nil
}

var page = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 70em; margin: 2em auto; padding: 0 1em; color: #222; }
table { border-collapse: collapse; margin: 1em 0; }
th, td { padding: .3em .8em; border-bottom: 1px solid #ddd; }
th { text-align: left; background: #f5f5f5; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// Page converts a markdown document into a standalone HTML page.
func Page(title, markdown string) (string, error) {
	body, err := HTML(markdown)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	err = page.Execute(&buf, struct {
		Title string
		Body  template.HTML
	}{title, template.HTML(body)})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
