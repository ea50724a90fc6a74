package renderer

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/snapdiff"
)

//go:embed templates/*.md
var templateFiles embed.FS

var templates, _ = fs.Sub(templateFiles, "templates")

// funcs are available in every template.
var funcs = template.FuncMap{
	"cell": escapeCell,
	"join": func(list []string) string { return strings.Join(list, ", ") },
}

// Options holds configuration for rendering a comparison.
type Options struct {
	Title     string // Defaults to "Comparison".
	Currency  string // Format numeric cells as money in this currency, e.g. EUR.
	Unmatched bool   // List the keys present in a single table.
}

// Markdown renders the comparison result to a markdown string.
//
// Each changed column gets its own section, with the top records sorted by
// decreasing absolute change on numeric columns.
func Markdown(r *snapdiff.Result, opts Options) string {
	partials := map[string]string{
		"comparison_title":     "comparison_title.md",
		"comparison_column":    "comparison_column.md",
		"comparison_unmatched": "comparison_unmatched.md",
	}
	if !opts.Unmatched {
		// An empty file name results in an empty template.
		partials["comparison_unmatched"] = ""
	}
	return renderTemplate("comparison", "comparison.md", partials, NewComparison(r, opts))
}

// Sink returns a snapdiff.Sink writing the markdown rendering to w.
func Sink(w io.Writer, opts Options) snapdiff.Sink {
	return snapdiff.SinkFunc(func(r *snapdiff.Result) error {
		_, err := io.WriteString(w, Markdown(r, opts))
		return err
	})
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
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

// escapeCell makes s safe inside a markdown table cell. Composite keys contain '|'.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\r\n", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
