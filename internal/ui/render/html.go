// Package render turns page state into HTML for the web dashboard and into
// terminal tables for the CLI.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"

	"github.com/labstack/echo/v4"

	"InsideX/pkg/format"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page templates under templates/. Each is parsed together with the layout
// and partials.
var pages = []string{"dashboard", "signals", "trades", "company", "insider", "error"}

// HTML renders named pages. It implements echo.Renderer.
type HTML struct {
	templates map[string]*template.Template
}

var _ echo.Renderer = (*HTML)(nil)

// NewHTML parses the embedded templates.
func NewHTML() (*HTML, error) {
	return newHTML(templateFS)
}

func newHTML(fsys fs.FS) (*HTML, error) {
	h := &HTML{templates: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		t, err := template.New(name).Funcs(funcs).ParseFS(fsys,
			"templates/layout.html",
			"templates/partials.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		h.templates[name] = t
	}
	return h, nil
}

// Render writes page name wrapped in the layout.
func (h *HTML) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return h.Execute(w, name, data)
}

func (h *HTML) Execute(w io.Writer, name string, data interface{}) error {
	t, ok := h.templates[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}

var funcs = template.FuncMap{
	"currency": format.Currency,
	"percent":  format.Percent,
	"score":    format.Score,
	"date":     format.Date,
	"number":   format.Number,
	"shares":   format.Shares,
	"since":    format.Since,
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"confidenceClass": func(c any) string {
		switch fmt.Sprint(c) {
		case "high":
			return "badge-high"
		case "medium":
			return "badge-medium"
		}
		return "badge-low"
	},
}
