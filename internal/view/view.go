// Package view renders the server-side pages. Every page is parsed together
// with the shared layout and partials and executed through the "layout" template.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/dafibh/planner/planner-web/internal/domain"
	"github.com/dafibh/planner/planner-web/internal/format"
	"github.com/labstack/echo/v4"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates
var templateFS embed.FS

const (
	pagesDir     = "templates/pages"
	rootTemplate = "layout"
)

// Themes
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Page is the data every template receives
type Page struct {
	Title  string
	Active string
	Theme  string
	Data   interface{}
}

// Renderer implements echo.Renderer over the embedded templates
type Renderer struct {
	pages map[string]*template.Template
}

var _ echo.Renderer = (*Renderer)(nil)

// New parses all templates. Page names are their paths under pages/ without
// the extension, e.g. "simulations/list".
func New() (*Renderer, error) {
	base, err := template.New(rootTemplate).Funcs(Funcs()).ParseFS(templateFS, "templates/layout.html", "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	r := &Renderer{pages: make(map[string]*template.Template)}
	err = fs.WalkDir(templateFS, pagesDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ".html" {
			return nil
		}

		t, err := base.Clone()
		if err != nil {
			return err
		}
		if _, err := t.ParseFS(templateFS, p); err != nil {
			return fmt.Errorf("parse %s: %w", p, err)
		}
		name := strings.TrimSuffix(strings.TrimPrefix(p, pagesDir+"/"), ".html")
		r.pages[name] = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Render executes the named page inside the layout
func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("view: unknown page %q", name)
	}
	return t.ExecuteTemplate(w, rootTemplate, data)
}

// Has reports whether a page exists
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}

// Funcs are the helpers available to every template
func Funcs() template.FuncMap {
	return template.FuncMap{
		"brl": func(a domain.Amount) string {
			return format.Currency(a.Decimal)
		},
		"compact": func(a domain.Amount) string {
			return format.Compact(a.Decimal)
		},
		"percent": func(a domain.Amount) string {
			return format.Percent(a.Decimal)
		},
		"date": func(d domain.Date) string {
			return format.Date(d.Time())
		},
		"datetime": func(t time.Time) string {
			return format.DateTime(t)
		},
		"title": Title,
		"statuses": func() []domain.SimulationStatus {
			return domain.SimulationStatuses
		},
		"allocationTypes": func() []domain.AllocationType {
			return domain.AllocationTypes
		},
		"movementTypes": func() []domain.MovementType {
			return domain.MovementTypes
		},
		"frequencies": func() []domain.MovementFrequency {
			return domain.MovementFrequencies
		},
		"num": func(v float64) string {
			return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
		},
		"add": func(a, b float64) float64 {
			return a + b
		},
	}
}

// Title renders an enum value such as FINANCEIRA as "Financeira"
func Title(v interface{}) string {
	return cases.Title(language.BrazilianPortuguese).String(strings.ToLower(fmt.Sprint(v)))
}
