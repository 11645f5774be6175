package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

//go:embed templates
var templateFS embed.FS

// Renderer implements echo.Renderer over a set of html/template pages.
// Each page under templates/pages is parsed together with the shared
// layout, so every view gets the navigation and flash plumbing for free.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses the embedded templates. Page names are their path
// below templates/pages without the .html suffix, e.g. "account/login".
func NewRenderer() (*Renderer, error) {
	funcs := template.FuncMap{
		"formatPrice": FormatPrice,
		"formatMiles": FormatMiles,
		"formatDate":  FormatReviewDate,
		"screenName":  ScreenName,
		"year":        CurrentYear,
	}

	pages := make(map[string]*template.Template)

	err := fs.WalkDir(templateFS, "templates/pages", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}

		name := strings.TrimSuffix(strings.TrimPrefix(path, "templates/pages/"), ".html")
		tmpl, err := template.New("layout").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", path)
		if err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		pages[name] = tmpl
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Renderer{pages: pages}, nil
}

// Render writes the named page using the shared layout.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return tmpl.ExecuteTemplate(w, "layout.html", data)
}

// CurrentYear is used by the layout footer.
func CurrentYear() int {
	return time.Now().Year()
}
