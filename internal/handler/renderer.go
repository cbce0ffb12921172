package handler

import (
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
)

// Renderer manages template parsing and rendering with isolated template sets
type Renderer struct {
	templates map[string]*template.Template
}

// NewRenderer parses the storefront and admin layouts plus their pages. Each
// page gets its own clone of the layout so pages can define blocks with the
// same name without clobbering each other.
func NewRenderer(templatesDir string) (*Renderer, error) {
	templates := make(map[string]*template.Template)

	baseTmpl, err := template.New("base").Funcs(TemplateFuncs()).ParseFiles(filepath.Join(templatesDir, "layout.html"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	adminBaseTmpl, err := template.New("admin_base").Funcs(TemplateFuncs()).ParseFiles(filepath.Join(templatesDir, "admin", "layout.html"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse admin layout: %w", err)
	}

	storefrontPages, err := filepath.Glob(filepath.Join(templatesDir, "storefront", "*.html"))
	if err != nil {
		return nil, fmt.Errorf("failed to glob storefront templates: %w", err)
	}

	for _, page := range storefrontPages {
		pageTmpl, err := baseTmpl.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone template for %s: %w", page, err)
		}

		pageTmpl, err = pageTmpl.ParseFiles(page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse page %s: %w", page, err)
		}

		templates["storefront/"+pageKey(page)] = pageTmpl
	}

	adminPages, err := filepath.Glob(filepath.Join(templatesDir, "admin", "*.html"))
	if err != nil {
		return nil, fmt.Errorf("failed to glob admin templates: %w", err)
	}

	for _, page := range adminPages {
		if filepath.Base(page) == "layout.html" {
			continue
		}

		pageTmpl, err := adminBaseTmpl.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone template for %s: %w", page, err)
		}

		pageTmpl, err = pageTmpl.ParseFiles(page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse page %s: %w", page, err)
		}

		templates["admin/"+pageKey(page)] = pageTmpl
	}

	return &Renderer{
		templates: templates,
	}, nil
}

// pageKey derives the lookup key from the template file name.
func pageKey(page string) string {
	name := filepath.Base(page)
	return name[:len(name)-len(filepath.Ext(name))]
}

// Render executes a named page template into an io.Writer
func (r *Renderer) Render(w io.Writer, name string, data interface{}) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}

	execName := "base"
	if strings.HasPrefix(name, "admin/") {
		execName = "admin_base"
	}

	return tmpl.ExecuteTemplate(w, execName, data)
}

// RenderHTTP renders a page to an http.ResponseWriter with error handling
func (r *Renderer) RenderHTTP(w http.ResponseWriter, name string, data interface{}) {
	if err := r.Render(w, name, data); err != nil {
		slog.Error("render failed", "template", name, "error", err)
		http.Error(w, "Failed to render template", http.StatusInternalServerError)
	}
}
