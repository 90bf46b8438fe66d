package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/MikhailRaia/url-genie/internal/pool"
)

//go:embed templates/*.html
var templateFS embed.FS

// View is the data rendered by the index template.
type View struct {
	Input  string
	Notice *Notice
	Cards  []Card
}

// Renderer executes the embedded templates into pooled buffers.
type Renderer struct {
	tmpl    *template.Template
	buffers *pool.Pool[*bytes.Buffer]
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Renderer{
		tmpl:    tmpl,
		buffers: pool.New(32, func() *bytes.Buffer { return new(bytes.Buffer) }),
	}, nil
}

// Index renders the home page.
func (r *Renderer) Index(w http.ResponseWriter, status int, view View) error {
	return r.render(w, status, "index", view)
}

// NotFound renders the static not-found page.
func (r *Renderer) NotFound(w http.ResponseWriter) error {
	return r.render(w, http.StatusNotFound, "notfound", nil)
}

func (r *Renderer) render(w http.ResponseWriter, status int, name string, data any) error {
	buf := r.buffers.Get()
	defer r.buffers.Put(buf)

	if err := r.tmpl.ExecuteTemplate(buf, name, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
