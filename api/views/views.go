// Package views renders the HTML pages with pongo2 templates embedded in the binary.
package views

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/microcosm-cc/bluemonday"
)

//go:embed templates/*.html
var templatesFS embed.FS

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
	filterOnce sync.Once
)

// Clean strips every tag from text that came from a backend.
func Clean(raw string) string {
	policyOnce.Do(func() {
		policy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(policy.Sanitize(raw))
}

func filterClean(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in == nil || in.IsNil() {
		return pongo2.AsValue(""), nil
	}
	// already escaped by the policy
	return pongo2.AsSafeValue(Clean(in.String())), nil
}

func registerFilters() {
	filterOnce.Do(func() {
		if !pongo2.FilterExists("clean") {
			_ = pongo2.RegisterFilter("clean", filterClean)
		}
	})
}

// Renderer implements gin's render.HTMLRender.
type Renderer struct {
	mu        sync.RWMutex
	set       *pongo2.TemplateSet
	templates map[string]*pongo2.Template
}

var _ render.HTMLRender = (*Renderer)(nil)

func New() (*Renderer, error) {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("views: open templates: %w", err)
	}
	registerFilters()
	return &Renderer{
		set:       pongo2.NewSet("chroma", pongo2.NewFSLoader(sub)),
		templates: make(map[string]*pongo2.Template),
	}, nil
}

// Preload parses every page so template errors surface at startup.
func (r *Renderer) Preload(names ...string) error {
	for _, name := range names {
		if _, err := r.template(name); err != nil {
			return err
		}
	}
	return nil
}

// Execute renders name into w.
func (r *Renderer) Execute(w io.Writer, name string, data pongo2.Context) error {
	tpl, err := r.template(name)
	if err != nil {
		return err
	}
	if err := tpl.ExecuteWriter(data, w); err != nil {
		return fmt.Errorf("views: render %q: %w", name, err)
	}
	return nil
}

func (r *Renderer) Instance(name string, data any) render.Render {
	return &page{r: r, name: name, data: toContext(data)}
}

func (r *Renderer) template(name string) (*pongo2.Template, error) {
	r.mu.RLock()
	tpl, ok := r.templates[name]
	r.mu.RUnlock()
	if ok {
		return tpl, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if tpl, ok := r.templates[name]; ok {
		return tpl, nil
	}
	tpl, err := r.set.FromFile(name)
	if err != nil {
		return nil, fmt.Errorf("views: load template %q: %w", name, err)
	}
	r.templates[name] = tpl
	return tpl, nil
}

func toContext(data any) pongo2.Context {
	switch v := data.(type) {
	case nil:
		return pongo2.Context{}
	case pongo2.Context:
		return v
	case gin.H:
		return pongo2.Context(v)
	case map[string]any:
		return pongo2.Context(v)
	default:
		return pongo2.Context{"data": v}
	}
}

type page struct {
	r    *Renderer
	name string
	data pongo2.Context
}

var htmlContentType = []string{"text/html; charset=utf-8"}

func (p *page) Render(w http.ResponseWriter) error {
	p.WriteContentType(w)
	return p.r.Execute(w, p.name, p.data)
}

func (p *page) WriteContentType(w http.ResponseWriter) {
	header := w.Header()
	if val := header["Content-Type"]; len(val) == 0 {
		header["Content-Type"] = htmlContentType
	}
}
