package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin/render"
)

// TemplateRenderer renders the site's templates for gin and for the shell.
//
// Every template file outside layouts/ and partials/ gets its own set: the
// layouts and partials are cloned and the file is parsed on top, so two pages
// may define the same block names without clashing. A template is addressed
// by its path relative to templates/, e.g. "pages/feed.html" or "shell.html".
//
// In debug mode the sets are re-parsed on every render so edits show up
// without a restart.
type TemplateRenderer struct {
	templates map[string]*template.Template
	fs        fs.FS
	funcMap   template.FuncMap
	debug     bool
}

var _ render.HTMLRender = (*TemplateRenderer)(nil)

// NewTemplateRenderer creates a TemplateRenderer reading templates/ from fsys.
// Outside debug mode every template is parsed up front and a parse error is
// returned here.
func NewTemplateRenderer(fsys fs.FS, debug bool) (*TemplateRenderer, error) {
	r := &TemplateRenderer{
		fs:      fsys,
		funcMap: templateFuncMap(),
		debug:   debug,
	}

	if !debug {
		templates, err := r.parseAllTemplates()
		if err != nil {
			return nil, fmt.Errorf("parse templates: %w", err)
		}
		r.templates = templates
	}

	return r, nil
}

// Instance implements render.HTMLRender.
func (r *TemplateRenderer) Instance(name string, data any) render.Render {
	templates, err := r.current()
	if err != nil {
		return &HTMLInstance{err: err}
	}
	return &HTMLInstance{
		Template: templates[name],
		Name:     name,
		Data:     data,
	}
}

// Fragment executes the named template and returns its output. The shell uses
// it to render a page into the document outlet.
func (r *TemplateRenderer) Fragment(name string, data any) (template.HTML, error) {
	templates, err := r.current()
	if err != nil {
		return "", err
	}
	t, ok := templates[name]
	if !ok {
		return "", fmt.Errorf("template %q not found", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("execute %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

func (r *TemplateRenderer) current() (map[string]*template.Template, error) {
	if r.debug {
		return r.parseAllTemplates()
	}
	return r.templates, nil
}

func (r *TemplateRenderer) parseAllTemplates() (map[string]*template.Template, error) {
	layoutFiles, err := fs.Glob(r.fs, "templates/layouts/*.html")
	if err != nil {
		return nil, fmt.Errorf("glob layouts: %w", err)
	}
	partialFiles, err := fs.Glob(r.fs, "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("glob partials: %w", err)
	}

	// A typo in a map-backed template fails the render, and so reaches the
	// boundary, instead of printing "<no value>".
	base := template.New("").Option("missingkey=error").Funcs(r.funcMap)
	for _, f := range append(layoutFiles, partialFiles...) {
		content, err := fs.ReadFile(r.fs, f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f, err)
		}
		if _, err := base.New(f).Parse(string(content)); err != nil {
			return nil, fmt.Errorf("parse %s: %w", f, err)
		}
	}

	files, err := r.discoverPageTemplates()
	if err != nil {
		return nil, fmt.Errorf("discover templates: %w", err)
	}

	templates := make(map[string]*template.Template, len(files))
	for _, f := range files {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone base for %s: %w", f, err)
		}
		content, err := fs.ReadFile(r.fs, f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f, err)
		}
		name := strings.TrimPrefix(f, "templates/")
		if _, err := clone.New(name).Parse(string(content)); err != nil {
			return nil, fmt.Errorf("parse %s: %w", f, err)
		}
		templates[name] = clone
	}

	return templates, nil
}

// discoverPageTemplates lists the .html files under templates/ outside
// layouts/ and partials/.
func (r *TemplateRenderer) discoverPageTemplates() ([]string, error) {
	var files []string
	err := fs.WalkDir(r.fs, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}
		rel := strings.TrimPrefix(path, "templates/")
		if strings.HasPrefix(rel, "layouts/") || strings.HasPrefix(rel, "partials/") {
			return nil
		}
		files = append(files, path)
		return nil
	})
	return files, err
}

func templateFuncMap() template.FuncMap {
	return template.FuncMap{
		// json renders v as a JavaScript value, e.g. inside hx-headers.
		"json": func(v any) template.JS {
			b, err := json.Marshal(v)
			if err != nil {
				return template.JS("null")
			}
			return template.JS(b)
		},

		// date formats a time.Time or *time.Time for display; nil and the
		// zero time render as "".
		"date": func(v any) string {
			var t time.Time
			switch tv := v.(type) {
			case time.Time:
				t = tv
			case *time.Time:
				if tv != nil {
					t = *tv
				}
			}
			if t.IsZero() {
				return ""
			}
			return t.Format("Jan 2, 2006")
		},

		"add": func(a, b int) int {
			return a + b
		},

		"sub": func(a, b int) int {
			return a - b
		},

		// seq returns start..end inclusive, for page number links.
		"seq": func(start, end int) []int {
			if start > end {
				return nil
			}
			s := make([]int, 0, end-start+1)
			for i := start; i <= end; i++ {
				s = append(s, i)
			}
			return s
		},
	}
}

// HTMLInstance is one template execution for gin.
type HTMLInstance struct {
	Template *template.Template
	Name     string
	Data     any
	err      error
}

const htmlContentType = "text/html; charset=utf-8"

// Render writes the template output to w.
func (h *HTMLInstance) Render(w http.ResponseWriter) error {
	h.WriteContentType(w)
	if h.err != nil {
		return h.err
	}
	if h.Template == nil {
		return fmt.Errorf("template %q not found", h.Name)
	}
	return h.Template.ExecuteTemplate(w, h.Name, h.Data)
}

// WriteContentType sets an HTML Content-Type unless one is already set.
func (h *HTMLInstance) WriteContentType(w http.ResponseWriter) {
	header := w.Header()
	if val := header["Content-Type"]; len(val) == 0 {
		header["Content-Type"] = []string{htmlContentType}
	}
}
