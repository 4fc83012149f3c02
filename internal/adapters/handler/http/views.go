package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var templateFS embed.FS

type views struct {
	pages map[string]*template.Template
}

func newViews() (*views, error) {
	v := &views{pages: make(map[string]*template.Template)}
	for _, page := range []string{"index", "detail", "results"} {
		tmpl, err := template.ParseFS(templateFS, "templates/base.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", page, err)
		}
		v.pages[page] = tmpl
	}
	return v, nil
}

// render buffers the page so a template failure still yields a clean 500.
func (v *views) render(w http.ResponseWriter, page string, data any) {
	tmpl, ok := v.pages[page]
	if !ok {
		serverError(w, fmt.Errorf("unknown page %q", page))
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		serverError(w, fmt.Errorf("failed to render %s: %w", page, err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func serverError(w http.ResponseWriter, err error) {
	logrus.WithError(err).Error("request failed")
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
