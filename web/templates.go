package web

import (
	"embed"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templatesFS embed.FS

var tmpl = template.Must(template.New("").Funcs(template.FuncMap{
	"cents": func(c int64) float64 { return float64(c) / 100 },
}).ParseFS(templatesFS, "templates/*.html"))

// Render writes the named page template.
func Render(w io.Writer, name string, data any) error {
	return tmpl.ExecuteTemplate(w, name, data)
}
