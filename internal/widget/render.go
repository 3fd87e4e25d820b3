package widget

import (
	"embed"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))

type pageData struct {
	View      View
	InitData  string
	ClaimPath string
	WSPath    string
}

func render(w io.Writer, data pageData) error {
	return templates.ExecuteTemplate(w, "widget", data)
}
