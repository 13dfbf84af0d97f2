package api

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var templateFuncs = template.FuncMap{
	"title":   title,
	"pageURL": pageURL,
}

// title builds a Caser per call, they are not safe for concurrent use
func title(s string) string {
	return cases.Title(language.English).String(s)
}

// pageURL links to page n of a sentiment listing; the first page lives at
// the bare listing path.
func pageURL(kind string, n int) string {
	if n <= 1 {
		return "/" + kind
	}
	return fmt.Sprintf("/%s/page/%d", kind, n)
}

func loadTemplates() (*template.Template, error) {
	return template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
}

func mustLoadTemplates() *template.Template {
	return template.Must(loadTemplates())
}

func staticFileSystem() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
