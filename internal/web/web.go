package web

import (
	"embed"
	"html/template"
	"io/fs"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page names accepted by Templates().ExecuteTemplate.
const (
	IndexPage        = "index.html"
	OrderManagerPage = "order_manager.html"
)

// PageData is passed to every page template.
type PageData struct {
	Title       string
	OrdersAPI   string
	ProductsAPI string
	SyncAPI     string
}

func Templates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.html")
}

// Static returns the static asset tree rooted at its own directory, so a
// request for /static/app.js maps to "app.js".
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
