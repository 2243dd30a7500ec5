package render

import (
	"embed"
	"html/template"
	"io"

	"travela/internal/app"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))

// Page is the data behind the companion screen.
type Page struct {
	UserName string
	View     app.ScreenView
	Sections []Section
}

func NewPage(userName string, v app.ScreenView) Page {
	p := Page{UserName: userName, View: v}
	if v.State == app.StateReady && v.Result != nil {
		p.Sections = Sections(v.Result.Guide, v.Result.Photos)
	}
	return p
}

func (p Page) Loading() bool   { return p.View.State == app.StateLoading }
func (p Page) CanSubmit() bool { return p.View.CanSubmit() }

// HTML renders the companion screen.
func HTML(w io.Writer, p Page) error {
	return pages.ExecuteTemplate(w, "companion.html", p)
}

// Static names a page that takes no data.
type Static string

const (
	Landing Static = "landing.html"
	About   Static = "about.html"
)

func StaticPage(w io.Writer, name Static) error {
	return pages.ExecuteTemplate(w, string(name), nil)
}
