package tasks

import (
	"embed"
	"html/template"
	"io"
	"time"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Page — всё, что нужно для отрисовки страницы.
type Page struct {
	Catalog Catalog
	Draft   Draft
	Tasks   []Task
	Alert   string
}

// View отрисовывает форму и список задач.
type View struct {
	tmpl *template.Template
}

func NewView(catalog Catalog) *View {
	funcs := template.FuncMap{
		"priorityCategory": catalog.PriorityCategory,
		"formatDate":       formatDate,
	}
	tmpl := template.Must(template.New("index.html").Funcs(funcs).ParseFS(templatesFS, "templates/index.html"))
	return &View{tmpl: tmpl}
}

func (v *View) Render(w io.Writer, p Page) error {
	return v.tmpl.Execute(w, p)
}

// formatDate показывает дату как D/M/YYYY; нераспознанное значение выводится как есть.
func formatDate(raw string) string {
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return raw
	}
	return t.Format("2/1/2006")
}
