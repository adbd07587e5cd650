package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"slices"

	"github.com/Olprog59/go-clientbook/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// pages lists the templates rendered inside the layout.
var pages = []string{"dashboard", "clients", "client_view", "client_form", "search_results"}

// summaryColumns are shown in client tables when the table has them.
var summaryColumns = []string{
	domain.ColumnSurname,
	domain.ColumnGivenName,
	domain.ColumnMobPhone,
	domain.ColumnEmail,
	domain.ColumnResidence,
}

// searchOption is one entry of the navbar search selector.
type searchOption struct {
	Value    string
	Label    string
	Selected bool
}

// pageData is passed to every page / Données passées à chaque page
type pageData struct {
	Title       string
	Active      string
	Flashes     []Flash
	CSRFToken   string
	SearchQuery string
	SearchTypes []searchOption
	Data        any
}

// tableView feeds the shared client table.
type tableView struct {
	Columns   []string
	Clients   []*domain.Client
	CSRFToken string
}

// views holds one parsed template set per page / Un jeu de templates par page
type views struct {
	pages map[string]*template.Template
}

var templateFuncs = template.FuncMap{
	"display": func(c *domain.Client, column string) string { return c.Display(column) },
	"isNull":  func(c *domain.Client, column string) bool { return c.IsNull(column) },
	"inc":     func(n int) int { return n + 1 },
	"dec":     func(n int) int { return n - 1 },
	"table": func(columns []string, clients []*domain.Client, csrf string) tableView {
		return tableView{Columns: columns, Clients: clients, CSRFToken: csrf}
	},
	"inputType": inputType,
	"inputMode": inputMode,
}

// parseViews parses the embedded templates / Parse les templates embarqués
func parseViews() (*views, error) {
	v := &views{pages: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		t, err := template.New(name).Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		v.pages[name] = t
	}
	return v, nil
}

// render executes a page into a buffer so a template error never sends a partial page.
func (v *views) render(w http.ResponseWriter, status int, name string, data *pageData) {
	t, ok := v.pages[name]
	if !ok {
		slog.Error("unknown template", "name", name)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		slog.Error("failed to render template", "name", name, "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// staticHandler serves the embedded assets under /static/.
func staticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServerFS(sub))
}

// tableColumns picks the identifier plus the summary columns present in the table.
// Tables without any of them show their first six columns.
func tableColumns(columns []string, idColumn string) []string {
	picked := []string{idColumn}
	for _, col := range summaryColumns {
		if slices.Contains(columns, col) {
			picked = append(picked, col)
		}
	}
	if len(picked) > 1 {
		return picked
	}
	return columns[:min(len(columns), 6)]
}

func searchOptions(selected domain.SearchType) []searchOption {
	options := []searchOption{
		{Value: domain.SearchAll.String(), Label: "All fields"},
		{Value: domain.SearchByID.String(), Label: "ID"},
		{Value: domain.SearchBySurname.String(), Label: "Nom"},
		{Value: domain.SearchByGivenName.String(), Label: "Prénom"},
		{Value: domain.SearchByPhone.String(), Label: "Phone"},
	}
	for i := range options {
		options[i].Selected = options[i].Value == selected.String()
	}
	return options
}

// inputType never returns "email" so the browser submits the value untouched.
func inputType(column string) string {
	switch column {
	case domain.ColumnMobPhone, domain.ColumnMobPhone2:
		return "tel"
	default:
		return "text"
	}
}

// inputMode picks the on-screen keyboard without constraining the value / Choisit le clavier virtuel
func inputMode(column string) string {
	switch column {
	case domain.ColumnEmail:
		return "email"
	case domain.ColumnMobPhone, domain.ColumnMobPhone2:
		return "tel"
	default:
		return "text"
	}
}
