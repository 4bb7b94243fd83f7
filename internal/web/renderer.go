package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/fittrack/internal/auth"
	"github.com/2beens/fittrack/internal/timeutil"
	"github.com/2beens/fittrack/pkg"

	log "github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pageNames = []string{
	"home",
	"about",
	"signin",
	"verify_email",
	"dashboard",
	"diet",
	"exercise",
	"profile",
}

type navItem struct {
	Name string
	Href string
}

var navigation = []navItem{
	{Name: "Dashboard", Href: "/dashboard"},
	{Name: "Diet Tracker", Href: "/diet"},
	{Name: "Exercise", Href: "/exercise"},
	{Name: "Profile", Href: "/profile"},
}

// pageData is what every page template receives. Data holds the page specific part.
type pageData struct {
	Title      string
	User       *auth.User
	Path       string
	Navigation []navItem
	Error      string
	Success    string
	Data       any
}

type renderer struct {
	pages map[string]*template.Template
}

func newRenderer(zone *timeutil.Zone) (*renderer, error) {
	funcs := template.FuncMap{
		"formatDateTime": func(t time.Time) string {
			return zone.FormatDateTime(t)
		},
		"num": func(v any) string {
			switch n := v.(type) {
			case float64:
				return strconv.FormatFloat(n, 'f', -1, 64)
			case *float64:
				if n == nil {
					return ""
				}
				return strconv.FormatFloat(*n, 'f', -1, 64)
			case int:
				return strconv.Itoa(n)
			case *int:
				if n == nil {
					return ""
				}
				return strconv.Itoa(*n)
			default:
				return ""
			}
		},
		"str": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
	}

	r := &renderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		tpl, err := template.New(name).Funcs(funcs).ParseFS(templatesFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		r.pages[name] = tpl
	}
	return r, nil
}

func (r *renderer) render(w http.ResponseWriter, req *http.Request, page string, status int, data pageData) {
	tpl, ok := r.pages[page]
	if !ok {
		log.Errorf("render: unknown page %s", page)
		pkg.WriteResponse(w, pkg.ContentType.Text, "internal server error", http.StatusInternalServerError)
		return
	}

	data.Path = req.URL.Path
	if data.User != nil {
		data.Navigation = navigation
	}

	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Errorf("render page %s: %s", page, err)
		pkg.WriteResponse(w, pkg.ContentType.Text, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.HTML, buf.Bytes(), status)
}
