package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/delta-student/wanderlust/internal/adapter/session"
	"github.com/delta-student/wanderlust/internal/domain"
)

//go:embed templates
var templateFS embed.FS

// pageData is the render context for every page: the layout reads the
// current user and the one-shot flash messages, the page body reads Data.
type pageData struct {
	Title       string
	CurrentUser *domain.User
	Success     []string
	Error       []string
	Data        interface{}
}

func formatPrice(price float64) string {
	return fmt.Sprintf("%.0f", price)
}

func datetimeformat(t time.Time) string {
	return t.Format("2006-01-02 15:04")
}

func loadTemplates() map[string]*template.Template {
	pages := []string{
		"index.html", "show.html", "new.html", "edit.html",
		"login.html", "signup.html", "error.html",
	}

	funcs := template.FuncMap{
		"formatPrice":    formatPrice,
		"datetimeformat": datetimeformat,
	}

	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		templates[page] = template.Must(
			template.New("layout.html").Funcs(funcs).ParseFS(templateFS,
				"templates/layout.html",
				"templates/"+page,
			))
	}
	return templates
}

// render executes the page into a buffer first so a template failure turns
// into a 500 instead of a half-written page. It pops the session's flash
// messages; the surrounding handler wrapper persists the cleared session.
func (s *Server) render(w http.ResponseWriter, rc *RequestContext, status int, page, title string, data interface{}) {
	pd := pageData{
		Title:       title,
		CurrentUser: rc.User,
		Data:        data,
	}
	for _, flash := range rc.Session.PopFlashes() {
		if flash.Kind == session.FlashError {
			pd.Error = append(pd.Error, flash.Message)
		} else {
			pd.Success = append(pd.Success, flash.Message)
		}
	}

	tmpl, ok := s.templates[page]
	if !ok {
		s.logger.Error("Unknown template requested", zap.String("page", page))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout.html", pd); err != nil {
		s.logger.Error("Template execution failed", zap.String("page", page), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
