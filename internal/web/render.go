package web

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/liftedinit/gopay/internal/models"
	"github.com/liftedinit/gopay/internal/session"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	pageLogin     = "login.html"
	pageDashboard = "dashboard.html"
	pagePayment   = "payment.html"
	pageKYC       = "kyc.html"
)

type pages map[string]*template.Template

func parsePages() (pages, error) {
	p := pages{}
	for _, name := range []string{pageLogin, pageDashboard, pagePayment, pageKYC} {
		t, err := template.New(name).ParseFS(templatesFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, err
		}
		p[name] = t
	}
	return p, nil
}

// pageData is what every template receives.
type pageData struct {
	Title   string
	User    *models.User
	Flashes []session.Flash
	Errors  map[string]string
	Form    map[string]string
	Data    any
}

// render writes the page, consuming the session's pending flashes plus any extra ones.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data pageData, extra ...session.Flash) {
	if sess, ok := session.FromContext(r.Context()); ok {
		data.User = sess.User
		data.Flashes = s.sessions.Store().PopFlashes(sess.ID)
	}
	data.Flashes = append(data.Flashes, extra...)

	var buf bytes.Buffer
	if err := s.pages[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		slog.Error("Failed to render page", "page", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
