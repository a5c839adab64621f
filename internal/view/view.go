// Package view renders HTML pages and plain-text mails. It is the only
// package that knows what the responses look like.
package view

import (
	"embed"
	"fmt"
	htmltemplate "html/template"
	"net/http"
	"strings"
	texttemplate "text/template"

	"github.com/remexre/nihctfplat/internal/domain"
)

//go:embed templates
var templatesFS embed.FS

// PageData is the explicit view model handed to every page template. Me is
// nil for anonymous visitors; Team and TeamMembers are nil for users without
// a team. Errors maps form field names to user-facing messages.
type PageData struct {
	Me          *domain.User
	Team        *domain.Team
	TeamMembers []string
	Errors      map[string]string
	Extra       map[string]any
}

// Renderer is constructed once at startup and passed to whoever needs it;
// there is no package-level template state.
type Renderer struct {
	pages *htmltemplate.Template
	mails *texttemplate.Template
}

func New() (*Renderer, error) {
	pages, err := htmltemplate.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page templates: %w", err)
	}
	mails, err := texttemplate.ParseFS(templatesFS, "templates/*.txt")
	if err != nil {
		return nil, fmt.Errorf("failed to parse mail templates: %w", err)
	}
	return &Renderer{pages: pages, mails: mails}, nil
}

// Render renders the named template to a string. Mail templates (*.txt) go
// through text/template so their content is not HTML-escaped; everything
// else is a page.
func (r *Renderer) Render(name string, data any) (string, error) {
	var sb strings.Builder
	var err error
	if strings.HasSuffix(name, ".txt") {
		err = r.mails.ExecuteTemplate(&sb, name, data)
	} else {
		err = r.pages.ExecuteTemplate(&sb, name, data)
	}
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return sb.String(), nil
}

// Page writes a rendered page template as an HTML response.
func (r *Renderer) Page(w http.ResponseWriter, status int, name string, data PageData) {
	body, err := r.Render(name, data)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
