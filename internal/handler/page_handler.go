package handler

import (
	"net/http"

	"github.com/remexre/nihctfplat/internal/view"
)

type PageHandler struct {
	view *view.Renderer
}

func NewPageHandler(view *view.Renderer) *PageHandler {
	return &PageHandler{view: view}
}

// SimplePage renders a template with just the request's identity data.
func (h *PageHandler) SimplePage(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.view.Page(w, http.StatusOK, name, pageData(r))
	}
}

func (h *PageHandler) HumansTxt(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("remexre\n"))
}
