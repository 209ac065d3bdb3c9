// Package site serves the embedded web front end.
package site

import (
	"context"
	"io"
	"net/http"
	"path"
)

// Register attaches the front end to mux at the site root.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	mux.Handle("/", NewRootHandler())
}

// RootHandler serves the embedded pages and renders the styled error page
// for paths that do not exist.
type RootHandler struct {
	files   http.Handler
	content http.FileSystem
}

// NewRootHandler creates a new root handler.
func NewRootHandler() *RootHandler {
	fsys := FS()
	return &RootHandler{
		files:   http.FileServer(fsys),
		content: fsys,
	}
}

// ServeHTTP serves GET / requests from the embedded front end.
func (h *RootHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.NotFound(w, r)
		return
	}

	name := path.Clean("/" + r.URL.Path)
	if f, err := h.content.Open(name); err == nil {
		_ = f.Close()
		h.files.ServeHTTP(w, r)
		return
	}
	h.serveErrorPage(w)
}

// serveErrorPage writes the embedded error page with a 404 status.
func (h *RootHandler) serveErrorPage(w http.ResponseWriter) {
	page, err := h.content.Open("/error.html")
	if err != nil {
		http.Error(w, "page not found", http.StatusNotFound)
		return
	}
	defer page.Close()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = io.Copy(w, page)
}
