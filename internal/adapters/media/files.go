package media

import (
	"net/http"
	"strings"
)

// Handler serves the library's files under prefix. Directory listings,
// nested paths, and files outside the recognized extensions all 404.
func (l *Library) Handler(prefix string) http.Handler {
	fileServer := http.FileServer(http.Dir(l.dir))
	return http.StripPrefix(prefix, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Path
		if name == "" || strings.Contains(name, "/") || !l.allowed(name) {
			http.NotFound(w, r)
			return
		}
		fileServer.ServeHTTP(w, r)
	}))
}
