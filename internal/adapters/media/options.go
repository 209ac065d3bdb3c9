// Package media scans and serves the gallery's video directory.
package media

import "strings"

// Option applies a configuration option to the Library.
type Option func(*Library)

// WithExtensions replaces the set of recognized video extensions. Each
// extension must include the leading dot; matching is case-insensitive.
func WithExtensions(exts ...string) Option {
	return func(l *Library) {
		if len(exts) == 0 {
			return
		}
		l.extensions = make(map[string]struct{}, len(exts))
		for _, ext := range exts {
			l.extensions[strings.ToLower(ext)] = struct{}{}
		}
	}
}

// WithURLPrefix sets the URL prefix used in listings.
func WithURLPrefix(prefix string) Option {
	return func(l *Library) {
		if prefix != "" {
			l.urlPrefix = prefix
		}
	}
}
