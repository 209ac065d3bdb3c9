// Package live pushes roster snapshots to connected browsers over WebSocket.
package live

import "net/http"

// Option applies a configuration option to the Hub.
type Option func(*Hub)

// WithSendBuffer sets how many pending snapshots a client may lag behind
// before it is dropped.
func WithSendBuffer(n int) Option {
	return func(h *Hub) {
		if n > 0 {
			h.sendBuffer = n
		}
	}
}

// WithCheckOrigin replaces the upgrade origin check. The default accepts
// any origin.
func WithCheckOrigin(check func(*http.Request) bool) Option {
	return func(h *Hub) {
		if check != nil {
			h.upgrader.CheckOrigin = check
		}
	}
}
