// Package httpserver centralizes http.Server construction so timeouts stay
// consistent across binaries.
package httpserver

import (
	"net/http"
	"time"
)

// New returns an http.Server with sane timeouts. The write timeout leaves
// room for the surface wake long-poll.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
