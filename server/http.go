package server

import (
	"net/http"
	"time"
)

// StartHTTPServer blocks serving handler on addr.
func StartHTTPServer(addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}
