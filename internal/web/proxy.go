package web

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"strings"
)

// newAPIProxy forwards /api/* to the remote cash-flow backend so the
// browser never talks to it cross-origin.
func (s *Server) newAPIProxy() (http.Handler, error) {
	target, err := s.cfg.ProxyTarget()
	if err != nil {
		return nil, fmt.Errorf("resolve proxy target: %w", err)
	}

	proxy := httputil.NewSingleHostReverseProxy(target)

	director := proxy.Director
	proxy.Director = func(r *http.Request) {
		director(r)
		r.URL.Path = strings.TrimPrefix(r.URL.Path, "/api")
		if r.URL.Path == "" {
			r.URL.Path = "/"
		}
		r.Host = target.Host
		if id := RequestIDFromContext(r.Context()); id != "" {
			r.Header.Set(requestIDHeader, id)
		}
	}

	return proxy, nil
}
