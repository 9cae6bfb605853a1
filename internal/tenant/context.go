// internal/tenant/context.go
//
// Per-request page Context passed into templates and handlers.  It owns
// the head.Builder so components can push tags into the eventual <head>
// section, and carries the RequestInfo attached by requestinfo.Enrich.
package tenant

import (
	"net/http"
	"strings"

	"github.com/yanizio/linkcard/internal/head"
	"github.com/yanizio/linkcard/internal/requestinfo"
)

// Context is created once per rendered page.
type Context struct {
	Request *http.Request
	Head    *head.Builder
	Info    *requestinfo.RequestInfo // nil when Enrich did not run
	Theme   string

	host string
}

// NewContext initialises a Context with an empty head builder.
func NewContext(r *http.Request, themeName string) *Context {
	return &Context{
		Request: r,
		Head:    head.New(),
		Info:    requestinfo.FromContext(r.Context()),
		Theme:   themeName,
		host:    NormalizeHost(r.Host),
	}
}

// Host is the canonical request host.
func (c *Context) Host() string { return c.host }

// Route is the request path without surrounding slashes; "" for the root.
func (c *Context) Route() string { return strings.Trim(c.Request.URL.Path, "/") }

// Scheme is "https" for TLS or proxy-marked requests, else "http".
func (c *Context) Scheme() string {
	if c.Request.TLS != nil || strings.EqualFold(c.Request.Header.Get("X-Forwarded-Proto"), "https") {
		return "https"
	}
	return "http"
}
