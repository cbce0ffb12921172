// Package router is a thin layer over http.ServeMux (Go 1.22 method
// patterns) adding middleware chaining, route groups, and static file
// serving. It stays deliberately small; anything fancier belongs in
// middleware.
package router

import (
	"net/http"
	"slices"
	"strings"
)

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Router registers routes on a shared ServeMux, carrying a middleware chain
// that applies to every route registered through it.
type Router struct {
	mux   *http.ServeMux
	chain []Middleware
}

// New creates a Router with the given global middleware.
func New(middleware ...Middleware) *Router {
	return &Router{
		mux:   http.NewServeMux(),
		chain: middleware,
	}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Get registers a GET route. Extra middleware applies to this route only,
// after the router's chain.
func (r *Router) Get(pattern string, handler http.HandlerFunc, middleware ...Middleware) {
	r.Handle(http.MethodGet, pattern, handler, middleware...)
}

// Post registers a POST route.
func (r *Router) Post(pattern string, handler http.HandlerFunc, middleware ...Middleware) {
	r.Handle(http.MethodPost, pattern, handler, middleware...)
}

// Put registers a PUT route.
func (r *Router) Put(pattern string, handler http.HandlerFunc, middleware ...Middleware) {
	r.Handle(http.MethodPut, pattern, handler, middleware...)
}

// Delete registers a DELETE route.
func (r *Router) Delete(pattern string, handler http.HandlerFunc, middleware ...Middleware) {
	r.Handle(http.MethodDelete, pattern, handler, middleware...)
}

// Patch registers a PATCH route.
func (r *Router) Patch(pattern string, handler http.HandlerFunc, middleware ...Middleware) {
	r.Handle(http.MethodPatch, pattern, handler, middleware...)
}

// Handle registers a handler for an explicit method and pattern.
func (r *Router) Handle(method, pattern string, handler http.Handler, middleware ...Middleware) {
	r.mux.Handle(method+" "+pattern, r.wrap(handler, middleware))
}

// wrap layers the router chain plus route middleware around the handler.
// The innermost wrap is the last middleware, so execution order matches
// declaration order.
func (r *Router) wrap(handler http.Handler, middleware []Middleware) http.Handler {
	wrapped := handler
	for _, m := range slices.Backward(middleware) {
		wrapped = m(wrapped)
	}
	for _, m := range slices.Backward(r.chain) {
		wrapped = m(wrapped)
	}
	return wrapped
}

// Group returns a Router sharing the same mux with an extended middleware
// chain. Used to carve out the authenticated and admin route sets.
func (r *Router) Group(middleware ...Middleware) *Router {
	return &Router{
		mux:   r.mux,
		chain: append(slices.Clone(r.chain), middleware...),
	}
}

// Static serves files from dir under the given URL prefix.
func (r *Router) Static(prefix, dir string) {
	clean := strings.TrimSuffix(prefix, "/")
	handler := http.StripPrefix(clean, http.FileServer(http.Dir(dir)))
	r.mux.Handle("GET "+clean+"/{file...}", r.wrap(handler, nil))
}
