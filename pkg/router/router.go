// Package router wraps chi with named routes and prefix groups.
package router

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
)

type Middleware func(http.Handler) http.Handler

// Route describes one registered endpoint.
type Route struct {
	Method  string
	Name    string
	Pattern string
}

type Router struct {
	mux   chi.Router
	mu    sync.RWMutex
	table []Route
	byNam map[string]int
}

func New() *Router {
	return &Router{
		mux:   chi.NewRouter(),
		byNam: make(map[string]int),
	}
}

func (r *Router) Handler() http.Handler { return r.mux }

// Param reads a chi URL parameter (e.g. {id}) from the request.
func Param(req *http.Request, name string) string {
	return chi.URLParam(req, name)
}

func (r *Router) Use(middlewares ...Middleware) {
	for _, mw := range middlewares {
		r.mux.Use(mw)
	}
}

// register mounts a handler and records it in the route table.
func (r *Router) register(method, pattern, name string, handler http.Handler) {
	r.mux.Method(method, pattern, handler)
	if name == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if i, dup := r.byNam[name]; dup {
		r.table[i] = Route{Method: method, Name: name, Pattern: pattern}
		return
	}
	r.byNam[name] = len(r.table)
	r.table = append(r.table, Route{Method: method, Name: name, Pattern: pattern})
}

// Path returns the pattern registered under name.
func (r *Router) Path(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.byNam[name]
	if !ok {
		return "", false
	}
	return r.table[i].Pattern, true
}

// Routes returns the route table sorted by name, for route:list.
func (r *Router) Routes() []Route {
	r.mu.RLock()
	out := make([]Route, len(r.table))
	copy(out, r.table)
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// URL builds a concrete path for a named route by substituting params.
func (r *Router) URL(name string, params map[string]string) (string, error) {
	pattern, ok := r.Path(name)
	if !ok {
		return "", fmt.Errorf("route %q not found", name)
	}
	for key, value := range params {
		pattern = strings.ReplaceAll(pattern, "{"+key+"}", value)
	}
	if strings.Contains(pattern, "{") {
		return "", fmt.Errorf("missing parameters for route %q", name)
	}
	return pattern, nil
}

// Group scopes routes under a shared prefix and middleware chain.
type Group struct {
	router      *Router
	prefix      string
	middlewares []Middleware
}

func (r *Router) Group(prefix string, middlewares ...Middleware) *Group {
	return &Group{
		router:      r,
		prefix:      joinPath(prefix),
		middlewares: append([]Middleware(nil), middlewares...),
	}
}

func (g *Group) Group(prefix string, middlewares ...Middleware) *Group {
	return &Group{
		router:      g.router,
		prefix:      joinPath(g.prefix, prefix),
		middlewares: append(append([]Middleware(nil), g.middlewares...), middlewares...),
	}
}

func (r *Router) Get(path, name string, h http.HandlerFunc, mw ...Middleware) {
	r.register(http.MethodGet, joinPath(path), name, chain(h, mw))
}

func (r *Router) Post(path, name string, h http.HandlerFunc, mw ...Middleware) {
	r.register(http.MethodPost, joinPath(path), name, chain(h, mw))
}

func (r *Router) Put(path, name string, h http.HandlerFunc, mw ...Middleware) {
	r.register(http.MethodPut, joinPath(path), name, chain(h, mw))
}

func (r *Router) Patch(path, name string, h http.HandlerFunc, mw ...Middleware) {
	r.register(http.MethodPatch, joinPath(path), name, chain(h, mw))
}

func (r *Router) Delete(path, name string, h http.HandlerFunc, mw ...Middleware) {
	r.register(http.MethodDelete, joinPath(path), name, chain(h, mw))
}

func (g *Group) Get(path, name string, h http.HandlerFunc, mw ...Middleware) {
	g.mount(http.MethodGet, path, name, h, mw)
}

func (g *Group) Post(path, name string, h http.HandlerFunc, mw ...Middleware) {
	g.mount(http.MethodPost, path, name, h, mw)
}

func (g *Group) Put(path, name string, h http.HandlerFunc, mw ...Middleware) {
	g.mount(http.MethodPut, path, name, h, mw)
}

func (g *Group) Patch(path, name string, h http.HandlerFunc, mw ...Middleware) {
	g.mount(http.MethodPatch, path, name, h, mw)
}

func (g *Group) Delete(path, name string, h http.HandlerFunc, mw ...Middleware) {
	g.mount(http.MethodDelete, path, name, h, mw)
}

func (g *Group) mount(method, path, name string, h http.HandlerFunc, mw []Middleware) {
	all := append(append([]Middleware(nil), g.middlewares...), mw...)
	g.router.register(method, joinPath(g.prefix, path), name, chain(h, all))
}

// chain wraps handler so middlewares run in registration order.
func chain(handler http.Handler, middlewares []Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return handler
}

// joinPath joins segments into a clean rooted path.
func joinPath(parts ...string) string {
	var segments []string
	for _, part := range parts {
		for _, seg := range strings.Split(part, "/") {
			if seg != "" {
				segments = append(segments, seg)
			}
		}
	}
	return "/" + strings.Join(segments, "/")
}
