// Package shell renders every navigation of the site: it selects the page for
// the current path, renders it inside an error boundary and wraps the result in
// the persistent document (header and outlet).
package shell

import (
	"errors"
	"fmt"
	"strings"

	"github.com/simp-lee/inkwell/internal/page"
)

// Wildcard is the catch-all pattern. It must be the last route of a table.
const Wildcard = "*"

// Route binds a path pattern to a page. Patterns are literal ("/explore") or
// carry ":name" segments ("/write/:id") that bind exactly one path segment.
type Route struct {
	Pattern string
	// Name identifies the page in logs.
	Name string
	Page page.Page
}

type segment struct {
	literal string
	param   string
}

type compiledRoute struct {
	Route
	segments []segment
}

// Table is an ordered, immutable list of routes. The first route whose pattern
// matches wins; the trailing wildcard matches everything else.
type Table struct {
	routes []compiledRoute
}

var (
	ErrNoWildcard        = errors.New("route table must end with the wildcard route")
	ErrMisplacedWildcard = errors.New("wildcard route must be last")
)

// NewTable validates routes and builds a Table.
func NewTable(routes []Route) (*Table, error) {
	if len(routes) == 0 || routes[len(routes)-1].Pattern != Wildcard {
		return nil, ErrNoWildcard
	}

	seen := make(map[string]bool, len(routes))
	compiled := make([]compiledRoute, 0, len(routes))
	for i, r := range routes {
		if r.Page == nil {
			return nil, fmt.Errorf("route %q has no page", r.Pattern)
		}
		if r.Pattern == Wildcard {
			if i != len(routes)-1 {
				return nil, ErrMisplacedWildcard
			}
			compiled = append(compiled, compiledRoute{Route: r})
			continue
		}
		segs, err := compilePattern(r.Pattern)
		if err != nil {
			return nil, err
		}
		key := canonical(segs)
		if seen[key] {
			return nil, fmt.Errorf("duplicate route pattern %q", r.Pattern)
		}
		seen[key] = true
		compiled = append(compiled, compiledRoute{Route: r, segments: segs})
	}
	return &Table{routes: compiled}, nil
}

func compilePattern(pattern string) ([]segment, error) {
	if !strings.HasPrefix(pattern, "/") {
		return nil, fmt.Errorf("route pattern %q must start with /", pattern)
	}
	if pattern == "/" {
		return nil, nil
	}
	parts := strings.Split(strings.TrimPrefix(pattern, "/"), "/")
	segs := make([]segment, 0, len(parts))
	for _, p := range parts {
		switch {
		case p == "":
			return nil, fmt.Errorf("route pattern %q has an empty segment", pattern)
		case p == Wildcard:
			return nil, fmt.Errorf("route pattern %q: wildcard must be a route of its own", pattern)
		case strings.HasPrefix(p, ":"):
			name := p[1:]
			if name == "" {
				return nil, fmt.Errorf("route pattern %q has an empty parameter name", pattern)
			}
			segs = append(segs, segment{param: name})
		default:
			segs = append(segs, segment{literal: p})
		}
	}
	return segs, nil
}

// canonical renders segs with parameter names erased, so "/write/:id" and
// "/write/:slug" are recognized as the same pattern.
func canonical(segs []segment) string {
	var b strings.Builder
	for _, s := range segs {
		b.WriteByte('/')
		if s.param != "" {
			b.WriteByte(':')
			continue
		}
		b.WriteString(s.literal)
	}
	return b.String()
}

// Match returns the first route matching path and the parameters it binds.
// Matching is case-sensitive and tolerates one trailing slash. A parameter
// never binds an empty segment.
func (t *Table) Match(path string) (Route, page.Params) {
	parts := splitPath(path)
	for _, r := range t.routes {
		if r.Pattern == Wildcard {
			return r.Route, page.Params{}
		}
		if params, ok := r.match(parts); ok {
			return r.Route, params
		}
	}
	// Unreachable: NewTable guarantees a trailing wildcard.
	last := t.routes[len(t.routes)-1]
	return last.Route, page.Params{}
}

// Routes returns the routes in match order.
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	for i, r := range t.routes {
		out[i] = r.Route
	}
	return out
}

func (r compiledRoute) match(parts []string) (page.Params, bool) {
	if parts == nil || len(parts) != len(r.segments) {
		return nil, false
	}
	params := page.Params{}
	for i, s := range r.segments {
		switch {
		case parts[i] == "":
			return nil, false
		case s.param != "":
			params[s.param] = parts[i]
		case s.literal != parts[i]:
			return nil, false
		}
	}
	return params, true
}

// splitPath splits an absolute path into segments. "/" yields an empty, non-nil
// slice; a path not starting with "/" yields nil and matches nothing but the
// wildcard.
func splitPath(path string) []string {
	if !strings.HasPrefix(path, "/") {
		return nil
	}
	if path == "/" {
		return []string{}
	}
	path = strings.TrimPrefix(path, "/")
	path = strings.TrimSuffix(path, "/")
	return strings.Split(path, "/")
}
