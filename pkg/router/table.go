package router

import (
	stderrors "errors"

	"github.com/mlb-trending/trending/internal/errors"
	"github.com/mlb-trending/trending/pkg/routepath"
)

// Table is an ordered, immutable list of routes. It is safe for concurrent
// use by any number of goroutines.
type Table struct {
	routes   []Route
	patterns []*pattern
	byName   map[string]int
}

// NewTable validates and compiles routes in the given order. It fails with a
// *ValidationError when names or patterns collide or a pattern is malformed.
func NewTable(routes ...Route) (*Table, error) {
	var v validator
	compiled := v.compile(routes)
	if err := v.err(); err != nil {
		return nil, err
	}

	t := &Table{
		routes:   append([]Route(nil), routes...),
		patterns: compiled,
		byName:   make(map[string]int, len(routes)),
	}
	for i, r := range routes {
		t.byName[r.Name] = i
	}
	return t, nil
}

// MustTable is like NewTable but panics on error.
func MustTable(routes ...Route) *Table {
	t, err := NewTable(routes...)
	if err != nil {
		panic(err)
	}
	return t
}

// Len returns the number of routes.
func (t *Table) Len() int {
	return len(t.routes)
}

// Routes returns a copy of the routes in declaration order.
func (t *Table) Routes() []Route {
	return append([]Route(nil), t.routes...)
}

// Lookup returns the route with the given name.
func (t *Table) Lookup(name string) (Route, bool) {
	i, ok := t.byName[name]
	if !ok {
		return Route{}, false
	}
	return t.routes[i], true
}

// Params returns the parameter names of the named route in pattern order.
func (t *Table) Params(name string) ([]string, bool) {
	i, ok := t.byName[name]
	if !ok {
		return nil, false
	}
	return append([]string(nil), t.patterns[i].params...), true
}

// Match resolves rawURL and reports whether an entry matched. Invalid URLs
// and undecodable parameters do not match.
func (t *Table) Match(rawURL string) (*Match, bool) {
	m, err := t.Find(rawURL)
	if err != nil {
		return nil, false
	}
	return m, true
}

// Find resolves rawURL against the table. It returns a coded error:
// CodeInvalidPath for URLs that fail canonicalization, CodeInvalidParam for
// a structural match whose parameter cannot be decoded, and
// CodeRouteNotFound when no entry matches.
func (t *Table) Find(rawURL string) (*Match, error) {
	loc, err := routepath.Canonicalize(rawURL)
	if err != nil {
		return nil, errors.New(errors.CodeInvalidPath).WithDetail(rawURL).Wrap(err)
	}
	return t.matchLocation(loc)
}

func (t *Table) matchLocation(loc routepath.Location) (*Match, error) {
	segs := loc.Segments()
	for i, p := range t.patterns {
		params, ok, err := p.match(segs)
		if !ok {
			continue
		}
		route := t.routes[i]
		if err != nil {
			code := errors.CodeInvalidParam
			if stderrors.Is(err, routepath.ErrInvalidPercentEscape) {
				code = errors.CodeInvalidPath
			}
			return nil, errors.New(code).
				WithDetailf("%s matches %s but a parameter cannot be decoded", loc.Path, route.Name).
				Wrap(err)
		}

		m := &Match{Route: route, Params: params, Location: loc}
		if route.Props {
			m.Props = params.Clone()
		}
		return m, nil
	}

	return nil, errors.New(errors.CodeRouteNotFound).
		WithDetailf("no route matches %s", loc.Path)
}
